// Package layout computes grid-snapped block positions.
//
// Two algorithms are provided. [Place] turns a pointer position into a free,
// grid-snapped placement inside a container (blocks may overlap). [Stack]
// re-flows the blocks of one container into a single vertical column with a
// fixed spacing of three grid units, removing gaps and overlaps; it is a full
// relayout and idempotent.
//
// A [Surface] describes the containers blocks can be dropped into. In
// [ModeSingle] there is one free canvas; in [ModeMulti] the surface is two
// columns of five fixed cells each, and stacking runs per cell.
//
// All coordinates produced by this package are multiples of [GridUnit].
package layout
