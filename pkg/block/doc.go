// Package block holds the authoritative set of blocks placed on the canvas.
//
// A [Block] is one pipeline job (or job group) as the editor form sees it:
// multi-valued attributes are kept as the comma separated free text the user
// typed, scripts as newline separated text. Splitting into lists happens in
// the document compiler, never here.
//
// # Identity
//
// Block IDs are assigned by the [Store] from a monotonic counter ("b1", "b2",
// ...). An ID is never handed out twice within a session, not even after the
// block it named was deleted or the store was rebuilt from a [Snapshot].
//
// # Groups
//
// A [Catalog] describes the known block types. Types registered with child
// templates are groups: creating one also creates its nested children, linked
// through explicit Parent / Children IDs instead of render-tree containment.
//
// # Validation
//
// The store is a pure container. It checks that referenced IDs exist and
// nothing else; name uniqueness and dependency resolution are the editor's
// and the resolver's business.
package block
