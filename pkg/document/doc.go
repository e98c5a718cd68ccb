// Package document compiles a block store into a normalized pipeline
// document and rebuilds a block store from one.
//
// # Document Shape
//
// A [Document] is an ordered list of stages and an insertion-ordered map of
// jobs. Field names follow the common stage/job CI schema:
//
//	stages:
//	  - build
//	  - test
//	jobs:
//	  build-job:
//	    stage: build
//	    script: [make]
//	    image: node:14
//	    tags: [docker]
//	    artifacts:
//	      paths: [coverage/]
//	    when: on_success
//	    only: [master]
//	    needs: []
//	    variables: []
//
// # Compilation
//
// [Compile] sorts top-level blocks by vertical position (stable, so ties keep
// insertion order), collects stages in first-seen order and emits one job per
// block keyed by name. Group children are emitted right after their group,
// with their stage forced to the group's type. Container-only groups emit no
// job of their own. A later block with an already used name overwrites the
// earlier job; the overwrite, and every need that names no job, is reported
// as a [Warning] rather than an error.
//
// # Import
//
// [Import] is the inverse mapping. It validates the document as a whole
// before touching anything and returns a fresh store, so a failed import
// leaves the caller's store untouched. Positions are not round-tripped: the
// rebuilt blocks are stacked in stage order.
package document
