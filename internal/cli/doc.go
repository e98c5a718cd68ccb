// Package cli implements the pipecanvas command-line interface.
//
// The CLI works on two kinds of files: block snapshots (the JSON the editor
// persists) and pipeline documents (YAML or JSON). Most commands accept
// either and detect which one they were given.
//
// # Commands
//
//   - compile: snapshot to document
//   - import: document to snapshot, printing the stacked positions
//   - render: dependency graph as DOT, SVG, PDF or PNG
//   - describe: terminal summary of stages, jobs and warnings
//   - lint: validate a document with GitLab's CI lint API
//   - serve: run the HTTP and WebSocket API
//   - board: interactive board viewer
//   - slot: save, load and clear persisted snapshots
//
// File arguments accept doublestar patterns such as "pipelines/**/*.json".
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// carried on [CLI] and in the command context.
package cli
