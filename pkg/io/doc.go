// Package io reads and writes pipeline documents in their exchange formats.
//
// # Formats
//
// The document is a mapping with two keys, written the same way in YAML and
// JSON:
//
//	stages:
//	  - build
//	  - test
//	jobs:
//	  build-job:
//	    stage: build
//	    script:
//	      - make
//	    image: node:14
//	    tags: [docker]
//	    artifacts:
//	      paths: [coverage/]
//	    when: on_success
//	    only: [master]
//	    needs: []
//	    variables: []
//
// Job order is preserved in both directions, so exporting the same document
// twice yields identical bytes.
//
// # Import
//
// [ReadYAML] and [ReadJSON] decode from any io.Reader, [Decode] sniffs the
// format of a byte slice, and [ImportFile] picks the codec from the file
// extension. Decoding only checks syntax; call [document.Import] (or
// [document.Document.Validate]) to check the document shape.
//
// Malformed input is reported with the INVALID_DOCUMENT error code.
//
// # Export
//
// [WriteYAML] and [WriteJSON] encode to any io.Writer; [ExportFile] writes to
// a file, choosing the codec from the extension.
package io
