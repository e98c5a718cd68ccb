// Package editor is the session engine behind the visual pipeline editor.
//
// An [Editor] owns one block store, one layout surface and the document
// compiled from them. Every input event (drop, move, edit, delete, import,
// mode toggle, snap) mutates the store, repairs the layout, recompiles the
// document and then notifies the registered listeners, all synchronously, so
// observers never see a store and a document that disagree.
//
// Imports are atomic: the incoming document is decoded, validated and laid
// out into a fresh store that replaces the current one only on success.
//
// An Editor is not safe for concurrent use. Callers serving several clients
// must serialize events per editor.
package editor
