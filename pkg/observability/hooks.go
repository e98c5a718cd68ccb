// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through the registered hooks; nothing here depends on
// an observability backend. Consumers register hooks once at startup.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEditorHooks(&myEditorHooks{})
//	    observability.SetSlotHooks(&mySlotHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	doc, rep := document.Compile(store)
//	observability.Editor().OnCompile(doc.Jobs.Len(), len(rep.Warnings), time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Editor Hooks
// =============================================================================

// EditorHooks receives events from editing sessions.
type EditorHooks interface {
	// OnMutation records an applied editing event such as "drop" or "delete".
	OnMutation(op, blockID string, err error)

	// OnCompile records a recompilation of the document.
	OnCompile(jobs, warnings int, duration time.Duration)

	// OnImport records a document import attempt.
	OnImport(jobs int, duration time.Duration, err error)
}

// =============================================================================
// Slot Hooks
// =============================================================================

// SlotHooks receives events from persistence slot operations.
type SlotHooks interface {
	// OnSlotLoad records a load; found is false for an empty slot.
	OnSlotLoad(ctx context.Context, backend string, size int, found bool, duration time.Duration, err error)

	// OnSlotSave records a save of size bytes.
	OnSlotSave(ctx context.Context, backend string, size int, duration time.Duration, err error)

	// OnSlotRetry records a retried backend operation.
	OnSlotRetry(ctx context.Context, backend string, attempt int, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP traffic, served and sent.
type HTTPHooks interface {
	// OnRequest records an HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditorHooks is a no-op implementation of EditorHooks.
type NoopEditorHooks struct{}

func (NoopEditorHooks) OnMutation(string, string, error)   {}
func (NoopEditorHooks) OnCompile(int, int, time.Duration)  {}
func (NoopEditorHooks) OnImport(int, time.Duration, error) {}

// NoopSlotHooks is a no-op implementation of SlotHooks.
type NoopSlotHooks struct{}

func (NoopSlotHooks) OnSlotLoad(context.Context, string, int, bool, time.Duration, error) {}
func (NoopSlotHooks) OnSlotSave(context.Context, string, int, time.Duration, error)       {}
func (NoopSlotHooks) OnSlotRetry(context.Context, string, int, error)                     {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	editorHooks EditorHooks = NoopEditorHooks{}
	slotHooks   SlotHooks   = NoopSlotHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetEditorHooks registers custom editor hooks.
// This should be called once at application startup before any session is created.
func SetEditorHooks(h EditorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editorHooks = h
	}
}

// SetSlotHooks registers custom slot hooks.
func SetSlotHooks(h SlotHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		slotHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Editor returns the registered editor hooks.
func Editor() EditorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editorHooks
}

// Slot returns the registered slot hooks.
func Slot() SlotHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return slotHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	editorHooks = NoopEditorHooks{}
	slotHooks = NoopSlotHooks{}
	httpHooks = NoopHTTPHooks{}
}
