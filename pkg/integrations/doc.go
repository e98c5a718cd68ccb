// Package integrations holds clients for the CI platforms a compiled
// pipeline is handed to.
//
// # Overview
//
//   - [gitlab]: validates documents with a GitLab project's CI lint API
//
// # Shared Infrastructure
//
// [NewHTTPClient] returns the HTTP client every integration uses: a fixed
// timeout and a transport that reports each request to the registered
// [observability.HTTPHooks].
//
// [gitlab]: github.com/matzehuels/pipecanvas/pkg/integrations/gitlab
// [observability.HTTPHooks]: github.com/matzehuels/pipecanvas/pkg/observability.HTTPHooks
package integrations
