package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	gl "github.com/xanzy/go-gitlab"

	"github.com/matzehuels/pipecanvas/pkg/document"
	"github.com/matzehuels/pipecanvas/pkg/errors"
	"github.com/matzehuels/pipecanvas/pkg/integrations"
	pio "github.com/matzehuels/pipecanvas/pkg/io"
)

// DefaultURL is the GitLab instance used when none is configured.
const DefaultURL = "https://gitlab.com"

// Result is GitLab's verdict on a document.
type Result struct {
	Valid      bool     `json:"valid"`
	Errors     []string `json:"errors"`
	Warnings   []string `json:"warnings"`
	MergedYAML string   `json:"merged_yaml,omitempty"`
}

// Linter validates documents in the context of one project.
type Linter struct {
	client  *gl.Client
	project string
}

// NewLinter creates a linter for project (an ID or a "group/name" path)
// on the instance at baseURL.
func NewLinter(baseURL, token, project string) (*Linter, error) {
	if project == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "gitlab project is required for linting")
	}
	if baseURL == "" {
		baseURL = DefaultURL
	}
	client, err := gl.NewClient(token,
		gl.WithBaseURL(apiURL(baseURL)),
		gl.WithHTTPClient(integrations.NewHTTPClient()),
	)
	if err != nil {
		return nil, fmt.Errorf("create gitlab client: %w", err)
	}
	return &Linter{client: client, project: project}, nil
}

func apiURL(base string) string {
	base = strings.TrimSuffix(base, "/")
	if strings.HasSuffix(base, "/api/v4") {
		return base
	}
	return base + "/api/v4"
}

// Lint validates doc. A document GitLab rejects is not an error; it yields
// a Result with Valid false.
func (l *Linter) Lint(ctx context.Context, doc *document.Document) (*Result, error) {
	content, err := pio.Encode(doc, pio.FormatYAML)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return l.LintYAML(ctx, string(content))
}

// LintYAML validates raw CI configuration.
func (l *Linter) LintYAML(ctx context.Context, content string) (*Result, error) {
	opts := &gl.ProjectNamespaceLintOptions{
		Content: gl.Ptr(content),
		DryRun:  gl.Ptr(false),
	}
	res, resp, err := l.client.Validate.ProjectNamespaceLint(l.project, opts, gl.WithContext(ctx))
	if err != nil {
		return nil, lintError(resp, err)
	}
	return &Result{
		Valid:      res.Valid,
		Errors:     nonNil(res.Errors),
		Warnings:   nonNil(res.Warnings),
		MergedYAML: res.MergedYaml,
	}, nil
}

func lintError(resp *gl.Response, err error) error {
	if resp == nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "gitlab lint request")
	}
	switch resp.StatusCode {
	case http.StatusNotFound:
		return errors.Wrap(errors.ErrCodeNotFound, err, "gitlab project not found")
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "gitlab rejected the token")
	}
	return errors.Wrap(errors.ErrCodeNetwork, err, "gitlab lint request")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
