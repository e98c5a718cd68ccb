// Package gitlab validates compiled pipeline documents against GitLab.
//
// A [Linter] sends the YAML form of a document to the CI lint endpoint of
// a project (POST /projects/:id/ci/lint) and reports GitLab's verdict:
// validity, errors and warnings, and the merged configuration after
// includes are resolved.
//
//	l, err := gitlab.NewLinter("https://gitlab.example.com", token, "group/app")
//	res, err := l.Lint(ctx, doc)
//	if !res.Valid {
//	    for _, e := range res.Errors { ... }
//	}
package gitlab
