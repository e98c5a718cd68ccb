package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pipecanvas/pkg/errors"
	"github.com/matzehuels/pipecanvas/pkg/integrations/gitlab"
)

// lintCommand validates a pipeline with GitLab's CI lint API.
func (c *CLI) lintCommand() *cobra.Command {
	var project, url string
	var merged bool

	cmd := &cobra.Command{
		Use:   "lint <snapshot|document>",
		Short: "Validate a pipeline with GitLab CI lint",
		Long: `Validate a pipeline with the CI lint API of a GitLab project.

The project, instance URL and token come from the [gitlab] config section or
PIPECANVAS_GITLAB_* environment variables; flags override them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if project != "" {
				cfg.GitLab.Project = project
			}
			if url != "" {
				cfg.GitLab.URL = url
			}
			if err := cfg.RequireGitLab(); err != nil {
				return err
			}

			doc, _, err := c.loadDocument(args[0])
			if err != nil {
				return err
			}
			linter, err := gitlab.NewLinter(cfg.GitLab.URL, cfg.GitLab.Token, cfg.GitLab.Project)
			if err != nil {
				return err
			}

			var res *gitlab.Result
			err = spin(cmd.Context(), os.Stderr, "Linting with "+cfg.GitLab.URL, func(ctx context.Context) error {
				var err error
				res, err = linter.Lint(ctx, doc)
				return err
			})
			if err != nil {
				return err
			}

			w := c.out()
			for _, warn := range res.Warnings {
				printWarning(w, "%s", warn)
			}
			if !res.Valid {
				for _, e := range res.Errors {
					printError(w, "%s", e)
				}
				return errors.New(errors.ErrCodeInvalidDocument, "gitlab rejected %s", args[0])
			}
			printSuccess(w, "%s is valid for %s", args[0], cfg.GitLab.Project)
			if merged && res.MergedYAML != "" {
				fmt.Fprintln(w, res.MergedYAML)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "GitLab project ID or path")
	cmd.Flags().StringVar(&url, "url", "", "GitLab instance URL")
	cmd.Flags().BoolVar(&merged, "merged", false, "print the merged configuration")
	return cmd
}
