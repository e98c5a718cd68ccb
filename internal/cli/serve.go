package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pipecanvas/internal/server"
	"github.com/matzehuels/pipecanvas/pkg/integrations/gitlab"
	"github.com/matzehuels/pipecanvas/pkg/slot"
)

// serveCommand runs the HTTP and WebSocket API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, backend string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the workspace API for the browser editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.config()
			if err != nil {
				return err
			}
			opts := server.OptionsFromConfig(cfg)
			if addr != "" {
				opts.Addr = addr
			}
			if opts.Catalog, err = cfg.Catalog(); err != nil {
				return err
			}

			slotOpts := cfg.SlotOptions()
			if backend != "" {
				slotOpts.Backend = backend
			}
			b, err := slot.Open(ctx, slotOpts)
			if err != nil {
				return err
			}
			defer b.Close()
			opts.Backend = b
			logger.Info("Storage", "backend", b.Name())

			if cfg.GitLab.Project != "" {
				if opts.Linter, err = gitlab.NewLinter(cfg.GitLab.URL, cfg.GitLab.Token, cfg.GitLab.Project); err != nil {
					return err
				}
				logger.Info("GitLab lint enabled", "project", cfg.GitLab.Project)
			}

			return server.New(opts, logger).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&backend, "backend", "", "slot backend: file, null, redis, mongo, sqlite or mysql")
	return cmd
}
