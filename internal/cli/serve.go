package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tracegrid/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP session server
// until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		sessionTTL time.Duration
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP session server",
		Long: `Run the HTTP session server. Front ends share a computation with
POST /sessions and then toggle traceback paths and flows, fetch the rendered
overlay and download CSV exports per session.

Idle sessions expire after the session TTL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}
			if !cmd.Flags().Changed("session-ttl") {
				sessionTTL = cfg.Server.SessionTTL.Duration
			}

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner,
				server.WithLogger(logger),
				server.WithSessionTTL(sessionTTL),
				server.WithRenderOptions(renderOptions(cfg)),
				server.WithExport(cfg.Export.Codec(), cfg.Export.Filename),
			)

			printInfo("Serving on %s", StyleLink.Render("http://"+addr))
			printDetail("Cache: %s, session TTL: %s", cacheLabel(cfg.Cache.Backend, noCache), sessionTTL)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().DurationVar(&sessionTTL, "session-ttl", 0, "idle session lifetime (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func cacheLabel(backend string, noCache bool) string {
	if noCache {
		return "disabled"
	}
	return backend
}
