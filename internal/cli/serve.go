package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plmgraph/internal/server"
	"github.com/matzehuels/plmgraph/pkg/cache"
	"github.com/matzehuels/plmgraph/pkg/observability"
)

// serveCommand runs the HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve POST /v1/render/{mode} with the PLMXML document as the request body,
plus /healthz, /version and Prometheus metrics on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}

			hooks := observability.NewPrometheusHooks(prometheus.DefaultRegisterer)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)

			opts := c.Config.CacheOptions()
			if c.flags.noCache {
				opts.Backend = cache.BackendNone
			}
			store, err := cache.Open(ctx, opts)
			if err != nil {
				return err
			}

			srv := server.New(server.Options{
				Cache:   store,
				TTL:     c.Config.Cache.TTL,
				MaxBody: c.Config.Server.MaxBody,
				Lenient: c.flags.lenient,
				Logger:  c.Logger,
			})
			defer srv.Close()

			printInfo("Serving on %s", addr)
			printDetail("cache: %s", opts.Backend)
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
