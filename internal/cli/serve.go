package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/observability"
	"github.com/matzehuels/familytree/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP rendering
// service until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		metrics bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the renderer over HTTP",
		Example: `  familytree serve --addr :9000
  curl --data-binary @family.csv -H 'Content-Type: text/csv' 'localhost:9000/v1/render?format=svg'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := server.Options{
				MaxBodyBytes: c.Config.Server.MaxBodyBytes,
				Timeout:      timeout,
			}
			if metrics {
				m := observability.NewMetrics()
				observability.SetPipelineHooks(observability.ChainPipeline(observability.Pipeline(), m))
				observability.SetCacheHooks(observability.ChainCache(observability.Cache(), m))
				observability.SetHTTPHooks(m)
				opts.Metrics = m.Handler()
			}

			srv := server.New(runner, c.Logger, opts)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, \":8080\")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&metrics, "metrics", true, "expose Prometheus metrics at /metrics")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "per-request timeout")

	return cmd
}
