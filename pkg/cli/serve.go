package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/getmockd/xmlbridge/pkg/api"
	"github.com/getmockd/xmlbridge/pkg/cliconfig"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		listen         string
		rateLimit      float64
		rateBurst      int
		trustedProxies []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the mapping engine over HTTP",
		Long: `Serve the mapping engine over HTTP for browser front-ends.

Routes:
  GET  /health
  GET  /metrics
  POST /api/map, /api/prune, /api/validate, /api/postman, /api/curl
  GET  /api/dataset   (when datasetFile is configured)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("listen") {
				cfg.ListenAddr = listen
				cfg.Sources["listenAddr"] = cliconfig.SourceFlag
			}

			srv := api.NewServer(api.Config{
				AllowedOrigins: cfg.AllowedOrigins,
				DatasetFile:    cfg.DatasetFile,
				DatasetToken:   cfg.DatasetToken,
				DatasetVersion: cfg.DatasetVersion,
				HostVariable:   cfg.HostVariable,
				TokenVariable:  cfg.TokenVariable,
				Headers:        a.headers(),
				RateLimit:      rateLimit,
				RateBurst:      rateBurst,
				TrustedProxies: trustedProxies,
				Logger:         a.log.With("component", "api"),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, cfg.ListenAddr)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", cliconfig.DefaultListenAddr, "Address to listen on")
	cmd.Flags().Float64Var(&rateLimit, "rate-limit", 0, "Requests per second per client IP (0 disables)")
	cmd.Flags().IntVar(&rateBurst, "rate-burst", 0, "Burst size for --rate-limit (default twice the rate)")
	cmd.Flags().StringSliceVar(&trustedProxies, "trusted-proxy", nil, "Proxy address or CIDR whose X-Forwarded-For is trusted (repeatable)")
	return cmd
}
