package cli

import (
	"github.com/spf13/cobra"

	"github.com/turhancan97/paper-ready-architecture/internal/preview"
	"github.com/turhancan97/paper-ready-architecture/pkg/config"
	"github.com/turhancan97/paper-ready-architecture/pkg/pipeline"
)

// newServeCmd creates the serve command running the live preview
// server. The server holds the configuration in memory; PUT /config
// replaces it and triggers a debounced re-render.
func newServeCmd() *cobra.Command {
	var addr string
	var maxW, maxH int

	cmd := &cobra.Command{
		Use:   "serve [config]",
		Short: "Serve a live figure preview over HTTP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg := config.Default()
			if len(args) == 1 {
				var err error
				cfg, err = config.Load(args[0])
				if err != nil {
					return err
				}
				logger.Infof("Loaded %s", args[0])
			}

			coord := preview.NewCoordinator(pipeline.NewRunner(logger), logger,
				preview.WithBounds(maxW, maxH))
			defer coord.Close()

			srv := preview.NewServer(coord, cfg, logger)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7878", "listen address")
	cmd.Flags().IntVar(&maxW, "max-width", 800, "maximum preview width")
	cmd.Flags().IntVar(&maxH, "max-height", 600, "maximum preview height")

	return cmd
}
