package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbctechsolutions/doc2code/internal/application"
	"github.com/jbctechsolutions/doc2code/internal/presentation/api"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:         "serve",
		Short:       "Run the HTTP API",
		Long:        `Serve the generation, progress, model catalogue and log endpoints used by the web UI.`,
		Annotations: map[string]string{annotationContainer: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			container := GetContainer()
			if container == nil {
				return fmt.Errorf("application not initialized")
			}
			if cmd.Flags().Changed("host") {
				container.Config().Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				container.Config().Server.Port = port
			}

			server := newAPIServer(container)
			GetFormatter().Info("Listening on %s", container.Config().Server.Addr())
			return server.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "interface to bind (overrides server.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides server.port and PORT)")

	return cmd
}

// newAPIServer wires the HTTP API to the container's services.
func newAPIServer(c *application.Container) *api.Server {
	sc := c.Config().Server
	return api.NewServer(
		api.Options{
			Addr:            sc.Addr(),
			ReadTimeout:     sc.ReadTimeout,
			WriteTimeout:    sc.WriteTimeout,
			ShutdownTimeout: sc.ShutdownTimeout,
			AllowedOrigins:  sc.AllowedOrigins,
		},
		api.Dependencies{
			Generator:   c.GenerationService(),
			Progress:    c.ProgressStore(),
			RateLimiter: c.RateLimiter(),
			Providers:   c.ProviderRegistry(),
			Logger:      c.Logger(),
			Metrics:     c.Metrics(),
			FailOpen:    c.RateLimitFailOpen(),
		},
	)
}
