package fx

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/amityadav/deepresearch/internal/config"
	"github.com/amityadav/deepresearch/internal/dispatch"
	"github.com/amityadav/deepresearch/internal/export"
	"github.com/amityadav/deepresearch/internal/server"
	"go.uber.org/fx"
)

// ServerModule provides the HTTP server
var ServerModule = fx.Module("server",
	fx.Provide(NewHTTPServer),
	fx.Invoke(StartServer),
)

// NewHTTPServer builds the REST API server
func NewHTTPServer(cfg config.Config, d *dispatch.Dispatcher, e *export.Exporter) *http.Server {
	h := server.NewHandler(d, e, cfg.MaxUploadBytes)
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// StartServer starts the HTTP server with lifecycle management
func StartServer(lc fx.Lifecycle, srv *http.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			lis, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}

			go func() {
				log.Printf("[FX] HTTP Server listening on %s", srv.Addr)
				if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Printf("[FX] HTTP Server error: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Printf("[FX] Shutting down HTTP server...")
			return srv.Shutdown(ctx)
		},
	})
}
