package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/roundtrip/api"
	"github.com/Domenick1991/roundtrip/config"
	searchapi "github.com/Domenick1991/roundtrip/internal/api/search_service_api"
	"github.com/Domenick1991/roundtrip/internal/service/search"
	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
)

type Servers struct {
	grpcServer *grpc.Server
	httpServer *http.Server
}

// Run starts the gRPC and HTTP servers and blocks until ctx is canceled or a server fails.
func Run(ctx context.Context, cfg *config.Config, searchSvc search.SearchUseCase) error {
	s := newServers(cfg, searchSvc)

	errCh := make(chan error, 2)

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}
	go func() { errCh <- s.grpcServer.Serve(lis) }()

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	slog.Info("servers started", "http", cfg.HTTP.Address, "grpc", cfg.GRPC.Address)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newServers(cfg *config.Config, searchSvc search.SearchUseCase) *Servers {
	grpcSrv := grpc.NewServer()
	searchapi.RegisterSearchServiceServer(grpcSrv, searchapi.NewServer(searchSvc))

	return &Servers{
		grpcServer: grpcSrv,
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           NewRouter(searchSvc),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// NewRouter mounts the search and airport handlers.
func NewRouter(searchSvc search.SearchUseCase) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api.NewSearchHandler(searchSvc).Register(router.Group("/searches"))
	api.NewAirportHandler(searchSvc).Register(router.Group("/airports"))
	return router
}
