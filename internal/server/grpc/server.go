// Package grpc serves the standard gRPC health service. The status follows
// the database: SERVING while pings succeed, NOT_SERVING otherwise.
package grpc

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const defaultProbeInterval = 5 * time.Second

// Pinger is satisfied by the repository manager.
type Pinger interface {
	Ping(ctx context.Context) error
}

type GRPCServer struct {
	address       string
	pinger        Pinger
	logger        logging.Logger
	probeInterval time.Duration
}

func NewGRPCServer(a string, l logging.Logger, p Pinger) *GRPCServer {
	return &GRPCServer{
		address:       a,
		pinger:        p,
		logger:        l.With("module", "grpc_server"),
		probeInterval: defaultProbeInterval,
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	s.probe(ctx, hs)

	go func() {
		ticker := time.NewTicker(s.probeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.probe(ctx, hs)
			}
		}
	}()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gPRC server...")
		hs.Shutdown()
		srv.GracefulStop()
	}()

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}

	return nil
}

// probe sets the overall status from a single database ping.
func (s *GRPCServer) probe(ctx context.Context, hs *health.Server) {
	pingCtx, cancel := context.WithTimeout(ctx, s.probeInterval)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.pinger.Ping(pingCtx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn(ctx, "database ping failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	hs.SetServingStatus("", status)
}
