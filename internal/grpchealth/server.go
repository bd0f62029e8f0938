// Package grpchealth exposes the standard gRPC health service so orchestrators
// can probe the worker.
package grpchealth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Service names reported by the worker. The empty name is overall health.
const (
	ServiceOverall = ""
	ServiceSync    = "entrepreedge.sync"
	ServiceReports = "entrepreedge.reports"
)

type Server struct {
	addr   string
	lis    net.Listener
	grpc   *grpc.Server
	health *health.Server
}

// New creates a server whose services all start as NOT_SERVING.
func New(addr string) *Server {
	s := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	for _, svc := range []string{ServiceOverall, ServiceSync, ServiceReports} {
		hs.SetServingStatus(svc, healthpb.HealthCheckResponse_NOT_SERVING)
	}
	return &Server{addr: addr, grpc: s, health: hs}
}

// SetServing flips service between SERVING and NOT_SERVING.
func (s *Server) SetServing(service string, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, status)
}

// Listen binds the address; Addr is valid afterwards.
func (s *Server) Listen() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.lis = lis
	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	if s.lis != nil {
		return s.lis.Addr().String()
	}
	return s.addr
}

// Serve blocks until ctx is done, then stops gracefully.
func (s *Server) Serve(ctx context.Context) error {
	if s.lis == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	slog.InfoContext(ctx, "gRPC health server listening", "addr", s.Addr())
	if err := s.grpc.Serve(s.lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve grpc health: %w", err)
	}
	return nil
}

// Stop marks everything NOT_SERVING and shuts down.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
