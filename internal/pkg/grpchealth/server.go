package grpchealth

import (
	"errors"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"
	"orderflow/pkg/logger"
)

const (
	// ServiceOrders is the health service name that reflects database and cache state.
	ServiceOrders = "orders"

	keepaliveMinTime = 30 * time.Second
	keepaliveTime    = 5 * time.Minute
	keepaliveTimeout = 3 * time.Second
)

// Server exposes grpc.health.v1 for orchestrators that probe over gRPC.
type Server struct {
	log    handlerLogger
	port   string
	server *grpc.Server
	health *health.Server
}

func New(log handlerLogger, port string) *Server {
	server := grpc.NewServer(
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             keepaliveMinTime,
			PermitWithoutStream: true,
		}),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    keepaliveTime,
			Timeout: keepaliveTimeout,
		}),
	)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)
	reflection.Register(server)

	healthServer.SetServingStatus(ServiceOrders, healthpb.HealthCheckResponse_NOT_SERVING)

	return &Server{
		log:    log.With(logger.NewField("component", "grpc-health")),
		port:   port,
		server: server,
		health: healthServer,
	}
}

func (s *Server) ListenAndServe() error {
	lis, err := net.Listen("tcp", ":"+s.port)
	if err != nil {
		return fmt.Errorf("listen grpc health port %s: %w", s.port, err)
	}
	return s.Serve(lis)
}

func (s *Server) Serve(lis net.Listener) error {
	s.log.With(
		logger.NewField("addr", lis.Addr().String()),
	).Info("grpc health server starting")

	err := s.server.Serve(lis)
	if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve grpc health: %w", err)
	}
	return nil
}

func (s *Server) SetServing(service string, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, status)
}

// Shutdown reports NOT_SERVING to watchers before stopping the listener.
func (s *Server) Shutdown() {
	s.health.Shutdown()
	s.server.GracefulStop()
	s.log.Info("grpc health server stopped")
}
