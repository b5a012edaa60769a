package rpc

import (
	"context"
	"net"
	"time"

	grpcmetrics "github.com/RigelNana/edubridge/pkg/metrics/grpc"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// HealthServer exposes grpc.health.v1.Health for orchestrator probes.
type HealthServer struct {
	server  *grpc.Server
	health  *health.Server
	service string
	log     logrus.FieldLogger
}

func NewHealthServer(service string, log logrus.FieldLogger) *HealthServer {
	s := grpc.NewServer(
		grpc.UnaryInterceptor(grpcmetrics.UnaryServerInterceptor(service)),
		grpc.StreamInterceptor(grpcmetrics.StreamServerInterceptor(service)),
	)
	h := health.NewServer()
	healthpb.RegisterHealthServer(s, h)
	reflection.Register(s)

	h.SetServingStatus(service, healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthServer{server: s, health: h, service: service, log: log}
}

func (s *HealthServer) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

// SetServing updates both the overall status and the named service.
func (s *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(s.service, status)
}

// Watch runs check every interval and reflects the result until ctx ends.
func (s *HealthServer) Watch(ctx context.Context, interval time.Duration, check func(context.Context) error) {
	probe := func() {
		cctx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		err := check(cctx)
		if err != nil {
			s.log.WithError(err).Warn("health check failed")
		}
		s.SetServing(err == nil)
	}

	probe()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe()
		}
	}
}

func (s *HealthServer) GracefulStop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
