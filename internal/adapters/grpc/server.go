package grpc

import (
	"context"

	"google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/viralforge/mesh/services/integrations/M90-affiliate-pricing-service/internal/application"
)

// AffiliatePricingInternalServer keeps the mesh health contract satisfied for
// service discovery; internal RPCs land here once the shared protos ship.
type AffiliatePricingInternalServer struct {
	grpc_health_v1.UnimplementedHealthServer
	service *application.Service
}

func NewAffiliatePricingInternalServer(service *application.Service) *AffiliatePricingInternalServer {
	return &AffiliatePricingInternalServer{service: service}
}

func Register(server grpc.ServiceRegistrar, svc *AffiliatePricingInternalServer) {
	grpc_health_v1.RegisterHealthServer(server, svc)
}

func (s *AffiliatePricingInternalServer) Check(ctx context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	_ = s.service
	_ = ctx
	_ = req
	return &grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_SERVING}, nil
}

func (s *AffiliatePricingInternalServer) Watch(req *grpc_health_v1.HealthCheckRequest, stream grpc_health_v1.Health_WatchServer) error {
	_ = s.service
	_ = req
	return stream.Send(&grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_SERVING})
}
