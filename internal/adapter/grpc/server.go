package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/ledgerflow-backend/internal/domain"
)

// DashboardServiceName is the fully qualified gRPC service name
const DashboardServiceName = "ledgerflow.v1.DashboardService"

// GetDashboardMethod is the full method name of the GetDashboard RPC
const GetDashboardMethod = "/" + DashboardServiceName + "/GetDashboard"

// DashboardBuilder builds the dashboard snapshot of a user
type DashboardBuilder interface {
	GetDashboard(ctx context.Context, userID uuid.UUID) (*domain.DashboardSnapshot, error)
}

// DashboardServer is the server API for the ledgerflow.v1.DashboardService service
type DashboardServer interface {
	GetDashboard(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

// Server implements DashboardServer
type Server struct {
	DashboardService DashboardBuilder
}

// NewServer creates a new gRPC server instance
func NewServer(dashboardService DashboardBuilder) *Server {
	return &Server{DashboardService: dashboardService}
}

// GetDashboard handles the GetDashboard RPC for the caller resolved by AuthInterceptor
// The snapshot is returned as a Struct with the same field names as the REST body
func (s *Server) GetDashboard(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing identity")
	}

	snapshot, err := s.DashboardService.GetDashboard(ctx, identity.UserID)
	if err != nil {
		return nil, mapError(err)
	}

	out, err := snapshotToStruct(snapshot)
	if err != nil {
		return nil, status.Error(codes.Internal, "Internal server error")
	}
	return out, nil
}

func snapshotToStruct(snapshot *domain.DashboardSnapshot) (*structpb.Struct, error) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return structpb.NewStruct(fields)
}

// RegisterDashboardServer registers srv on s
func RegisterDashboardServer(s grpc.ServiceRegistrar, srv DashboardServer) {
	s.RegisterService(&dashboardServiceDesc, srv)
}

var dashboardServiceDesc = grpc.ServiceDesc{
	ServiceName: DashboardServiceName,
	HandlerType: (*DashboardServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetDashboard", Handler: getDashboardHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ledgerflow/v1/dashboard.proto",
}

func getDashboardHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DashboardServer).GetDashboard(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetDashboardMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DashboardServer).GetDashboard(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// DashboardClient is the client API for the ledgerflow.v1.DashboardService service
type DashboardClient struct {
	cc grpc.ClientConnInterface
}

// NewDashboardClient creates a client on cc
func NewDashboardClient(cc grpc.ClientConnInterface) *DashboardClient {
	return &DashboardClient{cc: cc}
}

// GetDashboard calls the GetDashboard RPC
func (c *DashboardClient) GetDashboard(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetDashboardMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// NewGRPCServer creates a grpc.Server with logging and bearer auth interceptors,
// the dashboard service, the standard health service and server reflection
func NewGRPCServer(srv *Server, verifier domain.TokenVerifier, log *zap.Logger) *grpc.Server {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor(log),
			AuthInterceptor(verifier),
		),
	)

	RegisterDashboardServer(s, srv)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(DashboardServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	reflection.Register(s)
	return s
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, clientMessage(err, "not found"))
	case errors.Is(err, domain.ErrValidation):
		return status.Error(codes.InvalidArgument, clientMessage(err, "invalid argument"))
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		return status.Error(codes.Internal, "Internal server error")
	}
}

func clientMessage(err error, fallback string) string {
	var derr *domain.Error
	if errors.As(err, &derr) {
		return derr.Message
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	return fallback
}
