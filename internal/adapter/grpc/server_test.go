package grpc

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/simaogato/ledgerflow-backend/internal/domain"
)

// MockDashboardBuilder is a mock implementation of DashboardBuilder for testing
type MockDashboardBuilder struct {
	mock.Mock
}

func (m *MockDashboardBuilder) GetDashboard(ctx context.Context, userID uuid.UUID) (*domain.DashboardSnapshot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardSnapshot), args.Error(1)
}

const bufSize = 1024 * 1024

func startServer(t *testing.T, builder DashboardBuilder, identity domain.Identity) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(bufSize)

	s := NewGRPCServer(NewServer(builder), staticVerifier{token: "good", identity: identity}, zap.NewNop())
	go func() {
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func authorized(ctx context.Context) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer good")
}

func TestGetDashboard(t *testing.T) {
	identity := domain.Identity{UserID: uuid.New(), Email: "a@example.com"}
	builder := new(MockDashboardBuilder)
	categoryID := uuid.New()
	builder.On("GetDashboard", mock.Anything, identity.UserID).Return(&domain.DashboardSnapshot{
		Balance: domain.Balance{Total: "15.0000"},
		Monthly: domain.MonthlyMetrics{Income: "10.0000", Expenses: "0.0000", Savings: "10.0000", IncomeChange: 100},
		Chart:   domain.Chart{Last6Months: []domain.ChartPoint{{Month: "2024-03", Income: "10.0000", Expenses: "0.0000"}}},
		Breakdown: domain.Breakdown{
			IncomeByCategory: []domain.CategoryBreakdown{{
				CategoryID: categoryID, CategoryName: "Salary", CategoryColor: "#00FF00", Total: "10.0000", Percentage: 100,
			}},
			ExpensesByCategory: []domain.CategoryBreakdown{},
		},
		RecentTransactions: []domain.RecentTransaction{},
	}, nil)

	client := NewDashboardClient(startServer(t, builder, identity))
	out, err := client.GetDashboard(authorized(context.Background()))
	require.NoError(t, err)

	m := out.AsMap()
	assert.Equal(t, "15.0000", m["balance"].(map[string]any)["total"])
	assert.Equal(t, float64(100), m["monthly"].(map[string]any)["incomeChange"])
	income := m["breakdown"].(map[string]any)["incomeByCategory"].([]any)
	require.Len(t, income, 1)
	assert.Equal(t, categoryID.String(), income[0].(map[string]any)["categoryId"])
	assert.Equal(t, []any{}, m["recentTransactions"])
	builder.AssertExpectations(t)
}

func TestGetDashboard_Unauthenticated(t *testing.T) {
	builder := new(MockDashboardBuilder)
	client := NewDashboardClient(startServer(t, builder, domain.Identity{UserID: uuid.New()}))

	_, err := client.GetDashboard(context.Background())

	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	builder.AssertNotCalled(t, "GetDashboard", mock.Anything, mock.Anything)
}

func TestGetDashboard_InternalError(t *testing.T) {
	identity := domain.Identity{UserID: uuid.New()}
	builder := new(MockDashboardBuilder)
	builder.On("GetDashboard", mock.Anything, identity.UserID).Return(nil, errors.New("pq: connection refused"))

	client := NewDashboardClient(startServer(t, builder, identity))
	_, err := client.GetDashboard(authorized(context.Background()))

	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.Internal, st.Code())
	assert.NotContains(t, st.Message(), "pq")
}

func TestHealthCheck(t *testing.T) {
	conn := startServer(t, new(MockDashboardBuilder), domain.Identity{})

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: DashboardServiceName})

	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode codes.Code
		expectedMsg  string
	}{
		{name: "Unauthorized", err: domain.NewUnauthorizedError("Invalid or expired token"), expectedCode: codes.Unauthenticated, expectedMsg: "unauthorized"},
		{name: "Not Found", err: domain.NewNotFoundError("User not found"), expectedCode: codes.NotFound, expectedMsg: "User not found"},
		{name: "Validation", err: domain.NewValidationError("bad input"), expectedCode: codes.InvalidArgument, expectedMsg: "bad input"},
		{name: "Deadline", err: context.DeadlineExceeded, expectedCode: codes.DeadlineExceeded, expectedMsg: "deadline exceeded"},
		{name: "Other", err: errors.New("boom"), expectedCode: codes.Internal, expectedMsg: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := status.FromError(mapError(tt.err))
			require.True(t, ok)
			assert.Equal(t, tt.expectedCode, st.Code())
			assert.Equal(t, tt.expectedMsg, st.Message())
		})
	}
	assert.NoError(t, mapError(nil))
}
