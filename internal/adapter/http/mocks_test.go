package http

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/simaogato/ledgerflow-backend/internal/domain"
	"github.com/simaogato/ledgerflow-backend/internal/usecase/auth"
	"github.com/simaogato/ledgerflow-backend/internal/usecase/category"
	"github.com/simaogato/ledgerflow-backend/internal/usecase/transaction"
)

// MockAuthUseCase is a mock implementation of AuthUseCase for testing
type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Register(ctx context.Context, input auth.RegisterInput) (*auth.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.AuthResult), args.Error(1)
}

func (m *MockAuthUseCase) Login(ctx context.Context, input auth.LoginInput) (*auth.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.AuthResult), args.Error(1)
}

func (m *MockAuthUseCase) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.TokenPair), args.Error(1)
}

// MockCategoryUseCase is a mock implementation of CategoryUseCase for testing
type MockCategoryUseCase struct {
	mock.Mock
}

func (m *MockCategoryUseCase) Create(ctx context.Context, userID uuid.UUID, input category.CreateCategoryInput) (*domain.Category, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryUseCase) Get(ctx context.Context, id, userID uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryUseCase) List(ctx context.Context, userID uuid.UUID, typeFilter domain.TransactionType) ([]*domain.Category, error) {
	args := m.Called(ctx, userID, typeFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func (m *MockCategoryUseCase) Update(ctx context.Context, id, userID uuid.UUID, input category.UpdateCategoryInput) (*domain.Category, error) {
	args := m.Called(ctx, id, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryUseCase) Delete(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockTransactionUseCase is a mock implementation of TransactionUseCase for testing
type MockTransactionUseCase struct {
	mock.Mock
}

func (m *MockTransactionUseCase) Create(ctx context.Context, userID uuid.UUID, input transaction.CreateTransactionInput) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionUseCase) Get(ctx context.Context, id, userID uuid.UUID) (*domain.Transaction, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionUseCase) List(ctx context.Context, filter domain.TransactionFilter) (*transaction.ListResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.ListResult), args.Error(1)
}

func (m *MockTransactionUseCase) Update(ctx context.Context, id, userID uuid.UUID, input transaction.UpdateTransactionInput) (*domain.Transaction, error) {
	args := m.Called(ctx, id, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionUseCase) Delete(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockDashboardUseCase is a mock implementation of DashboardUseCase for testing
type MockDashboardUseCase struct {
	mock.Mock
}

func (m *MockDashboardUseCase) GetDashboard(ctx context.Context, userID uuid.UUID) (*domain.DashboardSnapshot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardSnapshot), args.Error(1)
}

// staticVerifier accepts exactly one token
type staticVerifier struct {
	token    string
	identity domain.Identity
}

func (v staticVerifier) VerifyAccessToken(token string) (domain.Identity, error) {
	if token != v.token {
		return domain.Identity{}, domain.NewUnauthorizedError("Invalid or expired token")
	}
	return v.identity, nil
}
