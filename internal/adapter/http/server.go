// Package http exposes the ledger and dashboard over a JSON REST API built on fiber.
package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/simaogato/ledgerflow-backend/internal/adapter/ratelimit"
	"github.com/simaogato/ledgerflow-backend/internal/domain"
	"github.com/simaogato/ledgerflow-backend/internal/monitoring"
	"github.com/simaogato/ledgerflow-backend/internal/usecase/auth"
	"github.com/simaogato/ledgerflow-backend/internal/usecase/category"
	"github.com/simaogato/ledgerflow-backend/internal/usecase/transaction"
)

// AuthUseCase is the credential flow served under /auth
type AuthUseCase interface {
	Register(ctx context.Context, input auth.RegisterInput) (*auth.AuthResult, error)
	Login(ctx context.Context, input auth.LoginInput) (*auth.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
}

// CategoryUseCase is the category CRUD served under /categories
type CategoryUseCase interface {
	Create(ctx context.Context, userID uuid.UUID, input category.CreateCategoryInput) (*domain.Category, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*domain.Category, error)
	List(ctx context.Context, userID uuid.UUID, typeFilter domain.TransactionType) ([]*domain.Category, error)
	Update(ctx context.Context, id, userID uuid.UUID, input category.UpdateCategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// TransactionUseCase is the transaction CRUD served under /transactions
type TransactionUseCase interface {
	Create(ctx context.Context, userID uuid.UUID, input transaction.CreateTransactionInput) (*domain.Transaction, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*domain.Transaction, error)
	List(ctx context.Context, filter domain.TransactionFilter) (*transaction.ListResult, error)
	Update(ctx context.Context, id, userID uuid.UUID, input transaction.UpdateTransactionInput) (*domain.Transaction, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// DashboardUseCase builds the dashboard snapshot
type DashboardUseCase interface {
	GetDashboard(ctx context.Context, userID uuid.UUID) (*domain.DashboardSnapshot, error)
}

// Dependencies are the collaborators the HTTP server routes to
// AuthLimiter, Metrics and Gatherer are optional
type Dependencies struct {
	Auth         AuthUseCase
	Tokens       domain.TokenVerifier
	Categories   CategoryUseCase
	Transactions TransactionUseCase
	Dashboard    DashboardUseCase

	AuthLimiter ratelimit.Limiter
	Metrics     *monitoring.Metrics
	Gatherer    prometheus.Gatherer
	Logger      *zap.Logger
}

// Options tunes transport behaviour
type Options struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// Server is the fiber application with every route registered
type Server struct {
	app  *fiber.App
	deps Dependencies
	opts Options
	log  *zap.Logger
	now  func() time.Time
}

// NewServer creates the fiber app and registers middleware and routes
func NewServer(deps Dependencies, opts Options) *Server {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{deps: deps, opts: opts, log: log, now: time.Now}
	s.app = fiber.New(fiber.Config{
		AppName:               "ledgerflow",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(requestid.New())
	s.app.Use(s.observe)
	s.app.Use(recover.New())
	s.app.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	s.routes()
	return s
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: true,
	}
	// fiber refuses credentials with a wildcard origin
	if cfg.AllowOrigins == "" || cfg.AllowOrigins == "*" {
		cfg.AllowOrigins = "*"
		cfg.AllowCredentials = false
	}
	return cfg
}

func (s *Server) routes() {
	s.app.Get("/health", s.health)
	if s.deps.Gatherer != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := s.app.Group("/api/v1", requestTimeout(s.opts.RequestTimeout))

	authGroup := api.Group("/auth", rateLimit(s.deps.AuthLimiter, s.log))
	authGroup.Post("/register", s.register)
	authGroup.Post("/login", s.login)
	authGroup.Post("/refresh", s.refresh)

	authn := bearerAuth(s.deps.Tokens)

	categories := api.Group("/categories", authn)
	categories.Get("/", s.listCategories)
	categories.Post("/", s.createCategory)
	categories.Get("/:id", s.getCategory)
	categories.Patch("/:id", s.updateCategory)
	categories.Delete("/:id", s.deleteCategory)

	transactions := api.Group("/transactions", authn)
	transactions.Get("/", s.listTransactions)
	transactions.Post("/", s.createTransaction)
	transactions.Get("/:id", s.getTransaction)
	transactions.Patch("/:id", s.updateTransaction)
	transactions.Delete("/:id", s.deleteTransaction)

	api.Get("/dashboard", authn, s.dashboard)
}

// App exposes the fiber app, mainly for app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves HTTP on addr until Shutdown
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}
