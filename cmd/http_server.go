package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/expense-insight/internal"
	"github.com/frahmantamala/expense-insight/internal/analytics"
	"github.com/frahmantamala/expense-insight/internal/assistant"
	"github.com/frahmantamala/expense-insight/internal/auth"
	authPostgres "github.com/frahmantamala/expense-insight/internal/auth/postgres"
	"github.com/frahmantamala/expense-insight/internal/category"
	categoryPostgres "github.com/frahmantamala/expense-insight/internal/category/postgres"
	"github.com/frahmantamala/expense-insight/internal/expense"
	expensePostgres "github.com/frahmantamala/expense-insight/internal/expense/postgres"
	"github.com/frahmantamala/expense-insight/internal/transport"
	"github.com/frahmantamala/expense-insight/internal/transport/rest"
	"github.com/frahmantamala/expense-insight/internal/transport/swagger"
	"github.com/frahmantamala/expense-insight/internal/user"
	userPostgres "github.com/frahmantamala/expense-insight/internal/user/postgres"
	"github.com/frahmantamala/expense-insight/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	Router   *chi.Mux
	Logger   *slog.Logger
	Services *Services
}

// Services are the domain services shared by the server and the CLI commands.
type Services struct {
	Auth      *auth.Service
	User      *user.Service
	Expense   *expense.Service
	Analytics *analytics.Service
	Assistant *assistant.Service
	Category  *category.Service
	AuthRepo  auth.RepositoryAPI
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	openAPIPath := deps.Config.Server.OpenAPIPath
	if openAPIPath != "" {
		doc, err := swagger.LoadSpec(context.Background(), openAPIPath)
		if err != nil {
			return err
		}
		deps.Logger.Info("openapi document loaded", "operations", len(swagger.Operations(doc)))
	}

	base := transport.NewBaseHandler(deps.Logger)
	svc := deps.Services

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Health:    rest.NewHealthHandler(deps.DB),
		Auth:      auth.NewHandler(base, svc.Auth),
		User:      user.NewHandler(base, svc.User),
		Expense:   expense.NewHandler(base, svc.Expense),
		Analytics: analytics.NewHandler(base, svc.Analytics),
		Assistant: assistant.NewHandler(base, svc.Assistant),
		Category:  category.NewHandler(base, svc.Category),
	}, rest.RouterOptions{
		AllowedOrigins: deps.Config.Server.AllowedOrigins,
		OpenAPIPath:    openAPIPath,
	}, deps.Logger)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	lg := logger.LoggerWrapper()
	services, err := buildServices(config, db, gdb, lg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		Gorm:     gdb,
		Router:   chi.NewRouter(),
		Services: services,
	}, nil
}

func buildServices(cfg *internal.Config, db *sqlx.DB, gdb *gorm.DB, lg *slog.Logger) (*Services, error) {
	loc, err := cfg.App.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve timezone: %w", err)
	}

	sec := cfg.Security
	tokens := auth.NewJWTTokenGenerator(sec.AccessTokenSecret, sec.RefreshTokenSecret, sec.AccessTokenDuration, sec.RefreshTokenDuration)
	authRepo := authPostgres.NewRepository(db)

	expenseService := expense.NewService(expensePostgres.NewExpenseRepository(gdb), lg, loc, cfg.App.DefaultCurrency)

	completer := assistant.NewResponsesClient(assistant.ClientConfig{
		BaseURL: cfg.Assistant.BaseURL,
		APIKey:  cfg.Assistant.APIKey,
		Model:   cfg.Assistant.Model,
		Timeout: cfg.Assistant.Timeout,
	}, lg)
	if cfg.Assistant.APIKey == "" {
		lg.Warn("assistant api key is not set; completion requests will be rejected upstream")
	}

	return &Services{
		Auth:      auth.NewService(authRepo, tokens, sec.BCryptCost, lg),
		AuthRepo:  authRepo,
		User:      user.NewService(userPostgres.NewUserRepository(gdb), lg),
		Expense:   expenseService,
		Analytics: analytics.NewService(expenseService, lg, cfg.App.DefaultCurrency),
		Assistant: assistant.NewService(expenseService, completer, assistant.Budgets{
			QuestionMaxTokens:       cfg.Assistant.QuestionMaxTokens,
			RecommendationMaxTokens: cfg.Assistant.RecommendationMaxTokens,
		}, lg),
		Category: category.NewService(categoryPostgres.NewCategoryRepository(gdb), lg),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm wraps the existing pool so both layers share connections.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
}
