package dispatchadmin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"

	"dispatch-admin/internal/dispatchadmin/data"
	"dispatch-admin/internal/dispatchadmin/handlers"
	"dispatch-admin/internal/dispatchadmin/middleware"
	"dispatch-admin/pkg/logging"
)

type Config struct {
	ServerAddress   string
	SetupKey        string
	ShutdownTimeout time.Duration
}

type Services struct {
	Wallet WalletServices
	Orders OrderServices
	Users  UserServices
	Admin  handlers.AdminBootstrapService
}

type WalletServices interface {
	handlers.WalletGettingService
	handlers.WalletTopUpService
}

type OrderServices interface {
	handlers.OrderCreationService
	handlers.OrderCompletionService
}

type UserServices interface {
	handlers.UserCreationService
	handlers.UsersGettingService
	handlers.UserUpdateService
	handlers.UserDeletionService
	handlers.CountsGettingService
}

type Server struct {
	logger     *logging.ZapLogger
	httpServer *http.Server
	cfg        Config
}

func NewServer(
	cfg Config,
	tokenAuth *jwtauth.JWTAuth,
	services Services,
	logger *logging.ZapLogger,
) *Server {
	srv := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: createMux(cfg, tokenAuth, services, logger),
	}

	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: srv,
	}
}

func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server ListenAndServe failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func createMux(
	cfg Config,
	tokenAuth *jwtauth.JWTAuth,
	services Services,
	logger *logging.ZapLogger,
) *chi.Mux {

	orderCreationHandler := handlers.NewOrderCreationHandler(services.Orders, logger)
	orderCompletionHandler := handlers.NewOrderCompletionHandler(services.Orders, logger)
	walletGettingHandler := handlers.NewWalletGettingHandler(services.Wallet, logger)
	walletTopUpHandler := handlers.NewWalletTopUpHandler(services.Wallet, logger)
	userCreationHandler := handlers.NewUserCreationHandler(services.Users, logger)
	usersGettingHandler := handlers.NewUsersGettingHandler(services.Users, logger)
	userUpdateHandler := handlers.NewUserUpdateHandler(services.Users, logger)
	userDeletionHandler := handlers.NewUserDeletionHandler(services.Users, logger)
	countsGettingHandler := handlers.NewCountsGettingHandler(services.Users, logger)
	adminBootstrapHandler := handlers.NewAdminBootstrapHandler(services.Admin, cfg.SetupKey, logger)

	staffGuard := middleware.NewRoleGuard(logger, data.AdminRole, data.EmployeeRole)
	adminGuard := middleware.NewRoleGuard(logger, data.AdminRole)

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))
	router.Use(middleware.NewLoggerContext().CreateHandler)
	router.Use(middleware.NewPanicRecover(logger).CreateHandler)

	router.Route("/api", func(router chi.Router) {
		router.Post("/admin/bootstrap", adminBootstrapHandler.ServeHTTP)

		router.Group(func(router chi.Router) {
			router.Use(jwtauth.Verifier(tokenAuth))
			router.Use(jwtauth.Authenticator(tokenAuth))

			router.Route("/orders", func(router chi.Router) {
				router.Post("/", orderCreationHandler.ServeHTTP)
				router.Post("/{orderID}/complete", orderCompletionHandler.ServeHTTP)
			})

			router.Route("/wallet", func(router chi.Router) {
				router.Get("/", walletGettingHandler.ServeHTTP)
				router.Post("/top-up", walletTopUpHandler.ServeHTTP)
			})

			router.Group(func(router chi.Router) {
				router.Use(staffGuard.CreateHandler)
				router.Get("/users/{role}", usersGettingHandler.ServeHTTP)
				router.Get("/stats/counts", countsGettingHandler.ServeHTTP)
			})

			router.Group(func(router chi.Router) {
				router.Use(adminGuard.CreateHandler)
				router.Post("/users/{role}", userCreationHandler.ServeHTTP)
				router.Patch("/user/{userID}", userUpdateHandler.ServeHTTP)
				router.Delete("/user/{userID}", userDeletionHandler.ServeHTTP)
			})
		})
	})

	return router
}
