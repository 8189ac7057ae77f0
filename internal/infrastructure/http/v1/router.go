// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"fxledger/internal/domain/account"
	"fxledger/internal/domain/currency"
	"fxledger/internal/domain/transfer"
	"fxledger/internal/domain/user"
	"fxledger/internal/infrastructure/http/v1/handlers"
	"fxledger/internal/infrastructure/http/v1/middleware"
	"fxledger/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Version reported by the health info endpoint
	Version string

	Currencies *currency.Registry
	Accounts   *account.Registry
	Users      *user.Registry
	Transfers  *transfer.Ledger
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/info", healthHandler.Info)
	}

	currencyHandler := handlers.NewCurrencyHandler(cfg.Currencies)
	accountHandler := handlers.NewAccountHandler(cfg.Accounts)
	userHandler := handlers.NewUserHandler(cfg.Users)
	transferHandler := handlers.NewTransferHandler(cfg.Transfers)

	api := router.Group("/api/v1")
	{
		currencies := api.Group("/currencies")
		{
			currencies.GET("", currencyHandler.List)
			currencies.GET("/:name", currencyHandler.Get)
			currencies.POST("", currencyHandler.Create)
			currencies.PUT("/:name", currencyHandler.Update)
		}

		accounts := api.Group("/accounts")
		{
			accounts.PUT("/deposit", accountHandler.Deposit)
			accounts.PUT("/withdraw", accountHandler.Withdraw)
			accounts.GET("/:accountId", accountHandler.Get)
		}

		users := api.Group("/users")
		{
			users.POST("", userHandler.Create)
			users.GET("/:userId", userHandler.Get)
			users.PUT("/:userId", userHandler.Update)
			users.DELETE("/:userId", userHandler.Delete)
			users.POST("/:userId/accounts", userHandler.CreateAccount)
			users.DELETE("/:userId/accounts/:accountId", userHandler.DeleteAccount)
		}

		transfers := api.Group("/transfers")
		{
			transfers.POST("", transferHandler.Create)
			transfers.GET("", transferHandler.List)
			transfers.GET("/:transferId", transferHandler.Get)
		}
	}

	return router
}
