package main

import (
	"net/http"
	"time"

	"github.com/SamreenA11/healthsure-management/config"
	"github.com/SamreenA11/healthsure-management/database"
	"github.com/SamreenA11/healthsure-management/handlers"
	"github.com/SamreenA11/healthsure-management/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := config.Load(); err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	db, err := database.Connect(config.AppConfig.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.InitializeTables(); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize tables")
	}

	handlers.InitializeHandlers(db)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.Recover())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.AppConfig.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/api/health", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(requestTimeout(10 * time.Second))
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.GET("/validate", handlers.ValidateToken)
		}

		policies := api.Group("/policies")
		{
			policies.GET("", handlers.GetPolicies)
			policies.GET("/:id", handlers.GetPolicy)
			policies.GET("/customer/:customerId", handlers.AuthMiddleware(), handlers.GetCustomerPolicies)
			policies.POST("/purchase", handlers.AuthMiddleware(), handlers.PurchasePolicy)
			policies.POST("", handlers.AuthMiddleware(), handlers.RoleMiddleware("admin"), handlers.CreatePolicy)
			policies.PUT("/:id", handlers.AuthMiddleware(), handlers.RoleMiddleware("admin"), handlers.UpdatePolicy)
		}

		customers := api.Group("/customers", handlers.AuthMiddleware())
		{
			customers.GET("", handlers.RoleMiddleware("admin", "agent"), handlers.GetCustomers)
			customers.GET("/:id", handlers.GetCustomer)
			customers.GET("/user/:userId", handlers.GetCustomerByUserID)
			customers.PUT("/:id", handlers.UpdateCustomer)
			customers.PUT("/:id/assign-agent", handlers.RoleMiddleware("admin"), handlers.AssignAgent)
		}

		agents := api.Group("/agents", handlers.AuthMiddleware())
		{
			agents.GET("", handlers.RoleMiddleware("admin"), handlers.GetAgents)
			agents.GET("/:id", handlers.GetAgent)
			agents.GET("/user/:userId", handlers.GetAgentByUserID)
			agents.GET("/:id/customers", handlers.GetAgentCustomers)
			agents.PUT("/:id", handlers.UpdateAgent)
			agents.PUT("/:id/commission", handlers.RoleMiddleware("admin"), handlers.UpdateAgentCommission)
		}

		claims := api.Group("/claims", handlers.AuthMiddleware())
		{
			claims.GET("", handlers.RoleMiddleware("admin", "agent"), handlers.GetClaims)
			claims.GET("/customer/:customerId", handlers.GetCustomerClaims)
			claims.GET("/:id", handlers.GetClaim)
			claims.POST("", handlers.SubmitClaim)
			claims.PUT("/:id/status", handlers.RoleMiddleware("admin", "agent"), handlers.UpdateClaimStatus)
		}

		payments := api.Group("/payments", handlers.AuthMiddleware())
		{
			payments.GET("", handlers.RoleMiddleware("admin"), handlers.GetPayments)
			payments.GET("/customer/:customerId", handlers.GetCustomerPayments)
			payments.GET("/policy/:purchasedPolicyId", handlers.GetPolicyPayments)
			payments.GET("/stats/summary", handlers.RoleMiddleware("admin"), handlers.GetPaymentStats)
			payments.GET("/:id", handlers.GetPayment)
			payments.POST("", handlers.RecordPayment)
			payments.PUT("/:id/status", handlers.UpdatePaymentStatus)
		}

		support := api.Group("/support", handlers.AuthMiddleware())
		{
			support.GET("", handlers.RoleMiddleware("admin", "agent"), handlers.GetTickets)
			support.GET("/customer/:customerId", handlers.GetCustomerTickets)
			support.GET("/:id", handlers.GetTicket)
			support.POST("", handlers.CreateTicket)
			support.PUT("/:id/status", handlers.UpdateTicketStatus)
			support.PUT("/:id/assign", handlers.RoleMiddleware("admin"), handlers.AssignTicket)
			support.PUT("/:id/priority", handlers.RoleMiddleware("admin", "agent"), handlers.UpdateTicketPriority)
		}

		admin := api.Group("/admin", handlers.AuthMiddleware(), handlers.RoleMiddleware("admin"))
		{
			admin.GET("/stats", handlers.GetAdminStats)
		}
	}

	srv := &http.Server{
		Handler:      router,
		Addr:         ":" + config.AppConfig.ServerPort,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logrus.WithField("port", config.AppConfig.ServerPort).Info("Server is running")
	logrus.Fatalln(srv.ListenAndServe())
}

// requestTimeout bounds handler time so a stuck query cannot hold a
// connection open past the server write timeout
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return timeout.New(
		timeout.WithTimeout(d),
		timeout.WithHandler(func(c *gin.Context) { c.Next() }),
		timeout.WithResponse(func(c *gin.Context) {
			c.JSON(http.StatusRequestTimeout, gin.H{"error": "Request timed out"})
		}),
	)
}
