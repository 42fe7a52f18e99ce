package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/edge-risk/backend/internal/config"
	"github.com/edge-risk/backend/internal/db"
	"github.com/edge-risk/backend/internal/handler"
	"github.com/edge-risk/backend/internal/mail"
	"github.com/edge-risk/backend/internal/service"
)

// @title Edge Risk Monitor Backend API
// @version 1.0
// @description Backend for edge risk monitoring: detection event ingestion, dashboard queries, JWT sessions and account management.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Missing .env is fine in production, env vars are set directly there.
	_ = godotenv.Load()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	repo := db.New(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema: %v", err)
	}

	authService, err := service.NewAuthService(repo, cfg.Auth)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}
	if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, cfg.Auth.AdminEmail); err != nil {
		log.Fatalf("ensure admin: %v", err)
	}

	mailer := mail.NewSMTPSender(cfg.Mail)
	resetService, err := service.NewPasswordResetService(repo, mailer, cfg.Auth, cfg.Server.FrontendURL)
	if err != nil {
		log.Fatalf("password reset service: %v", err)
	}

	auditReporter := service.NewAuditReporter(repo)
	userService := service.NewUserService(repo)
	eventService := service.NewEventService(repo)

	authHandler := handler.NewAuthHandler(authService, resetService, auditReporter)
	userHandler := handler.NewUserHandler(userService, auditReporter)
	monitoringHandler := handler.NewMonitoringHandler(eventService, auditReporter)
	dashboardHandler := handler.NewDashboardHandler(eventService, auditReporter)
	logHandler := handler.NewLogHandler(auditReporter)

	router := gin.Default()
	if origins := cfg.Server.AllowedOrigins; origins != "" {
		router.Use(handler.CORSMiddleware(strings.Split(origins, ",")))
	}

	router.GET("/ping", handler.Ping)
	router.GET("/healthz", handler.Health)
	router.GET("/openapi.json", handler.OpenAPIDoc)

	api := router.Group("/api")

	authn := api.Group("/authentication")
	{
		authn.POST("/login", authHandler.Login)
		authn.POST("/renew", authHandler.Renew)
		authn.POST("/logout", handler.AuthMiddleware(authService), authHandler.Logout)
		authn.POST("/password-reset", authHandler.PasswordResetRequest)
		authn.POST("/password-reset/confirm", authHandler.PasswordResetConfirm)
	}

	users := api.Group("/user", handler.AuthMiddleware(authService))
	{
		users.GET("", userHandler.List)
		users.POST("", userHandler.Create)
		users.GET("/:id", userHandler.Get)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
	}

	api.POST("/monitoring", handler.AuthMiddleware(authService), monitoringHandler.Create)
	api.GET("/dashboard", handler.AuthMiddleware(authService), dashboardHandler.Query)
	api.GET("/logs", handler.AuthMiddleware(authService), handler.StaffMiddleware(), logHandler.List)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
