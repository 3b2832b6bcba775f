package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/theleywin/Backend-Skill-Swap/config"
	"github.com/theleywin/Backend-Skill-Swap/pkg/logger"
	"github.com/theleywin/Backend-Skill-Swap/src/controllers"
	"github.com/theleywin/Backend-Skill-Swap/src/lib"
	"github.com/theleywin/Backend-Skill-Swap/src/middleware"
	"github.com/theleywin/Backend-Skill-Swap/src/routes"
	"github.com/theleywin/Backend-Skill-Swap/src/services"
	"github.com/theleywin/Backend-Skill-Swap/src/store"
)

func main() {
	_ = godotenv.Load()

	v, err := config.LoadConfig("config")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg, err := config.ParseConfig(v)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	appLogger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}

	db, disconnect, err := lib.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer disconnect()
	appLogger.Info("connected to MongoDB", "database", cfg.Mongo.Database)

	mailer, err := lib.NewSMTPMailer(cfg)
	if err != nil {
		log.Fatalf("failed to build mailer: %v", err)
	}

	// Stores
	users := store.NewUserStore(db)
	otps := store.NewOtpStore(db)
	connections := store.NewConnectionStore(db)
	messages := store.NewMessageStore(db)
	calls := store.NewCallStore(db)
	notifications := store.NewNotificationStore(db)

	// Services
	authSvc := services.NewAuthService(users, otps, mailer, appLogger)
	connectionSvc := services.NewConnectionService(connections, users, notifications, appLogger)
	chatSvc := services.NewChatService(connections, messages, users, appLogger)
	callSvc := services.NewCallService(connections, calls, users, appLogger)
	notificationSvc := services.NewNotificationService(notifications, users, appLogger)

	jwtTTL := time.Duration(cfg.JWT.ExpiresIn) * time.Hour

	app := fiber.New()
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	protect := middleware.ProtectRoute(users, cfg.JWT.Secret)

	// Register routes
	routes.AuthRoutes(app, controllers.NewAuthController(authSvc, cfg.JWT.Secret, jwtTTL))
	routes.UserRoutes(app, controllers.NewUserController(authSvc), protect)
	routes.ConnectionRoutes(app, controllers.NewConnectionController(connectionSvc), protect)
	routes.ChatRoutes(app, controllers.NewChatController(chatSvc), protect)
	routes.CallRoutes(app, controllers.NewCallController(callSvc), protect)
	routes.NotificationRoutes(app, controllers.NewNotificationController(notificationSvc), protect)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	port := cfg.Server.Port
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}

	fmt.Println("Server is running on http://localhost:" + port)
	if err := app.Listen(":" + port); err != nil {
		appLogger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
