package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/noteshare/noteshare-backend/internal/config"
	"github.com/noteshare/noteshare-backend/internal/handler"
	"github.com/noteshare/noteshare-backend/internal/middleware"
	"github.com/noteshare/noteshare-backend/internal/repository"
	"github.com/noteshare/noteshare-backend/internal/service"
	"github.com/noteshare/noteshare-backend/pkg/ai"
	"github.com/noteshare/noteshare-backend/pkg/database"
	"github.com/noteshare/noteshare-backend/pkg/email"
	"github.com/noteshare/noteshare-backend/pkg/logger"
	"github.com/noteshare/noteshare-backend/pkg/payment"
	"github.com/noteshare/noteshare-backend/pkg/storage"
	"github.com/noteshare/noteshare-backend/pkg/telegram"
	"github.com/noteshare/noteshare-backend/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.LoadConfig()
	zapLogger := logger.New()
	defer zapLogger.Sync()

	db := database.NewDatabase(cfg.DatabaseURL)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	aiJobRepo := repository.NewAIJobRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// File storage: bucket when configured, local directory otherwise
	var fileStorage storage.FileStorage
	if cfg.UseS3() {
		s3Storage, err := storage.NewS3Storage(cfg)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage:", err)
		}
		fileStorage = s3Storage
	} else {
		localStorage, err := storage.NewLocalStorage(cfg.FilesDir)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
		fileStorage = localStorage
	}

	// External clients
	stripeService := payment.NewStripeService(cfg.Stripe.SecretKey, cfg.FrontendURL)
	aiClient := ai.NewClient(cfg.OpenAIKey)
	verifier := telegram.NewVerifier(cfg.TelegramBotToken)

	var emailService *email.EmailService
	if cfg.ResendAPIKey != "" && cfg.AdminEmail != "" {
		emailService = email.NewEmailService(cfg.ResendAPIKey, cfg.AdminEmail)
	}

	// Services
	authService := service.NewAuthService(userRepo, verifier, zapLogger)
	ledgerService := service.NewLedgerService(db, userRepo, aiJobRepo, referralRepo, payoutRepo, emailService, zapLogger)
	noteService := service.NewNoteService(noteRepo, purchaseRepo, reviewRepo, fileStorage, emailService, cfg.DownloadSecret, zapLogger)
	aiService := service.NewAIService(aiClient, ledgerService, userRepo, aiJobRepo, zapLogger)
	paymentService := service.NewPaymentService(db, stripeService, cfg, userRepo, noteRepo, purchaseRepo, subRepo, aiJobRepo, zapLogger)
	userService := service.NewUserService(userRepo, noteRepo, purchaseRepo, aiJobRepo, payoutRepo, referralRepo)

	validator := utils.NewValidator()

	// Handlers
	authHandler := handler.NewAuthHandler(authService, validator)
	noteHandler := handler.NewNoteHandler(noteService, validator)
	aiHandler := handler.NewAIHandler(aiService, validator)
	paymentHandler := handler.NewPaymentHandler(paymentService, validator, cfg.Stripe.WebhookSecret, zapLogger)
	userHandler := handler.NewUserHandler(userService, ledgerService, validator)
	referralHandler := handler.NewReferralHandler(ledgerService, userService, validator)

	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024, // note uploads
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE",
		AllowCredentials: true,
	}))
	app.Use(fiberlogger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	// Stripe webhook needs the raw body and no auth
	app.Post("/webhooks/stripe", paymentHandler.HandleStripeWebhook)

	api := app.Group("/api")

	authRequired := middleware.AuthMiddleware(authService)

	// Public routes. my-notes must be registered before :id so the
	// parameterized route doesn't capture it.
	api.Post("/auth/telegram-login", authHandler.TelegramLogin)
	api.Get("/notes", noteHandler.List)
	api.Get("/notes/my-notes", authRequired, noteHandler.MyNotes)
	api.Get("/notes/download/:token", noteHandler.DownloadByToken)
	api.Get("/notes/:id", noteHandler.Get)
	api.Get("/notes/:id/reviews", noteHandler.Reviews)

	// Protected routes
	api.Use(authRequired)
	{
		api.Post("/notes/upload", noteHandler.Upload)
		api.Get("/notes/:id/download", noteHandler.Download)
		api.Post("/notes/:id/reviews", noteHandler.CreateReview)

		aiRoutes := api.Group("/ai")
		aiRoutes.Post("/summarize", aiHandler.Summarize)
		aiRoutes.Post("/flashcards", aiHandler.Flashcards)
		aiRoutes.Post("/quiz", aiHandler.Quiz)
		aiRoutes.Post("/explain", aiHandler.Explain)
		aiRoutes.Get("/history", aiHandler.History)

		purchases := api.Group("/purchases")
		purchases.Post("/create-checkout", paymentHandler.CreateCheckout)
		purchases.Post("/create-subscription", paymentHandler.CreateSubscription)
		purchases.Get("/my-purchases", paymentHandler.MyPurchases)
		purchases.Get("/verify/:sessionId", paymentHandler.VerifyPurchase)

		users := api.Group("/users")
		users.Get("/dashboard", userHandler.Dashboard)
		users.Put("/profile", userHandler.UpdateProfile)
		users.Post("/request-payout", userHandler.RequestPayout)
		users.Get("/payouts", userHandler.Payouts)
		users.Post("/ad-credit", userHandler.AdCredit)

		referrals := api.Group("/referrals")
		referrals.Post("/apply", referralHandler.Apply)
		referrals.Get("/stats", referralHandler.Stats)
	}

	zapLogger.Info("server starting", zap.String("port", cfg.Port))
	log.Fatal(app.Listen(":" + cfg.Port))
}
