package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/leasezero/leasezero-backend/internal/chain"
	"github.com/leasezero/leasezero-backend/internal/config"
	"github.com/leasezero/leasezero-backend/internal/database"
	"github.com/leasezero/leasezero-backend/internal/gating"
	"github.com/leasezero/leasezero-backend/internal/handlers"
	"github.com/leasezero/leasezero-backend/internal/middleware"
	"github.com/leasezero/leasezero-backend/internal/routes"
	"github.com/leasezero/leasezero-backend/internal/services"
	"github.com/leasezero/leasezero-backend/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Connect to PostgreSQL
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// MongoDB holds only the audit trail; the portals run without it
	log.Printf("Connecting to MongoDB...")
	var auditLog *services.AuditLog
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Printf("⚠️  WARNING: MongoDB unavailable, transition audit trail disabled: %v", err)
	} else {
		defer database.Disconnect()
		auditLog = services.NewAuditLog(database.DB)
		if err := auditLog.EnsureIndexes(context.Background()); err != nil {
			log.Printf("⚠️  WARNING: failed to ensure MongoDB audit indexes: %v", err)
		} else {
			log.Println("✅ MongoDB audit indexes ensured")
		}
	}

	// Initialize Cloudinary service
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		if err := handlers.InitCloudinaryService(cfg); err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			log.Println("File uploads will not be available")
		} else {
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. File uploads will not be available")
	}

	// Chain collaborators: in-process mocks in demo mode, gateway otherwise
	var (
		contract chain.Contract
		enc      chain.EncryptionProvider
		wallet   chain.Wallet
	)
	if cfg.DemoMode {
		demoAccount := cfg.DeveloperWallet
		if demoAccount == "" {
			demoAccount = "0x0000000000000000000000000000000000000001"
		}
		contract = chain.NewMockContract()
		enc = &chain.MockEncryptionProvider{}
		wallet = &chain.MockWallet{Address: demoAccount}
		log.Println("✅ Demo mode: mock chain collaborators (no node required)")
	} else {
		contract = chain.NewGatewayContract(cfg.ChainGatewayURL, cfg.ContractAddress)
		enc = chain.NewGatewayEncryptionProvider(cfg.ChainGatewayURL)
		wallet = chain.NewGatewayWallet(cfg.ChainGatewayURL)
		log.Printf("✅ Chain gateway: %s (%s)", cfg.ChainGatewayURL, cfg.NetworkName)
	}

	confirmer := &gating.WalletConfirmer{
		Wallet:    wallet,
		FeeWallet: cfg.DeveloperWallet,
		FeeWei:    cfg.TransactionFeeWei,
	}
	orch := gating.NewOrchestrator(confirmer, cfg.GatedActionTimeout)

	// Stores
	appStore := store.NewPostgresApplicationStore(database.PostgresDB)
	propStore := store.NewPostgresPropertyStore(database.PostgresDB)
	profileStore := store.NewPostgresProfileStore(database.PostgresDB)
	catalog := store.NewCatalogCache(database.RedisClient, propStore)

	// Services
	hub := services.NewHub()
	applicationService := services.NewApplicationService(appStore, propStore, profileStore,
		contract, orch, hub, auditLog)
	propertyService := services.NewPropertyService(propStore, catalog, contract, enc, orch, cfg.ContractAddress)
	profileService := services.NewProfileService(profileStore, contract, enc, orch, cfg.ContractAddress)
	sessionService := services.NewSessionService(database.RedisClient)

	handlers.Init(cfg, applicationService, propertyService, profileService, sessionService, hub)

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.WalletHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimitMiddleware)

	// Health check (no wallet required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r)

	log.Printf("🚀 LeaseZero backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
