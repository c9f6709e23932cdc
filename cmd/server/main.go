package main

import (
	"context"
	"encoding/base64"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"acai-backend/internal/checkout"
	"acai-backend/internal/config"
	"acai-backend/internal/db"
	"acai-backend/internal/delivery"
	"acai-backend/internal/handler"
	"acai-backend/internal/repository"
	"acai-backend/internal/server"
	"acai-backend/internal/service"
	"acai-backend/internal/storage"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		logger.Error("failed to prepare schema", "err", err)
		os.Exit(1)
	}

	// Google sign-in: Firebase when a project is configured, plain Google ID
	// tokens when only a client id is set.
	var verifier service.TokenVerifier
	switch {
	case cfg.FirebaseProjectID != "":
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, firebaseOptions(cfg)...)
		if err != nil {
			logger.Error("failed to init firebase app", "err", err)
			os.Exit(1)
		}
		client, err := app.Auth(ctx)
		if err != nil {
			logger.Error("failed to init firebase auth", "err", err)
			os.Exit(1)
		}
		verifier = service.FirebaseVerifier{Client: client}
	case cfg.GoogleClientID != "":
		verifier = service.GoogleIDVerifier{ClientID: cfg.GoogleClientID}
	}

	// repositories
	userRepo := repository.UserRepository{DB: pg}
	productRepo := repository.ProductRepository{DB: pg}
	itemRepo := repository.ItemRepository{DB: pg}
	listRepo := repository.ListRepository{DB: pg}
	categoryRepo := repository.CategoryRepository{DB: pg}
	customerRepo := repository.CustomerRepository{DB: pg}
	supplyRepo := repository.SupplyRepository{DB: pg}
	recipeRepo := repository.RecipeRepository{DB: pg}
	channelRepo := repository.ChannelRepository{DB: pg}

	if err := channelRepo.SeedDefaults(ctx); err != nil {
		logger.Error("failed to seed channels", "err", err)
		os.Exit(1)
	}

	// services
	authSvc := service.AuthService{Config: cfg, Users: userRepo, Logger: logger, Google: verifier}
	if err := authSvc.EnsureAdmin(ctx); err != nil {
		logger.Error("failed to ensure admin user", "err", err)
		os.Exit(1)
	}
	policy := delivery.PolicyFromConfig(cfg)
	deliverySvc := delivery.Service{
		Geocoder: delivery.NewCEPClient(cfg.CEPLookupURL, cfg.CEPLookupTimeout),
		Policy:   policy,
		Logger:   logger,
	}
	checkoutSvc := checkout.Service{
		Products:  productRepo,
		Lists:     listRepo,
		Items:     itemRepo,
		Customers: customerRepo,
		Delivery:  deliverySvc,
		StoreName: cfg.StoreName,
		WhatsApp:  cfg.WhatsAppNumber,
		Logger:    logger,
	}
	images := storage.ImageStore{
		Dir:         cfg.UploadDir,
		BaseURL:     cfg.PublicBaseURL,
		MaxWidth:    cfg.ImageMaxWidth,
		JPEGQuality: cfg.ImageJPEGQuality,
	}

	// handlers
	handlers := server.Handlers{
		Health: handler.HealthHandler{DB: pg},
		Auth:   handler.AuthHandler{Service: &authSvc},
		Settings: handler.SettingsHandler{
			StoreName:    cfg.StoreName,
			StoreAddress: cfg.StoreAddress,
			WhatsApp:     cfg.WhatsAppNumber,
			Currency:     cfg.DefaultCurrency,
			Policy:       policy,
		},
		Docs:       handler.DocsHandler{OpenAPIPath: "api/openapi.yaml"},
		Menu:       handler.MenuHandler{Categories: categoryRepo, Products: productRepo, Lists: listRepo, Items: itemRepo},
		Delivery:   handler.DeliveryHandler{Quoter: deliverySvc},
		Checkout:   handler.CheckoutHandler{Service: &checkoutSvc},
		Uploads:    handler.UploadHandler{Store: images},
		Products:   handler.ProductHandler{Repo: productRepo},
		Items:      handler.ItemHandler{Repo: itemRepo},
		Lists:      handler.ListHandler{Repo: listRepo},
		Categories: handler.CategoryHandler{Repo: categoryRepo},
		Customers:  handler.CustomerHandler{Repo: customerRepo},
		Supplies:   handler.SupplyHandler{Repo: supplyRepo},
		Recipes:    handler.RecipeHandler{Recipes: recipeRepo, Supplies: supplyRepo, Channels: channelRepo, StoreName: cfg.StoreName},
		Channels:   handler.ChannelHandler{Repo: channelRepo},
		Pricing:    handler.PricingHandler{Channels: channelRepo},
	}

	router := server.NewRouter(cfg, logger, handlers)

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

func firebaseOptions(cfg config.Config) []option.ClientOption {
	if cfg.FirebaseCredFile == "" {
		return nil
	}

	cred := cfg.FirebaseCredFile
	// Allow inline JSON or base64-encoded JSON in env to avoid writing a file.
	if strings.HasPrefix(strings.TrimSpace(cred), "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cred))}
	}
	if decoded, err := base64.StdEncoding.DecodeString(cred); err == nil && strings.HasPrefix(strings.TrimSpace(string(decoded)), "{") {
		return []option.ClientOption{option.WithCredentialsJSON(decoded)}
	}

	return []option.ClientOption{option.WithCredentialsFile(cred)}
}
