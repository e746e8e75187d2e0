package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/nortsur/orderbot/internal/api"
	"github.com/nortsur/orderbot/internal/bot"
	"github.com/nortsur/orderbot/internal/catalog"
	"github.com/nortsur/orderbot/internal/messaging"
	"github.com/nortsur/orderbot/internal/nortsur"
	"github.com/nortsur/orderbot/internal/store"
	"github.com/nortsur/orderbot/internal/whatsapp"
)

func main() {
	// Initialize structured logger
	initializeLogger()

	// Load environment configuration
	config := loadEnvironmentConfig()

	// Parse command line flags
	flags := parseCommandLineFlags(config)

	if err := run(flags); err != nil {
		slog.Error("Order bot failed to run", "error", err)
		os.Exit(1)
	}
}

// Config holds environment configuration
type Config struct {
	VerifyToken      string
	BackendBaseURL   string
	Channel          string
	CatalogDir       string
	CatalogBaseURL   string
	CatalogWebURL    string
	CatalogSocialURL string
	WhatsmeowDSN     string
	APIAddr          string
}

// Flags holds command line flag values
type Flags struct {
	verifyToken      *string
	backendBaseURL   *string
	channel          *string
	catalogDir       *string
	catalogBaseURL   *string
	catalogWebURL    *string
	catalogSocialURL *string
	whatsmeowDSN     *string
	apiAddr          *string
	qrOutput         *string
	numeric          *bool
}

// initializeLogger sets up structured logging with debug level
func initializeLogger() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		VerifyToken:      os.Getenv("WA_VERIFY_TOKEN"),
		BackendBaseURL:   os.Getenv("NORTSUR_API_BASE_URL"),
		Channel:          os.Getenv("ORDERBOT_CHANNEL"),
		CatalogDir:       os.Getenv("CATALOG_IMAGES_DIR"),
		CatalogBaseURL:   os.Getenv("CATALOG_IMAGES_BASE_URL"),
		CatalogWebURL:    os.Getenv("CATALOG_WEB_URL"),
		CatalogSocialURL: os.Getenv("CATALOG_SOCIAL_URL"),
		WhatsmeowDSN:     os.Getenv("WHATSAPP_DB_DSN"),
		APIAddr:          os.Getenv("API_ADDR"),
	}

	slog.Debug("environment variables loaded",
		"WA_VERIFY_TOKEN_SET", config.VerifyToken != "",
		"NORTSUR_API_BASE_URL_SET", config.BackendBaseURL != "",
		"ORDERBOT_CHANNEL", config.Channel,
		"CATALOG_IMAGES_DIR", config.CatalogDir,
		"CATALOG_IMAGES_BASE_URL", config.CatalogBaseURL,
		"API_ADDR", config.APIAddr)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		verifyToken:      flag.String("verify-token", config.VerifyToken, "webhook verification token (overrides $WA_VERIFY_TOKEN)"),
		backendBaseURL:   flag.String("backend-url", config.BackendBaseURL, "Nortsur backend base URL (overrides $NORTSUR_API_BASE_URL)"),
		channel:          flag.String("channel", config.Channel, "outbound channel: cloudapi, twilio or whatsmeow (overrides $ORDERBOT_CHANNEL)"),
		catalogDir:       flag.String("catalog-dir", config.CatalogDir, "local directory with catalog images (overrides $CATALOG_IMAGES_DIR)"),
		catalogBaseURL:   flag.String("catalog-base-url", config.CatalogBaseURL, "public base URL for catalog images (overrides $CATALOG_IMAGES_BASE_URL)"),
		catalogWebURL:    flag.String("catalog-web-url", config.CatalogWebURL, "web catalog link for no-match replies (overrides $CATALOG_WEB_URL)"),
		catalogSocialURL: flag.String("catalog-social-url", config.CatalogSocialURL, "social catalog link for no-match replies (overrides $CATALOG_SOCIAL_URL)"),
		whatsmeowDSN:     flag.String("db-dsn", config.WhatsmeowDSN, "database DSN for the whatsmeow channel (overrides $WHATSAPP_DB_DSN)"),
		apiAddr:          flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		qrOutput:         flag.String("qr-output", "", "path to write login QR code (whatsmeow channel)"),
		numeric:          flag.Bool("numeric-code", false, "use numeric login code instead of QR code (whatsmeow channel)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"channel", *flags.channel,
		"apiAddr", *flags.apiAddr,
		"catalogDir", *flags.catalogDir,
		"backendURLSet", *flags.backendBaseURL != "")

	return flags
}

// buildWhatsmeowOptions constructs options for the whatsmeow channel.
func buildWhatsmeowOptions(flags Flags) []whatsapp.Option {
	var waOpts []whatsapp.Option
	if *flags.whatsmeowDSN != "" {
		waOpts = append(waOpts, whatsapp.WithDBDSN(*flags.whatsmeowDSN))
	}
	if *flags.qrOutput != "" {
		waOpts = append(waOpts, whatsapp.WithQRCodeOutput(*flags.qrOutput))
	}
	if *flags.numeric {
		waOpts = append(waOpts, whatsapp.WithNumericCode())
	}
	return waOpts
}

// run wires the modules together and starts the HTTP server.
func run(flags Flags) error {
	sender, err := messaging.NewSender(*flags.channel, buildWhatsmeowOptions(flags)...)
	if err != nil {
		return err
	}

	var backendOpts []nortsur.Option
	if *flags.backendBaseURL != "" {
		backendOpts = append(backendOpts, nortsur.WithBaseURL(*flags.backendBaseURL))
	}
	backend := nortsur.NewClient(backendOpts...)

	recent, err := store.NewRecentIDs(store.DefaultRecentIDCapacity)
	if err != nil {
		return err
	}
	greeted, err := store.NewGreeted(store.DefaultGreetedCapacity)
	if err != nil {
		return err
	}

	images := catalog.NewDirLister(*flags.catalogDir, *flags.catalogBaseURL)
	handler := bot.NewHandler(backend, sender, recent, greeted, images,
		bot.WithCatalogWebURL(*flags.catalogWebURL),
		bot.WithCatalogSocialURL(*flags.catalogSocialURL))

	srv := api.NewServer(handler,
		api.WithAddr(*flags.apiAddr),
		api.WithVerifyToken(*flags.verifyToken),
		api.WithCatalogDir(*flags.catalogDir))

	slog.Info("Bootstrapping order bot", "channel", *flags.channel, "addr", *flags.apiAddr)
	return srv.Run()
}
