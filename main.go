package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/jochie/teletekst/config"
	"github.com/jochie/teletekst/db"
	"github.com/jochie/teletekst/fetcher"
	"github.com/jochie/teletekst/matcher"
	"github.com/jochie/teletekst/notifier"
	"github.com/jochie/teletekst/scheduler"
	"github.com/jochie/teletekst/sheets"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	once := flag.Bool("once", false, "Run a single fetch-compare-notify cycle and exit")
	dryRun := flag.Bool("dryrun", false, "Compare and report, but do not create or update posts")
	flag.Parse()

	// Load .env if present; real environments set the variables directly
	_ = godotenv.Load()

	cfg := loadConfig(*configPath)

	// Initialize database
	database, err := db.NewDB()
	if err != nil {
		log.Fatalf("Error: Failed to initialize database: %v\n", err)
	}
	defer database.Close()
	log.Println("Database initialized successfully")

	// Initialize Telegram bot (not needed in dry-run mode)
	var bot *tgbotapi.BotAPI
	if !*dryRun {
		botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
		if botToken == "" {
			log.Fatalf("Error: TELEGRAM_BOT_TOKEN environment variable is not set")
		}
		bot, err = tgbotapi.NewBotAPI(botToken)
		if err != nil {
			log.Fatalf("Failed to initialize bot: %v\n", err)
		}
		log.Printf("Authorized on account %s\n", bot.Self.UserName)

		if cfg.Telegram.ChatID == 0 {
			log.Fatalf("Error: telegram.chat_id is not configured")
		}
	}

	// Initialize Google Sheets change log, if configured
	var writer *sheets.Writer
	if cfg.Sheets.SpreadsheetURL != "" {
		spreadsheetID := sheets.ExtractSpreadsheetID(cfg.Sheets.SpreadsheetURL)
		if spreadsheetID == "" {
			log.Fatalf("Error: Could not extract spreadsheet ID from URL: %s\n", cfg.Sheets.SpreadsheetURL)
		}
		writer, err = sheets.NewWriter(spreadsheetID, os.Getenv("GOOGLE_SHEETS_CREDENTIALS_FILE"))
		if err != nil {
			log.Fatalf("Error: Failed to initialize Google Sheets writer: %v\n", err)
		}
		log.Printf("Google Sheets change log initialized for spreadsheet: %s\n", spreadsheetID)
	}

	pageFetcher := fetcher.NewCollyFetcher(
		cfg.Teletekst.BaseURL,
		cfg.Teletekst.IndexPages,
		cfg.Teletekst.StartPage,
		cfg.Teletekst.LastPage,
	)
	pageMatcher := matcher.NewMatcher()
	pageNotifier := notifier.NewNotifier(bot, cfg.Telegram.ChatID, database, *dryRun)

	sched := scheduler.NewScheduler(
		database,
		pageFetcher,
		pageMatcher,
		pageNotifier,
		writer,
		time.Duration(cfg.Scheduler.IntervalMinutes)*time.Minute,
		cfg.Scheduler.KeepSnapshots,
	)

	if *once {
		if err := sched.RunOnce(); err != nil {
			log.Fatalf("Error: %v\n", err)
		}
		return
	}

	sched.Start()
	log.Printf("Scheduler started, checking every %d minute(s)\n", cfg.Scheduler.IntervalMinutes)
	defer sched.Stop()

	// Block until interrupted
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Println("Shutting down")
}

// loadConfig loads configuration from file or returns defaults
func loadConfig(configPath string) *config.Config {
	if _, err := os.Stat(configPath); err != nil {
		log.Println("Config file not found. Using default configuration.")
		return config.GetDefaultConfig()
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config file: %v. Using defaults.\n", err)
		return config.GetDefaultConfig()
	}
	return cfg
}
