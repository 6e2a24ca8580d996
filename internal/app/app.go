// Package app wires configuration, clients and services into one
// application object shared by the server binary and tests.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/portlandmobile/ai-news-chart/internal/clients/tickertick"
	"github.com/portlandmobile/ai-news-chart/internal/clients/yahoo"
	"github.com/portlandmobile/ai-news-chart/internal/common"
	"github.com/portlandmobile/ai-news-chart/internal/interfaces"
	"github.com/portlandmobile/ai-news-chart/internal/services/chart"
	"github.com/portlandmobile/ai-news-chart/internal/services/news"
)

// App holds all initialized clients and services.
type App struct {
	Config       *common.Config
	Logger       *common.Logger
	PriceClient  interfaces.PriceClient
	FeedClient   interfaces.FeedClient
	ChartService interfaces.ChartService
	NewsService  interfaces.NewsService
	StartupTime  time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, clients and services. configPath may
// be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	if configPath == "" {
		configPath = os.Getenv("NEWSCHART_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "newschart.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/newschart.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	priceClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithLogger(logger),
	)

	feedClient := tickertick.NewClient(
		tickertick.WithBaseURL(config.Clients.TickerTick.BaseURL),
		tickertick.WithTimeout(config.Clients.TickerTick.GetTimeout()),
		tickertick.WithRateLimit(config.Clients.TickerTick.RateLimit),
		tickertick.WithLogger(logger),
	)

	chartService := chart.NewService(priceClient, logger)
	newsService := news.NewService(feedClient, logger,
		news.WithMaxPages(config.News.MaxPages),
		news.WithWindow(time.Duration(config.News.WindowDays)*24*time.Hour),
	)

	return &App{
		Config:       config,
		Logger:       logger,
		PriceClient:  priceClient,
		FeedClient:   feedClient,
		ChartService: chartService,
		NewsService:  newsService,
		StartupTime:  time.Now(),
	}, nil
}
