package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/contentclicks/dashboard/internal/backend"
	"github.com/contentclicks/dashboard/internal/config"
	"github.com/contentclicks/dashboard/internal/domain"
	"github.com/contentclicks/dashboard/internal/logger"
	"github.com/contentclicks/dashboard/internal/service"
)

// watchNotifier forwards poller events to the synchronizer and signals the
// CLI when the session reaches a terminal state.
type watchNotifier struct {
	inner service.Notifier
	done  chan outcomeEvent
}

type outcomeEvent struct {
	outcome service.Outcome
	message string
}

func (n *watchNotifier) OnProgress(customerID, message string) {
	logger.Info("[%s] %s", customerID, message)
	n.inner.OnProgress(customerID, message)
}

func (n *watchNotifier) OnOutcome(customerID string, outcome service.Outcome, message string) {
	n.inner.OnOutcome(customerID, outcome, message)
	n.done <- outcomeEvent{outcome: outcome, message: message}
}

func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "text",
		ServiceName: "dashboard-watch",
	})
	logger.SetDefaultLogger(appLogger)

	// Parse command line flags
	customerID := flag.String("customer", "", "Customer ID to collect for (required)")
	days := flag.Int("days", 30, "Collection window in days")
	history := flag.Bool("history", false, "Also collect 12-month historical data")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	if *customerID == "" {
		appLogger.Fatal("The -customer flag is required")
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	// Initialize collector backend client
	client := backend.NewClient(&backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		Token:   cfg.Backend.Token,
	})

	// No snapshot cache for one-shot watches
	views := service.NewViewStore()
	syncService := service.NewSyncService(client, views, nil, appLogger, &service.SyncConfig{
		TopPerformerLimit: cfg.Collect.TopPerformers,
	})

	notifier := &watchNotifier{
		inner: syncService,
		done:  make(chan outcomeEvent, 1),
	}
	poller := service.NewPoller(client, syncService, notifier, appLogger, &service.PollerConfig{
		Interval:    cfg.Poll.Interval,
		MaxAttempts: cfg.Poll.MaxAttempts,
		SettleDelay: cfg.Poll.SettleDelay,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appLogger.WithFields(logger.Fields{
		"customer_id": *customerID,
		"days":        *days,
		"history":     *history,
	}).Info("Starting collection")

	sessionID, err := poller.Start(ctx, *customerID, domain.CollectionRequest{
		Days:           *days,
		CollectHistory: *history,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to start collection")
	}
	appLogger.WithField("session_id", sessionID).Info("Polling for results")

	// Handle Ctrl-C by canceling the polling session
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		appLogger.Info("Received shutdown signal, canceling...")
		poller.Cancel(*customerID)
		os.Exit(1)
	case ev := <-notifier.done:
		switch ev.outcome {
		case service.OutcomeCompleted:
			view, _ := views.Get(*customerID)
			cards := 0
			if view != nil {
				cards = len(view.Cards)
			}
			appLogger.WithFields(logger.Fields{
				"cards": cards,
			}).Infof("Collection complete: %s", ev.message)
		case service.OutcomeTimedOut:
			appLogger.Warnf("Gave up waiting: %s", ev.message)
		case service.OutcomeErrored:
			appLogger.WithField("error", ev.message).Fatal("Collection failed")
		}
	}
}
