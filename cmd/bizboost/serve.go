package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"BizBoost/internal/advisor"
	"BizBoost/internal/catalog"
	"BizBoost/internal/config"
	"BizBoost/internal/notifier"
	"BizBoost/internal/recorder"
	"BizBoost/internal/scheduler"
	"BizBoost/internal/server"
	"BizBoost/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard API, chat front-end and digests",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	logger.Info("BizBoost starting")

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	adv := buildAdvisor(cfg)
	logger.WithField("advisor", adv.Name()).Info("advisor ready")

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.WithError(err).Warn("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	sess, err := session.New(session.Options{
		Catalog:     cat,
		Advisor:     adv,
		Recorder:    rec,
		Assumptions: cfg.Assumptions(),
		Overrides:   cfg.Simulation.Overrides,
		BusinessID:  cfg.Catalog.DefaultBusiness,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var notifiers []notifier.Notifier
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
		notifiers = append(notifiers, tn)
	}
	if cfg.EmailEnabled() {
		notifiers = append(notifiers, notifier.NewEmailNotifier(
			cfg.Email.Host, cfg.Email.Port, cfg.Email.Username, cfg.Email.Password,
			cfg.Email.From, cfg.Email.To, logger))
	}

	sched := scheduler.NewScheduler(ctx, sess, notifiers, rec, logger)
	if len(notifiers) > 0 {
		if err := sched.RegisterDigest(cfg.Digest.Cron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info("telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info("RUN_ON_START enabled, sending digest now")
		go sched.RunDigestNow()
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.NewHandler(sess, cfg.Assumptions(), cfg.Simulation.Overrides, logger).Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Advisor.Timeout + 10*time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.Server.Addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("http shutdown")
	}
	logger.Info("BizBoost stopped")
	return nil
}

// buildAdvisor picks the configured provider, backed by canned responses.
func buildAdvisor(c *config.Config) advisor.Advisor {
	canned := advisor.NewCanned()
	var primary advisor.Advisor
	switch c.Advisor.Provider {
	case config.ProviderCanned:
		return canned
	case config.ProviderChat:
		primary = advisor.NewChatBackend(c.Advisor.ChatURL, c.Advisor.Timeout, c.Proxy)
	default:
		primary = advisor.NewGemini(c.Advisor.APIKey, c.Advisor.Model, c.Advisor.Timeout, c.Proxy)
	}
	return advisor.NewFallback(primary, canned, logger)
}
