package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bitavt/tablechat/internal/config"
	"github.com/bitavt/tablechat/internal/display"
	"github.com/bitavt/tablechat/internal/engine"
	"github.com/bitavt/tablechat/internal/logging"
	"github.com/bitavt/tablechat/internal/provider"
	"github.com/bitavt/tablechat/internal/session"
)

// runChat starts one interactive session and drives the stage machine
// until the user quits or the input stream closes.
func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	logger = logger.With("session_id", uuid.NewString())

	registry := provider.NewRegistry(cfg.AI.Provider, cfg.AI.Model,
		time.Duration(cfg.AI.TimeoutSecs)*time.Second)
	llm, err := registry.GetBest()
	if err != nil {
		return err
	}

	db, err := engine.Open()
	if err != nil {
		return err
	}
	defer db.Close()

	term := display.NewConsole(os.Stdin, os.Stdout)
	handlers := session.NewHandlers(llm, db, term, session.Config{
		MaxRetries: cfg.Query.MaxRetries,
		MaxRows:    cfg.Query.MaxRows,
	}, logger)
	machine := session.NewMachine(handlers, logger)

	state := session.NewState()
	term.Message(state.History[0].Role, state.History[0].Content)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	logger.Info("session started", "provider", llm.Name())
	if err := machine.Run(ctx, session.StageIntake, state); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("session interrupted")
			return nil
		}
		logger.Error("session aborted", "error", err.Error())
		return err
	}
	logger.Info("session ended", "turns", len(state.History))
	fmt.Println("Goodbye!")
	return nil
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

// buildLogger builds the session logger from config, honoring the
// TABLECHAT_DEBUG override. The returned func closes the log file.
func buildLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(cfg.Log.Level)
	if os.Getenv("TABLECHAT_DEBUG") == "1" {
		lc.Debug = true
	}

	closeLog := func() {}
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		lc.Output = f
		closeLog = func() { f.Close() }
	}
	return logging.New(lc), closeLog, nil
}
