package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/parleyhq/parley/internal/agent"
	"github.com/parleyhq/parley/internal/config"
	"github.com/parleyhq/parley/internal/db"
	"github.com/parleyhq/parley/internal/dispatch"
	"github.com/parleyhq/parley/internal/maintenance"
	"github.com/parleyhq/parley/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Parley API server",
		Long: `Connects to the database, migrates tables, starts the retention sweeper,
and serves the REST API until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "parley.yaml", "path to Parley config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "override the configured listen port")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if errors.Is(err, os.ErrNotExist) && configPath == "parley.yaml" {
		// No config file next to the binary: run on defaults.
		fmt.Fprintln(out, "No parley.yaml found, using default configuration")
		cfg = config.Default()
		err = nil
	}
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Connected to %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)

	// The condensing summarizer shares one client keyed off the environment.
	// Without a key, condensing degrades to plain truncation.
	var summarizer agent.Summarizer
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		client := agent.NewClient(agent.OpenAIProvider{APIKey: key})
		summarizer = agent.NewSummarizer(client, cfg.Agent.SummaryModel)
	} else {
		fmt.Fprintln(out, "OPENAI_API_KEY not set: history condensing will truncate instead of summarize")
	}

	condenser := agent.NewCondenser(summarizer, cfg.Agent.CondenseThreshold, cfg.Agent.CondenseKeepRecent)
	invoker := agent.NewInvoker(agent.InvokerOpts{
		Condenser: condenser,
		Timeout:   cfg.Agent.RequestTimeout(),
		CacheSize: cfg.Agent.CacheSize,
	})
	responder, err := dispatch.NewResponder(dispatch.ResponderOpts{
		DB:            gormDB,
		Invoker:       invoker,
		ExtraKeywords: cfg.Trigger.Keywords,
		Patterns:      cfg.Trigger.Patterns,
		ContextWindow: cfg.Agent.ContextWindow,
	})
	if err != nil {
		return err
	}

	sweeper, err := maintenance.NewSweeper(maintenance.SweeperOpts{
		DB:            gormDB,
		Schedule:      cfg.Retention.Schedule,
		RetentionDays: cfg.Retention.Days,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweeper.Run(ctx)

	return server.Start(ctx, server.StartOpts{
		DB:        gormDB,
		Responder: responder,
		Port:      cfg.Server.Port,
		Out:       out,
	})
}
