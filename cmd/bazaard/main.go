// bazaard is the Bazaar orchestration daemon: it serves the chat API
// that turns conversational requests into scene operations.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bazaar-it/bazaar-sub004/internal/api"
	"github.com/bazaar-it/bazaar-sub004/internal/config"
	"github.com/bazaar-it/bazaar-sub004/internal/llm"
	"github.com/bazaar-it/bazaar-sub004/internal/logging"
	"github.com/bazaar-it/bazaar-sub004/internal/orchestrator"
	"github.com/bazaar-it/bazaar-sub004/internal/pipeline"
	"github.com/bazaar-it/bazaar-sub004/internal/router"
	"github.com/bazaar-it/bazaar-sub004/internal/store"
	"github.com/bazaar-it/bazaar-sub004/internal/tools"
	"github.com/bazaar-it/bazaar-sub004/internal/workflow"
)

const version = "0.1.0"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "bazaard",
	Short: "Bazaar scene orchestration daemon",
	Long: `bazaard serves the Bazaar chat API. Each chat message is routed to a
scene operation (add, edit, delete) or a clarifying question, and scene
content is generated through a two-step layout-then-code pipeline.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	// A local .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	if err := logging.Init(level, cfg.Logging.Development); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Sync()
	log := logging.L()

	st, err := store.NewSQLiteStore(cfg.Server.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	client, err := llm.NewOpenAIClient(cfg.LLM)
	if err != nil {
		return fmt.Errorf("build llm client: %w", err)
	}
	gen := pipeline.NewGenerator(client, cfg.Pipeline)

	reg := tools.NewRegistry()
	reg.MustRegister(tools.NewAddScene(st, gen))
	reg.MustRegister(tools.NewEditScene(st, gen))
	reg.MustRegister(tools.NewDeleteScene(st))
	reg.MustRegister(tools.NewAskSpecify(st))

	orch := orchestrator.New(st,
		router.New(client, cfg.Router),
		reg,
		workflow.NewExecutor(reg),
		cfg.Pipeline, cfg.Router)

	srv := api.NewServer(api.ServerConfig{
		Addr:         cfg.Server.Addr,
		Orchestrator: orch,
		Store:        st,
		Logger:       logging.API(),
		StartTime:    time.Now(),
		Version:      version,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
