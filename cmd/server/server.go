package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	gormlogger "gorm.io/gorm/logger"

	"github.com/griffinm/jotter/internal/config"
	"github.com/griffinm/jotter/internal/domain/agent"
	"github.com/griffinm/jotter/internal/domain/conversation"
	"github.com/griffinm/jotter/internal/domain/note"
	"github.com/griffinm/jotter/internal/domain/task"
	"github.com/griffinm/jotter/internal/domain/tool"
	"github.com/griffinm/jotter/internal/infrastructure/database"
	"github.com/griffinm/jotter/internal/infrastructure/llmprovider"
	"github.com/griffinm/jotter/internal/infrastructure/logger"
	"github.com/griffinm/jotter/internal/infrastructure/metrics"
	"github.com/griffinm/jotter/internal/infrastructure/observability"
	"github.com/griffinm/jotter/internal/infrastructure/queue"
	conversationrepo "github.com/griffinm/jotter/internal/infrastructure/repository/conversation"
	noterepo "github.com/griffinm/jotter/internal/infrastructure/repository/note"
	taskrepo "github.com/griffinm/jotter/internal/infrastructure/repository/task"
	"github.com/griffinm/jotter/internal/infrastructure/websearch"
	"github.com/griffinm/jotter/internal/interfaces/httpserver"
	"github.com/griffinm/jotter/internal/worker"
)

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	m := metrics.New()

	conversationRepository := conversationrepo.NewRepository(db)
	itemRepository := conversationrepo.NewItemRepository(db)
	taskRepository := taskrepo.NewRepository(db)
	noteRepository := noterepo.NewRepository(db)

	taskService := task.NewService(taskRepository, log)
	noteService := note.NewService(noteRepository, log)
	searchClient := websearch.NewClient(cfg.SerperAPIKey, log)

	registry := tool.NewRegistry(taskService, noteService, searchClient, log)
	llmClient := llmprovider.NewClient(cfg.LLMAPIURL, cfg.LLMAPIKey)

	orchestrator := agent.NewOrchestrator(
		llmClient,
		registry,
		conversationRepository,
		itemRepository,
		m,
		agent.Options{
			Model:         cfg.LLMModel,
			MaxIterations: cfg.MaxToolIterations,
			MaxHistory:    cfg.MaxHistoryMessages,
			ToolTimeout:   cfg.ToolCallTimeout,
		},
		log,
	)

	messageQueue := queue.NewPostgresQueue(db, cfg.JobMaxAttempts, log)
	conversationService := conversation.NewService(conversationRepository, itemRepository, messageQueue, log)

	workerPool := worker.NewPool(
		messageQueue,
		orchestrator,
		conversationRepository,
		m,
		worker.Config{
			WorkerCount:  cfg.WorkerCount,
			PollInterval: cfg.JobPollInterval,
			JobTimeout:   cfg.JobTimeout,
		},
		log,
	)

	if err := workerPool.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("start worker pool")
	}
	defer workerPool.Stop()

	httpServer := httpserver.New(cfg, log, conversationService)
	if err := httpServer.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
