package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/agent"
	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/barge"
	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/checkpoint"
	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/config"
	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/httpserver"
	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/llm"
	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/rag"
	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/stock"
	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/voice"
)

func main() {
	// Include sub-second precision in all log timestamps
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store *rag.PGStore
	if cfg.DBConnectionString != "" {
		pool, err := pgxpool.New(ctx, cfg.DBConnectionString)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer pool.Close()
		store = rag.NewPGStore(pool, cfg.KnowledgeTable)
	} else {
		log.Println("running without catalog database; searches will fail gracefully")
	}

	var stockLookup rag.StockLookup
	if cfg.StockFeedPath != "" {
		monitor := stock.NewMonitor(cfg.StockFeedPath, cfg.StockPollInterval)
		if err := monitor.Load(); err != nil {
			log.Printf("initial stock load failed: %v", err)
		}
		go monitor.Run(ctx)
		stockLookup = monitor
	}

	openAI := llm.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.ChatModel)

	var searcher rag.Searcher
	if store != nil {
		searcher = store
	}
	pipeline := rag.NewPipeline(openAI, searcher, stockLookup)

	var checkpoints agent.Checkpointer
	if cfg.SupabaseURL != "" && cfg.SupabaseKey != "" {
		cp, err := checkpoint.NewSupabaseStore(checkpoint.Config{
			URL:            cfg.SupabaseURL,
			ServiceRoleKey: cfg.SupabaseKey,
			Table:          cfg.CheckpointTable,
		})
		if err != nil {
			log.Fatalf("failed to create checkpoint store: %v", err)
		}
		checkpoints = cp
	} else {
		checkpoints = checkpoint.NewMemoryStore()
	}

	graph := agent.NewGraph(agent.NewResolver(), pipeline, agent.NewSynthesizer(openAI))
	registry := agent.NewRegistry(graph, checkpoints)

	voiceHandler := voice.NewHandler(registry, barge.NewClassifier(barge.DefaultSpanish()))
	tokens := voice.NewTokenClient(cfg.OpenAIKey, cfg.RealtimeModel, cfg.RealtimeVoice, agent.PersonaPrompt)

	e := httpserver.New()
	var probe httpserver.DBProbe
	if store != nil {
		probe = store
	}
	httpserver.NewHandlers(registry, voiceHandler, tokens, probe).Register(e)

	server := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in background
	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s", cfg.HTTPAddress)
		serverErrors <- server.ListenAndServe()
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	case sig := <-sigChan:
		log.Printf("shutdown signal received: %v", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = server.Close()
	}
}
