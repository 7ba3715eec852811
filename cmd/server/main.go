// Copyright (c) 2026 Steve Jovs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// RAG Gmail — API Server
//
// Entry point for the RAG service. It:
//  1. Loads configuration from config.yaml / .env / environment
//  2. Connects to Redis (query cache) and Postgres (query history) if configured
//  3. Builds the OAuth session, the language model client, and the pipeline
//  4. Serves the query and auth endpoints
//  5. Handles graceful shutdown on SIGTERM/SIGINT
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Steve-Jovs/rag-gmail-project/internal/answer"
	"github.com/Steve-Jovs/rag-gmail-project/internal/api"
	"github.com/Steve-Jovs/rag-gmail-project/internal/auth"
	"github.com/Steve-Jovs/rag-gmail-project/internal/config"
	"github.com/Steve-Jovs/rag-gmail-project/internal/history"
	"github.com/Steve-Jovs/rag-gmail-project/internal/llm"
	"github.com/Steve-Jovs/rag-gmail-project/internal/qcache"
	"github.com/Steve-Jovs/rag-gmail-project/internal/query"
	"github.com/Steve-Jovs/rag-gmail-project/internal/rag"
)

func main() {
	// Structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	slog.Info("starting RAG Gmail API server")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Redis (optional, translated-query cache) ---
	var cache *qcache.Cache
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		rdb = redis.NewClient(opt)
		cache = qcache.New(rdb, cfg.QueryCacheTTL)
		if err := cache.Ping(ctx); err != nil {
			slog.Error("failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		slog.Info("connected to Redis")
	} else {
		slog.Info("query cache disabled (no REDIS_URL)")
	}

	// --- Postgres (optional, query history) ---
	var hist *history.Store
	var pgPool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pgPool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to create Postgres pool", "error", err)
			os.Exit(1)
		}
		hist, err = history.NewStore(ctx, pgPool)
		if err != nil {
			slog.Error("failed to initialise query history store", "error", err)
			os.Exit(1)
		}
		slog.Info("connected to PostgreSQL")
	} else {
		slog.Info("query history disabled (no DATABASE_URL)")
	}

	// --- OAuth session ---
	session, err := auth.NewSession(cfg.CredentialsFile, cfg.TokenFile)
	if err != nil {
		slog.Error("failed to load OAuth credentials", "error", err)
		os.Exit(1)
	}

	// --- Language model ---
	var completer llm.Completer = llm.Disabled{}
	if cfg.LLMAPIKey != "" {
		completer = llm.NewClient(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel)
		slog.Info("language model configured", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModel)
	} else {
		slog.Warn("DEEPSEEK_API_KEY not set — running on deterministic fallbacks only")
	}

	// --- Pipeline + HTTP server ---
	pipeline := rag.New(
		query.NewTranslator(completer, cache),
		answer.NewSynthesizer(completer),
	)
	server := api.NewServer(session, pipeline, hist, cache)

	ready, err := api.Serve(ctx, cfg.Port, server)
	if err != nil {
		slog.Error("failed to start api server", "error", err)
		os.Exit(1)
	}
	<-ready
	slog.Info("RAG Gmail API server ready", "port", cfg.Port)

	// --- Graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigCh

	slog.Info("received shutdown signal", "signal", sig)
	cancel()

	if rdb != nil {
		rdb.Close()
	}
	if pgPool != nil {
		pgPool.Close()
	}

	slog.Info("RAG Gmail API server stopped")
}
