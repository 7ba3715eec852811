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

// RAG Gmail — One-shot Query Command
//
// Standalone CLI tool that runs a single natural-language question against
// the authenticated mailbox and prints the answer. Useful for smoke-testing
// a deployment without the HTTP frontend.
//
// Usage:
//
//	go run ./cmd/ask/ --query "emails from amazon last week" [--max 10]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/Steve-Jovs/rag-gmail-project/internal/answer"
	"github.com/Steve-Jovs/rag-gmail-project/internal/auth"
	"github.com/Steve-Jovs/rag-gmail-project/internal/config"
	"github.com/Steve-Jovs/rag-gmail-project/internal/llm"
	"github.com/Steve-Jovs/rag-gmail-project/internal/mailbox"
	"github.com/Steve-Jovs/rag-gmail-project/internal/models"
	"github.com/Steve-Jovs/rag-gmail-project/internal/query"
	"github.com/Steve-Jovs/rag-gmail-project/internal/rag"
)

func main() {
	// Human-readable logging for terminal use
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	queryFlag := flag.String("query", "", "Natural-language question (required)")
	maxFlag := flag.Int("max", models.DefaultMaxResults, "Maximum number of emails to retrieve")
	flag.Parse()

	if *queryFlag == "" {
		fmt.Fprintln(os.Stderr, "error: --query is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	session, err := auth.NewSession(cfg.CredentialsFile, cfg.TokenFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: load OAuth credentials: %v\n", err)
		os.Exit(1)
	}

	provider, err := session.Provider(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: not authenticated — run the server and complete the Gmail OAuth flow first")
		os.Exit(1)
	}

	var completer llm.Completer = llm.Disabled{}
	if cfg.LLMAPIKey != "" {
		completer = llm.NewClient(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel)
	}

	pipeline := rag.New(
		query.NewTranslator(completer, nil),
		answer.NewSynthesizer(completer),
	)

	result, err := pipeline.Run(ctx, provider, models.QueryRequest{
		NaturalQuery: *queryFlag,
		MaxResults:   *maxFlag,
	})
	if err != nil {
		if errors.Is(err, mailbox.ErrNotAuthenticated) {
			fmt.Fprintln(os.Stderr, "error: Gmail session expired — re-authenticate")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(result.Answer)
	fmt.Println()
	fmt.Printf("Searched with: %s (%d emails in %s)\n",
		result.Metadata.GmailQueryUsed,
		result.Metadata.EmailsFound,
		result.Metadata.ProcessingTime,
	)
	for _, src := range result.Sources {
		fmt.Printf("  - %s — %s\n", src.Subject, src.Sender)
	}
}
