// Command ragquery answers one question against the indexed module
// handbook and prints the answer record as a single JSON line on stdout.
//
// Usage: ragquery <question> [history-json] [mode]
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JeWeidn/tkc-Chatbot/internal/bootstrap"
	"github.com/JeWeidn/tkc-Chatbot/internal/config"
	"github.com/JeWeidn/tkc-Chatbot/internal/core/domain"
	"github.com/JeWeidn/tkc-Chatbot/internal/observability/logging"
)

func main() {
	if len(os.Args) < 2 || os.Args[1] == "" {
		fmt.Fprintln(os.Stderr, "usage: ragquery <question> [history-json] [mode]")
		os.Exit(2)
	}
	question := os.Args[1]

	cfg := config.Load()
	logger := logging.NewJSONLogger("ragquery", cfg.LogLevel)

	history := parseHistory(argOr(2, "[]"), logger)
	mode := domain.Mode(argOr(3, string(domain.ModeInterview)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		if domain.IsKind(err, domain.ErrIndexUnavailable) {
			logger.Error("index_unavailable", "hint", "run the indexer first", "error", err)
		} else {
			logger.Error("bootstrap_failed", "error", err)
		}
		_ = emit(domain.FallbackAnswerRecord(err))
		os.Exit(1)
	}
	defer app.Close()

	runCtx, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	record, err := app.AnswerUC.Answer(runCtx, question, history, mode)
	if err != nil {
		logger.Error("answer_failed", "error", err)
		record = domain.FallbackAnswerRecord(err)
	}

	if err := emit(record); err != nil {
		logger.Error("emit_failed", "error", err)
		os.Exit(1)
	}
}

func argOr(i int, fallback string) string {
	if len(os.Args) > i && os.Args[i] != "" {
		return os.Args[i]
	}
	return fallback
}

// parseHistory tolerates malformed transcripts: frontend bugs must not
// take the answer path down, so bad JSON degrades to an empty history.
func parseHistory(raw string, logger *slog.Logger) []domain.Turn {
	var turns []domain.Turn
	if err := json.Unmarshal([]byte(raw), &turns); err != nil {
		logger.Warn("history_unparseable", "error", err)
		return nil
	}
	return turns
}

func emit(record *domain.AnswerRecord) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	return enc.Encode(record)
}
