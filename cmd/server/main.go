package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/coderecall/backend/internal/api"
	"github.com/coderecall/backend/internal/generator"
	"github.com/coderecall/backend/internal/infrastructure/config"
	"github.com/coderecall/backend/internal/service"
	"github.com/coderecall/backend/internal/session"
	"github.com/coderecall/backend/internal/store"
	"github.com/coderecall/backend/internal/summary"

	_ "github.com/coderecall/backend/docs" // generated swagger docs
)

// @title           CodeRecall API
// @version         1.0
// @description     Turn your coding-assistant session logs into quizzes — summarize today's activity, generate knowledge groups with AI, and track how well you retain them.

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	loader, err := buildLoader(cfg)
	if err != nil {
		logger.Error("failed to configure session sources", "error", err)
		os.Exit(1)
	}

	rules := summary.NewRules(cfg.MaxEvents)
	writer := summary.NewWriter(cfg.OutputDir, rules)
	llm := generator.NewOpenAIGenerator(cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.OpenAIAPIKey, cfg.MinQuizQuestions)

	learningSvc := service.NewLearningService(loader, writer, llm, db, cfg.OutputDir, cfg.WriteArtifacts, logger)
	handler := api.NewHandler(learningSvc, logger, cfg.AnalyticsDays)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}

// buildLoader assembles the ordered source list. The configured source is
// queried first; the other tool's logs act as a fallback when it yields
// nothing for today.
func buildLoader(cfg *config.Config) (*session.Loader, error) {
	rootFor := func(kind session.SourceKind) string {
		if kind == session.SourceCodex {
			return cfg.CodexRoot
		}
		return cfg.ClaudeCodeRoot
	}

	primary := session.SourceKind(cfg.SessionSource)
	secondary := session.SourceClaudeCode
	if primary == session.SourceClaudeCode {
		secondary = session.SourceCodex
	}

	first, err := session.NewSource(primary, rootFor(primary))
	if err != nil {
		return nil, err
	}
	second, err := session.NewSource(secondary, rootFor(secondary))
	if err != nil {
		return nil, err
	}
	return session.NewLoader(first, second), nil
}
