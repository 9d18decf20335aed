package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults applied when the corresponding environment variable is absent.
const (
	DefaultMaxEvents        = 15
	DefaultMinQuizQuestions = 5
	DefaultAnalyticsDays    = 30
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
	DatabasePath    string

	// Session log ingestion
	SessionSource  string // "codex" or "claude_code"
	CodexRoot      string // date-sharded root, e.g. ~/.codex/sessions
	ClaudeCodeRoot string // free-form recursive root, e.g. ~/.claude/projects
	MaxEvents      int    // events kept in the markdown digest

	// Output artifacts
	OutputDir      string
	WriteArtifacts bool

	// Quiz generation
	MinQuizQuestions int
	OpenAIBaseURL    string // OpenAI-compatible endpoint, e.g. "https://api.openai.com/v1"
	OpenAIModel      string // model name, e.g. "gpt-5-mini"
	OpenAIAPIKey     string

	// Analytics
	AnalyticsDays int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	home, _ := os.UserHomeDir()
	return &Config{
		ServerAddress:    getenvDefault("SERVER_ADDRESS", ":8080"),
		ShutdownTimeout:  getenvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		DatabasePath:     getenvDefault("DATABASE_PATH", "coderecall.db"),
		SessionSource:    getenvDefault("SESSION_SOURCE", "codex"),
		CodexRoot:        getenvDefault("CODEX_SESSION_ROOT", filepath.Join(home, ".codex", "sessions")),
		ClaudeCodeRoot:   getenvDefault("CLAUDE_CODE_ROOT", filepath.Join(home, ".claude", "projects")),
		MaxEvents:        getenvPositiveInt("MAX_EVENTS", DefaultMaxEvents),
		OutputDir:        getenvDefault("OUTPUT_DIR", "output"),
		WriteArtifacts:   getenvBool("WRITE_OUTPUT_ARTIFACTS", false),
		MinQuizQuestions: getenvPositiveInt("MIN_QUIZ_QUESTIONS", DefaultMinQuizQuestions),
		OpenAIBaseURL:    getenvDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:      getenvDefault("OPENAI_MODEL", "gpt-5-mini"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		AnalyticsDays:    getenvPositiveInt("ANALYTICS_DAYS", DefaultAnalyticsDays),
	}
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvPositiveInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid integer: %v", k, v, err)
	}
	if n < 1 {
		return fallback
	}
	return n
}

func getenvBool(k string, fallback bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid boolean: %v", k, v, err)
	}
	return b
}
