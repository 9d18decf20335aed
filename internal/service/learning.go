// internal/service/learning.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/coderecall/backend/internal/analytics"
	"github.com/coderecall/backend/internal/domain/knowledge"
	"github.com/coderecall/backend/internal/generator"
	"github.com/coderecall/backend/internal/quiz"
	"github.com/coderecall/backend/internal/session"
	"github.com/coderecall/backend/internal/store"
	"github.com/coderecall/backend/internal/summary"
	"github.com/coderecall/backend/internal/worker"
)

var (
	// ErrGenerationInFlight is returned when a trigger arrives while a
	// generation run is still outstanding. The duplicate is rejected, not
	// queued.
	ErrGenerationInFlight = errors.New("generation already in progress")

	// ErrNoLearningContent is returned when no generated response exists
	// yet.
	ErrNoLearningContent = errors.New("no learning content generated")
)

// Store is the persistence surface the learning service needs.
type Store interface {
	quiz.AttemptRecorder
	RecordGeneration(sessionDate string, response *knowledge.Response) error
	LatestGeneration() (string, *knowledge.Response, error)
	QuestionTotalsSince(start string) ([]analytics.QuestionTotal, error)
	AttemptTotalsSince(start string) ([]analytics.AttemptTotal, error)
	GroupRecordsSince(start string) ([]analytics.GroupRecord, error)
	DistinctGroups() ([]string, error)
}

// Status describes the generation lifecycle for status endpoints.
type Status struct {
	RunID      string `json:"run_id,omitempty"`
	InFlight   bool   `json:"in_flight"`
	StatusLine string `json:"status_line,omitempty"`
	LastError  string `json:"last_error,omitempty"`
}

// generationOutcome is what a background run delivers back to the service.
type generationOutcome struct {
	sessionDate string
	response    *knowledge.Response
	err         error
}

// LearningService coordinates session loading, background generation, the
// quiz state machine, and analytics. All mutable state is guarded by one
// mutex; generation itself runs on the worker pool and reports back through
// the results channel, drained by Poll.
type LearningService struct {
	loader    *session.Loader
	writer    *summary.Writer
	generator generator.Generator
	store     Store
	logger    *slog.Logger

	outputDir      string
	writeArtifacts bool

	pool *worker.Pool[generationOutcome]
	rng  *rand.Rand

	mu          sync.Mutex
	inFlight    bool
	runID       string
	statusLine  string
	lastError   string
	sessionDate string
	response    *knowledge.Response
	machine     *quiz.Machine
}

// NewLearningService wires the collaborators together. The most recently
// persisted response, if any, is restored so quiz state survives restarts.
func NewLearningService(
	loader *session.Loader,
	writer *summary.Writer,
	gen generator.Generator,
	st Store,
	outputDir string,
	writeArtifacts bool,
	logger *slog.Logger,
) *LearningService {
	ls := &LearningService{
		loader:         loader,
		writer:         writer,
		generator:      gen,
		store:          st,
		logger:         logger,
		outputDir:      outputDir,
		writeArtifacts: writeArtifacts,
		pool:           worker.NewPool[generationOutcome](1, 1),
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	sessionDate, response, err := st.LatestGeneration()
	switch {
	case err == nil:
		ls.sessionDate = sessionDate
		ls.response = response
		ls.machine = quiz.NewMachine(response, sessionDate, st)
		logger.Info("restored learning response",
			"session_date", sessionDate,
			"groups", len(response.Groups),
		)
	case errors.Is(err, store.ErrNotFound):
		// Nothing persisted yet.
	default:
		logger.Error("failed to restore learning response", "error", err)
	}

	return ls
}

// ============================================================================
// Session loading
// ============================================================================

// LoadSession discovers and parses today's activity log, returning the load
// plus the rendered digest artifact.
func (ls *LearningService) LoadSession() (*session.Load, summary.Artifact) {
	loaded := ls.loader.LoadToday()
	load := &loaded
	artifact := ls.writer.WriteDigest(load, ls.writeArtifacts)
	if artifact.Error != "" {
		ls.logger.Warn("digest write failed", "error", artifact.Error)
	}
	if load.Error != "" {
		ls.logger.Warn("session load finished with issues", "error", load.Error)
	}
	return load, artifact
}

// ============================================================================
// Generation lifecycle
// ============================================================================

// TriggerGeneration starts one background generation run over today's
// session digest. A second trigger while one is outstanding returns
// ErrGenerationInFlight.
func (ls *LearningService) TriggerGeneration() (string, error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.inFlight {
		return "", ErrGenerationInFlight
	}

	load, artifact := ls.LoadSession()
	sessionDate := load.SessionDate
	content := artifact.Content

	runID := uuid.NewString()
	ls.inFlight = true
	ls.runID = runID
	ls.statusLine = "Generating learning content..."
	ls.lastError = ""

	ls.logger.Info("generation started", "run_id", runID, "session_date", sessionDate)

	ls.pool.Submit(runID, func() generationOutcome {
		// Generation runs in the background and must not be cancelled by
		// the originating HTTP request ending.
		response, err := ls.generator.Generate(context.Background(), content)
		return generationOutcome{sessionDate: sessionDate, response: response, err: err}
	})

	return runID, nil
}

// Poll drains at most one finished generation run. It never blocks; callers
// invoke it before reading learning state.
func (ls *LearningService) Poll() {
	select {
	case result := <-ls.pool.Results():
		ls.finishRun(result.JobID, result.Output)
	default:
	}
}

func (ls *LearningService) finishRun(runID string, outcome generationOutcome) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	ls.inFlight = false

	if outcome.err != nil {
		ls.lastError = outcome.err.Error()
		ls.statusLine = "AI generation failed"
		ls.logger.Error("generation failed", "run_id", runID, "error", outcome.err)
		return
	}

	response := outcome.response
	response.ShuffleOptions(ls.rng)

	parts := make([]string, 0, 3)
	if err := ls.store.RecordGeneration(outcome.sessionDate, response); err != nil {
		// The in-memory response stays usable even when persistence fails.
		ls.lastError = mergeErrorText(ls.lastError, err.Error())
		ls.logger.Error("failed to persist learning response", "run_id", runID, "error", err)
	}

	if path, err := ls.writeResponseArtifact(outcome.sessionDate, response); err != nil {
		ls.lastError = mergeErrorText(ls.lastError, fmt.Sprintf("failed to save learning response: %v", err))
		parts = append(parts, "Failed to save learning response")
		ls.logger.Error("failed to write learning response artifact", "run_id", runID, "error", err)
	} else if path != "" {
		parts = append(parts, fmt.Sprintf("Saved to %s", path))
	}

	parts = append(parts,
		fmt.Sprintf("Knowledge groups: %d", len(response.Groups)),
		fmt.Sprintf("Total quiz questions: %d", response.TotalQuestions()),
	)
	ls.statusLine = strings.Join(parts, " • ")

	ls.sessionDate = outcome.sessionDate
	ls.response = response
	ls.machine = quiz.NewMachine(response, outcome.sessionDate, ls.store)

	ls.logger.Info("generation finished",
		"run_id", runID,
		"session_date", outcome.sessionDate,
		"groups", len(response.Groups),
		"questions", response.TotalQuestions(),
	)
}

// writeResponseArtifact persists the structured response as JSON next to the
// markdown digests. Existing files are never overwritten; a numeric suffix
// disambiguates repeat runs on the same date.
func (ls *LearningService) writeResponseArtifact(sessionDate string, response *knowledge.Response) (string, error) {
	if !ls.writeArtifacts {
		return "", nil
	}

	if err := os.MkdirAll(ls.outputDir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(ls.outputDir, fmt.Sprintf("learning-response-%s.json", sessionDate))
	for counter := 2; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		path = filepath.Join(ls.outputDir, fmt.Sprintf("learning-response-%s-%d.json", sessionDate, counter))
	}

	serialized, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Status reports the generation lifecycle.
func (ls *LearningService) Status() Status {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return Status{
		RunID:      ls.runID,
		InFlight:   ls.inFlight,
		StatusLine: ls.statusLine,
		LastError:  ls.lastError,
	}
}

// ============================================================================
// Learning content and quiz
// ============================================================================

// Current returns the active response, its session date, and the quiz
// cursor state.
func (ls *LearningService) Current() (string, *knowledge.Response, quiz.State, error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.response == nil {
		return "", nil, quiz.State{}, ErrNoLearningContent
	}
	return ls.sessionDate, ls.response, ls.machine.State(), nil
}

// ApplyQuizAction feeds one input to the state machine and returns the
// resulting cursor state. Attempt-recording failures are logged, not
// surfaced; the quiz keeps working without persistence.
func (ls *LearningService) ApplyQuizAction(action quiz.Action) (quiz.State, error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.machine == nil {
		return quiz.State{}, ErrNoLearningContent
	}
	if err := ls.machine.Apply(action); err != nil {
		ls.logger.Error("failed to record quiz attempt", "action", action, "error", err)
	}
	return ls.machine.State(), nil
}

// ============================================================================
// Analytics
// ============================================================================

// Analytics builds the daily series for a trailing window of the given
// length ending today.
func (ls *LearningService) Analytics(days int) (analytics.Snapshot, error) {
	today := time.Now()
	start := analytics.WindowStart(today, days)

	questions, err := ls.store.QuestionTotalsSince(start)
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("loading question totals: %w", err)
	}
	attempts, err := ls.store.AttemptTotalsSince(start)
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("loading attempt totals: %w", err)
	}
	groups, err := ls.store.GroupRecordsSince(start)
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("loading group records: %w", err)
	}
	catalog, err := ls.store.DistinctGroups()
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("loading group catalog: %w", err)
	}

	return analytics.Aggregate(today, days, questions, attempts, groups, catalog), nil
}

func mergeErrorText(existing, message string) string {
	if existing == "" {
		return message
	}
	if message == "" {
		return existing
	}
	return existing + " | " + message
}
