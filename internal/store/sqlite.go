// internal/store/sqlite.go
package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/coderecall/backend/internal/analytics"
	"github.com/coderecall/backend/internal/domain/knowledge"
)

const schema = `
CREATE TABLE IF NOT EXISTS knowledge_responses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    session_date TEXT NOT NULL,
    recorded_at TEXT NOT NULL,
    knowledge_type_group TEXT NOT NULL,
    summary TEXT NOT NULL,
    knowledge_type_language TEXT NOT NULL,
    quiz_json TEXT NOT NULL,
    quiz_question_count INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_knowledge_responses_session_date
    ON knowledge_responses(session_date);

CREATE TABLE IF NOT EXISTS quiz_attempts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_date TEXT NOT NULL,
    recorded_at TEXT NOT NULL,
    knowledge_type_group TEXT NOT NULL,
    knowledge_type_language TEXT,
    question TEXT NOT NULL,
    first_try_correct INTEGER NOT NULL,
    UNIQUE(session_date, knowledge_type_group, question)
);

CREATE INDEX IF NOT EXISTS idx_quiz_attempts_session_date
    ON quiz_attempts(session_date);
`

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Generated content
// ============================================================================

// RecordGeneration persists one row per knowledge group, all tagged with the
// same run id so the batch can be read back as a unit. Responses without
// groups are not persisted at all.
func (s *SQLiteStore) RecordGeneration(sessionDate string, response *knowledge.Response) error {
	if response == nil || len(response.Groups) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	runID := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	for i := range response.Groups {
		group := &response.Groups[i]
		quizJSON, err := json.Marshal(group.Quiz)
		if err != nil {
			return err
		}
		_, err = tx.Exec(
			`INSERT INTO knowledge_responses (
				run_id,
				session_date,
				recorded_at,
				knowledge_type_group,
				summary,
				knowledge_type_language,
				quiz_json,
				quiz_question_count
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, sessionDate, now, group.Name, group.Summary, group.Language,
			string(quizJSON), len(group.Quiz),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LatestGeneration returns the most recently persisted response, rebuilt
// from the rows of its run only. A repeat generation on the same date
// replaces the restored tree wholesale rather than merging with earlier
// runs. ErrNotFound means nothing has been persisted yet.
func (s *SQLiteStore) LatestGeneration() (string, *knowledge.Response, error) {
	var sessionDate, runID string
	err := s.db.QueryRow(
		"SELECT session_date, run_id FROM knowledge_responses ORDER BY id DESC LIMIT 1",
	).Scan(&sessionDate, &runID)
	if err == sql.ErrNoRows {
		return "", nil, ErrNotFound
	}
	if err != nil {
		return "", nil, err
	}

	rows, err := s.db.Query(
		`SELECT knowledge_type_group, summary, knowledge_type_language, quiz_json
		 FROM knowledge_responses WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return "", nil, err
	}
	defer rows.Close()

	response := &knowledge.Response{}
	for rows.Next() {
		var group knowledge.Group
		var quizJSON string
		if err := rows.Scan(&group.Name, &group.Summary, &group.Language, &quizJSON); err != nil {
			return "", nil, err
		}
		if err := json.Unmarshal([]byte(quizJSON), &group.Quiz); err != nil {
			return "", nil, err
		}
		response.Groups = append(response.Groups, group)
	}
	if err := rows.Err(); err != nil {
		return "", nil, err
	}

	return sessionDate, response, nil
}

// ============================================================================
// Quiz attempts
// ============================================================================

// RecordFirstAttempt stores the outcome of the first attempt at a question.
// Later attempts for the same (session date, group, question) are ignored.
func (s *SQLiteStore) RecordFirstAttempt(sessionDate, group, language, question string, correct bool) error {
	now := time.Now().UTC().Format(time.RFC3339)

	lang := sql.NullString{String: language, Valid: language != ""}
	correctValue := 0
	if correct {
		correctValue = 1
	}

	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO quiz_attempts (
			session_date,
			recorded_at,
			knowledge_type_group,
			knowledge_type_language,
			question,
			first_try_correct
		) VALUES (?, ?, ?, ?, ?, ?)`,
		sessionDate, now, group, lang, question, correctValue,
	)
	return err
}

// ============================================================================
// Analytics queries
// ============================================================================

// QuestionTotalsSince sums generated question counts per session date, for
// dates at or after start.
func (s *SQLiteStore) QuestionTotalsSince(start string) ([]analytics.QuestionTotal, error) {
	rows, err := s.db.Query(
		`SELECT session_date, SUM(quiz_question_count) FROM knowledge_responses
		 WHERE session_date >= ? GROUP BY session_date`,
		start,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []analytics.QuestionTotal
	for rows.Next() {
		var total analytics.QuestionTotal
		if err := rows.Scan(&total.Date, &total.Questions); err != nil {
			return nil, err
		}
		totals = append(totals, total)
	}
	return totals, rows.Err()
}

// AttemptTotalsSince aggregates first attempts per session date, for dates
// at or after start.
func (s *SQLiteStore) AttemptTotalsSince(start string) ([]analytics.AttemptTotal, error) {
	rows, err := s.db.Query(
		`SELECT session_date, SUM(first_try_correct), COUNT(*) FROM quiz_attempts
		 WHERE session_date >= ? GROUP BY session_date`,
		start,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []analytics.AttemptTotal
	for rows.Next() {
		var total analytics.AttemptTotal
		if err := rows.Scan(&total.Date, &total.Correct, &total.Attempts); err != nil {
			return nil, err
		}
		totals = append(totals, total)
	}
	return totals, rows.Err()
}

// GroupRecordsSince lists (session date, group name) pairs for dates at or
// after start, one row per stored group.
func (s *SQLiteStore) GroupRecordsSince(start string) ([]analytics.GroupRecord, error) {
	rows, err := s.db.Query(
		`SELECT session_date, knowledge_type_group FROM knowledge_responses
		 WHERE session_date >= ?`,
		start,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []analytics.GroupRecord
	for rows.Next() {
		var record analytics.GroupRecord
		if err := rows.Scan(&record.Date, &record.Group); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// DistinctGroups lists every group name ever recorded, without a window.
func (s *SQLiteStore) DistinctGroups() ([]string, error) {
	rows, err := s.db.Query(
		"SELECT DISTINCT knowledge_type_group FROM knowledge_responses ORDER BY knowledge_type_group",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []string
	for rows.Next() {
		var group string
		if err := rows.Scan(&group); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}
