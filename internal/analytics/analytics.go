// Package analytics rolls persisted generation and attempt rows into a
// fixed-window daily time series with running unique-group counts.
package analytics

import (
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// QuestionTotal is the per-date sum of generated quiz questions.
type QuestionTotal struct {
	Date      string
	Questions int
}

// AttemptTotal is the per-date attempt aggregate.
type AttemptTotal struct {
	Date     string
	Correct  int
	Attempts int
}

// GroupRecord ties one generated group name to its session date.
type GroupRecord struct {
	Date  string
	Group string
}

// DailyAnalytics is one calendar day inside the reporting window.
type DailyAnalytics struct {
	Date             string `json:"date"`
	TotalQuestions   int    `json:"total_questions"`
	FirstTryCorrect  int    `json:"first_try_correct"`
	TotalAttempts    int    `json:"total_attempts"`
	CumulativeGroups int    `json:"cumulative_groups"`
}

// Snapshot is the aggregated view over one trailing window plus the
// unwindowed group catalog.
type Snapshot struct {
	Daily                []DailyAnalytics `json:"daily"`
	TotalQuestions       int              `json:"total_questions"`
	TotalFirstTryCorrect int              `json:"total_first_try_correct"`
	TotalAttempts        int              `json:"total_attempts"`
	KnowledgeGroups      []string         `json:"knowledge_groups"`
}

// WindowStart returns the first date of a trailing window of the given
// length ending today, formatted for comparison against session dates.
func WindowStart(today time.Time, days int) string {
	if days < 1 {
		days = 1
	}
	return today.AddDate(0, 0, -(days - 1)).Format(dateLayout)
}

// Aggregate builds the daily series for a trailing window ending today.
// Every calendar day in the window gets an entry, zero-filled when no rows
// exist for it. CumulativeGroups carries the running size of the union of
// group names seen up to and including each day. The catalog is passed
// through deduplicated and sorted.
func Aggregate(today time.Time, days int, questions []QuestionTotal, attempts []AttemptTotal, groups []GroupRecord, catalog []string) Snapshot {
	if days < 1 {
		days = 1
	}

	questionsByDate := make(map[string]int, len(questions))
	snapshot := Snapshot{}
	for _, row := range questions {
		questionsByDate[row.Date] += row.Questions
		snapshot.TotalQuestions += row.Questions
	}

	correctByDate := make(map[string]int, len(attempts))
	attemptsByDate := make(map[string]int, len(attempts))
	for _, row := range attempts {
		correctByDate[row.Date] += row.Correct
		attemptsByDate[row.Date] += row.Attempts
		snapshot.TotalFirstTryCorrect += row.Correct
		snapshot.TotalAttempts += row.Attempts
	}

	groupsByDate := make(map[string]map[string]struct{})
	for _, row := range groups {
		set := groupsByDate[row.Date]
		if set == nil {
			set = make(map[string]struct{})
			groupsByDate[row.Date] = set
		}
		set[row.Group] = struct{}{}
	}

	start := today.AddDate(0, 0, -(days - 1))
	cumulative := make(map[string]struct{})
	snapshot.Daily = make([]DailyAnalytics, 0, days)
	for offset := 0; offset < days; offset++ {
		date := start.AddDate(0, 0, offset).Format(dateLayout)
		for group := range groupsByDate[date] {
			cumulative[group] = struct{}{}
		}
		snapshot.Daily = append(snapshot.Daily, DailyAnalytics{
			Date:             date,
			TotalQuestions:   questionsByDate[date],
			FirstTryCorrect:  correctByDate[date],
			TotalAttempts:    attemptsByDate[date],
			CumulativeGroups: len(cumulative),
		})
	}

	seen := make(map[string]struct{}, len(catalog))
	names := make([]string, 0, len(catalog))
	for _, group := range catalog {
		if _, ok := seen[group]; ok {
			continue
		}
		seen[group] = struct{}{}
		names = append(names, group)
	}
	sort.Strings(names)
	snapshot.KnowledgeGroups = names

	return snapshot
}
