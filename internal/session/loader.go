package session

import "time"

// Load is the result of one ingestion run: the chosen source's discovery and
// parse output, or an empty fallback when nothing was found.
type Load struct {
	Source      string  `json:"source"`
	SessionDate string  `json:"session_date"`
	SessionDir  string  `json:"session_dir"`
	LatestFile  string  `json:"latest_file,omitempty"`
	Events      []Event `json:"events"`
	Error       string  `json:"error,omitempty"`
}

// HasResults reports whether the load found anything worth keeping.
func (l *Load) HasResults() bool {
	return l.LatestFile != "" || len(l.Events) > 0
}

// Loader queries an ordered list of sources and returns the first one that
// produces results. Discovery and parse problems never abort a run; they
// accumulate into the returned load's advisory error text.
type Loader struct {
	sources []Source
}

func NewLoader(sources ...Source) *Loader {
	return &Loader{sources: sources}
}

// LoadToday runs ingestion for the current moment.
func (l *Loader) LoadToday() Load {
	return l.LoadAt(time.Now())
}

// LoadAt runs ingestion for the given moment. The first source returning a
// discovered file or at least one event wins; its error text is merged with
// the soft errors of every skipped source, each prefixed with the source's
// label. When no source produces results, the last attempted source's empty
// load carries all accumulated errors.
func (l *Loader) LoadAt(now time.Time) Load {
	var aggregated string
	var last Load
	attempted := false

	for _, source := range l.sources {
		load := loadFromSource(source, now)
		if load.HasResults() {
			load.Error = mergeErrorText(load.Error, aggregated)
			return load
		}
		if load.Error != "" {
			aggregated = mergeErrorText(aggregated, load.Source+": "+load.Error)
			load.Error = ""
		}
		last = load
		attempted = true
	}

	if !attempted {
		last = Load{
			Source:      "unknown",
			SessionDate: now.Format("2006-01-02"),
		}
	}
	last.Error = mergeErrorText(last.Error, aggregated)
	return last
}

func loadFromSource(source Source, now time.Time) Load {
	dir := source.SessionDir(now)
	latest, findErr := source.FindLatestFile(dir)

	var events []Event
	var parseErr error
	if latest != "" {
		events, parseErr = source.ParseEvents(latest)
	}

	load := Load{
		Source:      source.Label(),
		SessionDate: source.SessionDate(latest, now),
		SessionDir:  dir,
		LatestFile:  latest,
		Events:      events,
	}
	if findErr != nil {
		load.Error = mergeErrorText(load.Error, findErr.Error())
	}
	if parseErr != nil {
		load.Error = mergeErrorText(load.Error, parseErr.Error())
	}
	return load
}
