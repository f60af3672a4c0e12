package farm

import (
	"errors"
	"strings"
	"time"

	"github.com/jeanpaul/krishisakhi/internal/store"
)

// ErrEmptyActivity rejects blank log entries before anything is persisted.
var ErrEmptyActivity = errors.New("activity text is empty")

// TimeLayout is the fixed-width, lexicographically sortable stamp format.
// Minute resolution, local wall clock.
const TimeLayout = "2006-01-02 15:04"

const (
	// DefaultRecent is how many entries the log view shows.
	DefaultRecent = 5
	// AdvisoryRecent is how many entries feed advisory context.
	AdvisoryRecent = 3
)

const logSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"activity": {"type": "string"},
			"time":     {"type": "string"}
		},
		"required": ["activity", "time"],
		"additionalProperties": false
	}
}`

// Entry is one timestamped farming action. Entries are immutable once
// appended.
type Entry struct {
	Activity string `json:"activity"`
	Time     string `json:"time"`
}

// Log is the append-only activity sequence. The full history is retained on
// disk indefinitely; only views truncate.
type Log struct {
	store   *store.Store
	name    string
	now     func() time.Time
	entries []Entry
}

// OpenLog loads the activity document and binds it to a store. The now
// function stamps new entries; pass time.Now outside tests.
func OpenLog(s *store.Store, name string, now func() time.Time) (*Log, error) {
	if err := s.RegisterSchema(name, logSchema); err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	l := &Log{store: s, name: name, now: now}
	if _, err := s.Load(name, &l.entries); err != nil {
		return nil, err
	}
	return l, nil
}

// Append validates, stamps, and persists a new entry. Blank text returns
// ErrEmptyActivity with the log and its file untouched.
func (l *Log) Append(activity string) (Entry, error) {
	activity = strings.TrimSpace(activity)
	if activity == "" {
		return Entry{}, ErrEmptyActivity
	}

	entry := Entry{Activity: activity, Time: l.now().Format(TimeLayout)}
	appended := append(l.entries, entry)
	if err := l.store.Save(l.name, appended); err != nil {
		return Entry{}, err
	}
	l.entries = appended
	return entry, nil
}

// Recent returns the last n entries, most recent first. The underlying
// sequence is not mutated.
func (l *Log) Recent(n int) []Entry {
	if n <= 0 {
		n = DefaultRecent
	}
	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Entry, n)
	for i := 0; i < n; i++ {
		out[i] = l.entries[len(l.entries)-1-i]
	}
	return out
}

// Latest returns the most recent entry, if any.
func (l *Log) Latest() (Entry, bool) {
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Len is the count of all entries ever appended.
func (l *Log) Len() int { return len(l.entries) }
