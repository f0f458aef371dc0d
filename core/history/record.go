package history

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/solarcar/core/model"
)

// Record captures one calculation: what was asked, what came out.
type Record struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Scenario  model.ScenarioType `json:"scenario"`
	Vehicle   string             `json:"vehicle"`
	Form      map[string]string  `json:"form"`
	Outcome   string             `json:"outcome"`
	Status    string             `json:"status"`
	Result    *model.Result      `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// NewRecord stamps a fresh record with a random ID and the current time.
func NewRecord(sc model.ScenarioType, vehicle string, form map[string]string) Record {
	cp := make(map[string]string, len(form))
	for k, v := range form {
		cp[k] = v
	}
	return Record{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Scenario:  sc,
		Vehicle:   vehicle,
		Form:      cp,
	}
}

// Query defines filters for retrieving records. Zero values match anything.
type Query struct {
	Start    time.Time
	End      time.Time
	Scenario string
	Outcome  string
	// Limit keeps only the most recent records when positive.
	Limit int
}

// Matches reports whether r passes every filter of q except Limit.
func (q Query) Matches(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Scenario != "" && r.Scenario.String() != q.Scenario {
		return false
	}
	if q.Outcome != "" && r.Outcome != q.Outcome {
		return false
	}
	return true
}

// finish orders records chronologically and applies the limit.
func (q Query) finish(res []Record) []Record {
	sort.SliceStable(res, func(i, j int) bool { return res[i].Timestamp.Before(res[j].Timestamp) })
	if q.Limit > 0 && len(res) > q.Limit {
		res = res[len(res)-q.Limit:]
	}
	return res
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}
