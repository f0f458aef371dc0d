package mqtt

import (
	"context"

	"github.com/kilianp07/solarcar/core/history"
	"github.com/kilianp07/solarcar/core/model"
)

// Publisher broadcasts calculation records to subscribers such as team
// dashboards or the chase car.
type Publisher interface {
	PublishRecord(ctx context.Context, rec history.Record) error
}

// CalculateFunc answers a calculation request received over the broker.
type CalculateFunc func(ctx context.Context, sc model.ScenarioType, form map[string]string) (history.Record, error)

// NopPublisher drops every record.
type NopPublisher struct{}

func (NopPublisher) PublishRecord(context.Context, history.Record) error { return nil }
