package health

import (
	"context"
	"time"
)

type EntityType string

const (
	EntityStore     EntityType = "store"
	EntityGenerator EntityType = "generator"
)

type Status string

const (
	StatusOk      Status = "OK"
	StatusError   Status = "ERROR"
	StatusUnknown Status = "UNKNOWN"
)

// ProbeResult is the liveness answer for GET /health. The probe itself never
// fails: an unreachable store is reported, not raised.
type ProbeResult struct {
	Status string `json:"status"`
	Store  string `json:"store"` // connected | disconnected
}

type HealthRecord struct {
	ID          string     `json:"id"`
	EntityType  EntityType `json:"entity_type"`
	EntityID    string     `json:"entity_id"`
	Status      Status     `json:"status"`
	LastMessage string     `json:"last_message"`
	LastChecked time.Time  `json:"last_checked"`
	LastSuccess *time.Time `json:"last_success,omitempty"`
}

// Probeable is any collaborator that can answer a cheap liveness check.
type Probeable interface {
	Healthcheck(ctx context.Context) error
}

type IHealthUsecase interface {
	Probe(ctx context.Context) ProbeResult
	CheckStore(ctx context.Context) (HealthRecord, error)
	CheckGenerator(ctx context.Context) (HealthRecord, error)
	CheckAll(ctx context.Context) ([]HealthRecord, error)
	History(ctx context.Context) ([]HealthRecord, error)
	StartPeriodicChecks(ctx context.Context)
}
