package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	domainCache "github.com/Rutvik2598/PostPolice/domains/cache"
	"github.com/Rutvik2598/PostPolice/domains/health"
)

type healthService struct {
	db        *sql.DB
	store     domainCache.SummaryStore
	generator health.Probeable
	interval  time.Duration
}

func initHealthStorageDB(storagesPath string) (*sql.DB, error) {
	dbPath := fmt.Sprintf("%s/postpolice.db", storagesPath)
	connStr := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, err
	}

	createHealthTable := `
		CREATE TABLE IF NOT EXISTS health_checks (
			id TEXT PRIMARY KEY,
			entity_type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			status TEXT NOT NULL,
			last_message TEXT,
			last_checked TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_success TIMESTAMP,
			UNIQUE(entity_type, entity_id)
		);
	`

	if _, err := db.Exec(createHealthTable); err != nil {
		return nil, err
	}

	return db, nil
}

// NewHealthService monitors the backing store and the verdict generator,
// persisting check history to SQLite. When the history DB cannot be opened
// the live Probe still works; only History/Check persistence degrades.
func NewHealthService(store domainCache.SummaryStore, generator health.Probeable, storagesPath string, interval time.Duration) health.IHealthUsecase {
	db, err := initHealthStorageDB(storagesPath)
	if err != nil {
		logrus.WithError(err).Error("[HEALTH] failed to initialize storage")
		db = nil
	}
	return &healthService{
		db:        db,
		store:     store,
		generator: generator,
		interval:  interval,
	}
}

func (s *healthService) ensureDB() error {
	if s.db == nil {
		return fmt.Errorf("health storage not initialized")
	}
	return nil
}

// Probe answers the liveness question without ever failing: an unreachable
// store is reported as disconnected, not raised.
func (s *healthService) Probe(ctx context.Context) health.ProbeResult {
	result := health.ProbeResult{Status: "ok", Store: "disconnected"}

	probeCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := s.store.Ping(probeCtx); err == nil {
		result.Store = "connected"
	}
	return result
}

func (s *healthService) History(ctx context.Context) ([]health.HealthRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	query := `SELECT id, entity_type, entity_id, status, last_message, last_checked, last_success FROM health_checks`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []health.HealthRecord
	for rows.Next() {
		var r health.HealthRecord
		var lastSuccess sql.NullTime
		if err := rows.Scan(&r.ID, &r.EntityType, &r.EntityID, &r.Status, &r.LastMessage, &r.LastChecked, &lastSuccess); err != nil {
			return nil, err
		}
		if lastSuccess.Valid {
			r.LastSuccess = &lastSuccess.Time
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *healthService) getEntityStatus(ctx context.Context, entityType health.EntityType, entityID string) (health.HealthRecord, error) {
	if err := s.ensureDB(); err != nil {
		return health.HealthRecord{}, err
	}

	var r health.HealthRecord
	var lastSuccess sql.NullTime
	query := `SELECT id, entity_type, entity_id, status, last_message, last_checked, last_success FROM health_checks WHERE entity_type = ? AND entity_id = ?`
	err := s.db.QueryRowContext(ctx, query, string(entityType), entityID).Scan(&r.ID, &r.EntityType, &r.EntityID, &r.Status, &r.LastMessage, &r.LastChecked, &lastSuccess)
	if err != nil {
		if err == sql.ErrNoRows {
			return health.HealthRecord{
				EntityType: entityType,
				EntityID:   entityID,
				Status:     health.StatusUnknown,
			}, nil
		}
		return r, err
	}
	if lastSuccess.Valid {
		r.LastSuccess = &lastSuccess.Time
	}
	return r, nil
}

func (s *healthService) upsertStatus(ctx context.Context, r health.HealthRecord) error {
	if err := s.ensureDB(); err != nil {
		return err
	}

	if r.ID == "" {
		existing, _ := s.getEntityStatus(ctx, r.EntityType, r.EntityID)
		if existing.ID != "" {
			r.ID = existing.ID
		} else {
			r.ID = uuid.NewString()
		}
	}

	query := `
		INSERT INTO health_checks (id, entity_type, entity_id, status, last_message, last_checked, last_success)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(entity_type, entity_id) DO UPDATE SET
			status = excluded.status,
			last_message = excluded.last_message,
			last_checked = excluded.last_checked,
			last_success = CASE WHEN excluded.status = 'OK' THEN excluded.last_checked ELSE last_success END
	`

	now := time.Now()
	_, err := s.db.ExecContext(ctx, query, r.ID, string(r.EntityType), r.EntityID, string(r.Status), r.LastMessage, now, now)
	return err
}

func (s *healthService) CheckStore(ctx context.Context) (health.HealthRecord, error) {
	record := health.HealthRecord{
		EntityType: health.EntityStore,
		EntityID:   "valkey",
		Status:     health.StatusOk,
	}

	probeCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := s.store.Ping(probeCtx); err != nil {
		record.Status = health.StatusError
		record.LastMessage = err.Error()
	} else {
		record.LastMessage = "Connection successful"
	}

	err := s.upsertStatus(ctx, record)
	return record, err
}

func (s *healthService) CheckGenerator(ctx context.Context) (health.HealthRecord, error) {
	record := health.HealthRecord{
		EntityType: health.EntityGenerator,
		EntityID:   "openai",
		Status:     health.StatusOk,
	}

	if err := s.generator.Healthcheck(ctx); err != nil {
		record.Status = health.StatusError
		record.LastMessage = err.Error()
	} else {
		record.LastMessage = "Generator reachable"
	}

	err := s.upsertStatus(ctx, record)
	return record, err
}

func (s *healthService) CheckAll(ctx context.Context) ([]health.HealthRecord, error) {
	var results []health.HealthRecord

	storeRecord, _ := s.CheckStore(ctx)
	results = append(results, storeRecord)

	generatorRecord, _ := s.CheckGenerator(ctx)
	results = append(results, generatorRecord)

	return results, nil
}

func (s *healthService) StartPeriodicChecks(ctx context.Context) {
	logrus.Infof("[HEALTH] starting periodic health checks loop (interval: %v)", s.interval)
	ticker := time.NewTicker(s.interval)

	// Run once at start
	go func() {
		logrus.Info("[HEALTH] performing initial health check")
		s.CheckAll(ctx)
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-ticker.C:
				logrus.Debug("[HEALTH] performing scheduled health check")
				s.CheckAll(ctx)
			}
		}
	}()
}
