package backup

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"auction-marketplace/utils"

	"github.com/robfig/cron/v3"
)

// Scheduler runs periodic maintenance jobs. Job failures are logged and never stop the schedule.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler creates a stopped scheduler
func NewScheduler() *Scheduler {
	logger := cronLogger{}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
	}
}

// AddFunc registers a named job on a cron spec such as "@daily" or "0 3 * * *"
func (s *Scheduler) AddFunc(spec, name string, job func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		if err := job(context.Background()); err != nil {
			utils.Error("scheduled job failed", map[string]any{"job": name, "error": err.Error()})
			return
		}
		utils.Debug("scheduled job finished", map[string]any{"job": name, "duration": time.Since(start).String()})
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}

// AddBackup schedules m.Backup of db
func (s *Scheduler) AddBackup(spec string, m *Manager, db *sql.DB) error {
	return s.AddFunc(spec, "backup", func(ctx context.Context) error {
		_, err := m.Backup(ctx, db)
		return err
	})
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the scheduler and waits for running jobs until ctx is done
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	utils.Debug("cron: "+msg, kvFields(keysAndValues))
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := kvFields(keysAndValues)
	fields["error"] = err.Error()
	utils.Error("cron: "+msg, fields)
}

func kvFields(kv []interface{}) map[string]any {
	fields := make(map[string]any, len(kv)/2+1)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return fields
}
