package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// BugLookup is the part of the bug repository the janitor needs.
type BugLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Bug, error)
}

// JanitorConfig controls when orphaned attachments are collected.
type JanitorConfig struct {
	Schedule string
	Timeout  time.Duration
}

// AttachmentJanitor removes attachments whose bug no longer exists. Bug
// deletion already removes files, so this only collects what a failed or
// interrupted delete left behind.
type AttachmentJanitor struct {
	store   repository.AttachmentStore
	bugs    BugLookup
	monitor ConnectionHealth
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     JanitorConfig
}

func NewAttachmentJanitor(
	store repository.AttachmentStore,
	bugs BugLookup,
	monitor ConnectionHealth,
	logger *zap.Logger,
	cfg JanitorConfig,
) (*AttachmentJanitor, error) {
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 1h"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	j := &AttachmentJanitor{
		store:   store,
		bugs:    bugs,
		monitor: monitor,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(),
	}

	if _, err := j.cron.AddFunc(cfg.Schedule, j.run); err != nil {
		return nil, fmt.Errorf("janitor schedule %q: %w", cfg.Schedule, err)
	}
	return j, nil
}

// Start launches the cron scheduler.
func (j *AttachmentJanitor) Start() {
	if j == nil || j.cron == nil {
		return
	}
	j.cron.Start()
	j.logger.Info("attachment janitor started", zap.String("schedule", j.cfg.Schedule))
}

// Stop waits for a running sweep to finish or ctx to end.
func (j *AttachmentJanitor) Stop(ctx context.Context) {
	if j == nil || j.cron == nil {
		return
	}
	stopCtx := j.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	j.logger.Info("attachment janitor stopped")
}

func (j *AttachmentJanitor) run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.cfg.Timeout)
	defer cancel()
	if _, err := j.Sweep(ctx); err != nil {
		j.logger.Error("attachment sweep failed", zap.Error(err))
	}
}

// Sweep deletes orphaned attachments and returns how many were removed.
// It does nothing while the database is unreachable, since every bug would
// look missing.
func (j *AttachmentJanitor) Sweep(ctx context.Context) (int, error) {
	if j.monitor != nil && !j.monitor.IsOnline() {
		j.logger.Debug("skipping attachment sweep (offline)")
		return 0, nil
	}

	bugIDs, err := j.store.BugIDs()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, id := range bugIDs {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		_, err := j.bugs.GetByID(ctx, id)
		if err == nil {
			continue
		}
		if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return removed, fmt.Errorf("look up bug %s: %w", id, err)
		}
		n, err := j.store.DeleteForBug(id)
		if err != nil {
			return removed, err
		}
		removed += n
		j.logger.Info("orphaned attachments removed", zap.String("bug_id", id), zap.Int("count", n))
	}
	return removed, nil
}
