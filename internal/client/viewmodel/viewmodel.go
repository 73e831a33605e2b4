// Package viewmodel adapts the repository to screens: it keeps the last
// loaded state, reacts to connectivity changes and reports save outcomes.
package viewmodel

import (
	"context"
	"log/slog"
	stdsync "sync"
	"time"

	"github.com/iudanet/treekeeper/internal/client/connectivity"
	"github.com/iudanet/treekeeper/internal/client/repository"
	"github.com/iudanet/treekeeper/internal/client/sync"
	"github.com/iudanet/treekeeper/internal/models"
)

//go:generate moq -out repository_mock.go . Repository

// Repository is the part of repository.Repository used by the views.
type Repository interface {
	GetAllTrees(ctx context.Context) ([]*models.Tree, error)
	GetTree(ctx context.Context, id string) (*models.Tree, error)
	GetAllSpecies(ctx context.Context) ([]*models.Species, error)
	SaveEdit(ctx context.Context, id string, updates models.FieldUpdates) (repository.SaveResult, error)
	GetPendingCount(ctx context.Context) (int, error)
}

var _ Repository = (*repository.Repository)(nil)

const (
	// MessageTTL время показа сообщения о сохранении
	MessageTTL = 3 * time.Second

	MessageSaved  = "saved"
	MessageQueued = "saved locally, will sync"
)

// Option настраивает view-модель
type Option func(*deps)

// WithMessageTTL overrides how long a save message stays visible.
func WithMessageTTL(ttl time.Duration) Option {
	return func(d *deps) {
		d.ttl = ttl
	}
}

// deps holds what both views share.
type deps struct {
	repo    Repository
	syncer  sync.Service
	monitor connectivity.Monitor
	logger  *slog.Logger
	ttl     time.Duration
}

func newDeps(repo Repository, syncer sync.Service, monitor connectivity.Monitor, logger *slog.Logger, opts []Option) deps {
	d := deps{
		repo:    repo,
		syncer:  syncer,
		monitor: monitor,
		logger:  logger,
		ttl:     MessageTTL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// watch calls onOnline for every became-online transition until ctx is
// done or the monitor closes the subscription.
func (d *deps) watch(ctx context.Context, onOnline func(ctx context.Context)) error {
	events, cancel := d.monitor.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			d.logger.Debug("Connectivity changed", "event", event.String())
			if event.Online {
				onOnline(ctx)
			}
		}
	}
}

// syncIfPending drains the queues when anything is waiting.
func (d *deps) syncIfPending(ctx context.Context) {
	count, err := d.repo.GetPendingCount(ctx)
	if err != nil {
		d.logger.Error("Failed to count pending changes", "error", err)
		return
	}
	if count == 0 {
		return
	}

	result := d.syncer.Sync(ctx)
	d.logger.Info("Synced after reconnect",
		"pending", count,
		"synced", result.Synced(),
		"failed", result.Failed(),
		"coalesced", result.Coalesced)

	// Проход уже шел: ждем его окончания, чтобы перезагрузка увидела итог
	if result.Coalesced {
		select {
		case <-d.syncer.Idle():
		case <-ctx.Done():
		}
	}
}

// message хранит текст статуса и снимает его по таймеру
type message struct {
	timer *time.Timer
	text  string
	seq   int
	mu    stdsync.Mutex
}

// set shows text and schedules clearing after ttl. cleared runs after the
// text is removed, unless a newer message replaced it first.
func (m *message) set(text string, ttl time.Duration, cleared func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	seq := m.seq
	m.text = text
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(ttl, func() {
		m.mu.Lock()
		if m.seq != seq {
			m.mu.Unlock()
			return
		}
		m.text = ""
		m.timer = nil
		m.mu.Unlock()
		cleared()
	})
}

func (m *message) get() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

func (m *message) stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func saveMessage(result repository.SaveResult) string {
	if result.Offline {
		return MessageQueued
	}
	return MessageSaved
}
