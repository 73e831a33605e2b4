package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	stdsync "sync"
	"time"

	"github.com/iudanet/treekeeper/internal/client/remote"
	"github.com/iudanet/treekeeper/internal/client/storage"
	"github.com/iudanet/treekeeper/internal/crdt"
	"github.com/iudanet/treekeeper/internal/models"
	"github.com/iudanet/treekeeper/pkg/api"
)

//go:generate moq -out service_mock.go . Service

// Service определяет интерфейс для sync.Service
type Service interface {
	// Sync drains the registration queue and then the edit queue.
	// It never fails: per-item errors are logged and the item stays queued.
	Sync(ctx context.Context) *SyncResult

	// GetPendingSyncCount возвращает количество записей, ожидающих синхронизации
	GetPendingSyncCount(ctx context.Context) (int, error)

	// Idle returns a channel that is closed once no pass is running
	Idle() <-chan struct{}
}

// maxNumberAttempts ограничивает повторы при конфликте учётного номера
const maxNumberAttempts = 3

// service drains the local queues against the remote gateway
type service struct {
	gateway remote.Gateway
	store   storage.Store
	logger  *slog.Logger
	nowFunc func() time.Time
	idle    chan struct{} // закрывается по окончании текущего запуска
	mu      stdsync.Mutex
	running bool
	rerun   bool
}

// NewService creates a new sync service
func NewService(gateway remote.Gateway, store storage.Store, logger *slog.Logger) Service {
	return &service{
		gateway: gateway,
		store:   store,
		logger:  logger,
		nowFunc: time.Now,
	}
}

// SyncResult contains sync operation results
type SyncResult struct {
	Registrations        int  // созданные на сервере деревья
	RegistrationFailures int  // регистрации, оставшиеся в очереди из-за ошибок
	EditGroups           int  // успешно отправленные группы правок (по дереву)
	EditGroupFailures    int  // группы правок с ошибкой
	EditsCleared         int  // правки, удаленные из очереди
	Deferred             int  // группы правок, ожидающие регистрации дерева
	Passes               int  // количество выполненных проходов
	Coalesced            bool // вызов объединен с уже идущей синхронизацией
}

// Synced returns the number of queue entries synced by the call.
func (r *SyncResult) Synced() int {
	return r.Registrations + r.EditsCleared
}

// Failed returns the number of items that stayed queued because of errors.
func (r *SyncResult) Failed() int {
	return r.RegistrationFailures + r.EditGroupFailures
}

// Sync runs one pass, plus one follow-up pass if Sync was called again
// while it was running. A concurrent call returns at once with Coalesced set.
func (s *service) Sync(ctx context.Context) *SyncResult {
	s.mu.Lock()
	if s.running {
		s.rerun = true
		s.mu.Unlock()
		s.logger.Debug("Synchronization already running, coalescing")
		return &SyncResult{Coalesced: true}
	}
	s.running = true
	s.idle = make(chan struct{})
	s.mu.Unlock()

	result := &SyncResult{}
	for {
		s.pass(ctx, result)

		s.mu.Lock()
		if !s.rerun || ctx.Err() != nil {
			s.running = false
			s.rerun = false
			close(s.idle)
			s.mu.Unlock()
			break
		}
		s.rerun = false
		s.mu.Unlock()
	}

	return result
}

// Idle returns a channel that is closed when the running Sync call, including
// its follow-up pass, has finished. The channel is already closed when idle.
func (s *service) Idle() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return s.idle
	}
	done := make(chan struct{})
	close(done)
	return done
}

func (s *service) pass(ctx context.Context, result *SyncResult) {
	result.Passes++
	s.logger.Info("Starting synchronization", "pass", result.Passes)

	before := *result
	s.syncRegistrations(ctx, result)
	s.syncEdits(ctx, result)

	synced := result.Synced() - before.Synced()
	failed := result.Failed() - before.Failed()

	s.logger.Info("Synchronization completed",
		"registrations", result.Registrations-before.Registrations,
		"registration_failures", result.RegistrationFailures-before.RegistrationFailures,
		"edit_groups", result.EditGroups-before.EditGroups,
		"edit_group_failures", result.EditGroupFailures-before.EditGroupFailures,
		"edits_cleared", result.EditsCleared-before.EditsCleared,
		"deferred", result.Deferred-before.Deferred)

	status := storage.SyncStatus{At: s.nowFunc(), Synced: synced, Failed: failed}
	if err := s.store.SaveLastSync(ctx, status); err != nil {
		// Не прерываем синхронизацию из-за ошибки сохранения метаданных
		s.logger.Warn("Failed to save last sync status", "error", err)
	}
}

// syncRegistrations создает на сервере деревья, зарегистрированные офлайн
func (s *service) syncRegistrations(ctx context.Context, result *SyncResult) {
	regs, err := s.store.ListUnsyncedRegistrations(ctx)
	if err != nil {
		s.logger.Error("Failed to read pending registrations", "error", err)
		return
	}

	for _, reg := range regs {
		if ctx.Err() != nil {
			return
		}

		canonical, err := s.syncRegistration(ctx, reg)
		if err != nil {
			s.logger.Warn("Failed to sync registration",
				"temp_id", reg.TempID,
				"error", err)
			result.RegistrationFailures++
			continue
		}

		s.logger.Info("Registration synced",
			"temp_id", reg.TempID,
			"tree_id", canonical.ID,
			"management_number", deref(canonical.ManagementNumber))
		result.Registrations++
	}
}

func (s *service) syncRegistration(ctx context.Context, reg *models.PendingRegistration) (*models.Tree, error) {
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		number, err := s.nextManagementNumber(ctx, reg)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate management number: %w", err)
		}

		var created models.Tree
		err = s.gateway.Insert(ctx, remote.EntityTrees, reg.InsertFields(number), &created)
		if errors.Is(err, remote.ErrConflict) && number != nil {
			// Номер занят другим устройством между чтением максимума и вставкой
			s.logger.Info("Management number taken, retrying",
				"temp_id", reg.TempID,
				"management_number", *number,
				"attempt", attempt)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to insert tree: %w", err)
		}
		if created.ID == "" {
			return nil, fmt.Errorf("remote returned a tree without id")
		}

		if created.Species.ID == "" {
			created.Species = models.SpeciesRef{ID: reg.SpeciesID, Name: reg.SpeciesName}
		}
		if created.ManagementNumber == nil && number != nil {
			created.ManagementNumber = number
		}

		if err := s.store.CompleteRegistration(ctx, reg.ID, &created); err != nil {
			return nil, fmt.Errorf("tree %s created remotely but not recorded locally: %w", created.ID, err)
		}
		return &created, nil
	}

	return nil, fmt.Errorf("management number still taken after %d attempts: %w", maxNumberAttempts, remote.ErrConflict)
}

// nextManagementNumber вычисляет следующий номер <yy>-<CODE>-NNNN по
// текущему максимуму на сервере. Без кода вида номер не присваивается.
func (s *service) nextManagementNumber(ctx context.Context, reg *models.PendingRegistration) (*string, error) {
	if reg.SpeciesCode == nil || *reg.SpeciesCode == "" {
		return nil, nil
	}

	prefix := models.ManagementPrefix(reg.CreatedAt, *reg.SpeciesCode)

	var rows []struct {
		ManagementNumber *string `json:"management_number"`
	}
	// Все номера префикса: максимум считаем по числу, а не по строке
	q := remote.Query{
		Filters: []api.Filter{api.Like("management_number", prefix+"*")},
	}
	if err := s.gateway.Select(ctx, remote.EntityTrees, q, &rows); err != nil {
		return nil, err
	}

	numbers := make([]*string, 0, len(rows))
	for _, row := range rows {
		numbers = append(numbers, row.ManagementNumber)
	}

	next, err := models.NextManagementNumber(prefix, models.MaxManagementNumber(prefix, numbers))
	if err != nil {
		return nil, err
	}
	return &next, nil
}

// syncEdits отправляет схлопнутые правки, по одному запросу на дерево.
// Очередь очищается только если все отправленные группы прошли успешно.
func (s *service) syncEdits(ctx context.Context, result *SyncResult) {
	edits, err := s.store.ListUnsyncedEdits(ctx)
	if err != nil {
		s.logger.Error("Failed to read pending edits", "error", err)
		return
	}
	if len(edits) == 0 {
		return
	}

	set := crdt.Collapse(edits)
	allSucceeded := true
	sent := make(map[string]struct{})

	for _, treeID := range set.TreeIDs() {
		if ctx.Err() != nil {
			allSucceeded = false
			break
		}

		// Дерево еще не создано на сервере: ждем следующего прохода
		if models.IsTempID(treeID) {
			result.Deferred++
			continue
		}

		updates := set.Updates(treeID)
		if err := s.gateway.Update(ctx, remote.EntityTrees, treeID, updates); err != nil {
			s.logger.Warn("Failed to sync edits",
				"tree_id", treeID,
				"fields", len(updates),
				"error", err)
			result.EditGroupFailures++
			allSucceeded = false
			continue
		}

		sent[treeID] = struct{}{}
		result.EditGroups++
	}

	if !allSucceeded {
		s.logger.Info("Keeping edit queue for retry", "edits", len(edits))
		return
	}

	// Удаляем только прочитанные в этом проходе правки отправленных групп
	ids := make([]int64, 0, len(edits))
	for _, edit := range edits {
		if _, ok := sent[edit.TreeID]; ok {
			ids = append(ids, edit.ID)
		}
	}
	if len(ids) == 0 {
		return
	}

	if err := s.store.DeleteEdits(ctx, ids); err != nil {
		s.logger.Error("Failed to clear synced edits", "error", err)
		return
	}
	result.EditsCleared += len(ids)
}

// GetPendingSyncCount возвращает количество записей, ожидающих синхронизации
func (s *service) GetPendingSyncCount(ctx context.Context) (int, error) {
	edits, err := s.store.CountUnsyncedEdits(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending edits: %w", err)
	}

	regs, err := s.store.CountUnsyncedRegistrations(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending registrations: %w", err)
	}

	return edits + regs, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
