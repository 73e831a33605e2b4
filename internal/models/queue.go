package models

import "time"

// PendingEdit is one field-level mutation that could not be sent to the
// remote system and waits in the local queue.
type PendingEdit struct {
	CreatedAt time.Time `json:"created_at"` // время правки; общий для всех полей одного сохранения
	Value     any       `json:"value"`      // новое значение поля
	TreeID    string    `json:"tree_id"`    // дерево, к которому относится правка
	Field     string    `json:"field"`      // имя колонки
	ID        int64     `json:"id"`         // автоинкремент локальной очереди
	Synced    bool      `json:"synced"`     // флаг отправки на сервер
}

// IsNewerThan reports whether e supersedes other for the same field.
// CreatedAt is compared first; the queue id breaks ties so that the later
// append wins.
func (e *PendingEdit) IsNewerThan(other *PendingEdit) bool {
	if e.CreatedAt.After(other.CreatedAt) {
		return true
	}
	if e.CreatedAt.Before(other.CreatedAt) {
		return false
	}
	return e.ID > other.ID
}

// TreeDraft holds the fields entered for a brand-new tree.
type TreeDraft struct {
	Notes       *string `json:"notes"`        // заметки
	Location    *string `json:"location"`     // место на участке
	SpeciesCode *string `json:"species_code"` // код вида для учётного номера
	SpeciesID   string  `json:"species_id"`   // UUID вида
	SpeciesName string  `json:"species_name"` // название вида для отображения офлайн
	Height      float64 `json:"height"`       // высота, м
	TrunkCount  int     `json:"trunk_count"`  // количество стволов
	Price       int     `json:"price"`        // цена
}

// PendingRegistration is a whole-tree creation staged while offline.
type PendingRegistration struct {
	CreatedAt   time.Time `json:"created_at"`             // время регистрации на устройстве
	TempID      string    `json:"temp_id"`                // временный идентификатор tmp-...
	CanonicalID string    `json:"canonical_id,omitempty"` // UUID, выданный сервером после синхронизации
	TreeDraft
	ID     int64 `json:"id"`     // автоинкремент локальной очереди
	Synced bool  `json:"synced"` // флаг успешной синхронизации
}

// Mirror builds the best-effort cached tree shown until the registration
// is synced. The management number stays nil until sync time.
func (r *PendingRegistration) Mirror() *Tree {
	return &Tree{
		ID:         r.TempID,
		SpeciesID:  r.SpeciesID,
		Species:    SpeciesRef{ID: r.SpeciesID, Name: r.SpeciesName},
		Height:     r.Height,
		TrunkCount: r.TrunkCount,
		Price:      r.Price,
		Status:     TreeStatusInStock,
		Notes:      cloneString(r.Notes),
		Location:   cloneString(r.Location),
		ArrivedAt:  r.CreatedAt.Format(time.DateOnly),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.CreatedAt,
	}
}

// InsertFields returns the column set submitted to create the tree remotely.
func (r *PendingRegistration) InsertFields(managementNumber *string) FieldUpdates {
	return FieldUpdates{
		FieldSpeciesID:      r.SpeciesID,
		FieldHeight:         r.Height,
		FieldTrunkCount:     r.TrunkCount,
		FieldPrice:          r.Price,
		FieldNotes:          r.Notes,
		FieldLocation:       r.Location,
		"management_number": managementNumber,
	}
}
