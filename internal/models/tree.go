package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TreeStatus описывает складской статус дерева.
type TreeStatus string

const (
	TreeStatusInStock  TreeStatus = "in_stock" // на участке, доступно к продаже
	TreeStatusReserved TreeStatus = "reserved" // зарезервировано клиентом
	TreeStatusShipped  TreeStatus = "shipped"  // отгружено
	TreeStatusDead     TreeStatus = "dead"     // погибло
)

// Valid reports whether s is one of the known statuses.
func (s TreeStatus) Valid() bool {
	switch s {
	case TreeStatusInStock, TreeStatusReserved, TreeStatusShipped, TreeStatusDead:
		return true
	}
	return false
}

// TempIDPrefix marks identifiers generated on the device for trees
// that the remote system has not assigned a canonical id to yet.
const TempIDPrefix = "tmp-"

// NewTempID returns a fresh temporary tree identifier.
func NewTempID() string {
	return TempIDPrefix + uuid.New().String()
}

// IsTempID reports whether id was generated locally by NewTempID.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// SpeciesRef is the embedded species relation of a tree row.
type SpeciesRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ClientRef is the embedded client relation of a tree row.
type ClientRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Tree is a denormalized snapshot of a remote trees row together with
// its species and client relations. The same shape is cached locally.
type Tree struct {
	CreatedAt        time.Time  `json:"created_at"`        // время создания строки на сервере
	UpdatedAt        time.Time  `json:"updated_at"`        // время последнего изменения на сервере
	ClientID         *string    `json:"client_id"`         // клиент, если дерево зарезервировано/отгружено
	Notes            *string    `json:"notes"`             // произвольные заметки
	ShippedAt        *string    `json:"shipped_at"`        // дата последней отгрузки (YYYY-MM-DD)
	EstimateNumber   *string    `json:"estimate_number"`   // номер сметы
	PhotoURL         *string    `json:"photo_url"`         // ссылка на фото
	Location         *string    `json:"location"`          // место на участке
	ManagementNumber *string    `json:"management_number"` // учётный номер вида 26-AO-0001
	Client           *ClientRef `json:"client"`            // связанный клиент
	Species          SpeciesRef `json:"species"`           // связанный вид
	ID               string     `json:"id"`                // UUID или временный tmp-... идентификатор
	SpeciesID        string     `json:"species_id"`        // ссылка на species_master
	ArrivedAt        string     `json:"arrived_at"`        // дата поступления (YYYY-MM-DD)
	Status           TreeStatus `json:"status"`            // складской статус
	Height           float64    `json:"height"`            // высота, м
	TrunkCount       int        `json:"trunk_count"`       // количество стволов
	Price            int        `json:"price"`             // цена, иены
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	c := *t
	c.ClientID = cloneString(t.ClientID)
	c.Notes = cloneString(t.Notes)
	c.ShippedAt = cloneString(t.ShippedAt)
	c.EstimateNumber = cloneString(t.EstimateNumber)
	c.PhotoURL = cloneString(t.PhotoURL)
	c.Location = cloneString(t.Location)
	c.ManagementNumber = cloneString(t.ManagementNumber)
	if t.Client != nil {
		client := *t.Client
		c.Client = &client
	}
	return &c
}

// Apply returns a copy of the tree with updates overlaid field by field.
// Keys are the JSON column names of Tree; the receiver is not modified.
func (t *Tree) Apply(updates FieldUpdates) (*Tree, error) {
	if len(updates) == 0 {
		return t.Clone(), nil
	}

	raw, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tree: %w", err)
	}

	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tree fields: %w", err)
	}

	for field, value := range updates {
		fields[field] = value
	}

	patched, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal patched tree: %w", err)
	}

	result := &Tree{}
	if err := json.Unmarshal(patched, result); err != nil {
		return nil, fmt.Errorf("failed to apply updates to tree %s: %w", t.ID, err)
	}

	return result, nil
}

// FieldUpdates maps editable tree column names to their new values.
type FieldUpdates map[string]any

// Clone returns a shallow copy of the update set.
func (u FieldUpdates) Clone() FieldUpdates {
	c := make(FieldUpdates, len(u))
	for k, v := range u {
		c[k] = v
	}
	return c
}

// Editable tree columns.
const (
	FieldSpeciesID      = "species_id"
	FieldClientID       = "client_id"
	FieldHeight         = "height"
	FieldTrunkCount     = "trunk_count"
	FieldPrice          = "price"
	FieldStatus         = "status"
	FieldNotes          = "notes"
	FieldShippedAt      = "shipped_at"
	FieldEstimateNumber = "estimate_number"
	FieldPhotoURL       = "photo_url"
	FieldLocation       = "location"
)

// Locations returns the distinct non-empty locations of trees in first-seen order.
func Locations(trees []*Tree) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0)
	for _, tree := range trees {
		if tree.Location == nil || *tree.Location == "" {
			continue
		}
		if _, ok := seen[*tree.Location]; ok {
			continue
		}
		seen[*tree.Location] = struct{}{}
		result = append(result, *tree.Location)
	}
	return result
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StringPtr returns a pointer to s, or nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
