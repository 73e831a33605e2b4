package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/iudanet/treekeeper/internal/models"
)

// ErrUnknownField is returned for columns that cannot be edited.
var ErrUnknownField = errors.New("unknown or read-only field")

// SpeciesCodePattern определяет допустимый код вида: 1-4 заглавные латинские буквы.
var SpeciesCodePattern = regexp.MustCompile(`^[A-Z]{1,4}$`)

// DatePattern задает формат дат отгрузки/поступления.
var DatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

const (
	// MaxHeight максимальная высота дерева, м
	MaxHeight = 20.0
	// MaxTrunkCount максимальное количество стволов
	MaxTrunkCount = 99
)

type fieldKind int

const (
	kindFloat fieldKind = iota
	kindInt
	kindString
	kindNullableString
	kindNullableDate
	kindStatus
)

// editableFields перечисляет колонки trees, которые можно менять с устройства
var editableFields = map[string]fieldKind{
	models.FieldSpeciesID:      kindString,
	models.FieldClientID:       kindNullableString,
	models.FieldHeight:         kindFloat,
	models.FieldTrunkCount:     kindInt,
	models.FieldPrice:          kindInt,
	models.FieldStatus:         kindStatus,
	models.FieldNotes:          kindNullableString,
	models.FieldShippedAt:      kindNullableDate,
	models.FieldEstimateNumber: kindNullableString,
	models.FieldPhotoURL:       kindNullableString,
	models.FieldLocation:       kindNullableString,
}

// IsEditable reports whether field may appear in an update set.
func IsEditable(field string) bool {
	_, ok := editableFields[field]
	return ok
}

// ValidateFieldUpdates checks that every key is an editable column and
// every value has the column's type and range.
func ValidateFieldUpdates(updates models.FieldUpdates) error {
	if len(updates) == 0 {
		return fmt.Errorf("no fields to update")
	}

	for field, value := range updates {
		kind, ok := editableFields[field]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		if err := validateValue(field, kind, value); err != nil {
			return err
		}
	}

	return nil
}

func validateValue(field string, kind fieldKind, value any) error {
	switch kind {
	case kindFloat:
		f, ok := asFloat(value)
		if !ok {
			return fmt.Errorf("%s must be a number", field)
		}
		return ValidateHeight(f)
	case kindInt:
		f, ok := asFloat(value)
		if !ok || f != math.Trunc(f) {
			return fmt.Errorf("%s must be an integer", field)
		}
		if f < 0 {
			return fmt.Errorf("%s must not be negative", field)
		}
		if field == models.FieldTrunkCount && (f < 1 || f > MaxTrunkCount) {
			return fmt.Errorf("trunk_count must be between 1 and %d", MaxTrunkCount)
		}
		return nil
	case kindString:
		s, ok := value.(string)
		if !ok || s == "" {
			return fmt.Errorf("%s must be a non-empty string", field)
		}
		return nil
	case kindNullableString:
		if value == nil {
			return nil
		}
		if _, ok := asString(value); !ok {
			return fmt.Errorf("%s must be a string or null", field)
		}
		return nil
	case kindNullableDate:
		if value == nil {
			return nil
		}
		s, ok := asString(value)
		if !ok || !DatePattern.MatchString(s) {
			return fmt.Errorf("%s must be a YYYY-MM-DD date or null", field)
		}
		return nil
	case kindStatus:
		s, ok := asString(value)
		if !ok || !models.TreeStatus(s).Valid() {
			return fmt.Errorf("invalid status %v", value)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownField, field)
}

// ValidateHeight проверяет высоту дерева: (0, MaxHeight]
func ValidateHeight(height float64) error {
	if height <= 0 || height > MaxHeight {
		return fmt.Errorf("height must be greater than 0 and at most %.0f", MaxHeight)
	}
	return nil
}

// ValidateSpeciesCode checks the short species code used in management numbers.
func ValidateSpeciesCode(code string) error {
	if !SpeciesCodePattern.MatchString(code) {
		return fmt.Errorf("species code must be 1-4 uppercase latin letters, got %q", code)
	}
	return nil
}

// ValidateDraft checks the fields of a tree registered offline.
func ValidateDraft(draft *models.TreeDraft) error {
	if draft == nil {
		return fmt.Errorf("draft cannot be nil")
	}
	if draft.SpeciesID == "" {
		return fmt.Errorf("species_id cannot be empty")
	}
	if err := ValidateHeight(draft.Height); err != nil {
		return err
	}
	if draft.TrunkCount < 1 || draft.TrunkCount > MaxTrunkCount {
		return fmt.Errorf("trunk_count must be between 1 and %d", MaxTrunkCount)
	}
	if draft.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if draft.SpeciesCode != nil {
		if err := ValidateSpeciesCode(*draft.SpeciesCode); err != nil {
			return err
		}
	}
	return nil
}

// ParseFieldValue converts the textual form of a value (as typed on the
// command line) into the Go type expected for field. "null" clears
// nullable columns.
func ParseFieldValue(field, raw string) (any, error) {
	kind, ok := editableFields[field]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	raw = strings.TrimSpace(raw)
	switch kind {
	case kindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		return f, nil
	case kindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		return n, nil
	case kindNullableString, kindNullableDate:
		if raw == "" || raw == "null" {
			return nil, nil
		}
		return raw, nil
	default:
		return raw, nil
	}
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	}
	return 0, false
}

func asString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	case models.TreeStatus:
		return string(v), true
	}
	return "", false
}
