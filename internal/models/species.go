package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Species представляет запись справочника видов (species_master).
type Species struct {
	NameKana *string `json:"name_kana"` // чтение названия, используется для сортировки
	Code     *string `json:"code"`      // короткий код вида (AO, MO, KY), нужен для учётного номера
	ID       string  `json:"id"`        // UUID вида
	Name     string  `json:"name"`      // название вида
}

// Less reports whether s sorts before other: by name_kana ascending with
// species lacking a reading last, then by id.
func (s *Species) Less(other *Species) bool {
	a, b := kana(s), kana(other)
	switch {
	case a != "" && b == "":
		return true
	case a == "" && b != "":
		return false
	case a != b:
		return a < b
	}
	return s.ID < other.ID
}

// SortSpecies orders species in place by Less.
func SortSpecies(species []*Species) {
	sort.SliceStable(species, func(i, j int) bool {
		return species[i].Less(species[j])
	})
}

func kana(s *Species) string {
	if s.NameKana == nil {
		return ""
	}
	return *s.NameKana
}

// managementSeqWidth is the zero-padded width of the sequence part.
const managementSeqWidth = 4

// ManagementPrefix returns the "<yy>-<CODE>-" prefix shared by every
// management number of a species registered in the given year.
func ManagementPrefix(at time.Time, code string) string {
	return fmt.Sprintf("%02d-%s-", at.Year()%100, code)
}

// FormatManagementNumber builds "<prefix><NNNN>".
func FormatManagementNumber(prefix string, seq int) string {
	return fmt.Sprintf("%s%0*d", prefix, managementSeqWidth, seq)
}

// NextManagementNumber returns the management number following current
// within prefix. A nil or empty current yields sequence 1.
func NextManagementNumber(prefix string, current *string) (string, error) {
	if current == nil || *current == "" {
		return FormatManagementNumber(prefix, 1), nil
	}

	if !strings.HasPrefix(*current, prefix) {
		return "", fmt.Errorf("management number %q does not match prefix %q", *current, prefix)
	}

	seq, err := strconv.Atoi(strings.TrimPrefix(*current, prefix))
	if err != nil {
		return "", fmt.Errorf("invalid management number %q: %w", *current, err)
	}

	return FormatManagementNumber(prefix, seq+1), nil
}

// MaxManagementNumber returns the number with the highest numeric sequence
// within prefix. Numbers of another prefix or with a malformed sequence are
// skipped. Returns nil when nothing matches.
func MaxManagementNumber(prefix string, numbers []*string) *string {
	var (
		best    *string
		bestSeq = -1
	)
	for _, number := range numbers {
		if number == nil || !strings.HasPrefix(*number, prefix) {
			continue
		}
		seq, err := strconv.Atoi(strings.TrimPrefix(*number, prefix))
		if err != nil || seq < 0 {
			continue
		}
		// Строки сравнивать нельзя: "26-AO-10000" < "26-AO-9999"
		if seq > bestSeq {
			best, bestSeq = number, seq
		}
	}
	return best
}
