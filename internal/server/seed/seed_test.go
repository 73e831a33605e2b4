package seed

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/treekeeper/internal/server/storage/sqlite"
	"github.com/iudanet/treekeeper/pkg/api"
)

const testSeed = `
species:
  - id: sp-ao
    name: Aodamo
    name_kana: aodamo
    code: AO
  - name: Momiji
    code: MO
clients:
  - id: client-1
    name: Tanaka Garden
    phone: 090-1111-2222
`

func TestLoad(t *testing.T) {
	data, err := Load(strings.NewReader(testSeed))
	require.NoError(t, err)
	require.Len(t, data.Species, 2)
	assert.Equal(t, "AO", data.Species[0].Code)
	require.Len(t, data.Clients, 1)
	assert.Equal(t, "090-1111-2222", data.Clients[0].Phone)

	empty, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty.Species)

	_, err = Load(strings.NewReader("trees: []\n"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := sqlite.New(ctx, ":memory:")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	data, err := Load(strings.NewReader(testSeed))
	require.NoError(t, err)

	result, err := Apply(ctx, s, data, logger)
	require.NoError(t, err)
	assert.Equal(t, Result{Species: 2, Clients: 1}, result)

	// Повторное применение ничего не создаёт
	result, err = Apply(ctx, s, data, logger)
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 3}, result)

	species, err := s.ListSpecies(ctx, api.Query{})
	require.NoError(t, err)
	require.Len(t, species, 2)
	byCode := make(map[string]string)
	for _, sp := range species {
		require.NotNil(t, sp.Code)
		byCode[*sp.Code] = sp.ID
	}
	assert.Equal(t, "sp-ao", byCode["AO"])
	assert.NotEmpty(t, byCode["MO"])
}

func TestApply_InvalidRow(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := sqlite.New(ctx, ":memory:")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	_, err = Apply(ctx, s, &Data{Species: []Species{{Name: "Bad", Code: "bad"}}}, logger)
	assert.Error(t, err)
}
