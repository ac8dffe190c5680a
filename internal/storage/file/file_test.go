package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ens-name-tracker/internal/domain"
	"ens-name-tracker/internal/storage"
)

func sampleRecords() []*domain.Record {
	return []*domain.Record{
		{Name: "zeta.eth", Available: false, Expiry: 1767225600000, Price: 0, Status: domain.StatusActive, Label: "greek"},
		{Name: "alpha.eth", Available: true, Expiry: 0, Price: 0.003125, Status: domain.StatusExpired},
		{Name: "lapse.eth", Available: false, Expiry: 1751328000000, Price: 0, Status: domain.StatusGracePeriod, Label: "watch"},
	}
}

func TestStore_RoundTrip(t *testing.T) {
	for _, name := range []string{"db.json", "db.json.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			s := New(path)
			ctx := context.Background()

			want := sampleRecords()
			require.NoError(t, s.WriteAll(ctx, want))

			got, err := s.ReadAll(ctx)
			require.NoError(t, err)
			require.Len(t, got, len(want))
			for i := range want {
				assert.Equal(t, *want[i], *got[i])
			}
		})
	}
}

func TestStore_CompressedIsNotPlainJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json.zst")
	require.NoError(t, New(path).WriteAll(context.Background(), sampleRecords()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, byte('{'), raw[0])
}

func TestStore_MissingFileReadsEmpty(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent.json"))

	got, err := s.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_DocumentLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	doc := `{"names":[
		{"name":"old.eth","available":false,"expiry":1700000000000,"price":0,"status":"active"},
		{"name":"new.eth","available":true,"expiry":0,"price":0.005,"status":"expired","label":"dict"}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	got, err := New(path).ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Empty(t, got[0].Label, "minimal schema has no label")
	assert.Equal(t, "dict", got[1].Label)

	require.NoError(t, New(path).WriteAll(context.Background(), got[:1]))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"names"`)
	assert.NotContains(t, string(raw), `"label"`)
}

func TestStore_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"names": [`), 0o644))

	_, err := New(path).ReadAll(context.Background())
	assert.Error(t, err)
}

func TestStore_RecordWithoutName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"names": [{"available": true}]}`), 0o644))

	_, err := New(path).ReadAll(context.Background())
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestStore_WriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, New(filepath.Join(dir, "db.json")).WriteAll(context.Background(), sampleRecords()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "db.json", entries[0].Name())
}

func TestStore_Lock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	first := New(path)
	second := New(path)

	require.NoError(t, first.Lock())

	err := second.Lock()
	assert.True(t, errors.Is(err, storage.ErrLocked), "got %v", err)

	require.NoError(t, first.Unlock())
	require.NoError(t, second.Lock())
	require.NoError(t, second.Unlock())
}
