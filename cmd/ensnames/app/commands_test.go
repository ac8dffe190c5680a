package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ens-name-tracker/internal/candidates"
	"ens-name-tracker/internal/config"
	"ens-name-tracker/internal/domain"
	"ens-name-tracker/internal/ens"
	"ens-name-tracker/internal/ens/stub"
	"ens-name-tracker/internal/storage/file"
	"ens-name-tracker/internal/tracker"
)

var now = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// harness runs commands against a file store in a temp dir and a stub registry.
type harness struct {
	dir    string
	db     string
	reg    *stub.Registry
	dialed int
	closed int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{dir: dir, db: filepath.Join(dir, "db.json"), reg: stub.NewRegistry()}
}

func (h *harness) deps() deps {
	return deps{
		openRegistry: func(context.Context, *config.Config) (ens.Registry, io.Closer, error) {
			h.dialed++
			return h.reg, closerFunc(func() error { h.closed++; return nil }), nil
		},
		now: func() time.Time { return now },
	}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(h.deps())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(args, "--store-path", h.db, "--log-level", "error"))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) writeJSON(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(h.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (h *harness) records(t *testing.T) []*domain.Record {
	t.Helper()
	records, err := file.New(h.db).ReadAll(context.Background())
	require.NoError(t, err)
	return records
}

func (h *harness) seedRecords(t *testing.T, records ...*domain.Record) {
	t.Helper()
	require.NoError(t, file.New(h.db).WriteAll(context.Background(), records))
}

func finney(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000_000_000))
}

func TestAdd(t *testing.T) {
	h := newHarness(t)
	h.reg.SetAvailable("abc.eth", finney(5), big.NewInt(0))
	h.reg.SetRegistered("abcd.eth", domain.StatusActive, now.Add(365*24*time.Hour))
	h.seedRecords(t, &domain.Record{Name: "old.eth", Status: domain.StatusActive, Expiry: now.UnixMilli()})

	words := h.writeJSON(t, "words.json", `["abc", "ab", "old", "abcd"]`)
	out, err := h.run(t, "add", "-f", words, "-l", "test")
	require.NoError(t, err)

	assert.Contains(t, out, "Added 2 names, skipped 1 already stored")
	assert.Equal(t, 1, h.dialed)
	assert.Equal(t, 1, h.closed)

	records := h.records(t)
	require.Len(t, records, 3)
	assert.Equal(t, "old.eth", records[0].Name)
	assert.Equal(t, "abc.eth", records[1].Name)
	assert.True(t, records[1].Available)
	assert.InDelta(t, 0.005, records[1].Price, 1e-12)
	assert.Equal(t, "test", records[1].Label)
	assert.Equal(t, "abcd.eth", records[2].Name)
	assert.False(t, records[2].Available)

	_, err = os.Stat(h.db + ".lock")
	assert.NoError(t, err, "lock file is created next to the store")
}

func TestAdd_MalformedFile(t *testing.T) {
	h := newHarness(t)
	words := h.writeJSON(t, "words.json", `{"names": ["abc"]}`)

	_, err := h.run(t, "add", "--file", words, "--label", "test")
	require.Error(t, err)

	var merr *candidates.MalformedInputError
	assert.True(t, errors.As(err, &merr))
	assert.Equal(t, 0, h.dialed)
	assert.Equal(t, 0, h.reg.TotalCalls())

	_, err = os.Stat(h.db)
	assert.True(t, os.IsNotExist(err), "store must not be written")
}

func TestAdd_RequiresFileAndLabel(t *testing.T) {
	h := newHarness(t)
	words := h.writeJSON(t, "words.json", `["abc"]`)

	_, err := h.run(t, "add", "-l", "test")
	assert.Error(t, err)

	_, err = h.run(t, "add", "-f", words)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "label")
	assert.Equal(t, 0, h.dialed)
}

func TestAdd_FailuresReported(t *testing.T) {
	h := newHarness(t)
	h.reg.SetError("bad.eth", errors.New("rpc down"))
	h.reg.SetAvailable("good.eth", finney(5), big.NewInt(0))

	words := h.writeJSON(t, "words.json", `["bad", "good"]`)
	out, err := h.run(t, "add", "-f", words, "-l", "test")
	require.NoError(t, err)

	assert.Contains(t, out, "Added 1 names")
	assert.Contains(t, out, "Failed to resolve 1 names")
	assert.Contains(t, out, "bad.eth")

	records := h.records(t)
	require.Len(t, records, 1)
	assert.Equal(t, "good.eth", records[0].Name)
}

func TestRefresh_EmptyStore(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "refresh")
	require.NoError(t, err)
	assert.Contains(t, out, "No names stored yet")
	assert.Equal(t, 0, h.dialed)
}

func TestRefresh_UpdatesExpiring(t *testing.T) {
	h := newHarness(t)
	soon := now.Add(10 * 24 * time.Hour)
	later := now.Add(400 * 24 * time.Hour)
	h.seedRecords(t,
		&domain.Record{Name: "soon.eth", Status: domain.StatusActive, Expiry: soon.UnixMilli(), Label: "x"},
		&domain.Record{Name: "later.eth", Status: domain.StatusActive, Expiry: later.UnixMilli()},
	)
	h.reg.SetRegistered("soon.eth", domain.StatusActive, later)

	out, err := h.run(t, "refresh")
	require.NoError(t, err)
	assert.Contains(t, out, "Checked 1 names, updated 1")
	assert.Equal(t, 1, h.reg.CallCount("soon.eth"))
	assert.Equal(t, 0, h.reg.CallCount("later.eth"))

	records := h.records(t)
	require.Len(t, records, 2)
	assert.Equal(t, "soon.eth", records[0].Name)
	assert.Equal(t, later.UnixMilli(), records[0].Expiry)
	assert.Equal(t, "x", records[0].Label)
}

func TestSeed_DedupsSources(t *testing.T) {
	h := newHarness(t)
	h.reg.SetAvailable("alpha.eth", finney(5), big.NewInt(0))
	h.reg.SetAvailable("beta.eth", finney(5), big.NewInt(0))
	h.reg.SetAvailable("gamma.eth", finney(5), big.NewInt(0))

	a := h.writeJSON(t, "a.json", `["alpha", "beta"]`)
	b := h.writeJSON(t, "b.json", `["Beta", "gamma"]`)

	out, err := h.run(t, "seed", "--words", a, "--words", b)
	require.NoError(t, err)
	assert.Contains(t, out, "Added 3 names")
	assert.Equal(t, 1, h.reg.CallCount("beta.eth"))
	assert.Len(t, h.records(t), 3)
}

func TestSeed_RequiresEmptyStore(t *testing.T) {
	h := newHarness(t)
	h.seedRecords(t, &domain.Record{Name: "abc.eth", Available: true, Price: 0.005})
	words := h.writeJSON(t, "a.json", `["alpha"]`)

	_, err := h.run(t, "seed", "--words", words)
	require.ErrorIs(t, err, tracker.ErrStoreNotEmpty)
	assert.Equal(t, 0, h.reg.TotalCalls())
}

func TestSeed_RequiresSource(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "seed")
	assert.Error(t, err)
	assert.Equal(t, 0, h.dialed)
}

func TestReport_CSV(t *testing.T) {
	h := newHarness(t)
	h.seedRecords(t,
		&domain.Record{Name: "pricey.eth", Available: true, Price: 0.5},
		&domain.Record{Name: "cheap.eth", Available: true, Price: 0.003},
		&domain.Record{Name: "taken.eth", Status: domain.StatusActive, Expiry: now.UnixMilli()},
	)

	out, err := h.run(t, "report", "--available", "--sort", "price", "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "name,available,expiry,price,status,label", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "cheap.eth,"))
	assert.True(t, strings.HasPrefix(lines[2], "pricey.eth,"))
	assert.Equal(t, 0, h.dialed, "report never reaches the registry")
}

func TestReport_Markdown(t *testing.T) {
	h := newHarness(t)
	h.seedRecords(t, &domain.Record{Name: "taken.eth", Status: domain.StatusActive, Expiry: now.UnixMilli()})

	out, err := h.run(t, "report", "--status", "active", "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "taken.eth")
	assert.Contains(t, out, "Page 1 of 1")
}

func TestReport_NamesFile(t *testing.T) {
	h := newHarness(t)
	h.seedRecords(t,
		&domain.Record{Name: "one.eth", Available: true},
		&domain.Record{Name: "two.eth", Available: true},
	)
	names := h.writeJSON(t, "names.json", `["TWO"]`)

	out, err := h.run(t, "report", "--names-file", names, "--format", "csv")
	require.NoError(t, err)
	assert.NotContains(t, out, "one.eth")
	assert.Contains(t, out, "two.eth")
}

func TestReport_InvalidFlags(t *testing.T) {
	h := newHarness(t)

	for _, args := range [][]string{
		{"report", "--format", "xml"},
		{"report", "--sort", "length"},
		{"report", "--status", "registered"},
	} {
		_, err := h.run(t, args...)
		assert.Error(t, err, "%v", args)
	}
}
