package ledger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simmypeet/Xpen/internal/entity/record"
)

func Test_OnNew_ShouldRejectMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent"))

	assert.ErrorIs(t, err, ErrInvalidLedgerPath)
}

func Test_OnNew_ShouldRejectFilePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := New(path)

	assert.ErrorIs(t, err, ErrInvalidLedgerPath)
}

func Test_OnNew_ShouldDiscoverPartitions(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, record.FileKey{Month: time.December, Year: 2023}, []recordJSON{
		row("10", time.Date(2023, 12, 24, 9, 0, 0, 0, time.UTC)),
	})
	writeFixture(t, dir, record.FileKey{Month: time.January, Year: 2024}, []recordJSON{
		row("25", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024_01.json"), []byte("[]"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	l, err := New(dir)

	require.NoError(t, err)
	assert.Equal(t, []record.FileKey{
		{Month: time.December, Year: 2023},
		{Month: time.January, Year: 2024},
	}, l.Keys())
	assert.Equal(t, filepath.Base(dir), l.Name())
}

func Test_OnGetOrCreate_ShouldMaterializeOnce(t *testing.T) {
	l, err := New(t.TempDir())
	require.NoError(t, err)
	key := record.FileKey{Month: time.May, Year: 2024}

	first, err := l.GetOrCreate(key)
	require.NoError(t, err)
	second, err := l.GetOrCreate(key)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, []record.FileKey{key}, l.Keys())
}

func Test_OnCurrentBalance_ShouldBeZeroWhenEmpty(t *testing.T) {
	l, err := New(t.TempDir())
	require.NoError(t, err)

	balance, err := l.CurrentBalance()

	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func Test_OnCurrentBalance_ShouldSkipEmptyTrailingPartitions(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, record.FileKey{Month: time.January, Year: 2024}, []recordJSON{
		row("10", time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)),
		row("45", time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)),
	})
	writeFixture(t, dir, record.FileKey{Month: time.February, Year: 2024}, nil)

	l, err := New(dir)
	require.NoError(t, err)

	balance, err := l.CurrentBalance()

	require.NoError(t, err)
	assert.Equal(t, "45", balance.String())
}

func Test_OnAppend_ShouldComputeAbsoluteBalance(t *testing.T) {
	l, err := New(t.TempDir())
	require.NoError(t, err)

	first, err := l.Append("food", decimal.RequireFromString("100"), "")
	require.NoError(t, err)
	second, err := l.Append("", decimal.RequireFromString("-20"), "refund")
	require.NoError(t, err)

	assert.Equal(t, "100", first.Balance.String())
	assert.Equal(t, "80", second.Balance.String())
	assert.Equal(t, uint64(2), l.Version())

	balance, err := l.CurrentBalance()
	require.NoError(t, err)
	assert.Equal(t, "80", balance.String())
}

func Test_OnAppend_ShouldSurfaceCorruptedPartition(t *testing.T) {
	dir := t.TempDir()
	key := record.FileKeyFor(time.Now())
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName(key)), []byte("not json"), 0o644))

	l, err := New(dir)
	require.NoError(t, err)

	_, err = l.Append("", decimal.RequireFromString("10"), "")

	var corrupted *CorruptedStoreError
	assert.ErrorAs(t, err, &corrupted)
}

func Test_OnFlush_ShouldPersistAppends(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	require.NoError(t, err)
	_, err = l.Append("food", decimal.RequireFromString("100"), "")
	require.NoError(t, err)
	require.NoError(t, l.Flush())

	reopened, err := New(dir)
	require.NoError(t, err)

	balance, err := reopened.CurrentBalance()
	require.NoError(t, err)
	assert.Equal(t, "100", balance.String())
}

func Test_OnRename_ShouldMoveDirectoryAndMarkStoresDirty(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "old")
	require.NoError(t, os.Mkdir(dir, 0o755))

	l, err := New(dir)
	require.NoError(t, err)
	_, err = l.Append("", decimal.RequireFromString("10"), "")
	require.NoError(t, err)
	require.NoError(t, l.Flush())

	require.NoError(t, l.Rename("new"))

	assert.Equal(t, "new", l.Name())
	_, err = os.Stat(filepath.Join(parent, "old"))
	assert.True(t, os.IsNotExist(err))

	// dirty stores flush to the new location even without a new append
	key := record.FileKeyFor(time.Now())
	require.NoError(t, os.Remove(filepath.Join(parent, "new", FileName(key))))
	require.NoError(t, l.Flush())
	_, err = os.Stat(filepath.Join(parent, "new", FileName(key)))
	assert.NoError(t, err)
}
