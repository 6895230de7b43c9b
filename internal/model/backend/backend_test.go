package backend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simmypeet/Xpen/internal/model/ledger"
)

func newBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := New(t.TempDir())
	require.NoError(t, err)
	return b
}

func Test_OnNew_ShouldRejectInvalidDataPath(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent"))

	assert.ErrorIs(t, err, ErrInvalidDataPath)
}

func Test_OnCreate_ShouldRejectBadNames(t *testing.T) {
	b := newBackend(t)

	_, err := b.Create("")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = b.Create("My$Account")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = b.Create("Groceries")
	require.NoError(t, err)
	_, err = b.Create("Groceries")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func Test_OnCreate_ShouldAllowUnderscoreAndSpace(t *testing.T) {
	b := newBackend(t)

	for _, name := range []string{"my_savings", "My Account"} {
		l, err := b.Create(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, l.Name())

		info, err := os.Stat(filepath.Join(b.DataPath(), name))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func Test_OnValidName_ShouldMatchPunctuationRules(t *testing.T) {
	cases := map[string]bool{
		"Groceries":  true,
		"my_savings": true,
		"My Account": true,
		"trip2024":   true,
		"":           false,
		"My$Account": false,
		"a/b":        false,
		"dot.name":   false,
		"semi;colon": false,
	}

	for name, want := range cases {
		assert.Equal(t, want, ValidName(name), name)
	}
}

func Test_OnReload_ShouldKeepTrackedInstances(t *testing.T) {
	b := newBackend(t)
	created, err := b.Create("Groceries")
	require.NoError(t, err)

	require.NoError(t, b.Reload())
	got, err := b.LedgerByName("Groceries")
	require.NoError(t, err)

	assert.Same(t, created, got)
}

func Test_OnReload_ShouldPickUpNewDirectories(t *testing.T) {
	b := newBackend(t)
	require.NoError(t, os.Mkdir(filepath.Join(b.DataPath(), "External"), 0o755))

	got, err := b.LedgerByName("External")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "External", got.Name())
}

func Test_OnSetCurrent_ShouldRejectForeignLedger(t *testing.T) {
	b := newBackend(t)
	foreign, err := ledger.New(t.TempDir())
	require.NoError(t, err)

	assert.ErrorIs(t, b.SetCurrent(foreign), ErrInvalidLedger)

	own, err := b.Create("Groceries")
	require.NoError(t, err)
	require.NoError(t, b.SetCurrent(own))
	assert.Same(t, own, b.Current())
}

func Test_OnRename_ShouldRekeyAndMoveDirectory(t *testing.T) {
	b := newBackend(t)
	l, err := b.Create("Groceries")
	require.NoError(t, err)
	_, err = b.Create("Travel")
	require.NoError(t, err)

	assert.ErrorIs(t, b.Rename(l, "Travel"), ErrRenameConflict)
	assert.ErrorIs(t, b.Rename(l, ""), ErrEmptyName)
	assert.ErrorIs(t, b.Rename(l, "a/b"), ErrInvalidName)

	require.NoError(t, b.Rename(l, "Food"))

	old, err := b.LedgerByName("Groceries")
	require.NoError(t, err)
	assert.Nil(t, old)

	renamed, err := b.LedgerByName("Food")
	require.NoError(t, err)
	assert.Same(t, l, renamed)

	info, err := os.Stat(filepath.Join(b.DataPath(), "Food"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func Test_OnDelete_ShouldRemoveDirectoryAndDropLedger(t *testing.T) {
	b := newBackend(t)
	l, err := b.Create("Groceries")
	require.NoError(t, err)
	require.NoError(t, b.SetCurrent(l))

	require.NoError(t, b.Delete(l))

	_, err = os.Stat(filepath.Join(b.DataPath(), "Groceries"))
	assert.True(t, os.IsNotExist(err))

	got, err := b.LedgerByName("Groceries")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Nil(t, b.Current())

	// the handle is stale now
	assert.ErrorIs(t, b.Delete(l), ErrInvalidLedger)
}

func Test_OnSummaries_ShouldReportBalances(t *testing.T) {
	b := newBackend(t)
	travel, err := b.Create("Travel")
	require.NoError(t, err)
	_, err = b.Create("Groceries")
	require.NoError(t, err)
	_, err = travel.Append("flight", decimal.RequireFromString("250"), "")
	require.NoError(t, err)

	summaries, err := b.Summaries()
	require.NoError(t, err)

	require.Len(t, summaries, 2)
	assert.Equal(t, "Groceries", summaries[0].Name)
	assert.True(t, summaries[0].Balance.IsZero())
	assert.Equal(t, "Travel", summaries[1].Name)
	assert.Equal(t, "250", summaries[1].Balance.String())
}

func Test_OnClose_ShouldFlushAppends(t *testing.T) {
	dataPath := t.TempDir()
	b, err := New(dataPath)
	require.NoError(t, err)
	l, err := b.Create("Groceries")
	require.NoError(t, err)
	_, err = l.Append("food", decimal.RequireFromString("100"), "")
	require.NoError(t, err)

	require.NoError(t, b.Close())

	reopened, err := New(dataPath)
	require.NoError(t, err)
	got, err := reopened.LedgerByName("Groceries")
	require.NoError(t, err)
	require.NotNil(t, got)

	balance, err := got.CurrentBalance()
	require.NoError(t, err)
	assert.Equal(t, "100", balance.String())
}
