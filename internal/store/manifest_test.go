package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/extracti18n/internal/core"
)

func openTestDB(t *testing.T) *Manifest {
	t.Helper()
	db, err := Connect(":memory:", false)
	require.NoError(t, err)
	return NewManifest(db)
}

func TestManifest_CreateRunAndRecordFile(t *testing.T) {
	m := openTestDB(t)
	ctx := context.Background()

	runID, err := m.CreateRun(ctx, "/repo/app", false, false)
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	output := core.ModuleOutput{
		Messages: []core.Message{
			{Type: core.MessageExtracted, ID: "abc123", Message: "Hello"},
		},
	}
	require.NoError(t, m.RecordFile(ctx, runID, "app/page.tsx", output, true, nil))

	var run Run
	require.NoError(t, m.db.First(&run, "id = ?", runID).Error)
	assert.Equal(t, 1, run.FileCount)
	assert.Equal(t, 1, run.MessageCount)
}

func TestManifest_RecordFileError(t *testing.T) {
	m := openTestDB(t)
	ctx := context.Background()

	runID, err := m.CreateRun(ctx, "/repo/app", false, false)
	require.NoError(t, err)

	err = m.RecordFile(ctx, runID, "app/broken.tsx", core.ModuleOutput{}, false, errParseFailed)
	require.NoError(t, err)

	var run Run
	require.NoError(t, m.db.First(&run, "id = ?", runID).Error)
	assert.Equal(t, 0, run.FileCount, "a failed file must not count toward FileCount")
}

func TestManifest_DuplicatesAcrossFiles(t *testing.T) {
	m := openTestDB(t)
	ctx := context.Background()

	runID, err := m.CreateRun(ctx, "/repo/app", false, false)
	require.NoError(t, err)

	err1 := m.RecordFile(ctx, runID, "a.tsx", core.ModuleOutput{
		Messages: []core.Message{{Type: core.MessageExtracted, ID: "dup1", Message: "First text"}},
	}, true, nil)
	err2 := m.RecordFile(ctx, runID, "b.tsx", core.ModuleOutput{
		Messages: []core.Message{{Type: core.MessageExtracted, ID: "dup1", Message: "Different text"}},
	}, true, nil)
	require.NoError(t, err1)
	require.NoError(t, err2)

	duplicates, err := m.Duplicates(ctx, runID)
	require.NoError(t, err)
	require.Len(t, duplicates, 1)
	assert.Equal(t, "dup1", duplicates[0].ID)
}

func TestManifest_LatestRunReturnsMostRecent(t *testing.T) {
	m := openTestDB(t)
	ctx := context.Background()

	first, err := m.CreateRun(ctx, "/repo/first", false, false)
	require.NoError(t, err)
	second, err := m.CreateRun(ctx, "/repo/second", false, false)
	require.NoError(t, err)

	latest, err := m.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, latest.ID)
	assert.NotEqual(t, first, latest.ID)
}

func TestManifest_RunByIDReturnsMatchingRun(t *testing.T) {
	m := openTestDB(t)
	ctx := context.Background()

	runID, err := m.CreateRun(ctx, "/repo/app", true, true)
	require.NoError(t, err)

	run, err := m.RunByID(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, "/repo/app", run.RootPath)
	assert.True(t, run.IsDevelopment)
	assert.True(t, run.DryRun)
}

func TestManifest_RunByIDMissingReturnsError(t *testing.T) {
	m := openTestDB(t)
	_, err := m.RunByID(context.Background(), "run_doesnotexist")
	assert.Error(t, err)
}

var errParseFailed = core.CLIError{Code: core.ErrCodeParseFailure, Message: "parse failed"}
