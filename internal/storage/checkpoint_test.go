package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const checkpointData = "Groceries\nMilk 2.5 10 2025-01-01\n"

func setupCheckpoints(t *testing.T) (*CheckpointManager, string) {
	t.Helper()
	dataPath := filepath.Join(t.TempDir(), DefaultDataFile)
	require.NoError(t, os.WriteFile(dataPath, []byte(checkpointData), 0600))

	cm, err := NewCheckpointManager(dataPath)
	require.NoError(t, err)

	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cm.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return cm, dataPath
}

func TestCheckpointManager_CreateAndList(t *testing.T) {
	ctx := context.Background()
	cm, _ := setupCheckpoints(t)

	first, err := cm.Create(ctx, "before-sale", "Before the big sale")
	require.NoError(t, err)
	assert.Equal(t, "before-sale", first.ID)
	assert.Equal(t, int64(len(checkpointData)), first.FileSize)
	assert.False(t, first.IsAuto)

	second, err := cm.Create(ctx, "", "")
	require.NoError(t, err)
	assert.Contains(t, second.ID, "checkpoint-2024-06-01")

	checkpoints, err := cm.List(ctx)
	require.NoError(t, err)
	require.Len(t, checkpoints, 2)
	assert.Equal(t, second.ID, checkpoints[0].ID, "newest first")
	assert.Equal(t, "Before the big sale", checkpoints[1].Description)
}

func TestCheckpointManager_CreateErrors(t *testing.T) {
	ctx := context.Background()
	cm, dataPath := setupCheckpoints(t)

	_, err := cm.Create(ctx, "dup", "")
	require.NoError(t, err)
	_, err = cm.Create(ctx, "dup", "")
	assert.ErrorIs(t, err, ErrCheckpointExists)

	for _, tag := range []string{"../escape", "a/b", `a\b`} {
		_, err = cm.Create(ctx, tag, "")
		assert.ErrorIs(t, err, ErrInvalidCheckpointID, tag)
	}

	require.NoError(t, os.Remove(dataPath))
	_, err = cm.Create(ctx, "no-data", "")
	assert.Error(t, err)
}

func TestCheckpointManager_Restore(t *testing.T) {
	ctx := context.Background()
	cm, dataPath := setupCheckpoints(t)

	_, err := cm.Create(ctx, "good", "")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(dataPath, []byte("Groceries\nMilk 2.5 0 2025-01-01\n"), 0600))
	require.NoError(t, cm.Restore(ctx, "good"))

	data, err := os.ReadFile(dataPath)
	require.NoError(t, err)
	assert.Equal(t, checkpointData, string(data))

	_, err = os.Stat(dataPath + ".restore-backup")
	assert.True(t, os.IsNotExist(err), "backup is removed after a successful restore")
}

func TestCheckpointManager_RestoreErrors(t *testing.T) {
	ctx := context.Background()
	cm, _ := setupCheckpoints(t)

	assert.ErrorIs(t, cm.Restore(ctx, "missing"), ErrCheckpointNotFound)

	_, err := cm.Create(ctx, "tampered", "")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(cm.Dir(), "tampered.snapshot"), []byte("Furniture\n"), 0600))

	assert.ErrorIs(t, cm.Restore(ctx, "tampered"), ErrCheckpointCorrupted)
}

func TestCheckpointManager_Delete(t *testing.T) {
	ctx := context.Background()
	cm, _ := setupCheckpoints(t)

	_, err := cm.Create(ctx, "gone", "")
	require.NoError(t, err)

	require.NoError(t, cm.Delete(ctx, "gone"))
	assert.ErrorIs(t, cm.Delete(ctx, "gone"), ErrCheckpointNotFound)

	checkpoints, err := cm.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, checkpoints)
}

func TestCheckpointManager_AutoCheckpointCleanup(t *testing.T) {
	ctx := context.Background()
	cm, _ := setupCheckpoints(t)

	_, err := cm.Create(ctx, "manual", "")
	require.NoError(t, err)

	for i := 0; i < maxAutoCheckpoints+3; i++ {
		info, err := cm.AutoCheckpoint(ctx, "restore")
		require.NoError(t, err, fmt.Sprintf("auto checkpoint %d", i))
		assert.True(t, info.IsAuto)
	}

	checkpoints, err := cm.List(ctx)
	require.NoError(t, err)

	autoCount := 0
	for _, cp := range checkpoints {
		if cp.IsAuto {
			autoCount++
		}
	}
	assert.Equal(t, maxAutoCheckpoints, autoCount)
	assert.Len(t, checkpoints, maxAutoCheckpoints+1, "manual checkpoints are never cleaned up")
}
