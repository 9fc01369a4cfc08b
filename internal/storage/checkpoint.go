package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// CheckpointManager snapshots the data file into a sibling checkpoints directory.
type CheckpointManager struct {
	dataPath       string
	checkpointsDir string
	now            func() time.Time
}

// CheckpointMetadata contains metadata about a checkpoint.
type CheckpointMetadata struct {
	CreatedAt   time.Time `json:"created_at"`
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	SHA256      string    `json:"sha256"`
	FileSize    int64     `json:"file_size"`
	IsAuto      bool      `json:"is_auto"`
}

// CheckpointInfo represents information about a checkpoint for listing.
type CheckpointInfo struct {
	CreatedAt   time.Time
	ID          string
	Description string
	FileSize    int64
	IsAuto      bool
}

// Common errors.
var (
	ErrCheckpointNotFound  = errors.New("checkpoint not found")
	ErrCheckpointCorrupted = errors.New("checkpoint integrity check failed")
	ErrCheckpointExists    = errors.New("checkpoint already exists")
	ErrInvalidCheckpointID = errors.New("invalid checkpoint tag: cannot contain path separators")
)

const maxAutoCheckpoints = 5

// NewCheckpointManager creates a checkpoint manager for the given data file.
func NewCheckpointManager(dataPath string) (*CheckpointManager, error) {
	if err := validateString(dataPath, "dataPath"); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data path: %w", err)
	}

	checkpointsDir := filepath.Join(filepath.Dir(abs), "checkpoints")
	if err := os.MkdirAll(checkpointsDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create checkpoints directory: %w", err)
	}

	return &CheckpointManager{
		dataPath:       abs,
		checkpointsDir: checkpointsDir,
		now:            time.Now,
	}, nil
}

// Dir is where snapshots and their metadata live.
func (cm *CheckpointManager) Dir() string {
	return cm.checkpointsDir
}

// Create snapshots the data file under tag, generating a tag when empty.
func (cm *CheckpointManager) Create(_ context.Context, tag, description string) (*CheckpointInfo, error) {
	return cm.create(tag, description, false)
}

// AutoCheckpoint snapshots the data file before an operation that replaces it,
// keeping only the most recent automatic snapshots.
func (cm *CheckpointManager) AutoCheckpoint(ctx context.Context, prefix string) (*CheckpointInfo, error) {
	tag := fmt.Sprintf("auto-%s-%s", prefix, cm.now().Format("2006-01-02-150405"))
	info, err := cm.create(tag, fmt.Sprintf("Automatic checkpoint before %s", prefix), true)
	if err != nil {
		return nil, fmt.Errorf("failed to create auto-checkpoint: %w", err)
	}

	if err := cm.cleanupOldAutoCheckpoints(ctx); err != nil {
		slog.Warn("failed to clean up old auto-checkpoints", "error", err)
	}

	return info, nil
}

func (cm *CheckpointManager) create(tag, description string, auto bool) (*CheckpointInfo, error) {
	if tag == "" {
		tag = fmt.Sprintf("checkpoint-%s", cm.now().Format("2006-01-02-150405"))
	}
	if err := validateCheckpointID(tag); err != nil {
		return nil, err
	}

	snapshotPath := cm.snapshotPath(tag)
	if _, err := os.Stat(snapshotPath); err == nil {
		return nil, ErrCheckpointExists
	}

	if err := copyFile(cm.dataPath, snapshotPath); err != nil {
		return nil, fmt.Errorf("failed to snapshot %s: %w", cm.dataPath, err)
	}

	sum, size, err := fileDigest(snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("failed to hash checkpoint: %w", err)
	}

	metadata := CheckpointMetadata{
		ID:          tag,
		CreatedAt:   cm.now(),
		Description: description,
		Source:      cm.dataPath,
		SHA256:      sum,
		FileSize:    size,
		IsAuto:      auto,
	}

	if err := saveMetadata(cm.metadataPath(tag), metadata); err != nil {
		if rmErr := os.Remove(snapshotPath); rmErr != nil {
			slog.Error("failed to remove checkpoint file after metadata save failure", "error", rmErr)
		}
		return nil, fmt.Errorf("failed to save metadata: %w", err)
	}

	slog.Debug("created checkpoint", "id", tag, "size", size)
	return metadata.info(), nil
}

// List returns all checkpoints, newest first.
func (cm *CheckpointManager) List(_ context.Context) ([]CheckpointInfo, error) {
	entries, err := os.ReadDir(cm.checkpointsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoints directory: %w", err)
	}

	checkpoints := make([]CheckpointInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}

		metadata, err := loadMetadata(filepath.Join(cm.checkpointsDir, entry.Name()))
		if err != nil {
			// Skip corrupted metadata files
			continue
		}
		checkpoints = append(checkpoints, *metadata.info())
	}

	sort.Slice(checkpoints, func(i, j int) bool {
		return checkpoints[i].CreatedAt.After(checkpoints[j].CreatedAt)
	})

	return checkpoints, nil
}

// Restore replaces the data file with a verified snapshot. The current data
// file is kept aside until the copy succeeds.
func (cm *CheckpointManager) Restore(_ context.Context, checkpointID string) error {
	if err := validateCheckpointID(checkpointID); err != nil {
		return err
	}

	snapshotPath := cm.snapshotPath(checkpointID)
	if _, err := os.Stat(snapshotPath); err != nil {
		if os.IsNotExist(err) {
			return ErrCheckpointNotFound
		}
		return fmt.Errorf("failed to access checkpoint: %w", err)
	}

	metadata, err := loadMetadata(cm.metadataPath(checkpointID))
	if err != nil {
		return fmt.Errorf("failed to load checkpoint metadata: %w", err)
	}

	sum, _, err := fileDigest(snapshotPath)
	if err != nil || sum != metadata.SHA256 {
		return ErrCheckpointCorrupted
	}

	backupPath := cm.dataPath + ".restore-backup"
	hadData := true
	if err := copyFile(cm.dataPath, backupPath); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to backup current data: %w", err)
		}
		hadData = false
	}

	if err := copyFile(snapshotPath, cm.dataPath); err != nil {
		if hadData {
			if restoreErr := copyFile(backupPath, cm.dataPath); restoreErr != nil {
				slog.Error("failed to restore backup after checkpoint restore failure", "error", restoreErr)
			}
		}
		return fmt.Errorf("failed to restore checkpoint: %w", err)
	}

	if hadData {
		if err := os.Remove(backupPath); err != nil {
			slog.Error("failed to remove backup file", "error", err)
		}
	}

	return nil
}

// Delete removes a checkpoint and its metadata.
func (cm *CheckpointManager) Delete(_ context.Context, checkpointID string) error {
	if err := validateCheckpointID(checkpointID); err != nil {
		return err
	}

	snapshotPath := cm.snapshotPath(checkpointID)
	if _, err := os.Stat(snapshotPath); err != nil {
		if os.IsNotExist(err) {
			return ErrCheckpointNotFound
		}
		return fmt.Errorf("failed to access checkpoint: %w", err)
	}

	if err := os.Remove(snapshotPath); err != nil {
		return fmt.Errorf("failed to remove checkpoint file: %w", err)
	}

	metadataPath := cm.metadataPath(checkpointID)
	if err := os.Remove(metadataPath); err != nil {
		// Non-fatal: metadata might not exist
		slog.Debug("failed to remove metadata file", "error", err, "path", metadataPath)
	}

	return nil
}

func (cm *CheckpointManager) cleanupOldAutoCheckpoints(ctx context.Context) error {
	checkpoints, err := cm.List(ctx)
	if err != nil {
		return err
	}

	autoCount := 0
	for _, cp := range checkpoints {
		if !cp.IsAuto {
			continue
		}
		autoCount++
		if autoCount > maxAutoCheckpoints {
			if err := cm.Delete(ctx, cp.ID); err != nil {
				slog.Debug("failed to delete old auto-checkpoint during cleanup", "error", err, "checkpoint", cp.ID)
			}
		}
	}

	return nil
}

func (cm *CheckpointManager) snapshotPath(id string) string {
	return filepath.Join(cm.checkpointsDir, id+".snapshot")
}

func (cm *CheckpointManager) metadataPath(id string) string {
	return filepath.Join(cm.checkpointsDir, id+".meta.json")
}

func (m CheckpointMetadata) info() *CheckpointInfo {
	return &CheckpointInfo{
		ID:          m.ID,
		CreatedAt:   m.CreatedAt,
		Description: m.Description,
		FileSize:    m.FileSize,
		IsAuto:      m.IsAuto,
	}
}

func validateCheckpointID(id string) error {
	if strings.Contains(id, "/") || strings.Contains(id, "\\") || strings.Contains(id, "..") {
		return ErrInvalidCheckpointID
	}
	return validateString(id, "checkpoint id")
}

func fileDigest(path string) (string, int64, error) {
	// #nosec G304 - path is built from the checkpoints directory
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

func copyFile(src, dst string) error {
	// #nosec G304 - src is the configured data file or a checkpoint
	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := source.Close(); closeErr != nil {
			slog.Error("failed to close source file", "error", closeErr)
		}
	}()

	// Create temporary file first for atomic operation
	tmpDst := dst + ".tmp"
	destination, err := os.Create(tmpDst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destination, source); err != nil {
		_ = destination.Close()
		if rmErr := os.Remove(tmpDst); rmErr != nil {
			slog.Error("failed to remove temporary file after copy error", "error", rmErr)
		}
		return err
	}

	if err := destination.Close(); err != nil {
		if rmErr := os.Remove(tmpDst); rmErr != nil {
			slog.Error("failed to remove temporary file after close error", "error", rmErr)
		}
		return err
	}

	return os.Rename(tmpDst, dst)
}

func saveMetadata(path string, metadata CheckpointMetadata) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func loadMetadata(path string) (*CheckpointMetadata, error) {
	// #nosec G304 - path is built from the checkpoints directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var metadata CheckpointMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, err
	}
	return &metadata, nil
}
