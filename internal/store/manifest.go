package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/oxhq/extracti18n/internal/core"
)

// Manifest records batch runs and their per-file outputs, grounded on the
// teacher's mcp.StagingManager.
type Manifest struct {
	db *gorm.DB
}

// NewManifest constructs a Manifest over an already-migrated db.
func NewManifest(db *gorm.DB) *Manifest {
	return &Manifest{db: db}
}

// IsEnabled reports whether the manifest has a backing database connection.
func (m *Manifest) IsEnabled() bool {
	return m != nil && m.db != nil
}

// CreateRun inserts a new Run row and returns its generated ID.
func (m *Manifest) CreateRun(ctx context.Context, rootPath string, isDevelopment, dryRun bool) (string, error) {
	run := &Run{
		ID:            generateID("run"),
		RootPath:      rootPath,
		IsDevelopment: isDevelopment,
		DryRun:        dryRun,
	}
	if err := m.db.WithContext(ctx).Create(run).Error; err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	return run.ID, nil
}

// RecordFile persists one file's ModuleOutput under runID. A nil err means
// the transform succeeded; any non-nil err is stored instead of the output.
func (m *Manifest) RecordFile(ctx context.Context, runID, path string, output core.ModuleOutput, written bool, fileErr error) error {
	record := &RunFile{RunID: runID, Path: path, Written: written}
	if fileErr != nil {
		record.HasError = true
		record.ErrorMsg = fileErr.Error()
	} else {
		encoded, err := json.Marshal(output)
		if err != nil {
			return fmt.Errorf("failed to encode output for %s: %w", path, err)
		}
		record.Output = datatypes.JSON(encoded)
	}

	db := m.db.WithContext(ctx)
	if err := db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to record file %s: %w", path, err)
	}

	if fileErr == nil {
		if err := db.Model(&Run{}).Where("id = ?", runID).
			Updates(map[string]any{
				"file_count":    gorm.Expr("file_count + 1"),
				"message_count": gorm.Expr("message_count + ?", len(output.Messages)),
			}).Error; err != nil {
			return fmt.Errorf("failed to update run totals: %w", err)
		}
	}
	return ctx.Err()
}

// LatestRun returns the most recently created Run.
func (m *Manifest) LatestRun(ctx context.Context) (Run, error) {
	var run Run
	if err := m.db.WithContext(ctx).Order("created_at desc").First(&run).Error; err != nil {
		return Run{}, fmt.Errorf("failed to load latest run: %w", err)
	}
	return run, nil
}

// RunByID returns the Run with the given id.
func (m *Manifest) RunByID(ctx context.Context, id string) (Run, error) {
	var run Run
	if err := m.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		return Run{}, fmt.Errorf("failed to load run %s: %w", id, err)
	}
	return run, nil
}

// Duplicates scans every RunFile under runID for catalog ids whose recorded
// message text disagrees across files — the cross-file dedup report spec
// §2.11 asks the manifest to support.
func (m *Manifest) Duplicates(ctx context.Context, runID string) ([]DuplicateID, error) {
	var files []RunFile
	if err := m.db.WithContext(ctx).Where("run_id = ? AND has_error = ?", runID, false).Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to load run files: %w", err)
	}

	type occurrence struct {
		message string
		path    string
	}
	seen := make(map[string][]occurrence)

	for _, file := range files {
		var output core.ModuleOutput
		if err := json.Unmarshal(file.Output, &output); err != nil {
			continue
		}
		for _, msg := range output.Messages {
			seen[msg.ID] = append(seen[msg.ID], occurrence{message: msg.Message, path: file.Path})
		}
	}

	var duplicates []DuplicateID
	for id, occurrences := range seen {
		distinct := make(map[string]bool)
		for _, o := range occurrences {
			distinct[o.message] = true
		}
		if len(distinct) <= 1 {
			continue
		}
		dup := DuplicateID{ID: id}
		for _, o := range occurrences {
			dup.Messages = append(dup.Messages, o.message)
			dup.FilePaths = append(dup.FilePaths, o.path)
		}
		duplicates = append(duplicates, dup)
	}
	return duplicates, nil
}

// generateID mirrors the teacher's mcp.generateID: a random hex suffix, with
// a timestamp fallback if the CSPRNG read fails.
func generateID(prefix string) string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(buf))
}
