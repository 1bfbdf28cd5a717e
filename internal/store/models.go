// Package store is the manifest/catalog backend (spec §2.11): every batch
// run's per-file outputs are persisted so a caller can review what was
// extracted, diff runs against each other, or flag duplicate catalog ids
// across files. Grounded on the teacher's models/models.go and db/sqlite.go.
package store

import (
	"time"

	"gorm.io/datatypes"
)

// Run is a single invocation of the batch driver over a directory.
type Run struct {
	ID            string    `gorm:"primaryKey;type:varchar(20)"`
	RootPath      string    `gorm:"type:varchar(500);not null"`
	IsDevelopment bool      `gorm:"not null;default:false"`
	DryRun        bool      `gorm:"not null;default:false"`
	FileCount     int       `gorm:"not null;default:0"`
	MessageCount  int       `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index"`

	Files []RunFile `gorm:"foreignKey:RunID"`
}

// RunFile is one file's ModuleOutput within a Run, serialized as JSON the
// way the teacher stores TargetQuery/ConfidenceFactors/ScopeAST.
type RunFile struct {
	ID       uint           `gorm:"primaryKey;autoIncrement"`
	RunID    string         `gorm:"type:varchar(20);index;not null"`
	Path     string         `gorm:"type:varchar(500);not null"`
	Output   datatypes.JSON `gorm:"type:jsonb"`
	Written  bool           `gorm:"not null;default:false"`
	HasError bool           `gorm:"not null;default:false"`
	ErrorMsg string         `gorm:"type:text"`
}

// DuplicateID is one catalog id that more than one RunFile in a run claims
// with differing message text — a signal the same id was independently
// derived for two different strings (a hash collision) or that an explicit
// author-supplied id was reused by mistake.
type DuplicateID struct {
	ID        string
	Messages  []string
	FilePaths []string
}
