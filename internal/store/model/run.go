package model

import (
	"time"

	"gorm.io/datatypes"
)

// Run is one persisted diagnostics run. Verdicts holds the per-check
// outcomes as a JSON array; the full dashboard is not stored, it can be
// regenerated from the dataset.
type Run struct {
	ID         string         `gorm:"primaryKey;size:36" json:"id"`
	Dataset    string         `gorm:"index" json:"dataset"`
	Target     string         `json:"target"`
	Task       string         `json:"task"`
	SigLevel   float64        `json:"sig_level"`
	Violations int            `json:"violations"`
	ChecksRun  int            `json:"checks_run"`
	Verdicts   datatypes.JSON `json:"verdicts"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}

// TableName keeps the table name stable across gorm naming strategies.
func (Run) TableName() string { return "assume_runs" }
