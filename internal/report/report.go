package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spigell/ares/internal/interview"
)

// Report is the exported record of one finished interview.
type Report struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Summary     interview.Summary  `json:"summary"`
	Decision    interview.Decision `json:"decision"`
	History     []interview.Turn   `json:"history"`
	RiskFlags   []string           `json:"risk_flags,omitempty"`
}

// New builds a report from a session snapshot and its summary.
func New(snapshot interview.Snapshot, summary interview.Summary, riskFlags []string) Report {
	return Report{
		GeneratedAt: time.Now().UTC(),
		Summary:     summary,
		Decision:    snapshot.Decision,
		History:     snapshot.History,
		RiskFlags:   riskFlags,
	}
}

// Save writes r as indented JSON to path, creating parent directories.
func Save(path string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing report %q: %w", path, err)
	}

	return nil
}
