package simreport

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Storage persists RunReports as JSON files under a directory, rotating
// away the oldest once more than KeepLastN accumulate (grounded on the
// teacher's reporting.Storage, which does the identical rotation for its
// own TestReport JSON files).
type Storage struct {
	outputDir string
	keepLastN int
	logger    Logger
}

// Logger is the minimal logging surface Storage needs; simlog.Logger
// satisfies it.
type Logger interface {
	Infof(format string, args ...any)
	Debugf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Debugf(string, ...any) {}

// NewStorage creates a Storage rooted at outputDir, creating it if
// necessary. A nil logger installs a no-op one.
func NewStorage(outputDir string, keepLastN int, logger Logger) (*Storage, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("simreport: create output dir: %w", err)
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Storage{outputDir: outputDir, keepLastN: keepLastN, logger: logger}, nil
}

// Save writes report as an indented JSON file named by its RunID and
// start time, then prunes old reports if KeepLastN is exceeded.
func (s *Storage) Save(report RunReport) (string, error) {
	filename := fmt.Sprintf("run-%s-%s.json", report.StartedAt.Format("20060102-150405"), report.RunID)
	path := filepath.Join(s.outputDir, filename)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("simreport: marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("simreport: write report: %w", err)
	}
	s.logger.Infof("run report saved path=%s", path)

	if s.keepLastN > 0 {
		if err := s.prune(); err != nil {
			s.logger.Debugf("prune old reports failed: %v", err)
		}
	}
	return path, nil
}

// Load reads a previously saved report back from disk.
func (s *Storage) Load(path string) (RunReport, error) {
	var report RunReport
	data, err := os.ReadFile(path)
	if err != nil {
		return report, fmt.Errorf("simreport: read report: %w", err)
	}
	if err := json.Unmarshal(data, &report); err != nil {
		return report, fmt.Errorf("simreport: unmarshal report: %w", err)
	}
	return report, nil
}

// List returns every stored report's path, newest first.
func (s *Storage) List() ([]string, error) {
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		return nil, fmt.Errorf("simreport: read output dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		paths = append(paths, filepath.Join(s.outputDir, e.Name()))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	return paths, nil
}

func (s *Storage) prune() error {
	paths, err := s.List()
	if err != nil {
		return err
	}
	if len(paths) <= s.keepLastN {
		return nil
	}
	for _, p := range paths[s.keepLastN:] {
		if err := os.Remove(p); err != nil {
			s.logger.Debugf("failed to remove old report %s: %v", p, err)
		}
	}
	return nil
}
