package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

const captureTimeLayout = "20060102_150405"

func captureName(matchID string, at time.Time) string {
	return fmt.Sprintf("raw_html_%s_%s.html", matchID, at.Format(captureTimeLayout))
}

func capturePrefix(matchID string) string {
	return "raw_html_" + matchID + "_"
}

// FileDebugSink writes raw documents into a local directory
type FileDebugSink struct {
	dir string
	now func() time.Time
}

// NewFileDebugSink creates the directory if needed
func NewFileDebugSink(dir string) (*FileDebugSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create debug dir: %w", err)
	}
	return &FileDebugSink{dir: dir, now: time.Now}, nil
}

// Save writes document and returns its path
func (s *FileDebugSink) Save(ctx context.Context, matchID, document string) (string, error) {
	path := filepath.Join(s.dir, captureName(matchID, s.now()))
	if err := os.WriteFile(path, []byte(document), 0o644); err != nil {
		return "", fmt.Errorf("write debug capture: %w", err)
	}
	return path, nil
}

// List returns the captures of a match, newest first
func (s *FileDebugSink) List(ctx context.Context, matchID string) ([]models.DebugCapture, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read debug dir: %w", err)
	}

	prefix := capturePrefix(matchID)
	captures := []models.DebugCapture{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		captures = append(captures, models.DebugCapture{
			Name:       e.Name(),
			Location:   filepath.Join(s.dir, e.Name()),
			Size:       info.Size(),
			CapturedAt: info.ModTime(),
		})
	}

	// names embed the capture time, so lexical order is chronological
	sort.Slice(captures, func(i, j int) bool {
		return captures[i].Name > captures[j].Name
	})
	return captures, nil
}
