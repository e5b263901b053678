// Package auditlog persists the append-only validation trail: exactly one
// row per validation run, never rewritten or truncated.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/custodia-project/custodia/pkg/fsutil"
	"github.com/custodia-project/custodia/pkg/model"
)

var header = []string{"Timestamp", "Revision", "Mode", "Citation_Score", "Status"}

// Appender appends rows to a delimited audit log, writing the header only on
// first creation. Appends hold a sidecar flock in addition to the in-process
// mutex so concurrent runs interleave at row granularity only.
type Appender struct {
	path string
	mu   sync.Mutex
}

// NewAppender creates an appender for the log at path.
func NewAppender(path string) *Appender {
	return &Appender{path: path}
}

// Path returns the audit log path.
func (a *Appender) Path() string {
	return a.path
}

// Append adds one row to the log.
func (a *Appender) Append(row model.AuditRow) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	return fsutil.WithFlock(a.path+".flock", func() error {
		if err := os.MkdirAll(filepath.Dir(a.path), 0755); err != nil {
			return fmt.Errorf("create audit dir: %w", err)
		}

		file, err := os.OpenFile(a.path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open audit log: %w", err)
		}
		defer file.Close()

		info, err := file.Stat()
		if err != nil {
			return fmt.Errorf("stat audit log: %w", err)
		}

		w := csv.NewWriter(file)
		if info.Size() == 0 {
			if err := w.Write(header); err != nil {
				return fmt.Errorf("write audit header: %w", err)
			}
		}
		record := []string{
			row.Timestamp.UTC().Format(time.RFC3339Nano),
			row.Revision,
			row.Mode,
			row.ScoreString(),
			row.StatusString(),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write audit row: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return fmt.Errorf("flush audit row: %w", err)
		}
		return file.Sync()
	})
}

// Rows returns all data rows (header excluded). A missing log yields no rows.
func (a *Appender) Rows() ([][]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	file, err := os.Open(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	var rows [][]string
	first := true
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read audit log: %w", err)
		}
		if first {
			first = false
			continue // header
		}
		rows = append(rows, record)
	}
	return rows, nil
}
