package auditlog_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-project/custodia/internal/auditlog"
	"github.com/custodia-project/custodia/pkg/model"
)

func row(score *float64, passed bool) model.AuditRow {
	return model.AuditRow{
		Timestamp: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		Revision:  "abc123",
		Mode:      "RESEARCH",
		Score:     score,
		Passed:    passed,
	}
}

func TestAppender_HeaderWrittenOnceOnCreation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit_log.csv")
	a := auditlog.NewAppender(path)

	score := 0.7143
	require.NoError(t, a.Append(row(&score, true)))
	require.NoError(t, a.Append(row(&score, true)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Timestamp,Revision,Mode,Citation_Score,Status", lines[0])
	assert.Equal(t, 1, strings.Count(string(data), "Timestamp,"))
}

func TestAppender_RowFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit_log.csv")
	a := auditlog.NewAppender(path)

	score := 0.8571
	require.NoError(t, a.Append(row(&score, false)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	rec := records[1]
	assert.Equal(t, "abc123", rec[1])
	assert.Equal(t, "RESEARCH", rec[2])
	assert.Equal(t, "0.8571", rec[3])
	assert.Equal(t, "FAIL", rec[4])

	_, err = time.Parse(time.RFC3339Nano, rec[0])
	assert.NoError(t, err)
}

func TestAppender_NilScoreIsNA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit_log.csv")
	a := auditlog.NewAppender(path)

	require.NoError(t, a.Append(row(nil, true)))

	rows, err := a.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.ScoreNA, rows[0][3])
	assert.Equal(t, "PASS", rows[0][4])
}

func TestAppender_AppendsNeverRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit_log.csv")
	a := auditlog.NewAppender(path)

	score := 1.0
	require.NoError(t, a.Append(row(&score, true)))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, a.Append(row(nil, false)))
	after, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(after), string(before)),
		"existing rows must be preserved byte for byte")
}

func TestAppender_RowsOnMissingLog(t *testing.T) {
	a := auditlog.NewAppender(filepath.Join(t.TempDir(), "absent.csv"))
	rows, err := a.Rows()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAppender_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "audit_log.csv")
	a := auditlog.NewAppender(path)
	score := 0.5
	require.NoError(t, a.Append(row(&score, false)))
	assert.FileExists(t, path)
}
