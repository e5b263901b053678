package validate_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-project/custodia/internal/auditlog"
	"github.com/custodia-project/custodia/internal/manifest"
	"github.com/custodia-project/custodia/internal/revision"
	"github.com/custodia-project/custodia/internal/validate"
	"github.com/custodia-project/custodia/pkg/errclass"
	"github.com/custodia-project/custodia/pkg/model"
)

const knownHash = "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2"

func newRunner(t *testing.T) (*validate.Runner, *auditlog.Appender) {
	t.Helper()
	dir := t.TempDir()

	m := model.Manifest{{
		Filename:   "enrollment.csv",
		SHA256:     knownHash,
		IngestedAt: time.Now().UTC(),
		SourcePath: filepath.Join(dir, "enrollment.csv"),
		GitCommit:  "NO_GIT_COMMIT",
	}}
	data, err := json.MarshalIndent(m, "", "  ")
	require.NoError(t, err)
	manifestPath := filepath.Join(dir, "manifest.json")
	require.NoError(t, os.WriteFile(manifestPath, data, 0644))

	audit := auditlog.NewAppender(filepath.Join(dir, "audit_log.csv"))
	return &validate.Runner{
		Store:    manifest.NewStore(manifestPath),
		Audit:    audit,
		Revision: revision.Static("rev-test"),
	}, audit
}

func TestRunner_PassingResearchRun(t *testing.T) {
	runner, audit := newRunner(t)
	text := "Enrollment grew 12% " + knownHash + ". The data was reviewed."

	rep, err := runner.Run(text, validate.Options{Mode: model.ModeResearch})
	require.NoError(t, err)
	assert.True(t, rep.Passed)
	assert.True(t, rep.Reported)
	require.NotNil(t, rep.Density.Density)
	assert.Equal(t, 1.0, *rep.Density.Density)
	assert.Equal(t, 0.70, rep.Threshold)

	rows, err := audit.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "rev-test", rows[0][1])
	assert.Equal(t, "RESEARCH", rows[0][2])
	assert.Equal(t, "1.0000", rows[0][3])
	assert.Equal(t, "PASS", rows[0][4])
}

func TestRunner_LowDensityFailsAndIsLogged(t *testing.T) {
	runner, audit := newRunner(t)
	text := "Enrollment grew 12% with no source. Spending fell 8% either."

	rep, err := runner.Run(text, validate.Options{Mode: model.ModeResearch})
	require.Error(t, err)
	assert.ErrorIs(t, err, errclass.ErrValidationFailure)
	assert.Equal(t, errclass.ExitFailure, errclass.ExitCode(err))
	assert.False(t, rep.Passed)
	assert.False(t, rep.Reported)
	assert.NotEmpty(t, rep.FixIts)

	rows, err := audit.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "0.0000", rows[0][3])
	assert.Equal(t, "FAIL", rows[0][4])
}

func TestRunner_DraftReportsSuccessButLogsComputedVerdict(t *testing.T) {
	runner, audit := newRunner(t)
	text := "Enrollment grew 12% with no source cited."

	rep, err := runner.Run(text, validate.Options{Mode: model.ModeResearch, Draft: true})
	require.NoError(t, err, "draft runs never fail on the verdict")
	assert.False(t, rep.Passed)
	assert.True(t, rep.Reported)

	rows, err := audit.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "RESEARCH-DRAFT", rows[0][2])
	assert.Equal(t, "FAIL", rows[0][4], "the audit trail records what was computed, not what was reported")
}

func TestRunner_ComplianceRejectsUnverifiedCitations(t *testing.T) {
	runner, _ := newRunner(t)
	unknown := "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"
	// Density is perfect; the fabricated citation alone fails compliance.
	text := "Enrollment grew 12% " + knownHash + ". Some note mentions " + unknown + " too."

	repResearch, err := runner.Run(text, validate.Options{Mode: model.ModeResearch})
	require.NoError(t, err, "research mode treats unverified citations as warnings")
	assert.True(t, repResearch.Passed)
	assert.Len(t, repResearch.Unverified, 1)

	repCompliance, err := runner.Run(text, validate.Options{Mode: model.ModeCompliance})
	require.Error(t, err)
	assert.ErrorIs(t, err, errclass.ErrValidationFailure)
	assert.False(t, repCompliance.CitationsPass)
}

func TestRunner_NoClaimsPassesWithNAScore(t *testing.T) {
	runner, audit := newRunner(t)

	rep, err := runner.Run("It is generally believed that things happen.", validate.Options{Mode: model.ModeCompliance})
	require.NoError(t, err)
	assert.True(t, rep.Passed)
	assert.Nil(t, rep.Density.Density)

	rows, err := audit.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.ScoreNA, rows[0][3])
	assert.Equal(t, "PASS", rows[0][4])
}

func TestRunner_ThresholdOverride(t *testing.T) {
	runner, _ := newRunner(t)
	text := "Enrollment grew 12% " + knownHash + ". Spending fell 8% uncited here."

	// Two claims, one cited: density 0.5.
	low := 0.5
	rep, err := runner.Run(text, validate.Options{Mode: model.ModeResearch, Threshold: &low})
	require.NoError(t, err)
	assert.True(t, rep.Passed)
	assert.Equal(t, 0.5, rep.Threshold)

	_, err = runner.Run(text, validate.Options{Mode: model.ModeResearch})
	assert.ErrorIs(t, err, errclass.ErrValidationFailure)
}

func TestRunner_MissingManifestIsInputMissing(t *testing.T) {
	dir := t.TempDir()
	runner := &validate.Runner{
		Store:    manifest.NewStore(filepath.Join(dir, "absent.json")),
		Audit:    auditlog.NewAppender(filepath.Join(dir, "audit_log.csv")),
		Revision: revision.Static("rev-test"),
	}

	rep, err := runner.Run("Anything at all.", validate.Options{Mode: model.ModeResearch})
	assert.Nil(t, rep)
	assert.ErrorIs(t, err, errclass.ErrInputMissing)
	assert.Equal(t, errclass.ExitMissing, errclass.ExitCode(err))
}
