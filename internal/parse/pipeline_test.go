package parse_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-project/custodia/internal/manifest"
	"github.com/custodia-project/custodia/internal/parse"
	"github.com/custodia-project/custodia/internal/pii"
	"github.com/custodia-project/custodia/internal/trust"
	"github.com/custodia-project/custodia/pkg/errclass"
	"github.com/custodia-project/custodia/pkg/model"
)

func now() time.Time { return time.Now().UTC() }

type fakeSigner struct {
	available bool
	verifyErr error
}

func (f fakeSigner) IsAvailable() bool        { return f.available }
func (f fakeSigner) Verify(m, s string) error { return f.verifyErr }
func (f fakeSigner) Sign(m, k string) error   { return nil }

// harness wires a pipeline over a temp workspace with one ingested document.
type harness struct {
	dir      string
	store    *manifest.Store
	pipeline *parse.Pipeline
	docPath  string
}

func newHarness(t *testing.T, content string, signer trust.Signer) *harness {
	t.Helper()
	dir := t.TempDir()
	store := manifest.NewStore(filepath.Join(dir, "manifest.json"))

	docPath := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(docPath, []byte(content), 0644))
	sum, err := manifest.FileSHA256(docPath)
	require.NoError(t, err)
	_, err = store.Append(model.ManifestEntry{
		Filename:   "doc.txt",
		SHA256:     sum,
		IngestedAt: now(),
		SourcePath: docPath,
		GitCommit:  "NO_GIT_COMMIT",
	})
	require.NoError(t, err)

	return &harness{
		dir:     dir,
		store:   store,
		docPath: docPath,
		pipeline: &parse.Pipeline{
			Store:         store,
			Trust:         trust.NewEvaluator(signer),
			Converter:     parse.NewTextConverter(),
			Risk:          pii.DefaultPolicy(),
			QuarantineDir: filepath.Join(dir, "quarantine"),
			OutputDir:     filepath.Join(dir, "parsed"),
		},
	}
}

func TestPipeline_HappyPathWritesValidatedOutput(t *testing.T) {
	h := newHarness(t, "# Findings\n\nEnrollment grew steadily.\n", fakeSigner{available: false})

	res, err := h.pipeline.Run(h.docPath, model.ModeResearch)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, model.SignatureUnsigned, res.SignatureState)
	assert.Equal(t, filepath.Join(h.dir, "parsed", "doc.parsed.json"), res.OutputPath)

	data, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	var doc model.ParsedDocument
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, model.SchemaVersion, doc.SchemaVersion)
	assert.Equal(t, "doc.txt", doc.Provenance.Filename)
	assert.Equal(t, res.Entry.SHA256, doc.Provenance.SHA256)
	assert.True(t, doc.Provenance.Verified)
	assert.Equal(t, model.SignatureUnsigned, doc.Provenance.ManifestSignature)
	require.NotEmpty(t, doc.Elements)
	assert.Equal(t, "heading/1/Findings", doc.Elements[0].Location)
}

func TestPipeline_UnsignedComplianceRefusesBeforeAnythingElse(t *testing.T) {
	h := newHarness(t, "content", fakeSigner{available: false})

	res, err := h.pipeline.Run(h.docPath, model.ModeCompliance)
	assert.ErrorIs(t, err, errclass.ErrTrustFailure)
	assert.Empty(t, res.OutputPath)
	assert.Nil(t, res.Entry, "trust gate must run before any manifest lookup")
}

func TestPipeline_InvalidSignatureRefusesInResearchMode(t *testing.T) {
	h := newHarness(t, "content", fakeSigner{available: true, verifyErr: errors.New("bad sig")})
	require.NoError(t, os.WriteFile(trust.SigPath(h.store.Path()), []byte("sig"), 0644))

	_, err := h.pipeline.Run(h.docPath, model.ModeResearch)
	assert.ErrorIs(t, err, errclass.ErrTrustFailure)
}

func TestPipeline_TamperedManifestHaltsRun(t *testing.T) {
	h := newHarness(t, "content", fakeSigner{available: false})
	data, err := os.ReadFile(h.store.Path())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(h.store.Path(), append(data, ' '), 0644))

	_, err = h.pipeline.Run(h.docPath, model.ModeResearch)
	assert.ErrorIs(t, err, errclass.ErrIntegrityBreach)
}

func TestPipeline_UningestedFileIsRefused(t *testing.T) {
	h := newHarness(t, "content", fakeSigner{available: false})
	stranger := filepath.Join(h.dir, "stranger.txt")
	require.NoError(t, os.WriteFile(stranger, []byte("unknown"), 0644))

	_, err := h.pipeline.Run(stranger, model.ModeResearch)
	assert.ErrorIs(t, err, errclass.ErrNotIngested)
}

func TestPipeline_ModifiedFileIsProvenanceBreach(t *testing.T) {
	h := newHarness(t, "original content", fakeSigner{available: false})
	require.NoError(t, os.WriteFile(h.docPath, []byte("swapped content"), 0644))

	res, err := h.pipeline.Run(h.docPath, model.ModeResearch)
	assert.ErrorIs(t, err, errclass.ErrProvenanceBreach)
	assert.Empty(t, res.OutputPath)
}

func TestPipeline_PiiQuarantinesDocumentAndWritesNoOutput(t *testing.T) {
	h := newHarness(t, "Member SSN: 123-45-6789 enrolled.\n", fakeSigner{available: false})

	res, err := h.pipeline.Run(h.docPath, model.ModeResearch)
	require.Error(t, err)
	assert.ErrorIs(t, err, errclass.ErrPrivacyRisk)

	// The document was moved out of circulation.
	assert.NoFileExists(t, h.docPath)
	assert.FileExists(t, filepath.Join(h.dir, "quarantine", "doc.txt"))
	assert.Equal(t, filepath.Join(h.dir, "quarantine", "doc.txt"), res.QuarantinePath)

	// No parsed output was written.
	assert.NoDirExists(t, filepath.Join(h.dir, "parsed"))

	require.NotEmpty(t, res.Matches)
	assert.Equal(t, "SSN", res.Matches[0].PatternName)
	assert.Equal(t, "123-****", res.Matches[0].MatchedText, "raw values never leave the pipeline")
	assert.True(t, res.Assessment.Quarantine)
}

func TestPipeline_MediumFindingsBelowThresholdStillParse(t *testing.T) {
	h := newHarness(t, "Contact jane@example.org about the 12/31/2024 filing.\n", fakeSigner{available: false})

	res, err := h.pipeline.Run(h.docPath, model.ModeResearch)
	require.NoError(t, err)
	assert.NotEmpty(t, res.OutputPath)
	assert.False(t, res.Assessment.Quarantine)
	assert.NotEmpty(t, res.Matches, "findings are reported even when below threshold")
}
