package parse

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-project/custodia/internal/manifest"
	"github.com/custodia-project/custodia/internal/pii"
	"github.com/custodia-project/custodia/internal/trust"
	"github.com/custodia-project/custodia/pkg/errclass"
	"github.com/custodia-project/custodia/pkg/fsutil"
	"github.com/custodia-project/custodia/pkg/logging"
	"github.com/custodia-project/custodia/pkg/model"
)

// Pipeline runs the trusted parse sequence for one document. Gates execute
// in a fixed order; the first failing gate aborts the run and no output file
// is written after any failure.
type Pipeline struct {
	Store         *manifest.Store
	Trust         *trust.Evaluator
	Converter     Converter
	Risk          pii.Policy
	QuarantineDir string
	OutputDir     string
}

// Result describes a pipeline run, successful or not. On quarantine the
// document has already been moved and QuarantinePath names its new location.
type Result struct {
	RunID          string
	SignatureState model.SignatureState
	SignatureNote  string
	Entry          *model.ManifestEntry
	Matches        []model.PiiMatch
	Assessment     model.RiskAssessment
	QuarantinePath string
	OutputPath     string
	Document       *model.ParsedDocument
}

// Run parses the document at path under the given mode.
func (p *Pipeline) Run(path string, mode model.Mode) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	log := logging.WithFields(map[string]any{"run_id": res.RunID, "file": path})

	// Gate 1: signature trust.
	state, note := p.Trust.Evaluate(p.Store.Path())
	res.SignatureState = state
	res.SignatureNote = note
	if err := trust.Gate(state, mode); err != nil {
		return res, err
	}
	log.Debug("signature gate passed", map[string]any{"state": string(state)})

	// Gate 2: whole-ledger consistency.
	if err := p.Store.VerifyConsistency(); err != nil {
		return res, err
	}

	// Gate 3: the document must have a ledger record.
	m, err := p.Store.Load()
	if err != nil {
		return res, err
	}
	entry := m.FindEntry(filepath.Base(path), path)
	if entry == nil {
		return res, errclass.ErrNotIngested.
			WithMessagef("%s has no manifest record; ingest it before parsing", filepath.Base(path))
	}
	res.Entry = entry

	// Gate 4: per-file content integrity.
	if _, err := p.Store.VerifyEntry(path, *entry); err != nil {
		return res, err
	}
	log.Debug("content hash verified", map[string]any{"sha256": entry.SHA256.Short()})

	// Conversion.
	if !p.Converter.IsAvailable() {
		return res, errclass.ErrInputMissing.WithMessage("document converter is not available on this host")
	}
	conv, err := p.Converter.Convert(path)
	if err != nil {
		return res, errclass.ErrInputMissing.WithMessagef("convert %s: %v", filepath.Base(path), err)
	}

	// Gate 5: PII scan over the converted text. A quarantine decision moves
	// the source file out of circulation before the run halts.
	matches := pii.Scan(conv.PlainText)
	res.Assessment = p.Risk.Assess(matches)
	// Only redacted match text leaves the pipeline; raw values must not
	// reappear in reports or logs.
	res.Matches = make([]model.PiiMatch, len(matches))
	for i, m := range matches {
		m.MatchedText = pii.Redact(m.MatchedText)
		res.Matches[i] = m
	}
	if res.Assessment.Quarantine {
		dst := filepath.Join(p.QuarantineDir, filepath.Base(path))
		if err := fsutil.MoveFile(path, dst); err != nil {
			return res, fmt.Errorf("quarantine %s: %w", filepath.Base(path), err)
		}
		res.QuarantinePath = dst
		log.Warn("document quarantined", map[string]any{"reason": res.Assessment.Reason, "moved_to": dst})
		return res, errclass.ErrPrivacyRisk.
			WithMessage(res.Assessment.Reason).
			WithDetails(map[string]string{"quarantined_to": dst})
	}

	// Assembly and schema gate.
	doc := &model.ParsedDocument{
		SchemaVersion: model.SchemaVersion,
		Provenance: model.Provenance{
			Filename:          entry.Filename,
			SHA256:            entry.SHA256,
			IngestedAt:        entry.IngestedAt,
			GitCommit:         entry.GitCommit,
			SourcePath:        entry.SourcePath,
			ParsedAt:          time.Now().UTC(),
			Verified:          true,
			ManifestSignature: state,
		},
		Elements: conv.Elements,
	}
	if err := ValidateSchema(doc); err != nil {
		return res, err
	}
	res.Document = doc

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return res, fmt.Errorf("marshal parsed output: %w", err)
	}
	if err := os.MkdirAll(p.OutputDir, 0755); err != nil {
		return res, fmt.Errorf("create output dir: %w", err)
	}
	out := filepath.Join(p.OutputDir, outputName(entry.Filename))
	if err := fsutil.AtomicWrite(out, data, 0644); err != nil {
		return res, fmt.Errorf("write parsed output: %w", err)
	}
	res.OutputPath = out
	log.Info("parse complete", map[string]any{"output": out, "elements": len(doc.Elements)})
	return res, nil
}

// outputName maps a source filename to its parsed-output filename.
func outputName(filename string) string {
	ext := filepath.Ext(filename)
	base := filename[:len(filename)-len(ext)]
	return base + ".parsed.json"
}
