// Package validate scores AI-drafted response text against the provenance
// ledger and records the verdict in the audit trail.
package validate

import (
	"time"

	"github.com/custodia-project/custodia/internal/auditlog"
	"github.com/custodia-project/custodia/internal/citation"
	"github.com/custodia-project/custodia/internal/manifest"
	"github.com/custodia-project/custodia/internal/revision"
	"github.com/custodia-project/custodia/pkg/errclass"
	"github.com/custodia-project/custodia/pkg/model"
)

// Options selects the policy for one validation run.
type Options struct {
	Mode  model.Mode
	Draft bool
	// Threshold overrides the mode default when non-nil. Callers must range
	// check it before constructing options.
	Threshold *float64
}

// EffectiveThreshold resolves the density threshold for the run.
func (o Options) EffectiveThreshold() float64 {
	if o.Threshold != nil {
		return *o.Threshold
	}
	return o.Mode.DefaultThreshold()
}

// Report is the full outcome of one validation run. Passed is the computed
// verdict; Reported is what the run tells the caller after the draft policy
// is applied. The audit row always records the computed verdict, so a draft
// run that would fail is logged as FAIL even though it exits successfully.
type Report struct {
	Mode       model.Mode              `json:"mode"`
	Draft      bool                    `json:"draft"`
	Threshold  float64                 `json:"threshold"`
	Revision   string                  `json:"revision"`
	Verified   []model.Citation        `json:"verified_citations"`
	Unverified []model.Citation        `json:"unverified_citations"`
	Density    *citation.DensityResult `json:"density"`
	FixIts     []citation.FixIt        `json:"fixits,omitempty"`

	DensityPass   bool `json:"density_pass"`
	CitationsPass bool `json:"citations_pass"`
	Passed        bool `json:"passed"`
	Reported      bool `json:"reported"`
}

// Runner wires the validation dependencies.
type Runner struct {
	Store    *manifest.Store
	Audit    *auditlog.Appender
	Revision revision.Querier
}

// Run validates text under the given options. The audit row is appended
// before the verdict is returned; an audit write failure is fatal because an
// unrecorded validation must not be reported as done.
func (r *Runner) Run(text string, opts Options) (*Report, error) {
	m, err := r.Store.Load()
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Mode:      opts.Mode,
		Draft:     opts.Draft,
		Threshold: opts.EffectiveThreshold(),
		Revision:  r.Revision.Current(),
	}

	verifier := citation.NewVerifier(m)
	rep.Verified, rep.Unverified = verifier.Verify(text)
	rep.Density = citation.NewScorer(verifier).Score(text)

	rep.DensityPass = rep.Density.Pass(rep.Threshold)
	rep.CitationsPass = opts.Mode != model.ModeCompliance || len(rep.Unverified) == 0
	rep.Passed = rep.DensityPass && rep.CitationsPass
	rep.Reported = rep.Passed || opts.Draft

	filenames := verifier.Filenames()
	for _, claim := range rep.Density.NakedClaims {
		rep.FixIts = append(rep.FixIts, citation.BuildFixIt(claim, filenames, opts.Mode))
	}

	row := model.AuditRow{
		Timestamp: time.Now().UTC(),
		Revision:  rep.Revision,
		Mode:      opts.Mode.Label(opts.Draft),
		Score:     rep.Density.Density,
		Passed:    rep.Passed,
	}
	if err := r.Audit.Append(row); err != nil {
		return rep, err
	}

	if !rep.Passed && !opts.Draft {
		return rep, validationError(rep)
	}
	return rep, nil
}

func validationError(rep *Report) error {
	switch {
	case !rep.CitationsPass && !rep.DensityPass:
		return errclass.ErrValidationFailure.
			WithMessagef("%d unverified citation(s) and citation density below threshold %.2f", len(rep.Unverified), rep.Threshold)
	case !rep.CitationsPass:
		return errclass.ErrValidationFailure.
			WithMessagef("%d citation(s) could not be verified against the manifest", len(rep.Unverified))
	default:
		return errclass.ErrValidationFailure.
			WithMessagef("citation density %.4f below threshold %.2f (%d of %d claim sentences cited)",
				*rep.Density.Density, rep.Threshold, rep.Density.CitedCount, rep.Density.ClaimCount())
	}
}
