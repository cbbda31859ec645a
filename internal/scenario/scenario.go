// Package scenario stores named snapshots of calculator runs.
package scenario

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/mairateam/calculators/internal/format"
	"github.com/mairateam/calculators/internal/ppc"
	"github.com/mairateam/calculators/internal/report"
	"github.com/mairateam/calculators/internal/uniteconomics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Kind identifies which calculator produced a scenario.
type Kind string

const (
	KindPPC           Kind = "ppc"
	KindUnitEconomics Kind = "unit_economics"
)

// ParseKind accepts the stored kind or its URL form ("unit-economics").
func ParseKind(s string) (Kind, bool) {
	switch s {
	case string(KindPPC):
		return KindPPC, true
	case string(KindUnitEconomics), "unit-economics":
		return KindUnitEconomics, true
	}
	return "", false
}

// Scenario is a saved calculation. Outputs are kept as computed at save time.
type Scenario struct {
	ID          string
	Kind        Kind
	Title       string
	Notes       string
	Currency    string
	InputsJSON  string
	OutputsJSON string
	CreatedAt   time.Time
}

// ErrNotFinite is returned when a calculation overflowed to Infinity or NaN.
// Such results have no JSON form and are not stored.
var ErrNotFinite = errors.New("scenario values must be finite numbers")

// NewPPC computes the projection for in and captures it as a scenario.
func NewPPC(title, notes, currency string, in ppc.Inputs) (Scenario, error) {
	out := ppc.Calculate(in)
	return snapshot(KindPPC, title, notes, currency, in, out, report.PPC(in, out, currency))
}

// NewUnitEconomics computes the breakeven metrics for in and captures them as
// a scenario.
func NewUnitEconomics(title, notes, currency string, in uniteconomics.Inputs) (Scenario, error) {
	out := uniteconomics.Calculate(in)
	return snapshot(KindUnitEconomics, title, notes, currency, in, out, report.UnitEconomics(in, out, currency))
}

func snapshot(kind Kind, title, notes, currency string, in, out any, rep report.Report) (Scenario, error) {
	for _, lines := range [][]report.Line{rep.Inputs, rep.Outputs} {
		for _, l := range lines {
			if l.Present && !l.Finite() {
				return Scenario{}, errors.Wrapf(ErrNotFinite, "%s is %v", l.Key, l.Value)
			}
		}
	}

	inputs, err := json.MarshalToString(in)
	if err != nil {
		return Scenario{}, errors.Wrap(err, "encode scenario inputs")
	}
	outputs, err := json.MarshalToString(out)
	if err != nil {
		return Scenario{}, errors.Wrap(err, "encode scenario outputs")
	}

	return Scenario{
		Kind:        kind,
		Title:       title,
		Notes:       notes,
		Currency:    format.Normalize(currency),
		InputsJSON:  inputs,
		OutputsJSON: outputs,
	}, nil
}

// PPC decodes the stored PPC inputs and outputs.
func (s Scenario) PPC() (ppc.Inputs, ppc.Outputs, error) {
	var in ppc.Inputs
	var out ppc.Outputs
	if s.Kind != KindPPC {
		return in, out, errors.Errorf("scenario %s is %s, not ppc", s.ID, s.Kind)
	}
	if err := json.UnmarshalFromString(s.InputsJSON, &in); err != nil {
		return in, out, errors.Wrap(err, "decode ppc inputs")
	}
	if err := json.UnmarshalFromString(s.OutputsJSON, &out); err != nil {
		return in, out, errors.Wrap(err, "decode ppc outputs")
	}
	return in, out, nil
}

// UnitEconomics decodes the stored unit-economics inputs and outputs.
func (s Scenario) UnitEconomics() (uniteconomics.Inputs, uniteconomics.Outputs, error) {
	var in uniteconomics.Inputs
	var out uniteconomics.Outputs
	if s.Kind != KindUnitEconomics {
		return in, out, errors.Errorf("scenario %s is %s, not unit_economics", s.ID, s.Kind)
	}
	if err := json.UnmarshalFromString(s.InputsJSON, &in); err != nil {
		return in, out, errors.Wrap(err, "decode unit economics inputs")
	}
	if err := json.UnmarshalFromString(s.OutputsJSON, &out); err != nil {
		return in, out, errors.Wrap(err, "decode unit economics outputs")
	}
	return in, out, nil
}

// Report renders the stored snapshot without recalculating it.
func (s Scenario) Report() (report.Report, error) {
	var r report.Report
	switch s.Kind {
	case KindPPC:
		in, out, err := s.PPC()
		if err != nil {
			return r, err
		}
		r = report.PPC(in, out, s.Currency)
	case KindUnitEconomics:
		in, out, err := s.UnitEconomics()
		if err != nil {
			return r, err
		}
		r = report.UnitEconomics(in, out, s.Currency)
	default:
		return r, errors.Errorf("unknown scenario kind %q", s.Kind)
	}
	if s.Title != "" {
		r.Title = s.Title
	}
	return r, nil
}
