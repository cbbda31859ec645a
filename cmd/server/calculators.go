package main

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/mairateam/calculators/internal/format"
	"github.com/mairateam/calculators/internal/log"
	"github.com/mairateam/calculators/internal/ppc"
	"github.com/mairateam/calculators/internal/report"
	"github.com/mairateam/calculators/internal/scenario"
	"github.com/mairateam/calculators/internal/uniteconomics"
)

type formField struct {
	Name  string
	Label string
	Unit  string
	Hint  string
	Value string
}

type calculatorViewData struct {
	baseViewData
	Heading       string
	Tagline       string
	Path          string
	Kind          scenario.Kind
	OptionalBlank bool
	Fields        []formField
	Currency      string
	Currencies    []string
	Report        report.Report
}

const currencyUnit = "$currency"

var ppcFields = []formField{
	{Name: "searchVolume", Label: "Search Volume"},
	{Name: "ctr", Label: "CTR", Unit: "%"},
	{Name: "cpc", Label: "CPC", Unit: currencyUnit},
	{Name: "cvr", Label: "CVR", Unit: "%"},
	{Name: "aov", Label: "AOV", Unit: currencyUnit},
	{Name: "margin", Label: "Margin (Optional)", Unit: "%"},
}

var unitEconomicsFields = []formField{
	{Name: "aov", Label: "AOV", Unit: currencyUnit, Hint: "Average Order Value"},
	{Name: "tax", Label: "TAX", Unit: "%", Hint: "Benchmark: 12-21%"},
	{Name: "returnRate", Label: "Return Rate", Unit: "%", Hint: "Benchmark: 16.9%"},
	{Name: "otherCorrections", Label: "Other Corrections", Unit: currencyUnit, Hint: "Optional"},
	{Name: "grossMargin", Label: "Gross Margin", Unit: "%", Hint: "Benchmark: 25-60%"},
	{Name: "shippingPerOrder", Label: "Shipping per Order", Unit: currencyUnit, Hint: "Benchmark: 60-200 Kč"},
	{Name: "handlingPerOrder", Label: "Handling per Order", Unit: currencyUnit},
	{Name: "repeatOrderMultiplier", Label: "Repeat Order Multiplier (last 12m)", Unit: "%", Hint: "Additional value from repeat customers over the past 12 months"},
}

func (s *server) handlePPC(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	currency := s.currency(r)
	in := ppc.DefaultInputs()
	status := http.StatusOK
	var base baseViewData

	if submitted(r, ppcFields) {
		parsed, err := parsePPCForm(r)
		if err != nil {
			status = http.StatusBadRequest
			base.ErrorMessage = err.Error()
			log.ForContext(r.Context()).WithError(err).Warn("ppc: invalid form")
		} else {
			in = parsed
		}
	}

	values := map[string]string{
		"searchVolume": optionalString(in.SearchVolume),
		"ctr":          optionalString(in.CTR),
		"cpc":          optionalString(in.CPC),
		"cvr":          optionalString(in.CVR),
		"aov":          optionalString(in.AOV),
		"margin":       optionalString(in.Margin),
	}
	if status != http.StatusOK {
		values = rawValues(r, ppcFields)
	}

	s.renderTemplate(w, r, status, "calculator.html", calculatorViewData{
		baseViewData:  base,
		Heading:       "PPC Marketing Calculator",
		Tagline:       "Estimate your campaign's potential.",
		Path:          "ppc",
		Kind:          scenario.KindPPC,
		OptionalBlank: true,
		Fields:        fieldsWithValues(ppcFields, values, currency),
		Currency:      currency,
		Currencies:    format.Supported(),
		Report:        report.PPC(in, ppc.Calculate(in), currency),
	})
}

func (s *server) handleUnitEconomics(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	currency := s.currency(r)
	in := uniteconomics.DefaultInputs()
	status := http.StatusOK
	var base baseViewData

	if submitted(r, unitEconomicsFields) {
		parsed, err := parseUnitEconomicsForm(r)
		if err != nil {
			status = http.StatusBadRequest
			base.ErrorMessage = err.Error()
			log.ForContext(r.Context()).WithError(err).Warn("unit economics: invalid form")
		} else {
			in = parsed
		}
	}

	values := map[string]string{
		"aov":                   floatString(in.AOV),
		"tax":                   floatString(in.Tax),
		"returnRate":            floatString(in.ReturnRate),
		"otherCorrections":      floatString(in.OtherCorrections),
		"grossMargin":           floatString(in.GrossMargin),
		"shippingPerOrder":      floatString(in.ShippingPerOrder),
		"handlingPerOrder":      floatString(in.HandlingPerOrder),
		"repeatOrderMultiplier": floatString(in.RepeatOrderMultiplier),
	}
	if status != http.StatusOK {
		values = rawValues(r, unitEconomicsFields)
	}

	s.renderTemplate(w, r, status, "calculator.html", calculatorViewData{
		baseViewData: base,
		Heading:      "Unit Economics Calculator",
		Tagline:      "Calculate your breakeven ROAS and CPA.",
		Path:         "unit-economics",
		Kind:         scenario.KindUnitEconomics,
		Fields:       fieldsWithValues(unitEconomicsFields, values, currency),
		Currency:     currency,
		Currencies:   format.Supported(),
		Report:       report.UnitEconomics(in, uniteconomics.Calculate(in), currency),
	})
}

// submitted reports whether any calculator field is present in the form. A
// bare page load shows the default inputs.
func submitted(r *http.Request, fields []formField) bool {
	for _, f := range fields {
		if _, ok := r.Form[f.Name]; ok {
			return true
		}
	}
	return false
}

func parsePPCForm(r *http.Request) (ppc.Inputs, error) {
	var in ppc.Inputs
	targets := []struct {
		name string
		dst  *ppc.Optional
	}{
		{"searchVolume", &in.SearchVolume},
		{"ctr", &in.CTR},
		{"cpc", &in.CPC},
		{"cvr", &in.CVR},
		{"aov", &in.AOV},
		{"margin", &in.Margin},
	}

	for _, t := range targets {
		v, ok, err := parseNumber(r.FormValue(t.name), t.name)
		if err != nil {
			return in, err
		}
		if ok {
			*t.dst = ppc.Some(v)
		}
	}
	return in, nil
}

func parseUnitEconomicsForm(r *http.Request) (uniteconomics.Inputs, error) {
	var in uniteconomics.Inputs
	targets := []struct {
		name string
		dst  *float64
	}{
		{"aov", &in.AOV},
		{"tax", &in.Tax},
		{"returnRate", &in.ReturnRate},
		{"otherCorrections", &in.OtherCorrections},
		{"grossMargin", &in.GrossMargin},
		{"shippingPerOrder", &in.ShippingPerOrder},
		{"handlingPerOrder", &in.HandlingPerOrder},
		{"repeatOrderMultiplier", &in.RepeatOrderMultiplier},
	}

	for _, t := range targets {
		v, _, err := parseNumber(r.FormValue(t.name), t.name)
		if err != nil {
			return in, err
		}
		*t.dst = v
	}
	return in, nil
}

// parseNumber reads a form number. Blank input reports ok=false. A decimal
// comma is accepted. "NaN", "Inf" and values beyond float64 range are not
// numbers here.
func parseNumber(raw, field string) (float64, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}

	value, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false, fmt.Errorf("%s must be a number", field)
	}
	return value, true, nil
}

func fieldsWithValues(fields []formField, values map[string]string, currency string) []formField {
	out := make([]formField, len(fields))
	for i, f := range fields {
		f.Value = values[f.Name]
		if f.Unit == currencyUnit {
			f.Unit = currency
		}
		out[i] = f
	}
	return out
}

func rawValues(r *http.Request, fields []formField) map[string]string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.Name] = r.FormValue(f.Name)
	}
	return values
}

func optionalString(o ppc.Optional) string {
	if v, ok := o.Value(); ok {
		return floatString(v)
	}
	return ""
}

func floatString(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
