// Package report turns calculator inputs and outputs into labelled lines for
// pages, text exports and spreadsheets.
package report

import (
	"math"

	"github.com/mairateam/calculators/internal/format"
	"github.com/mairateam/calculators/internal/ppc"
	"github.com/mairateam/calculators/internal/uniteconomics"
)

// Line is one labelled metric. Present is false for an absent optional value,
// in which case Display is empty.
type Line struct {
	Key     string
	Label   string
	Value   float64
	Present bool
	Display string
}

// Report holds the input and output lines of one calculation.
type Report struct {
	Title    string
	Currency string
	Inputs   []Line
	Outputs  []Line
}

// Output returns the output line with the given key.
func (r Report) Output(key string) (Line, bool) {
	for _, l := range r.Outputs {
		if l.Key == key {
			return l, true
		}
	}
	return Line{}, false
}

// Finite reports whether the line holds a present, finite number.
func (l Line) Finite() bool {
	return l.Present && !math.IsNaN(l.Value) && !math.IsInf(l.Value, 0)
}

func line(key, label string, v float64, display string) Line {
	return Line{Key: key, Label: label, Value: v, Present: true, Display: display}
}

func optionalLine(key, label string, v ppc.Optional, render func(float64) string) Line {
	value, ok := v.Value()
	if !ok {
		return Line{Key: key, Label: label}
	}
	return line(key, label, value, render(value))
}

// PPC builds the report for a PPC projection.
func PPC(in ppc.Inputs, out ppc.Outputs, currency string) Report {
	currency = format.Normalize(currency)
	money := func(v float64) string { return format.Currency(v, currency) }
	count := func(v float64) string { return format.Number(v, 0) }
	rate := func(v float64) string { return format.Percent(v) }

	return Report{
		Title:    "PPC projection",
		Currency: currency,
		Inputs: []Line{
			optionalLine("searchVolume", "Search volume", in.SearchVolume, count),
			optionalLine("ctr", "CTR", in.CTR, rate),
			optionalLine("cpc", "CPC", in.CPC, money),
			optionalLine("cvr", "CVR", in.CVR, rate),
			optionalLine("aov", "AOV", in.AOV, money),
			optionalLine("margin", "Margin", in.Margin, rate),
		},
		Outputs: []Line{
			line("clicks", "Clicks", out.Clicks, count(out.Clicks)),
			line("conversions", "Conversions", out.Conversions, count(out.Conversions)),
			line("revenue", "Revenue", out.Revenue, money(out.Revenue)),
			line("costs", "Costs", out.Costs, money(out.Costs)),
			line("pno", "PNO", out.PNO, rate(out.PNO)),
			line("cpa", "CPA", out.CPA, money(out.CPA)),
			optionalLine("profit", "Profit", out.Profit, money),
		},
	}
}

// UnitEconomics builds the report for a unit-economics breakeven run.
func UnitEconomics(in uniteconomics.Inputs, out uniteconomics.Outputs, currency string) Report {
	currency = format.Normalize(currency)
	money := func(v float64) string { return format.Currency(v, currency) }
	pct := func(v float64) string { return format.Number(v, 0) + "%" }

	return Report{
		Title:    "Unit economics",
		Currency: currency,
		Inputs: []Line{
			line("aov", "AOV", in.AOV, money(in.AOV)),
			line("tax", "Tax", in.Tax, pct(in.Tax)),
			line("returnRate", "Return rate", in.ReturnRate, pct(in.ReturnRate)),
			line("otherCorrections", "Other corrections", in.OtherCorrections, money(in.OtherCorrections)),
			line("grossMargin", "Gross margin", in.GrossMargin, pct(in.GrossMargin)),
			line("shippingPerOrder", "Shipping per order", in.ShippingPerOrder, money(in.ShippingPerOrder)),
			line("handlingPerOrder", "Handling per order", in.HandlingPerOrder, money(in.HandlingPerOrder)),
			line("repeatOrderMultiplier", "Repeat order multiplier (last 12m)", in.RepeatOrderMultiplier, pct(in.RepeatOrderMultiplier)),
		},
		Outputs: []Line{
			line("aovAdjusted", "AOV (post tax and return)", out.AOVAdjusted, money(out.AOVAdjusted)),
			line("avgProfit", "AVG profit per order (before marketing costs)", out.AvgProfit, money(out.AvgProfit)),
			line("adjustedProfit", "Adjusted profit per order", out.AdjustedProfit, money(out.AdjustedProfit)),
			line("breakEvenCPA", "Break even CPA", out.BreakEvenCPA, money(out.BreakEvenCPA)),
			line("breakEvenROAS", "Break even ROAS", out.BreakEvenROAS, pct(out.BreakEvenROAS)),
		},
	}
}

// Formatted maps output keys to display strings. Absent outputs map to "".
func (r Report) Formatted() map[string]string {
	m := make(map[string]string, len(r.Outputs))
	for _, l := range r.Outputs {
		m[l.Key] = l.Display
	}
	return m
}

// Values maps output keys to their numbers for JSON encoding. Absent and
// overflowed outputs map to nil, since JSON has no Infinity or NaN.
func (r Report) Values() map[string]any {
	m := make(map[string]any, len(r.Outputs))
	for _, l := range r.Outputs {
		if l.Finite() {
			m[l.Key] = l.Value
		} else {
			m[l.Key] = nil
		}
	}
	return m
}
