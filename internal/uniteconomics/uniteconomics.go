package uniteconomics

// Inputs holds the per-order sales and cost structure. Blank form fields are
// read as 0.
type Inputs struct {
	AOV                   float64 `json:"aov"`
	Tax                   float64 `json:"tax"`
	ReturnRate            float64 `json:"returnRate"`
	OtherCorrections      float64 `json:"otherCorrections"`
	GrossMargin           float64 `json:"grossMargin"`
	ShippingPerOrder      float64 `json:"shippingPerOrder"`
	HandlingPerOrder      float64 `json:"handlingPerOrder"`
	RepeatOrderMultiplier float64 `json:"repeatOrderMultiplier"`
}

// Outputs contains the derived per-order profit and breakeven metrics.
type Outputs struct {
	AOVAdjusted    float64 `json:"aovAdjusted"`
	AvgProfit      float64 `json:"avgProfit"`
	AdjustedProfit float64 `json:"adjustedProfit"`
	BreakEvenCPA   float64 `json:"breakEvenCPA"`
	BreakEvenROAS  float64 `json:"breakEvenROAS"`
}

// DefaultInputs returns the values the calculator starts with.
func DefaultInputs() Inputs {
	return Inputs{
		AOV:                   1210,
		Tax:                   21,
		ReturnRate:            10,
		OtherCorrections:      0,
		GrossMargin:           30,
		ShippingPerOrder:      80,
		HandlingPerOrder:      40,
		RepeatOrderMultiplier: 5,
	}
}

// Calculate derives profit per order before marketing costs and the
// breakeven CPA and ROAS.
//
// AvgProfit may be negative. BreakEvenROAS is 0 unless AvgProfit is positive.
func Calculate(in Inputs) Outputs {
	aovAdjusted := in.AOV*(1-in.Tax/100)*(1-in.ReturnRate/100) + in.OtherCorrections
	avgProfit := aovAdjusted*(in.GrossMargin/100) - in.ShippingPerOrder - in.HandlingPerOrder
	adjustedProfit := avgProfit * (1 + in.RepeatOrderMultiplier/100)

	roas := 0.0
	if avgProfit > 0 {
		roas = (in.AOV / avgProfit) * 100
	}

	return Outputs{
		AOVAdjusted:    aovAdjusted,
		AvgProfit:      avgProfit,
		AdjustedProfit: adjustedProfit,
		BreakEvenCPA:   avgProfit,
		BreakEvenROAS:  roas,
	}
}
