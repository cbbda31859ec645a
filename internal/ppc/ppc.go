package ppc

// Inputs holds the campaign assumptions. Any field may be absent.
type Inputs struct {
	SearchVolume Optional `json:"searchVolume"`
	CTR          Optional `json:"ctr"`
	CPC          Optional `json:"cpc"`
	CVR          Optional `json:"cvr"`
	AOV          Optional `json:"aov"`
	Margin       Optional `json:"margin"`
}

// Outputs holds the projected campaign results. Profit is absent unless a
// positive margin was supplied.
type Outputs struct {
	Clicks      float64  `json:"clicks"`
	Conversions float64  `json:"conversions"`
	Revenue     float64  `json:"revenue"`
	Costs       float64  `json:"costs"`
	CPA         float64  `json:"cpa"`
	PNO         float64  `json:"pno"`
	Profit      Optional `json:"profit"`
}

// DefaultInputs returns the values the calculator starts with.
func DefaultInputs() Inputs {
	return Inputs{
		SearchVolume: Some(1000),
		CTR:          Some(10),
		CPC:          Some(5),
		CVR:          Some(2),
		AOV:          Some(1200),
		Margin:       Some(30),
	}
}

// Calculate projects clicks, conversions, revenue and costs from the inputs.
//
// Absent inputs count as zero. CPA and PNO divide by 1 instead of 0 when there
// are no conversions or no revenue, so CPA equals costs and PNO equals
// costs*100 in those cases.
func Calculate(in Inputs) Outputs {
	clicks := in.SearchVolume.OrZero() * (in.CTR.OrZero() / 100)
	conversions := clicks * (in.CVR.OrZero() / 100)
	revenue := conversions * in.AOV.OrZero()
	costs := clicks * in.CPC.OrZero()

	cpa := costs / orOne(conversions)
	pno := (costs / orOne(revenue)) * 100

	profit := None()
	if margin, ok := in.Margin.Value(); ok && margin > 0 {
		profit = Some(revenue*(margin/100) - costs)
	}

	return Outputs{
		Clicks:      clicks,
		Conversions: conversions,
		Revenue:     revenue,
		Costs:       costs,
		CPA:         cpa,
		PNO:         pno,
		Profit:      profit,
	}
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
