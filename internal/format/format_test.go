package format

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// spaces folds the locale's non-breaking spaces into plain spaces.
func spaces(s string) string {
	return strings.NewReplacer("\u00a0", " ", "\u202f", " ").Replace(s)
}

func TestCurrency(t *testing.T) {
	cases := []struct {
		name  string
		value float64
		code  string
		want  string
	}{
		{"usd", 2400, "USD", "$2,400"},
		{"usd rounds half up", 249.5, "USD", "$250"},
		{"usd negative", -18.4, "USD", "-$18"},
		{"eur", 2400, "EUR", "2.400 €"},
		{"czk", 2400, "CZK", "2 400 Kč"},
		{"lower case code", 500, "czk", "500 Kč"},
		{"unknown code", 500, "GBP", "500 GBP"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, spaces(Currency(tc.value, tc.code)))
		})
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "20,83 %", Percent(500.0/2400.0*100))
	assert.Equal(t, "0,00 %", Percent(0))
	assert.Equal(t, "50000,00 %", Percent(50000))
	assert.Equal(t, "-1,25 %", Percent(-1.245))
}

func TestPercent_RoundsExactBinaryValue(t *testing.T) {
	// 1.005 is stored just below 1.005 and 1.125 is exact.
	assert.Equal(t, "1,00 %", Percent(1.005))
	assert.Equal(t, "1,13 %", Percent(1.125))
	assert.Equal(t, "-1,13 %", Percent(-1.125))
}

func TestNonFiniteValues(t *testing.T) {
	inf := math.Inf(1)
	nan := math.NaN()

	assert.Equal(t, "∞ Kč", spaces(Currency(inf, "CZK")))
	assert.Equal(t, "-$∞", Currency(math.Inf(-1), "USD"))
	assert.Equal(t, "– €", spaces(Currency(nan, "EUR")))
	assert.Equal(t, "∞ %", Percent(inf))
	assert.Equal(t, "– %", Percent(nan))
	assert.Equal(t, "∞", Number(inf, 0))
	assert.Equal(t, NotANumber, Number(nan, 2))
	assert.Equal(t, "-∞", Number(math.Inf(-1), 2))
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "2", Number(2, 0))
	assert.Equal(t, "1 235", spaces(Number(1234.5, 0)))
	assert.Equal(t, "860,31", Number(860.31, 2))
}

func TestSupportedAndNormalize(t *testing.T) {
	assert.Equal(t, []string{"CZK", "EUR", "USD"}, Supported())
	assert.True(t, IsSupported("eur"))
	assert.False(t, IsSupported("GBP"))
	assert.False(t, IsSupported(""))
	assert.Equal(t, "USD", Normalize(" usd "))
	assert.Equal(t, DefaultCurrency, Normalize("XYZ"))
}
