// Package format renders calculator results for display.
package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const nbsp = "\u00a0"

// exactDigits is enough fraction digits to print any float64 exactly.
const exactDigits = 1074

// NotANumber is displayed for results that are not a number.
const NotANumber = "–"

// DefaultCurrency is used when no currency is selected.
const DefaultCurrency = "CZK"

type currencyStyle struct {
	unit   currency.Unit
	tag    language.Tag
	symbol string
	prefix bool
}

var styles = []currencyStyle{
	{unit: currency.MustParseISO("CZK"), tag: language.MustParse("cs-CZ"), symbol: "Kč"},
	{unit: currency.EUR, tag: language.MustParse("de-DE"), symbol: "€"},
	{unit: currency.USD, tag: language.MustParse("en-US"), symbol: "$", prefix: true},
}

var czech = language.MustParse("cs-CZ")

// Supported returns the selectable currency codes in display order.
func Supported() []string {
	codes := make([]string, 0, len(styles))
	for _, s := range styles {
		codes = append(codes, s.unit.String())
	}
	return codes
}

// IsSupported reports whether code is one of the selectable currencies.
func IsSupported(code string) bool {
	_, ok := lookup(code)
	return ok
}

// Normalize returns the upper-cased code when supported, DefaultCurrency otherwise.
func Normalize(code string) string {
	if s, ok := lookup(code); ok {
		return s.unit.String()
	}
	return DefaultCurrency
}

func lookup(code string) (currencyStyle, bool) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return currencyStyle{}, false
	}
	for _, s := range styles {
		if s.unit == unit {
			return s, true
		}
	}
	return currencyStyle{}, false
}

// Currency formats value as a whole amount in the given currency using the
// currency's home locale. Unknown codes fall back to Czech formatting with
// the code as symbol.
func Currency(value float64, code string) string {
	s, ok := lookup(code)
	if !ok {
		return grouped(czech, value, 0) + nbsp + strings.ToUpper(strings.TrimSpace(code))
	}

	amount := grouped(s.tag, value, 0)
	if s.prefix {
		if strings.HasPrefix(amount, "-") {
			return "-" + s.symbol + strings.TrimPrefix(amount, "-")
		}
		return s.symbol + amount
	}
	return amount + nbsp + s.symbol
}

// Percent formats value with two decimals and a decimal comma, e.g. "20,83 %".
// Rounding follows Number.prototype.toFixed: the exact binary value is
// rounded half away from zero, so 1.005 gives "1,00 %".
func Percent(value float64) string {
	if s, ok := nonFinite(value); ok {
		return s + " %"
	}
	exact := decimal.RequireFromString(strconv.FormatFloat(value, 'f', exactDigits, 64))
	return strings.Replace(exact.StringFixed(2), ".", ",", 1) + " %"
}

// Number formats value with Czech digit grouping and a fixed number of
// fraction digits.
func Number(value float64, precision int) string {
	return grouped(czech, value, precision)
}

func grouped(tag language.Tag, value float64, precision int) string {
	if s, ok := nonFinite(value); ok {
		return s
	}
	p := message.NewPrinter(tag)
	return p.Sprint(number.Decimal(
		round(value, precision),
		number.MinFractionDigits(precision),
		number.MaxFractionDigits(precision),
	))
}

// round rounds half away from zero, matching browser number formatting.
// value must be finite.
func round(value float64, precision int) float64 {
	f, _ := decimal.NewFromFloat(value).Round(int32(precision)).Float64()
	return f
}

// nonFinite renders overflowed results: "∞", "-∞", or "–" for NaN.
func nonFinite(value float64) (string, bool) {
	switch {
	case math.IsNaN(value):
		return NotANumber, true
	case math.IsInf(value, 1):
		return "∞", true
	case math.IsInf(value, -1):
		return "-∞", true
	}
	return "", false
}
