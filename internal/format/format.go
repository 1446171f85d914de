// Package format turns numbers into the display strings used across the
// dashboard and parses them back.
package format

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	billion = 1_000_000_000
	million = 1_000_000
)

// Formatter renders currency, percent and price strings for one unit and
// locale. The zero value is not usable; see New and Default.
type Formatter struct {
	unit    string
	tag     language.Tag
	printer *message.Printer
	group   rune // 0 when the locale does not group
	decimal rune
}

// New returns a Formatter writing unit in front of every amount and grouping
// thousands the way tag does.
func New(unit string, tag language.Tag) *Formatter {
	f := &Formatter{
		unit:    unit,
		tag:     tag,
		printer: message.NewPrinter(tag),
		decimal: '.',
	}
	f.group, f.decimal = separators(f.printer)
	return f
}

// Default is the euro / English formatter.
func Default() *Formatter {
	return New("€", language.English)
}

// SymbolFor resolves an ISO 4217 code to its display symbol. Unknown codes
// are returned unchanged.
func SymbolFor(code string) string {
	c := money.GetCurrency(strings.ToUpper(code))
	if c == nil {
		return code
	}
	return c.Grapheme
}

func (f *Formatter) Unit() string { return f.unit }

func (f *Formatter) Locale() language.Tag { return f.tag }

// Currency renders large amounts in compact form: "€1.3B" from a billion,
// "€980M" from a million, otherwise grouped with no forced decimals.
func (f *Formatter) Currency(v float64) string {
	v = Normalize(v)
	switch {
	case v >= billion:
		return f.unit + Fixed(v/billion, 1) + "B"
	case v >= million:
		return f.unit + Fixed(v/million, 0) + "M"
	}
	return f.unit + f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// CurrencyFixed renders "€1234.56": two decimals, no grouping.
func (f *Formatter) CurrencyFixed(v float64) string {
	return f.unit + Fixed(Normalize(v), 2)
}

// CurrencyWhole renders "€1235".
func (f *Formatter) CurrencyWhole(v float64) string {
	return f.unit + Fixed(Normalize(v), 0)
}

// Percent appends "%" to v printed with exactly decimals digits.
func (f *Formatter) Percent(v float64, decimals int) string {
	return Fixed(Normalize(v), decimals) + "%"
}

// Price renders a quote: grouped with two decimals from 1000 upwards,
// plain two decimals below.
func (f *Formatter) Price(v float64) string {
	v = Normalize(v)
	if v >= 1000 {
		return f.unit + f.printer.Sprint(number.Decimal(v,
			number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	}
	return f.unit + Fixed(v, 2)
}

// ParseDisplay reads back a string produced by this formatter: the unit and
// group separators are dropped and the locale decimal separator honoured.
// Anything unparseable is 0.
func (f *Formatter) ParseDisplay(s string) float64 {
	s = strings.ReplaceAll(s, f.unit, "")
	var b strings.Builder
	for _, r := range s {
		switch {
		case f.group != 0 && r == f.group:
		case r == f.decimal:
			b.WriteByte('.')
		case unicode.Is(unicode.Sc, r):
		default:
			b.WriteRune(r)
		}
	}
	return ParseFloat(b.String())
}

// Fixed prints v with exactly decimals digits. Rounding is half away from
// zero on the exact binary value, so 1.005 (stored as 1.00499...) gives
// "1.00" as toFixed does.
func Fixed(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return exactDecimal(Normalize(v)).StringFixed(int32(decimals))
}

// exactDecimal expands v to every digit of its binary value.
func exactDecimal(v float64) decimal.Decimal {
	s := strconv.FormatFloat(v, 'f', 1074, 64)
	s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NewFromFloat(v)
	}
	return d
}

// Normalize maps NaN and infinities to 0.
func Normalize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseFloat parses the longest numeric prefix of s, after leading
// whitespace. It returns 0 when there is none.
func ParseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	end := numericPrefix(s)
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return Normalize(v)
}

// numericPrefix returns the length of the longest prefix of s that
// strconv.ParseFloat accepts as a plain decimal literal.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
			exp++
		}
		if exp > 0 {
			i = j
		}
	}
	return i
}

// separators probes the printer for its group and decimal runes.
func separators(p *message.Printer) (group, dec rune) {
	probe := []rune(p.Sprint(number.Decimal(1234567.5,
		number.MinFractionDigits(1), number.MaxFractionDigits(1))))
	var seps []rune
	for _, r := range probe {
		if !unicode.IsDigit(r) {
			seps = append(seps, r)
		}
	}
	switch len(seps) {
	case 0:
		return 0, '.'
	case 1:
		return 0, seps[0]
	}
	return seps[0], seps[len(seps)-1]
}
