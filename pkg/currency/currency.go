// Package currency formats integer amounts of cents for display.
package currency

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders cents using a locale's grouping and decimal separators
// and the currency's symbol in that locale.
type Formatter struct {
	printer *message.Printer
	symbol  string
	decimal string
}

// NewFormatter builds a formatter for a BCP 47 language tag and an ISO 4217
// currency code, e.g. "pt-BR" and "BRL".
func NewFormatter(lang, code string) (*Formatter, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("invalid language %q: %w", lang, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", code, err)
	}

	p := message.NewPrinter(tag)
	return &Formatter{
		printer: p,
		symbol:  p.Sprint(currency.Symbol(unit)),
		decimal: strings.Trim(p.Sprint(number.Decimal(1.5, number.Scale(1))), "15"),
	}, nil
}

// MustFormatter is like NewFormatter but panics on invalid input.
func MustFormatter(lang, code string) *Formatter {
	f, err := NewFormatter(lang, code)
	if err != nil {
		panic(err)
	}
	return f
}

// FormatCents formats an amount of cents, e.g. 150000 as "R$ 1.500,00".
// Units and cents are printed separately, so every int64 is exact.
func (f *Formatter) FormatCents(cents int64) string {
	sign := ""
	magnitude := uint64(cents)
	if cents < 0 {
		sign = "-"
		magnitude = uint64(-(cents + 1)) + 1
	}

	units := f.printer.Sprint(number.Decimal(magnitude / 100))
	return fmt.Sprintf("%s %s%s%s%02d", f.symbol, sign, units, f.decimal, magnitude%100)
}
