package quote

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders amounts for display, e.g. $1,234.50.
type Formatter struct {
	Printer *message.Printer
	Symbol  string
}

func NewFormatter(tag language.Tag, symbol string) Formatter {
	return Formatter{Printer: message.NewPrinter(tag), Symbol: symbol}
}

func (f Formatter) Money(d decimal.Decimal) string {
	return f.Printer.Sprintf("%s%.2f", f.Symbol, Round(d).InexactFloat64())
}

// Percent renders a policy percentage without trailing zeros, e.g. 8 or 6.5.
func (f Formatter) Percent(d decimal.Decimal) string {
	return d.String()
}
