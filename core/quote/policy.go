package quote

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type TaxBase string

const (
	// TaxOnSubtotal applies tax to the subtotal only.
	TaxOnSubtotal TaxBase = "subtotal"
	// TaxOnSubtotalAndFee applies tax to the subtotal plus the service fee.
	TaxOnSubtotalAndFee TaxBase = "subtotal_plus_fee"
)

// Policy holds the optional fee and tax stages. Percentages are whole
// percents, e.g. 15 means 15%.
type Policy struct {
	ServiceFeePercent decimal.Decimal
	TaxPercent        decimal.Decimal
	TaxBase           TaxBase
}

func (p Policy) Validate() error {
	if p.ServiceFeePercent.IsNegative() {
		return fmt.Errorf("service fee percent must not be negative: %s", p.ServiceFeePercent)
	}
	if p.TaxPercent.IsNegative() {
		return fmt.Errorf("tax percent must not be negative: %s", p.TaxPercent)
	}
	switch p.TaxBase {
	case TaxOnSubtotal, TaxOnSubtotalAndFee:
		return nil
	default:
		return fmt.Errorf("unknown tax base %q", p.TaxBase)
	}
}

func ParseTaxBase(s string) (TaxBase, error) {
	switch TaxBase(s) {
	case "":
		return TaxOnSubtotalAndFee, nil
	case TaxOnSubtotal, TaxOnSubtotalAndFee:
		return TaxBase(s), nil
	default:
		return "", fmt.Errorf("unknown tax base %q", s)
	}
}
