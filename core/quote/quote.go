package quote

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"catering-quote/core/catalog"

	"github.com/shopspring/decimal"
)

var ErrMissingCatalogEntry = errors.New("missing catalog entry")

var hundred = decimal.NewFromInt(100)

type Line struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type Quote struct {
	Lines      []Line          `json:"lines"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	ServiceFee decimal.Decimal `json:"service_fee"`
	Tax        decimal.Decimal `json:"tax"`
	GrandTotal decimal.Decimal `json:"grand_total"`

	// Missing lists selected names with no catalog entry. Their lines are
	// left out of the quote.
	Missing []string `json:"missing,omitempty"`
}

func (q Quote) Empty() bool {
	return len(q.Lines) == 0
}

// Err reports selections that no longer resolve against the catalog. The
// quote itself stays usable.
func (q Quote) Err() error {
	if len(q.Missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingCatalogEntry, strings.Join(q.Missing, ", "))
}

// Lookup is the part of a catalog the calculator needs.
type Lookup interface {
	Lookup(name string) (catalog.Item, bool)
	Position(name string) int
}

// Round rounds half away from zero to cents.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Calculate prices a selection. Lines follow catalog order so the result does
// not depend on map iteration. Zero-quantity selections contribute no line.
// Every stage is rounded to cents before it is summed.
func Calculate(selection map[string]int, items Lookup, policy Policy) Quote {
	q := Quote{
		Lines:      []Line{},
		Subtotal:   decimal.Zero,
		ServiceFee: decimal.Zero,
		Tax:        decimal.Zero,
		GrandTotal: decimal.Zero,
	}

	for name, qty := range selection {
		item, ok := items.Lookup(name)
		if !ok {
			q.Missing = append(q.Missing, name)
			continue
		}
		if qty <= 0 {
			continue
		}

		q.Lines = append(q.Lines, Line{
			Name:      name,
			Quantity:  qty,
			UnitPrice: item.UnitPrice,
			LineTotal: Round(item.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))),
		})
	}

	sort.Slice(q.Lines, func(i, j int) bool {
		return items.Position(q.Lines[i].Name) < items.Position(q.Lines[j].Name)
	})
	sort.Strings(q.Missing)

	for _, line := range q.Lines {
		q.Subtotal = q.Subtotal.Add(line.LineTotal)
	}

	q.ServiceFee = Round(q.Subtotal.Mul(policy.ServiceFeePercent).Div(hundred))

	taxBase := q.Subtotal
	if policy.TaxBase != TaxOnSubtotal {
		taxBase = taxBase.Add(q.ServiceFee)
	}
	q.Tax = Round(taxBase.Mul(policy.TaxPercent).Div(hundred))

	q.GrandTotal = q.Subtotal.Add(q.ServiceFee).Add(q.Tax)

	return q
}

// Subtotal is the running total shown while items are being chosen.
func Subtotal(selection map[string]int, items Lookup) decimal.Decimal {
	return Calculate(selection, items, Policy{TaxBase: TaxOnSubtotal}).Subtotal
}
