package quote

import (
	"testing"

	"catering-quote/core/catalog"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/language"
)

type QuoteTestSuite struct {
	suite.Suite

	Catalog *catalog.Catalog
}

func (s *QuoteTestSuite) SetupTest() {
	cat, err := catalog.New([]catalog.Item{
		{Name: "A", UnitPrice: decimal.NewFromInt(10), DefaultQuantity: 2, Category: "mains"},
		{Name: "B", UnitPrice: decimal.NewFromInt(5), DefaultQuantity: 1, Category: "mains"},
		{Name: "C", UnitPrice: decimal.RequireFromString("0.333"), DefaultQuantity: 3, Category: "sides"},
	})
	s.Require().NoError(err)
	s.Catalog = cat
}

func TestQuoteTestSuite(t *testing.T) {
	suite.Run(t, new(QuoteTestSuite))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (s *QuoteTestSuite) TestCalculate() {
	tests := []struct {
		name               string
		selection          map[string]int
		policy             Policy
		expectedLines      []string
		expectedSubtotal   string
		expectedFee        string
		expectedTax        string
		expectedGrandTotal string
		expectedMissing    []string
	}{
		{
			name:               "empty selection",
			selection:          map[string]int{},
			policy:             Policy{ServiceFeePercent: dec("15"), TaxPercent: dec("6"), TaxBase: TaxOnSubtotalAndFee},
			expectedLines:      []string{},
			expectedSubtotal:   "0",
			expectedFee:        "0",
			expectedTax:        "0",
			expectedGrandTotal: "0",
		},
		{
			name:               "fee and tax on subtotal plus fee",
			selection:          map[string]int{"B": 1, "A": 3},
			policy:             Policy{ServiceFeePercent: dec("15"), TaxPercent: dec("6"), TaxBase: TaxOnSubtotalAndFee},
			expectedLines:      []string{"A", "B"},
			expectedSubtotal:   "35",
			expectedFee:        "5.25",
			expectedTax:        "2.42",
			expectedGrandTotal: "42.67",
		},
		{
			name:               "tax on subtotal only",
			selection:          map[string]int{"A": 3, "B": 1},
			policy:             Policy{ServiceFeePercent: dec("15"), TaxPercent: dec("6"), TaxBase: TaxOnSubtotal},
			expectedLines:      []string{"A", "B"},
			expectedSubtotal:   "35",
			expectedFee:        "5.25",
			expectedTax:        "2.1",
			expectedGrandTotal: "42.35",
		},
		{
			name:               "line total rounds half up",
			selection:          map[string]int{"C": 5},
			policy:             Policy{TaxBase: TaxOnSubtotalAndFee},
			expectedLines:      []string{"C"},
			expectedSubtotal:   "1.67",
			expectedFee:        "0",
			expectedTax:        "0",
			expectedGrandTotal: "1.67",
		},
		{
			name:               "zero quantity contributes no line",
			selection:          map[string]int{"A": 0, "B": 2},
			policy:             Policy{TaxBase: TaxOnSubtotalAndFee},
			expectedLines:      []string{"B"},
			expectedSubtotal:   "10",
			expectedFee:        "0",
			expectedTax:        "0",
			expectedGrandTotal: "10",
		},
		{
			name:               "orphaned selection is dropped",
			selection:          map[string]int{"A": 1, "Gone": 4},
			policy:             Policy{TaxBase: TaxOnSubtotalAndFee},
			expectedLines:      []string{"A"},
			expectedSubtotal:   "10",
			expectedFee:        "0",
			expectedTax:        "0",
			expectedGrandTotal: "10",
			expectedMissing:    []string{"Gone"},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			q := Calculate(tc.selection, s.Catalog, tc.policy)

			names := make([]string, 0, len(q.Lines))
			for _, line := range q.Lines {
				names = append(names, line.Name)
			}

			s.Equal(tc.expectedLines, names)
			s.True(dec(tc.expectedSubtotal).Equal(q.Subtotal), "subtotal %s", q.Subtotal)
			s.True(dec(tc.expectedFee).Equal(q.ServiceFee), "fee %s", q.ServiceFee)
			s.True(dec(tc.expectedTax).Equal(q.Tax), "tax %s", q.Tax)
			s.True(dec(tc.expectedGrandTotal).Equal(q.GrandTotal), "grand total %s", q.GrandTotal)
			s.Equal(tc.expectedMissing, q.Missing)
			if len(tc.expectedMissing) > 0 {
				s.ErrorIs(q.Err(), ErrMissingCatalogEntry)
			} else {
				s.NoError(q.Err())
			}
		})
	}
}

func (s *QuoteTestSuite) TestSubtotalIsSumOfLines() {
	policy := Policy{ServiceFeePercent: dec("18"), TaxPercent: dec("8.25"), TaxBase: TaxOnSubtotalAndFee}

	for i := 0; i < 20; i++ {
		selection := map[string]int{"A": i, "B": 2 * i, "C": i + 1}
		q := Calculate(selection, s.Catalog, policy)

		sum := decimal.Zero
		for _, line := range q.Lines {
			s.True(line.LineTotal.Equal(Round(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))))
			sum = sum.Add(line.LineTotal)
		}

		s.True(sum.Equal(q.Subtotal))
		s.True(q.GrandTotal.GreaterThanOrEqual(q.Subtotal))
		s.True(q.GrandTotal.Equal(Calculate(selection, s.Catalog, policy).GrandTotal))
	}
}

func (s *QuoteTestSuite) TestRemovalLeavesNoResidue() {
	policy := Policy{ServiceFeePercent: dec("10"), TaxPercent: dec("5"), TaxBase: TaxOnSubtotal}

	without := Calculate(map[string]int{"A": 2}, s.Catalog, policy)

	selection := map[string]int{"A": 2, "B": 4}
	delete(selection, "B")
	removed := Calculate(selection, s.Catalog, policy)

	s.Equal(without, removed)
}

func (s *QuoteTestSuite) TestSubtotal() {
	s.True(dec("25").Equal(Subtotal(map[string]int{"A": 2, "B": 1}, s.Catalog)))
	s.True(decimal.Zero.Equal(Subtotal(nil, s.Catalog)))
}

func TestPolicy(t *testing.T) {
	base, err := ParseTaxBase("")
	require.NoError(t, err)
	assert.Equal(t, TaxOnSubtotalAndFee, base)

	_, err = ParseTaxBase("fee_only")
	assert.Error(t, err)

	assert.NoError(t, Policy{TaxBase: TaxOnSubtotal}.Validate())
	assert.Error(t, Policy{TaxBase: TaxOnSubtotal, TaxPercent: dec("-1")}.Validate())
	assert.Error(t, Policy{TaxBase: TaxOnSubtotal, ServiceFeePercent: dec("-1")}.Validate())
	assert.Error(t, Policy{}.Validate())
}

func TestFormatterMoney(t *testing.T) {
	f := NewFormatter(language.AmericanEnglish, "$")

	assert.Equal(t, "$35.00", f.Money(dec("35")))
	assert.Equal(t, "$2.42", f.Money(dec("2.415")))
	assert.Equal(t, "$0.00", f.Money(decimal.Zero))
	assert.Equal(t, "6.5", f.Percent(dec("6.50")))
}
