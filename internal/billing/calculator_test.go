package billing

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTotals(t *testing.T) {
	totals, err := ComputeTotals(dec("80"), []Charge{
		{Description: "Replacement capacitor", Amount: dec("20")},
	}, DefaultTaxRate)
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(dec("100.00")), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.Tax.Equal(dec("10.00")), "tax %s", totals.Tax)
	assert.True(t, totals.Total.Equal(dec("110.00")), "total %s", totals.Total)
}

func TestComputeTotalsNoCharges(t *testing.T) {
	totals, err := ComputeTotals(dec("150.50"), nil, DefaultTaxRate)
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(dec("150.50")))
	assert.True(t, totals.Tax.Equal(dec("15.05")))
	assert.True(t, totals.Total.Equal(dec("165.55")))
}

func TestComputeTotalsRoundsHalfUp(t *testing.T) {
	// 33.33 + 33.33 = 66.66, tax 6.666 rounds up to 6.67
	totals, err := ComputeTotals(dec("33.33"), []Charge{
		{Description: "Extra hour", Amount: dec("33.33")},
	}, DefaultTaxRate)
	require.NoError(t, err)

	assert.True(t, totals.Tax.Equal(dec("6.67")), "tax %s", totals.Tax)
	assert.True(t, totals.Total.Equal(dec("73.33")), "total %s", totals.Total)
}

func TestComputeTotalsChargeOrderIrrelevant(t *testing.T) {
	charges := []Charge{
		{Description: "Parts", Amount: dec("12.49")},
		{Description: "Travel", Amount: dec("7.51")},
		{Description: "Disposal", Amount: dec("3.17")},
	}
	reversed := []Charge{charges[2], charges[1], charges[0]}

	a, err := ComputeTotals(dec("55"), charges, DefaultTaxRate)
	require.NoError(t, err)
	b, err := ComputeTotals(dec("55"), reversed, DefaultTaxRate)
	require.NoError(t, err)

	assert.True(t, a.Subtotal.Equal(b.Subtotal))
	assert.True(t, a.Tax.Equal(b.Tax))
	assert.True(t, a.Total.Equal(b.Total))
}

func TestComputeTotalsDeterministic(t *testing.T) {
	charges := []Charge{{Description: "Filter", Amount: dec("19.99")}}

	first, err := ComputeTotals(dec("42"), charges, DefaultTaxRate)
	require.NoError(t, err)
	second, err := ComputeTotals(dec("42"), charges, DefaultTaxRate)
	require.NoError(t, err)

	assert.True(t, first.Total.Equal(second.Total))
}

func TestComputeTotalsRejectsBadInput(t *testing.T) {
	tests := []struct {
		name      string
		basePrice decimal.Decimal
		charges   []Charge
		taxRate   decimal.Decimal
		wantErr   error
	}{
		{"zero base price", dec("0"), nil, DefaultTaxRate, ErrInvalidAmount},
		{"negative base price", dec("-10"), nil, DefaultTaxRate, ErrInvalidAmount},
		{"zero charge amount", dec("50"), []Charge{{Description: "Parts", Amount: dec("0")}}, DefaultTaxRate, ErrInvalidAmount},
		{"negative charge amount", dec("50"), []Charge{{Description: "Parts", Amount: dec("-5")}}, DefaultTaxRate, ErrInvalidAmount},
		{"blank charge description", dec("50"), []Charge{{Description: "  ", Amount: dec("5")}}, DefaultTaxRate, ErrInvalidDescription},
		{"negative tax rate", dec("50"), nil, dec("-0.1"), ErrInvalidAmount},
		{"tax rate above one", dec("50"), nil, dec("1.5"), ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeTotals(tt.basePrice, tt.charges, tt.taxRate)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateServiceDescription(t *testing.T) {
	assert.NoError(t, ValidateServiceDescription("Replaced the kitchen faucet"))
	assert.NoError(t, ValidateServiceDescription("12345"))

	assert.ErrorIs(t, ValidateServiceDescription(""), ErrInvalidDescription)
	assert.ErrorIs(t, ValidateServiceDescription("abc"), ErrInvalidDescription)
	assert.ErrorIs(t, ValidateServiceDescription("  ab  "), ErrInvalidDescription)
}

func TestGenerateInvoiceNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^INV-\d+-[0-9a-f]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := GenerateInvoiceNumber()
		assert.Regexp(t, pattern, n)
		assert.False(t, seen[n], "duplicate invoice number %s", n)
		seen[n] = true
	}
}
