// Package billing computes invoice figures. It is pure: no storage, no
// clocks beyond invoice number generation, no globals.
package billing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Validation errors. Callers match with errors.Is.
var (
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInvalidDescription = errors.New("invalid description")
)

// MinDescriptionLen is the minimum service description length after
// trimming. Policy, not a domain requirement.
const MinDescriptionLen = 5

// DefaultTaxRate is the flat 10% tax applied to the subtotal.
var DefaultTaxRate = decimal.New(1, -1)

var one = decimal.New(1, 0)

// Charge is one itemized line added on top of the base price.
type Charge struct {
	Description string
	Amount      decimal.Decimal
}

// Totals holds the derived billing figures, each rounded to 2 decimal
// places half-up.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals derives subtotal, tax and total from a base price and
// itemized charges. subtotal = basePrice + sum(charges), tax =
// subtotal * taxRate, total = subtotal + tax.
func ComputeTotals(basePrice decimal.Decimal, charges []Charge, taxRate decimal.Decimal) (Totals, error) {
	if basePrice.Sign() <= 0 {
		return Totals{}, fmt.Errorf("%w: base price %s", ErrInvalidAmount, basePrice)
	}
	if taxRate.Sign() < 0 || taxRate.GreaterThan(one) {
		return Totals{}, fmt.Errorf("%w: tax rate %s outside [0,1]", ErrInvalidAmount, taxRate)
	}

	subtotal := basePrice
	for i, c := range charges {
		if strings.TrimSpace(c.Description) == "" {
			return Totals{}, fmt.Errorf("%w: charge %d has an empty description", ErrInvalidDescription, i+1)
		}
		if c.Amount.Sign() <= 0 {
			return Totals{}, fmt.Errorf("%w: charge %q amount %s", ErrInvalidAmount, c.Description, c.Amount)
		}
		subtotal = subtotal.Add(c.Amount)
	}

	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}, nil
}

// ValidateServiceDescription enforces the minimum meaningful description
// length on the overall invoice description.
func ValidateServiceDescription(desc string) error {
	if len(strings.TrimSpace(desc)) < MinDescriptionLen {
		return fmt.Errorf("%w: service description must be at least %d characters", ErrInvalidDescription, MinDescriptionLen)
	}
	return nil
}

// GenerateInvoiceNumber produces an identifier combining the creation
// timestamp with a random disambiguator. Unique with overwhelming
// probability within a process; call sites needing cross-process
// uniqueness must layer a collision check.
func GenerateInvoiceNumber() string {
	return fmt.Sprintf("INV-%d-%s", time.Now().UnixMilli(), uuid.New().String()[:8])
}
