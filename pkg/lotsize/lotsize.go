// Package lotsize snaps order quantities to the exchange lot-size grid.
//
// All arithmetic is done with apd decimals so that a quantity built from
// decimal strings stays exact after rounding.
package lotsize

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/apd/v3"

	"spotclient/pkg/core"
)

var (
	// ErrInvalidStep is returned when rounding against a step that is not positive.
	ErrInvalidStep = errors.New("step size must be positive")
	// ErrInvalidPrecision is returned for a negative precision.
	ErrInvalidPrecision = errors.New("precision must not be negative")
	// ErrInexact is returned when a result cannot be represented exactly.
	ErrInexact = errors.New("inexact lot-size arithmetic")
)

var two = apd.New(2, 0)

// exactContext returns a context wide enough that the integer quotient,
// remainder and product of qty and step never round.
func exactContext(qty, step *apd.Decimal) (*apd.Context, error) {
	spread := int64(qty.Exponent) - int64(step.Exponent)
	if spread < 0 {
		spread = -spread
	}
	digits := qty.NumDigits() + step.NumDigits() + spread + 1
	if digits > apd.MaxExponent {
		return nil, fmt.Errorf("%w: %d digits", ErrInexact, digits)
	}
	ctx := apd.BaseContext.WithPrecision(uint32(digits))
	ctx.Rounding = apd.RoundHalfEven
	return ctx, nil
}

func checkExact(op string, cond apd.Condition, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if cond.Inexact() {
		return fmt.Errorf("%s: %w", op, ErrInexact)
	}
	return nil
}

// StepSize returns the effective quantity increment for rules: the published
// step size when it is positive, otherwise 10^-Precision.
func StepSize(rules core.SymbolRules) (*apd.Decimal, error) {
	if rules.StepSize.Sign() > 0 {
		step := new(apd.Decimal).Set(&rules.StepSize)
		return step, nil
	}
	if rules.Precision < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPrecision, rules.Precision)
	}
	return apd.New(1, -rules.Precision), nil
}

// Round returns qty rounded to the nearest multiple of the effective step size
// of rules, resolving ties to the even multiple.
func Round(qty *apd.Decimal, rules core.SymbolRules) (*apd.Decimal, error) {
	step, err := StepSize(rules)
	if err != nil {
		return nil, err
	}
	return RoundToStep(qty, step)
}

// RoundToStep returns step * roundHalfEven(qty / step). The tie is decided on
// the exact remainder, and ErrInexact is returned rather than a rounded product.
func RoundToStep(qty, step *apd.Decimal) (*apd.Decimal, error) {
	if step.Sign() <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStep, step.String())
	}

	ctx, err := exactContext(qty, step)
	if err != nil {
		return nil, err
	}

	var units, rem apd.Decimal
	cond, err := ctx.QuoInteger(&units, qty, step)
	if err := checkExact("divide by step", cond, err); err != nil {
		return nil, err
	}
	cond, err = ctx.Rem(&rem, qty, step)
	if err := checkExact("remainder", cond, err); err != nil {
		return nil, err
	}

	var twice apd.Decimal
	cond, err = ctx.Mul(&twice, rem.Abs(&rem), two)
	if err := checkExact("compare remainder", cond, err); err != nil {
		return nil, err
	}

	switch twice.Cmp(step) {
	case 1:
		bumpAway(&units, qty)
	case 0:
		if units.Coeff.Bit(0) == 1 {
			bumpAway(&units, qty)
		}
	}

	result := new(apd.Decimal)
	cond, err = ctx.Mul(result, &units, step)
	if err := checkExact("multiply by step", cond, err); err != nil {
		return nil, err
	}
	return result, nil
}

// bumpAway moves the integer units one step away from zero, in the direction of qty.
func bumpAway(units, qty *apd.Decimal) {
	units.Coeff.Add(&units.Coeff, apd.NewBigInt(1))
	units.Negative = qty.Negative
}

// IsMultiple reports whether qty is an exact multiple of step.
func IsMultiple(qty, step *apd.Decimal) (bool, error) {
	if step.Sign() <= 0 {
		return false, fmt.Errorf("%w: %s", ErrInvalidStep, step.String())
	}
	ctx, err := exactContext(qty, step)
	if err != nil {
		return false, err
	}
	var rem apd.Decimal
	cond, err := ctx.Rem(&rem, qty, step)
	if err := checkExact("remainder", cond, err); err != nil {
		return false, err
	}
	return rem.IsZero(), nil
}
