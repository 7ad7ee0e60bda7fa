package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConvertToBaseUnit converts a transaction-line quantity into the product's
// stock-tracking unit.
//
// Rules:
//   - line unit equals the base unit: quantity passes through unchanged;
//   - line unit equals the product's default unit and a distinct base unit is
//     defined: quantity is multiplied by the product's conversion rate;
//   - anything else (unit matches neither, or no base unit defined): quantity
//     passes through unchanged. Arbitrary unit-pair rates from the
//     ProductUnitConversion table are deliberately not consulted here.
//
// Pure function; every stock quantity crossing a unit boundary goes through it.
func ConvertToBaseUnit(quantity decimal.Decimal, lineUnitID, defaultUnitID uuid.UUID, baseUnitID *uuid.UUID, conversionRate decimal.Decimal) decimal.Decimal {
	if baseUnitID == nil {
		return quantity
	}
	if lineUnitID == *baseUnitID {
		return quantity
	}
	if lineUnitID == defaultUnitID && *baseUnitID != defaultUnitID {
		return quantity.Mul(conversionRate).Round(4)
	}
	return quantity
}

// ConvertFromBaseUnit converts a base-unit quantity back into the product's
// default unit using the inverse rate. Inverse of ConvertToBaseUnit for the
// default/base pair.
func ConvertFromBaseUnit(quantity decimal.Decimal, defaultUnitID uuid.UUID, baseUnitID *uuid.UUID, conversionRate decimal.Decimal) decimal.Decimal {
	if baseUnitID == nil || *baseUnitID == defaultUnitID {
		return quantity
	}
	if conversionRate.IsZero() {
		return quantity
	}
	return quantity.DivRound(conversionRate, 4)
}

// ConvertForProduct is a convenience wrapper applying ConvertToBaseUnit with
// the product's own unit configuration.
func ConvertForProduct(p *Product, quantity decimal.Decimal, lineUnitID uuid.UUID) decimal.Decimal {
	return ConvertToBaseUnit(quantity, lineUnitID, p.UnitID, p.BaseUnitID, p.ConversionRate)
}
