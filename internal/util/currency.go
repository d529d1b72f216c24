package util

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DisplayCurrency is the currency used for all rendered amounts
const DisplayCurrency = money.INR

// ToMinorUnits converts an amount to paise, rounding half away from zero
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Round(2).Shift(2).IntPart()
}

// FormatCurrency renders an amount as "₹1,234.56"
func FormatCurrency(amount decimal.Decimal) string {
	return money.New(ToMinorUnits(amount), DisplayCurrency).Display()
}
