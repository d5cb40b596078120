package projection

import (
	"time"

	"github.com/hostelhub/hostel-api/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	currencyPrefix = "KSh"
	daysPerMonth   = 30
)

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders a whole-shilling amount with thousands separators.
func FormatPrice(amount decimal.Decimal) string {
	return pricePrinter.Sprintf("%s %d", currencyPrefix, amount.Round(0).IntPart())
}

// PriceRange is the hostel's price label, e.g. "KSh 4,500 - 6,000". A missing
// or equal max collapses to the single amount.
func PriceRange(minPrice decimal.Decimal, maxPrice *decimal.Decimal) string {
	if maxPrice == nil || maxPrice.Equal(minPrice) {
		return FormatPrice(minPrice)
	}
	return pricePrinter.Sprintf("%s %d - %d", currencyPrefix,
		minPrice.Round(0).IntPart(), maxPrice.Round(0).IntPart())
}

// ChargeableDays is the number of UTC calendar days between start and end,
// never less than one.
func ChargeableDays(start, end time.Time) int {
	days := model.DaysBetween(start, end)
	if days < 1 {
		return 1
	}
	return days
}

// Estimate prices a stay at the room's monthly rate prorated per 30-day
// month. It has no persisted effect.
func Estimate(monthlyPrice decimal.Decimal, start, end time.Time) decimal.Decimal {
	days := decimal.NewFromInt(int64(ChargeableDays(start, end)))
	return monthlyPrice.Mul(days).Div(decimal.NewFromInt(daysPerMonth))
}

// DailyRate is the per-day share of a monthly price.
func DailyRate(monthlyPrice decimal.Decimal) decimal.Decimal {
	return monthlyPrice.Div(decimal.NewFromInt(daysPerMonth))
}
