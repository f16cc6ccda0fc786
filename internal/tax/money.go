package tax

import "github.com/shopspring/decimal"

var two = decimal.NewFromInt(2)

// cents rounds to the nearest cent, half away from zero.
func cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ratio returns num/den rounded to four places, or zero when den is zero.
func ratio(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.DivRound(den, 4)
}

// splitEvenly divides total into n cent-rounded parts with the rounding
// remainder added to the last part, so the parts always sum to total.
func splitEvenly(total decimal.Decimal, n int) []decimal.Decimal {
	parts := make([]decimal.Decimal, n)
	if n == 0 {
		return parts
	}
	share := cents(total.Div(decimal.NewFromInt(int64(n))))
	allocated := decimal.Zero
	for i := 0; i < n-1; i++ {
		parts[i] = share
		allocated = allocated.Add(share)
	}
	parts[n-1] = total.Sub(allocated)
	return parts
}
