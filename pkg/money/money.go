package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale число знаков после запятой для денежных сумм (копейки)
const Scale = 2

// Round округляет сумму до копеек по банковскому правилу
func Round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(Scale)
}

// Parse разбирает сумму из строки и проверяет, что она неотрицательна
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("money: negative amount %q", s)
	}
	return d, nil
}

// Sum складывает суммы
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
