package service

import (
	"github.com/shopspring/decimal"
)

// ScorePercentage считает correct / total × 100 с округлением до одного знака (half-up).
// Для пустой категории возвращает 0.
func ScorePercentage(correct, total int64) float64 {
	if total <= 0 {
		return 0
	}
	pct := decimal.NewFromInt(correct).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		Round(1)
	return pct.InexactFloat64()
}
