package formatting

import (
	"fmt"
	"math"
)

// FormatPrice форматирует цену в рублях, без копеек если они равны 0
func FormatPrice(price *float64) string {
	if price == nil || *price == 0 {
		return "бесплатно"
	}
	if *price == math.Trunc(*price) {
		return fmt.Sprintf("%.0f ₽", *price)
	}
	return fmt.Sprintf("%.2f ₽", *price)
}
