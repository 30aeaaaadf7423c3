package store

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var vndPrinter = message.NewPrinter(language.Vietnamese)

// FormatVND renders a price the way the shop displays it, e.g. "15.990.000₫"
func FormatVND(price float64) string {
	return vndPrinter.Sprintf("%d", int64(math.Round(price))) + "₫"
}
