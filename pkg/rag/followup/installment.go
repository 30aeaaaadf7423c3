package followup

import (
	"regexp"
	"strconv"
	"strings"

	"phone-store-be/pkg/textnorm"
)

// InstallmentTerms are the plan parameters a shopper mentioned. Amortization is left to
// the installment calculator; this only reads what was asked.
type InstallmentTerms struct {
	Months        int     `json:"months,omitempty"`
	PrepayPercent float64 `json:"prepay_percent,omitempty"`
	PrepayAmount  float64 `json:"prepay_amount,omitempty"` // VND
	CreditCard    bool    `json:"credit_card,omitempty"`
	ZeroInterest  bool    `json:"zero_interest,omitempty"`
}

// IsEmpty reports whether no term was mentioned
func (t InstallmentTerms) IsEmpty() bool {
	return t == InstallmentTerms{}
}

// standardTerms are the month counts offered by the finance partners
var standardTerms = map[int]struct{}{3: {}, 6: {}, 9: {}, 12: {}, 18: {}, 24: {}}

var (
	monthsRe  = regexp.MustCompile(`(?:^|\s)(\d{1,2})\s*(?:thang|th|t)(?:\s|$)`)
	prepayRe  = regexp.MustCompile(`tra truoc\s*(\d+(?:[.,]\d+)?)\s*(phan tram|trieu|tr|cu|k)?`)
	percentRe = regexp.MustCompile(`(\d{1,2})\s*phan tram`)
)

// ParseInstallmentTerms reads months, prepayment and payment method from normalized text.
// A bare number continuing an installment turn is read as the month count when it is a
// standard term.
func ParseInstallmentTerms(normalized string) InstallmentTerms {
	var t InstallmentTerms

	if m := monthsRe.FindStringSubmatch(normalized); m != nil {
		t.Months, _ = strconv.Atoi(m[1])
	} else if n, ok := ParseNumber(normalized); ok {
		if idx, isInt := n.Index(); isInt {
			if _, standard := standardTerms[idx]; standard {
				t.Months = idx
			}
		}
	}

	if m := prepayRe.FindStringSubmatch(normalized); m != nil {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err == nil {
			switch m[2] {
			case "trieu", "tr", "cu":
				t.PrepayAmount = v * 1e6
			case "k":
				t.PrepayAmount = v * 1e3
			case "phan tram":
				t.PrepayPercent = v
			default:
				if v <= 100 {
					t.PrepayPercent = v
				} else {
					t.PrepayAmount = v
				}
			}
		}
	} else if m := percentRe.FindStringSubmatch(normalized); m != nil {
		t.PrepayPercent, _ = strconv.ParseFloat(m[1], 64)
	}

	t.CreditCard = textnorm.ContainsAnyWord(normalized, "the tin dung", "credit", "visa", "mastercard", "jcb", "quet the")
	t.ZeroInterest = textnorm.ContainsAnyWord(normalized, "0 lai", "lai suat 0", "khong lai", "lai 0")
	return t
}
