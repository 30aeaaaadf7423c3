package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"phone-store-be/pkg/ai/router"
	"phone-store-be/pkg/search"
	"phone-store-be/pkg/store"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	priceColor = color.New(color.FgYellow)
	faint      = color.New(color.Faint)
	warnColor  = color.New(color.FgRed)
)

func printSearch(w io.Writer, result search.Result) {
	if !result.Success {
		warnColor.Fprintf(w, "Không tìm thấy \"%s\". Gợi ý bán chạy:\n", result.OriginalQuery)
	} else {
		titleColor.Fprintf(w, "%d kết quả (%s)\n", len(result.Items), result.Strategy)
	}
	for i, s := range result.Items {
		fmt.Fprintf(w, "%2d. %s\n", i+1, itemLine(s.Item))
		if result.Success {
			faint.Fprintf(w, "    score %.1f\n", s.Score)
		}
	}
}

func itemLine(item store.CatalogItem) string {
	var b strings.Builder
	b.WriteString(item.Name)
	b.WriteString("  ")
	b.WriteString(priceColor.Sprint(store.FormatVND(item.FinalPrice())))
	if item.Discount > 0 {
		b.WriteString(faint.Sprintf(" (-%d%%)", item.Discount))
	}
	if !item.InStock() {
		b.WriteString(warnColor.Sprint("  hết hàng"))
	}
	return b.String()
}

func printTurn(w io.Writer, res *router.ExecuteResult, debug bool) {
	titleColor.Fprint(w, "Shop: ")
	fmt.Fprintln(w, res.Reply)

	if debug {
		faint.Fprintf(w, "  intent=%s decision=%s strategy=%s generated=%t\n",
			res.Intent, res.Decision, res.Strategy, res.Generated)
		for _, o := range res.Outcomes {
			faint.Fprintf(w, "  outcome=%s\n", o)
		}
		if c := res.Context; c != nil {
			if c.HasCurrentProduct() {
				faint.Fprintf(w, "  current=%s\n", c.CurrentProduct.Name)
			}
			if len(c.PendingOptions) > 0 {
				faint.Fprintf(w, "  pending=%d\n", len(c.PendingOptions))
			}
			if !c.Slots.IsEmpty() {
				faint.Fprintf(w, "  slots brand=%q budget=%.1f features=%v\n",
					c.Slots.Brand, c.Slots.BudgetMillion, c.Slots.Features)
			}
		}
	}
	fmt.Fprintln(w)
}
