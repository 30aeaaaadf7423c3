// Package response turns a resolved turn into the reply shown to the shopper.
package response

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"phone-store-be/pkg/extract"
	"phone-store-be/pkg/rag/followup"
	"phone-store-be/pkg/rag/intent"
	"phone-store-be/pkg/store"
)

// Reply is a deterministic answer plus the facts it was built from
type Reply struct {
	Text  string
	Facts []string
}

// Composer writes Vietnamese replies without a language model. The text is used as-is
// when generation is disabled or fails.
type Composer struct {
	normalize   func(string) string
	optionLimit int
}

// NewComposer creates a composer. normalize must be the normalizer used for search.
func NewComposer(normalize func(string) string, optionLimit int) *Composer {
	return &Composer{normalize: normalize, optionLimit: optionLimit}
}

var featureLabels = map[string]string{
	extract.FeatureGaming:  "chơi game",
	extract.FeatureCamera:  "chụp ảnh đẹp",
	extract.FeatureBattery: "pin trâu",
	extract.FeatureCheap:   "giá rẻ",
	extract.FeaturePremium: "cao cấp",
	extract.FeatureCompact: "nhỏ gọn",
	extract.Feature5G:      "hỗ trợ 5G",
}

// Compose picks the reply for the turn
func (c *Composer) Compose(in intent.Intent, res *followup.Resolution) Reply {
	var b replyBuilder

	if res.HasOutcome(followup.OutcomeStaleContextReference) {
		b.line("Sản phẩm bạn hỏi trước đó hiện không còn kinh doanh, mình tìm mẫu tương tự nhé.")
	}

	switch {
	case res.HasOutcome(followup.OutcomeAmbiguousSelection):
		c.ambiguousSelection(&b, res)
	case res.HasOutcome(followup.OutcomeNoCandidatesFound):
		c.noMatch(&b, res)
	case res.Decision == followup.DecisionColorQuery:
		c.colors(&b, res)
	case res.Decision == followup.DecisionStockQuery:
		c.stock(&b, res)
	case res.Decision == followup.DecisionInstallment:
		c.installment(&b, res)
	case res.Decision == followup.DecisionNumericSelection:
		c.selected(&b, res)
	case len(res.Compared) > 0:
		c.compare(&b, res)
	case res.Decision == followup.DecisionNewSearch && res.Product != nil:
		c.found(&b, res)
	default:
		c.general(&b, in)
	}
	return Reply{Text: b.String(), Facts: b.facts}
}

func (c *Composer) ambiguousSelection(b *replyBuilder, res *followup.Resolution) {
	b.line("Mình chưa rõ bạn chọn mẫu nào. Bạn gõ số thứ tự giúp mình nhé:")
	for i, o := range res.Options {
		b.line(fmt.Sprintf("%d. %s - %s", i+1, o.Name, store.FormatVND(o.Price)))
	}
}

func (c *Composer) noMatch(b *replyBuilder, res *followup.Resolution) {
	b.line("Rất tiếc, shop chưa có sản phẩm phù hợp với yêu cầu của bạn.")
	if understood := describeSlots(res.Understood); understood != "" {
		b.line("Mình hiểu bạn đang tìm: " + understood + ".")
	} else if res.HasOutcome(followup.OutcomeNoEntityExtracted) {
		b.line("Bạn cho mình biết hãng, mẫu máy hoặc tầm giá mong muốn nhé.")
	}
	if res.Search != nil && len(res.Search.Items) > 0 {
		b.line("Bạn có thể tham khảo các mẫu đang bán chạy:")
		for i, s := range res.Search.Items {
			if i == c.optionLimit {
				break
			}
			b.line(fmt.Sprintf("%d. %s", i+1, productLine(s.Item)))
		}
	}
}

func describeSlots(s store.Slots) string {
	var parts []string
	if s.Brand != "" {
		parts = append(parts, "hãng "+cases.Title(language.Vietnamese).String(s.Brand))
	}
	if s.BudgetMillion > 0 {
		parts = append(parts, fmt.Sprintf("giá dưới %s triệu", trimFloat(s.BudgetMillion)))
	}
	for _, f := range s.Features {
		if label, ok := featureLabels[f]; ok {
			parts = append(parts, label)
		}
	}
	return strings.Join(parts, ", ")
}

func (c *Composer) colors(b *replyBuilder, res *followup.Resolution) {
	p := res.Product
	if p == nil {
		c.noMatch(b, res)
		return
	}
	b.fact("Sản phẩm: " + productLine(*p))

	options := p.ColorOptions()
	if len(options) == 0 {
		b.line(fmt.Sprintf("%s hiện chưa có thông tin màu sắc, bạn liên hệ shop để được kiểm tra nhé.", p.Name))
		return
	}

	// answer the named colors first
	answered := false
	for _, requested := range res.RequestedColors {
		for _, o := range options {
			if !strings.Contains(c.normalize(o.Name), requested) {
				continue
			}
			answered = true
			if o.InStock {
				b.line(fmt.Sprintf("%s màu %s hiện còn hàng.", p.Name, o.Name))
			} else {
				b.line(fmt.Sprintf("%s màu %s hiện đã hết hàng.", p.Name, o.Name))
			}
		}
	}
	if len(res.RequestedColors) > 0 && !answered {
		b.line(fmt.Sprintf("%s không có màu bạn hỏi.", p.Name))
	}

	b.line(fmt.Sprintf("%s có các màu:", p.Name))
	for _, o := range options {
		b.line("- " + colorLine(o))
		b.fact("Màu " + colorLine(o))
	}
}

func colorLine(o store.ColorOption) string {
	switch {
	case !o.InStock:
		return o.Name + ": hết hàng"
	case o.StockKnown:
		return fmt.Sprintf("%s: còn hàng (%d máy)", o.Name, o.Stock)
	default:
		return o.Name + ": còn hàng"
	}
}

func (c *Composer) stock(b *replyBuilder, res *followup.Resolution) {
	p := res.Product
	if p == nil {
		c.noMatch(b, res)
		return
	}
	b.fact("Sản phẩm: " + productLine(*p))
	if p.InStock() {
		b.line(fmt.Sprintf("%s hiện còn hàng (%d máy), giá %s.", p.Name, p.TotalStock(), store.FormatVND(p.FinalPrice())))
	} else {
		b.line(fmt.Sprintf("%s hiện đã hết hàng. Bạn để lại số điện thoại, shop sẽ báo khi có hàng nhé.", p.Name))
	}
	if p.Specs.Storage > 0 {
		b.line(fmt.Sprintf("Phiên bản đang bán: RAM %dGB, bộ nhớ %dGB.", p.Specs.RAM, p.Specs.Storage))
	}
	if res.Entity.StorageGB > 0 && p.Specs.Storage > 0 && res.Entity.StorageGB != p.Specs.Storage {
		b.line(fmt.Sprintf("Phiên bản %dGB hiện shop chưa có sẵn.", res.Entity.StorageGB))
	}
}

func (c *Composer) installment(b *replyBuilder, res *followup.Resolution) {
	p := res.Product
	if p == nil {
		c.noMatch(b, res)
		return
	}
	price := p.FinalPrice()
	b.fact("Sản phẩm: " + productLine(*p))
	b.line(fmt.Sprintf("%s giá %s, hỗ trợ trả góp qua công ty tài chính hoặc thẻ tín dụng.", p.Name, store.FormatVND(price)))

	t := res.Installment
	if t == nil || t.IsEmpty() {
		b.line("Bạn muốn góp trong bao nhiêu tháng (3, 6, 9, 12, 18 hoặc 24) và trả trước bao nhiêu?")
		return
	}
	if t.Months > 0 {
		b.line(fmt.Sprintf("Kỳ hạn: %d tháng.", t.Months))
	}
	switch {
	case t.PrepayPercent > 0:
		b.line(fmt.Sprintf("Trả trước %s%%: %s.", trimFloat(t.PrepayPercent), store.FormatVND(price*t.PrepayPercent/100)))
	case t.PrepayAmount > 0:
		b.line("Trả trước: " + store.FormatVND(t.PrepayAmount) + ".")
	}
	if t.CreditCard {
		b.line("Thanh toán qua thẻ tín dụng.")
	}
	if t.ZeroInterest {
		b.line("Shop sẽ kiểm tra chương trình lãi suất 0% cho bạn.")
	}
	b.line("Nhân viên sẽ tính chi tiết số tiền góp hàng tháng cho bạn nhé.")
}

func (c *Composer) selected(b *replyBuilder, res *followup.Resolution) {
	p := res.Product
	if p == nil {
		c.noMatch(b, res)
		return
	}
	b.fact("Sản phẩm: " + productLine(*p))
	b.line("Bạn đã chọn " + productLine(*p) + ".")
	if spec := specSummary(p.Specs); spec != "" {
		b.line("Cấu hình: " + spec + ".")
	}
}

func (c *Composer) compare(b *replyBuilder, res *followup.Resolution) {
	b.line("So sánh nhanh:")
	for i, p := range res.Compared {
		line := fmt.Sprintf("%d. %s", i+1, productLine(p))
		if spec := specSummary(p.Specs); spec != "" {
			line += " | " + spec
		}
		b.line(line)
		b.fact(line)
	}
	b.line("Bạn muốn xem chi tiết mẫu nào? Gõ số thứ tự nhé.")
}

func (c *Composer) found(b *replyBuilder, res *followup.Resolution) {
	if len(res.Options) > 1 {
		b.line(fmt.Sprintf("Shop có %d sản phẩm phù hợp:", len(res.Options)))
		for i, o := range res.Options {
			b.line(fmt.Sprintf("%d. %s - %s", i+1, o.Name, store.FormatVND(o.Price)))
		}
		b.line("Bạn muốn xem chi tiết mẫu nào? Gõ số thứ tự hoặc giá nhé.")
		for _, p := range res.MatchedProducts() {
			b.fact(productLine(p))
		}
		return
	}
	p := res.Product
	b.fact(productLine(*p))
	b.line(productLine(*p) + ".")
	if spec := specSummary(p.Specs); spec != "" {
		b.line("Cấu hình: " + spec + ".")
	}
}

func (c *Composer) general(b *replyBuilder, in intent.Intent) {
	switch in {
	case intent.Greeting:
		b.line("Chào bạn! Mình có thể giúp bạn tìm điện thoại, máy tính bảng hoặc phụ kiện. Bạn đang quan tâm mẫu nào?")
	case intent.OrderTracking:
		b.line("Bạn vui lòng cho mình mã đơn hàng hoặc số điện thoại đặt hàng để kiểm tra nhé.")
	default:
		b.line("Mình có thể giúp bạn tìm sản phẩm theo hãng, mẫu máy, tầm giá hoặc nhu cầu. Bạn cần tư vấn gì ạ?")
	}
}

func productLine(p store.CatalogItem) string {
	line := fmt.Sprintf("%s - %s", p.Name, store.FormatVND(p.FinalPrice()))
	if p.Discount > 0 {
		line += fmt.Sprintf(" (giảm %d%%)", p.Discount)
	}
	if !p.InStock() {
		line += " (hết hàng)"
	}
	return line
}

func specSummary(s store.Specs) string {
	var parts []string
	if s.Chipset != "" {
		parts = append(parts, s.Chipset)
	}
	if s.RAM > 0 && s.Storage > 0 {
		parts = append(parts, fmt.Sprintf("%dGB/%dGB", s.RAM, s.Storage))
	}
	if s.Camera != "" {
		parts = append(parts, "camera "+s.Camera)
	}
	if s.Battery > 0 {
		parts = append(parts, fmt.Sprintf("pin %dmAh", s.Battery))
	}
	return strings.Join(parts, ", ")
}

func trimFloat(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

type replyBuilder struct {
	lines []string
	facts []string
}

func (b *replyBuilder) line(s string) { b.lines = append(b.lines, s) }
func (b *replyBuilder) fact(s string) { b.facts = append(b.facts, s) }
func (b *replyBuilder) String() string {
	return strings.Join(b.lines, "\n")
}
