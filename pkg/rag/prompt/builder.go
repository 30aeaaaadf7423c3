package prompt

import (
	"fmt"
	"strings"

	"phone-store-be/pkg/llm"
	"phone-store-be/pkg/store"
)

// Input is everything the reply prompt is grounded on
type Input struct {
	Message  string
	Intent   string
	Products []store.CatalogItem // the only products the reply may mention
	Facts    []string            // resolved facts, already phrased for the shopper
	Draft    string              // deterministic reply the model should rephrase
	History  []llm.Message
}

// SalesBuilder builds the grounded prompt for the sales assistant reply
type SalesBuilder struct {
	input Input
}

// NewSalesBuilder creates a new prompt builder
func NewSalesBuilder(input Input) *SalesBuilder {
	return &SalesBuilder{input: input}
}

// Build renders the prompt sections in a fixed order
func (b *SalesBuilder) Build() string {
	var prompt strings.Builder

	b.writeTask(&prompt)
	b.writeProducts(&prompt)
	b.writeFacts(&prompt)
	b.writeHistory(&prompt)
	b.writeConstraints(&prompt)
	b.writeUserMessage(&prompt)

	return prompt.String()
}

func (b *SalesBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("Bạn là nhân viên tư vấn của một cửa hàng điện thoại. Trả lời ngắn gọn, lịch sự, bằng tiếng Việt.\n")
	if b.input.Intent != "" {
		fmt.Fprintf(prompt, "Ý định của khách: %s\n", b.input.Intent)
	}
	prompt.WriteString("</task>\n\n")
}

func (b *SalesBuilder) writeProducts(prompt *strings.Builder) {
	prompt.WriteString("<allowed_products>\n")
	if len(b.input.Products) == 0 {
		prompt.WriteString("(không có sản phẩm phù hợp)\n")
	}
	for i, p := range b.input.Products {
		fmt.Fprintf(prompt, "%d. %s | %s | giá %s", i+1, p.Name, p.BrandName, store.FormatVND(p.FinalPrice()))
		if p.Discount > 0 {
			fmt.Fprintf(prompt, " (giảm %d%%, giá gốc %s)", p.Discount, store.FormatVND(p.Price))
		}
		if p.InStock() {
			prompt.WriteString(" | còn hàng")
		} else {
			prompt.WriteString(" | hết hàng")
		}
		if spec := specLine(p.Specs); spec != "" {
			prompt.WriteString(" | " + spec)
		}
		prompt.WriteString("\n")
	}
	prompt.WriteString("</allowed_products>\n\n")
}

func specLine(s store.Specs) string {
	var parts []string
	if s.RAM > 0 {
		parts = append(parts, fmt.Sprintf("RAM %dGB", s.RAM))
	}
	if s.Storage > 0 {
		parts = append(parts, fmt.Sprintf("bộ nhớ %dGB", s.Storage))
	}
	if s.Chipset != "" {
		parts = append(parts, "chip "+s.Chipset)
	}
	if s.Camera != "" {
		parts = append(parts, "camera "+s.Camera)
	}
	if s.Battery > 0 {
		parts = append(parts, fmt.Sprintf("pin %dmAh", s.Battery))
	}
	return strings.Join(parts, ", ")
}

func (b *SalesBuilder) writeFacts(prompt *strings.Builder) {
	if len(b.input.Facts) == 0 && b.input.Draft == "" {
		return
	}
	prompt.WriteString("<facts>\n")
	for _, f := range b.input.Facts {
		prompt.WriteString("- " + f + "\n")
	}
	if b.input.Draft != "" {
		prompt.WriteString("Câu trả lời mẫu: " + b.input.Draft + "\n")
	}
	prompt.WriteString("</facts>\n\n")
}

func (b *SalesBuilder) writeHistory(prompt *strings.Builder) {
	if len(b.input.History) == 0 {
		return
	}
	prompt.WriteString("<conversation_history>\n")
	for _, m := range b.input.History {
		role := "Khách"
		if m.Role == "assistant" {
			role = "Tư vấn"
		}
		content := m.Content
		if r := []rune(content); len(r) > 300 {
			content = string(r[:300]) + "..."
		}
		fmt.Fprintf(prompt, "%s: %s\n", role, content)
	}
	prompt.WriteString("</conversation_history>\n\n")
}

func (b *SalesBuilder) writeConstraints(prompt *strings.Builder) {
	prompt.WriteString("<constraints>\n")
	prompt.WriteString("1. Chỉ nhắc đến sản phẩm trong <allowed_products>. Không bịa ra sản phẩm, giá hay tồn kho.\n")
	prompt.WriteString("2. Giữ nguyên giá và tình trạng hàng như trong dữ liệu.\n")
	prompt.WriteString("3. Nếu có nhiều lựa chọn, đánh số để khách chọn bằng số thứ tự.\n")
	prompt.WriteString("4. Nếu không có sản phẩm phù hợp, nói rõ và gợi ý khách mô tả thêm nhu cầu.\n")
	prompt.WriteString("</constraints>\n\n")
}

func (b *SalesBuilder) writeUserMessage(prompt *strings.Builder) {
	prompt.WriteString("<user_message>\n")
	prompt.WriteString(b.input.Message)
	prompt.WriteString("\n</user_message>\n\n")
	prompt.WriteString("Trả lời khách:")
}
