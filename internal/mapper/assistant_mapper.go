package mapper

import (
	"phone-store-be/internal/dto"
	"phone-store-be/pkg/ai/router"
	"phone-store-be/pkg/store"
)

type AssistantMapper struct{}

func NewAssistantMapper() *AssistantMapper {
	return &AssistantMapper{}
}

func (m *AssistantMapper) ToProductResponse(item store.CatalogItem) dto.ProductResponse {
	res := dto.ProductResponse{
		Id:         item.ID,
		Name:       item.Name,
		Brand:      item.BrandName,
		Category:   string(item.Category),
		Price:      item.Price,
		FinalPrice: item.FinalPrice(),
		PriceText:  store.FormatVND(item.FinalPrice()),
		Discount:   item.Discount,
		InStock:    item.InStock(),
	}
	for _, c := range item.ColorOptions() {
		color := dto.ColorResponse{Name: c.Name, Code: c.Code, InStock: c.InStock}
		if c.StockKnown {
			stock := c.Stock
			color.Stock = &stock
		}
		res.Colors = append(res.Colors, color)
	}
	return res
}

func (m *AssistantMapper) ToProductResponses(items []store.CatalogItem) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(items))
	for _, item := range items {
		out = append(out, m.ToProductResponse(item))
	}
	return out
}

// ToOptionResponses numbers options from 1, the way the shopper selects them
func (m *AssistantMapper) ToOptionResponses(options []store.ProductSummary) []dto.OptionResponse {
	if len(options) == 0 {
		return nil
	}
	out := make([]dto.OptionResponse, 0, len(options))
	for i, o := range options {
		out = append(out, dto.OptionResponse{
			Index:     i + 1,
			Id:        o.ID,
			Name:      o.Name,
			Price:     o.Price,
			PriceText: store.FormatVND(o.Price),
		})
	}
	return out
}

func (m *AssistantMapper) ToSessionResponse(c *store.ConversationContext) *dto.SessionResponse {
	if c == nil {
		return nil
	}
	res := &dto.SessionResponse{
		SessionId:      c.SessionID,
		PendingOptions: m.ToOptionResponses(c.PendingOptions),
		Slots: dto.SlotsResponse{
			Brand:         c.Slots.Brand,
			BudgetMillion: c.Slots.BudgetMillion,
			Features:      c.Slots.Features,
		},
		LastIntent: c.LastIntent,
		UpdatedAt:  c.UpdatedAt,
	}
	if c.HasCurrentProduct() {
		current := m.ToOptionResponses([]store.ProductSummary{*c.CurrentProduct})[0]
		current.Index = 0
		res.CurrentProduct = &current
	}
	return res
}

func (m *AssistantMapper) ToSendChatResponse(sessionID string, r *router.ExecuteResult) *dto.SendChatResponse {
	res := &dto.SendChatResponse{
		SessionId: sessionID,
		Reply:     r.Reply,
		Intent:    string(r.Intent),
		Decision:  string(r.Decision),
		Strategy:  string(r.Strategy),
		Mode:      string(r.Mode),
		Generated: r.Generated,
		Products:  m.ToProductResponses(r.MatchedProducts),
		Options:   m.ToOptionResponses(r.Options),
		Session:   m.ToSessionResponse(r.Context),
	}
	for _, o := range r.Outcomes {
		res.Outcomes = append(res.Outcomes, string(o))
	}
	return res
}
