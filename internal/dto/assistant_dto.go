package dto

import "time"

type SendChatRequest struct {
	SessionId string `json:"session_id" validate:"omitempty,max=100"`
	Message   string `json:"message" validate:"required,max=1000"`
}

type ProductResponse struct {
	Id         string          `json:"id"`
	Name       string          `json:"name"`
	Brand      string          `json:"brand,omitempty"`
	Category   string          `json:"category"`
	Price      float64         `json:"price"`
	FinalPrice float64         `json:"final_price"`
	PriceText  string          `json:"price_text"`
	Discount   int             `json:"discount"`
	InStock    bool            `json:"in_stock"`
	Colors     []ColorResponse `json:"colors,omitempty"`
}

type ColorResponse struct {
	Name    string `json:"name"`
	Code    string `json:"code,omitempty"`
	Stock   *int   `json:"stock,omitempty"` // nil when only the legacy color list is known
	InStock bool   `json:"in_stock"`
}

type OptionResponse struct {
	Index     int     `json:"index"`
	Id        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	PriceText string  `json:"price_text"`
}

type SlotsResponse struct {
	Brand         string   `json:"brand,omitempty"`
	BudgetMillion float64  `json:"budget_million,omitempty"`
	Features      []string `json:"features,omitempty"`
}

type SessionResponse struct {
	SessionId      string           `json:"session_id"`
	CurrentProduct *OptionResponse  `json:"current_product,omitempty"`
	PendingOptions []OptionResponse `json:"pending_options,omitempty"`
	Slots          SlotsResponse    `json:"slots"`
	LastIntent     string           `json:"last_intent,omitempty"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

type SendChatResponse struct {
	SessionId string            `json:"session_id"`
	Reply     string            `json:"reply"`
	Intent    string            `json:"intent"`
	Decision  string            `json:"decision"`
	Outcomes  []string          `json:"outcomes,omitempty"`
	Strategy  string            `json:"strategy,omitempty"`
	Mode      string            `json:"mode"`
	Generated bool              `json:"generated"`
	Products  []ProductResponse `json:"products"`
	Options   []OptionResponse  `json:"options,omitempty"`
	Session   *SessionResponse  `json:"session,omitempty"`
}

type TurnStatsResponse struct {
	Turns      int            `json:"turns"`
	Generated  int            `json:"generated"`
	ByIntent   map[string]int `json:"by_intent"`
	ByDecision map[string]int `json:"by_decision"`
	ByOutcome  map[string]int `json:"by_outcome"`
	Products   map[string]int `json:"products"`
}
