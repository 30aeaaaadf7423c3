package dto

type SearchProductsRequest struct {
	Query string `query:"q" validate:"required,max=200"`
}

type SearchProductsResponse struct {
	Query    string            `json:"query"`
	Strategy string            `json:"strategy"`
	Success  bool              `json:"success"`
	Cached   bool              `json:"cached"`
	Products []ProductResponse `json:"products"`
}

type RefreshCatalogResponse struct {
	Source   string `json:"source"`
	Products int    `json:"products"`
}

// CatalogUpdatedMessage is the payload published on the catalog topic after a refresh
type CatalogUpdatedMessage struct {
	Source    string `json:"source"`
	Products  int    `json:"products"`
	UpdatedAt string `json:"updated_at"`
}
