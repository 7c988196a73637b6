package model

type CatalogItemResponse struct {
	Name            string   `json:"name"`
	UnitPrice       string   `json:"unit_price"`
	DefaultQuantity int      `json:"default_quantity"`
	MaxQuantity     int      `json:"max_quantity"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	DietaryTags     []string `json:"dietary_tags"`
}

type CatalogResponse struct {
	Items       []CatalogItemResponse `json:"items"`
	Categories  []string              `json:"categories"`
	DietaryTags []string              `json:"dietary_tags"`
}
