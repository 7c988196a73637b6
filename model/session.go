package model

type SubmitInfoRequest struct {
	Name      string `json:"name" validate:"max=200"`
	Email     string `json:"email" validate:"max=320"`
	EventType string `json:"event_type" validate:"max=200"`
	EventDate string `json:"event_date" validate:"omitempty,datetime=2006-01-02"`
}

type SelectionRequest struct {
	Item     string `json:"item" validate:"required"`
	Include  *bool  `json:"include"`
	Quantity *int   `json:"quantity" validate:"omitempty,min=0"`
}

type FilterRequest struct {
	Tags []string `json:"tags" validate:"dive,required"`
}

type ScreenResponse struct {
	Kind     string `json:"kind"`
	Category string `json:"category,omitempty"`
	Name     string `json:"name"`
}

type NavigationResponse struct {
	CanBack   bool   `json:"can_back"`
	BackLabel string `json:"back_label,omitempty"`
	CanNext   bool   `json:"can_next"`
	CanSend   bool   `json:"can_send"`
}

type EventInfoResponse struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	EventType string  `json:"event_type"`
	EventDate *string `json:"event_date"`
}

type ScreenItemResponse struct {
	CatalogItemResponse
	Included bool `json:"included"`
	Quantity *int `json:"quantity,omitempty"`
}

type QuoteLineResponse struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type QuoteResponse struct {
	Lines             []QuoteLineResponse `json:"lines"`
	Subtotal          string              `json:"subtotal"`
	ServiceFeePercent string              `json:"service_fee_percent"`
	ServiceFee        string              `json:"service_fee"`
	TaxPercent        string              `json:"tax_percent"`
	Tax               string              `json:"tax"`
	GrandTotal        string              `json:"grand_total"`
	Missing           []string            `json:"missing,omitempty"`
	Display           QuoteDisplay        `json:"display"`
}

type QuoteDisplay struct {
	Subtotal   string `json:"subtotal"`
	ServiceFee string `json:"service_fee"`
	Tax        string `json:"tax"`
	GrandTotal string `json:"grand_total"`
}

type SessionResponse struct {
	ID           string               `json:"id"`
	Screen       ScreenResponse       `json:"screen"`
	Navigation   NavigationResponse   `json:"navigation"`
	Event        EventInfoResponse    `json:"event"`
	Items        []ScreenItemResponse `json:"items,omitempty"`
	Filter       []string             `json:"filter,omitempty"`
	DietaryTags  []string             `json:"dietary_tags,omitempty"`
	Selection    map[string]int       `json:"selection"`
	CurrentTotal string               `json:"current_total"`
	Quote        *QuoteResponse       `json:"quote,omitempty"`
}
