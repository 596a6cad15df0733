package httptransport

type LineItemDTO struct {
	LineItemID       string `json:"lineItemId"`
	Description      string `json:"description,omitempty"`
	Quantity         int    `json:"quantity,omitempty"`
	UnitPrice        string `json:"unitPrice"`
	ExtendedPrice    string `json:"extendedPrice"`
	PreferredShipVia string `json:"preferredShipVia"`
	Alt1Code         string `json:"alt1Code"`
}

type SourceGroupDTO struct {
	ShipFrom string        `json:"shipFrom,omitempty"`
	Items    []LineItemDTO `json:"items"`
}

type ManualOrderDTO struct {
	ID              string           `json:"id"`
	Claimed         bool             `json:"claimed"`
	OrderComplete   bool             `json:"orderComplete"`
	TimeClaimed     *string          `json:"timeClaimed"`
	TimeCompleted   *string          `json:"timeCompleted"`
	Notes           string           `json:"notes,omitempty"`
	OrderSubmitDate string           `json:"orderSubmitDate"`
	Sourcing        []SourceGroupDTO `json:"sourcing"`
}

type UpdateNoteRequest struct {
	Note string `json:"note"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
