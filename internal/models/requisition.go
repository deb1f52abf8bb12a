package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Quantities and prices go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// RequisitionItem is the wire form of one purchase line. Justification and
// the two observation notes live at item level; this is the only schema the
// API accepts. Quantity and price are decimals so the literal text typed by
// the requester ("5.5") survives JSON round-trips into the email.
type RequisitionItem struct {
	ItemCode            string          `json:"itemCode"`
	Description         string          `json:"description" validate:"required"`
	Quantity            decimal.Decimal `json:"quantity" validate:"required"`
	Price               decimal.Decimal `json:"price" validate:"required"`
	OriginType          string          `json:"originType" validate:"required"`
	AgreementType       string          `json:"agreementType" validate:"required"`
	Agreement           string          `json:"agreement,omitempty"`
	Provider            string          `json:"provider,omitempty"`
	OSNumber            string          `json:"osNumber,omitempty"`
	DestinationType     string          `json:"destinationType" validate:"required"`
	SubInventory        string          `json:"subInventory,omitempty"`
	UsageIntent         string          `json:"usageIntent" validate:"required"`
	Objective           string          `json:"objective" validate:"required"`
	Justification       string          `json:"justification" validate:"required"`
	BuyerObservation    string          `json:"buyerObservation"`
	ProviderObservation string          `json:"providerObservation"`
}

// RequisitionPayload is the body of POST /api/submit. In multipart mode the
// same JSON document arrives in the "data" form field.
type RequisitionPayload struct {
	Requester string            `json:"requester" validate:"required"`
	Location  string            `json:"location" validate:"required"`
	Items     []RequisitionItem `json:"items" validate:"required,min=1,dive"`
}
