// Package form owns the requisition draft: the in-progress state of the
// form, its validation rules and the transformation into the wire payload.
package form

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"esom-requisition-server/internal/catalog"
)

// LineItem is one purchase line while it is being edited. ID is a local
// handle for list reconciliation only; it is never serialized.
type LineItem struct {
	ID                  string
	ItemCode            string
	Description         string
	Quantity            decimal.Decimal
	Price               decimal.Decimal
	OriginType          string
	AgreementType       string
	Agreement           string
	Provider            string
	OSNumber            string
	DestinationType     string
	SubInventory        string
	UsageIntent         string
	Objective           string
	Justification       string
	BuyerObservation    string
	ProviderObservation string
}

// Draft is the full form state. All operations are value-based: they return
// a new Draft and never mutate the receiver, so callers can hold on to
// earlier states safely.
type Draft struct {
	Requester string
	Location  string
	Items     []LineItem
}

func blankItem() LineItem {
	return LineItem{
		ID:              uuid.NewString(),
		Quantity:        decimal.NewFromInt(1),
		OriginType:      catalog.Sentinel,
		AgreementType:   catalog.Sentinel,
		DestinationType: catalog.Sentinel,
		SubInventory:    catalog.Sentinel,
		UsageIntent:     catalog.Sentinel,
		Objective:       catalog.Sentinel,
	}
}

// NewDraft returns an empty draft holding a single blank line item, the
// state the form opens in.
func NewDraft() Draft {
	return Draft{
		Location: catalog.Sentinel,
		Items:    []LineItem{blankItem()},
	}
}

func (d Draft) cloneItems() []LineItem {
	items := make([]LineItem, len(d.Items))
	copy(items, d.Items)
	return items
}

// AddItem appends a fresh blank item to the end of the sequence.
func (d Draft) AddItem() Draft {
	d.Items = append(d.cloneItems(), blankItem())
	return d
}

// RemoveItem deletes the item at index i. The draft always keeps at least
// one item: removing the last remaining item, or passing an out-of-range
// index, returns the draft unchanged.
func (d Draft) RemoveItem(i int) Draft {
	if len(d.Items) <= 1 || i < 0 || i >= len(d.Items) {
		return d
	}
	items := d.cloneItems()
	d.Items = append(items[:i], items[i+1:]...)
	return d
}

// UpdateItem replaces the item at index i with the result of applying fn to
// it. fn receives a value copy, so updating one field leaves the rest
// untouched. Out-of-range indexes return the draft unchanged. No
// validation happens here.
func (d Draft) UpdateItem(i int, fn func(LineItem) LineItem) Draft {
	if i < 0 || i >= len(d.Items) {
		return d
	}
	items := d.cloneItems()
	id := items[i].ID
	items[i] = fn(items[i])
	items[i].ID = id
	d.Items = items
	return d
}

// SetRequester sets the requester name.
func (d Draft) SetRequester(name string) Draft {
	d.Requester = name
	return d
}

// SetLocation sets the delivery location code.
func (d Draft) SetLocation(loc string) Draft {
	d.Location = loc
	return d
}
