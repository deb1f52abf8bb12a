package form

import (
	"fmt"
	"strings"

	"esom-requisition-server/internal/catalog"
	"esom-requisition-server/internal/models"
)

// BuildPayload turns a validated draft into the wire payload. The draft is
// never touched, so building twice from the same draft yields identical
// payloads — the supplier sentence below is composed from the draft's
// observation text on every call, never from an already-augmented one.
//
// Composition rules:
//   - a non-empty suggested provider is folded into the buyer observation
//     as a trailing "Fornecedor indicado" sentence,
//   - the unselected sentinel on the optional sub-inventory becomes empty
//     so the email renders its placeholder,
//   - local item IDs are dropped.
func BuildPayload(d Draft) models.RequisitionPayload {
	items := make([]models.RequisitionItem, len(d.Items))
	for i, item := range d.Items {
		buyerObs := item.BuyerObservation
		if strings.TrimSpace(item.Provider) != "" {
			sep := ""
			if buyerObs != "" {
				sep = "\n"
			}
			buyerObs += fmt.Sprintf("%sFornecedor indicado: %s.", sep, item.Provider)
		}

		subInventory := item.SubInventory
		if !catalog.IsSelected(subInventory) {
			subInventory = ""
		}

		items[i] = models.RequisitionItem{
			ItemCode:            item.ItemCode,
			Description:         item.Description,
			Quantity:            item.Quantity,
			Price:               item.Price,
			OriginType:          item.OriginType,
			AgreementType:       item.AgreementType,
			Agreement:           item.Agreement,
			Provider:            item.Provider,
			OSNumber:            item.OSNumber,
			DestinationType:     item.DestinationType,
			SubInventory:        subInventory,
			UsageIntent:         item.UsageIntent,
			Objective:           item.Objective,
			Justification:       item.Justification,
			BuyerObservation:    buyerObs,
			ProviderObservation: item.ProviderObservation,
		}
	}

	return models.RequisitionPayload{
		Requester: d.Requester,
		Location:  d.Location,
		Items:     items,
	}
}
