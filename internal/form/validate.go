package form

import (
	"errors"
	"fmt"
	"strings"

	"esom-requisition-server/internal/catalog"
)

// Validate runs the fixed check sequence over the draft and returns the
// first failure as an error whose message is shown to the user verbatim.
// The order matters: requester, location, then each item front to back.
// Item messages carry an "Item N: " prefix only when the draft has more
// than one item, matching what the form has always displayed.
func Validate(d Draft) error {
	if strings.TrimSpace(d.Requester) == "" {
		return errors.New("Solicitante é obrigatório.")
	}
	if !catalog.IsSelected(d.Location) {
		return errors.New("Local para Entrega é obrigatório.")
	}

	for i, item := range d.Items {
		prefix := ""
		if len(d.Items) > 1 {
			prefix = fmt.Sprintf("Item %d: ", i+1)
		}

		if strings.TrimSpace(item.Description) == "" {
			return fmt.Errorf("%sDescrição é obrigatória.", prefix)
		}
		if !item.Quantity.IsPositive() {
			return fmt.Errorf("%sQuantidade deve ser maior que 0.", prefix)
		}
		if !item.Price.IsPositive() {
			return fmt.Errorf("%sPreço deve ser maior que 0.", prefix)
		}
		if !catalog.IsSelected(item.OriginType) {
			return fmt.Errorf("%sTipo de Origem é obrigatório.", prefix)
		}
		if !catalog.IsSelected(item.AgreementType) {
			return fmt.Errorf("%sTipo de Acordo é obrigatório.", prefix)
		}
		if !catalog.IsSelected(item.DestinationType) {
			return fmt.Errorf("%sTipo de Destino é obrigatório.", prefix)
		}
		if !catalog.IsSelected(item.UsageIntent) {
			return fmt.Errorf("%sUso Pretendido é obrigatório.", prefix)
		}
		if !catalog.IsSelected(item.Objective) {
			return fmt.Errorf("%sObjetivo da RC é obrigatório.", prefix)
		}
		if strings.TrimSpace(item.Justification) == "" {
			return fmt.Errorf("%sJustificativa é obrigatória.", prefix)
		}
	}
	return nil
}

// Warnings returns advisory notes that never block submission. Today there
// is a single rule: an agreement type was chosen but the agreement code was
// left blank.
func Warnings(d Draft) []string {
	var warnings []string
	for i, item := range d.Items {
		if catalog.IsSelected(item.AgreementType) && strings.TrimSpace(item.Agreement) == "" {
			warnings = append(warnings,
				fmt.Sprintf("Item %d: Recomendado preencher \"Acordo\".", i+1))
		}
	}
	return warnings
}
