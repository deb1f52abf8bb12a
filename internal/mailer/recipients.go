package mailer

import (
	"errors"
	"fmt"
)

// ErrUnknownLocation is returned when a delivery location has no buyer
// mailbox configured. Requisitions for unmapped locations are rejected,
// never routed to a default address.
var ErrUnknownLocation = errors.New("invalid delivery location")

// recipientByLocation routes a delivery-location code to the responsible
// buyer. Kept in code on purpose: the table changes together with the
// location catalog, not with deployments.
var recipientByLocation = map[string]string{
	"ESOM_F_CATU_OI":     "tatiana.ribeiro@engie.com",
	"ESOM_F_CAMACARI_OI": "luciana.buente@engie.com",
	"ESOM_F_ITABUNA_OI":  "alane.reis@engie.com",
	"ESOM_F_PILAR_OI":    "camila.monteiro@engie.com",
	"ESOM_F_ATALAIA_OI":  "ivone.andrade@engie.com",
}

// ResolveRecipient maps a location code to the buyer email address.
func ResolveRecipient(location string) (string, error) {
	addr, ok := recipientByLocation[location]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLocation, location)
	}
	return addr, nil
}
