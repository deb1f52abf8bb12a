package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esom-requisition-server/internal/catalog"
)

func TestResolveRecipient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		location string
		want     string
	}{
		{"ESOM_F_CATU_OI", "tatiana.ribeiro@engie.com"},
		{"ESOM_F_CAMACARI_OI", "luciana.buente@engie.com"},
		{"ESOM_F_ITABUNA_OI", "alane.reis@engie.com"},
		{"ESOM_F_PILAR_OI", "camila.monteiro@engie.com"},
		{"ESOM_F_ATALAIA_OI", "ivone.andrade@engie.com"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.location, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveRecipient(tt.location)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unmapped location is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := ResolveRecipient("ESOM_F_NOWHERE")
		assert.ErrorIs(t, err, ErrUnknownLocation)

		_, err = ResolveRecipient("")
		assert.ErrorIs(t, err, ErrUnknownLocation)
	})

	t.Run("every catalog location has a recipient", func(t *testing.T) {
		t.Parallel()

		for _, location := range catalog.Locations {
			_, err := ResolveRecipient(location)
			assert.NoError(t, err, location)
		}
	})
}
