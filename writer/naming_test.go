package writer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExportedName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"pet", "Pet"},
		{"Pet", "Pet"},
		{"pet_store", "PetStore"},
		{"pet-store", "PetStore"},
		{"pet.store", "PetStore"},
		{"petStore", "PetStore"},
		{"user id", "UserID"},
		{"api_key", "APIKey"},
		{"callback_url", "CallbackURL"},
		{"uuid", "UUID"},
		{"http_response", "HTTPResponse"},
		{"order2", "Order2"},
		{"2fa", "Schema2Fa"},
		{"", "Schema"},
		{"---", "Schema"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ExportedName(tc.in))
		})
	}
}
