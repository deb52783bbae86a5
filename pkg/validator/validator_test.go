package validator

import (
	"testing"

	"stockroom/internal/apierror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLine struct {
	VariantID uuid.UUID `json:"variant_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"gte=0"`
}

type testRequest struct {
	Name  string     `json:"name" validate:"required"`
	Email string     `json:"email" validate:"omitempty,email"`
	Items []testLine `json:"items" validate:"dive"`
}

func TestStructValid(t *testing.T) {
	err := Struct(&testRequest{
		Name:  "ok",
		Items: []testLine{{VariantID: uuid.New(), Quantity: 1}},
	})
	assert.NoError(t, err)
}

func TestStructFieldPaths(t *testing.T) {
	err := Struct(&testRequest{
		Name:  "",
		Email: "not-an-email",
		Items: []testLine{
			{VariantID: uuid.New(), Quantity: 0},
			{VariantID: uuid.Nil, Quantity: -3},
		},
	})

	verr, ok := apierror.AsValidation(err)
	require.True(t, ok)

	// Paths use json names with inlined slice indexes.
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "items.1.variant_id")
	assert.Contains(t, verr.Fields, "items.1.quantity")
	assert.NotContains(t, verr.Fields, "items.0.variant_id")

	assert.Equal(t, []string{"this field is required"}, verr.Fields["items.1.variant_id"])
	assert.Equal(t, []string{"must be greater than or equal to 0"}, verr.Fields["items.1.quantity"])
}

func TestStructNilUUIDRejected(t *testing.T) {
	err := Struct(&testLine{VariantID: uuid.Nil, Quantity: 1})
	verr, ok := apierror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "variant_id")
}
