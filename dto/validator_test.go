package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequestValidation(t *testing.T) {
	valid := RegisterRequest{
		Email:    "user@example.com",
		Name:     "Jane Maker",
		Password: "SecurePass123",
	}
	assert.NoError(t, valid.Validate())

	cases := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing email", RegisterRequest{Name: "Jane", Password: "SecurePass123"}},
		{"bad email", RegisterRequest{Email: "not-an-email", Name: "Jane", Password: "SecurePass123"}},
		{"short name", RegisterRequest{Email: "user@example.com", Name: "J", Password: "SecurePass123"}},
		{"no uppercase", RegisterRequest{Email: "user@example.com", Name: "Jane", Password: "securepass123"}},
		{"no number", RegisterRequest{Email: "user@example.com", Name: "Jane", Password: "SecurePassword"}},
		{"too short", RegisterRequest{Email: "user@example.com", Name: "Jane", Password: "Sp1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.req.Validate())
		})
	}
}

func TestCheckoutRequestValidation(t *testing.T) {
	valid := CheckoutRequest{
		Items: []CheckoutItem{{ProductID: "p1", Quantity: 1}},
	}
	assert.NoError(t, valid.Validate())

	empty := CheckoutRequest{}
	assert.Error(t, empty.Validate())

	zeroQty := CheckoutRequest{
		Items: []CheckoutItem{{ProductID: "p1", Quantity: 0}},
	}
	assert.Error(t, zeroQty.Validate())

	noProduct := CheckoutRequest{
		Items: []CheckoutItem{{Quantity: 1}},
	}
	assert.Error(t, noProduct.Validate())
}

func TestCreateProductRequestValidation(t *testing.T) {
	valid := CreateProductRequest{
		Name:     "Articulated Dragon",
		Slug:     "articulated-dragon",
		Category: "FIGURES",
		FileURL:  "models/free/dragon.stl",
	}
	assert.NoError(t, valid.Validate())

	badCategory := valid
	badCategory.Category = "WEAPONS"
	assert.Error(t, badCategory.Validate())

	negativePrice := valid
	negativePrice.Price = -5
	assert.Error(t, negativePrice.Validate())

	noFile := valid
	noFile.FileURL = ""
	assert.Error(t, noFile.Validate())
}

func TestCreateValidationErrorResponse(t *testing.T) {
	req := RegisterRequest{Email: "bad", Password: "weak"}
	err := req.Validate()
	require.Error(t, err)

	resp := CreateValidationErrorResponse(err)
	assert.Equal(t, 400, resp.Code)
	assert.Equal(t, "Validation failed", resp.Message)
	require.NotEmpty(t, resp.Errors)

	fields := make(map[string]string)
	for _, e := range resp.Errors {
		fields[e.Field] = e.Message
	}
	assert.Equal(t, "Invalid email format", fields["Email"])
	assert.Contains(t, fields, "Name")
	assert.Contains(t, fields, "Password")
}
