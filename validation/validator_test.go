package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deadstock/apperrors"
	"deadstock/models"
)

func validProduct() models.ProductInput {
	return models.ProductInput{
		Name:          "Cotton Kurti",
		Category:      "clothing",
		Price:         1000,
		StockQuantity: 50,
		DaysInStock:   200,
		SalesVelocity: 0.5,
	}
}

func TestValidProductPasses(t *testing.T) {
	assert.NoError(t, ValidateStruct(validProduct()))
}

func TestNegativePriceNamesField(t *testing.T) {
	p := validProduct()
	p.Price = -1

	err := ValidateStruct(p)
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInputValidation, appErr.Code)
	assert.Equal(t, "price", appErr.Field)
	assert.Contains(t, appErr.Message, "price must be greater than or equal to 0")
}

func TestMissingNameIsRequired(t *testing.T) {
	p := validProduct()
	p.Name = ""

	fields := Fields(p)
	require.Len(t, fields, 1)
	assert.Equal(t, "name", fields[0].Field)
	assert.Equal(t, "required", fields[0].Tag)
	assert.Equal(t, "name is required", fields[0].Message)
}

func TestCustomBundleComboLimits(t *testing.T) {
	req := models.CustomBundleRequest{
		PrimaryProduct: models.BundleProduct{Name: "Lehenga", Price: 2000},
	}
	fields := Fields(req)
	require.NotEmpty(t, fields)
	assert.Equal(t, "combo_products", fields[0].Field)

	req.ComboProducts = make([]models.BundleProduct, 5)
	for i := range req.ComboProducts {
		req.ComboProducts[i] = models.BundleProduct{Name: "Bangles", Price: 100}
	}
	fields = Fields(req)
	require.Len(t, fields, 1)
	assert.Equal(t, "combo_products must contain at most 4 items", fields[0].Message)
}

func TestNestedFieldPath(t *testing.T) {
	req := models.CustomBundleRequest{
		PrimaryProduct: models.BundleProduct{Name: "Lehenga", Price: 2000},
		ComboProducts:  []models.BundleProduct{{Name: "", Price: 10}},
	}
	fields := Fields(req)
	require.Len(t, fields, 1)
	assert.Equal(t, "combo_products[0].name", fields[0].Field)
}
