package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Key string `json:"key" validate:"required"`
}

type request struct {
	Source string `json:"sourceOfTruth" validate:"required,oneof=woocommerce shopify"`
	Items  []item `json:"items" validate:"required,min=1,dive"`
	Format string `query:"format" validate:"omitempty,oneof=csv json"`
}

func TestStruct(t *testing.T) {
	v := New()

	assert.Nil(t, v.Struct(request{Source: "shopify", Items: []item{{Key: "a"}}}))

	errs := v.Struct(request{Source: "magento", Items: []item{{Key: "a"}, {}}, Format: "xml"})
	require.Len(t, errs, 3)
	assert.Equal(t, FieldError{Field: "sourceOfTruth", Message: "Must be one of: woocommerce shopify"}, errs[0])
	assert.Equal(t, "items[1].key", errs[1].Field)
	assert.Equal(t, "format", errs[2].Field)

	errs = v.Struct(request{Source: "shopify", Items: []item{}})
	require.Len(t, errs, 1)
	assert.Equal(t, "items", errs[0].Field)
	assert.Equal(t, "Must contain at least 1 item(s)", errs[0].Message)
}

func TestSummary(t *testing.T) {
	s := Summary([]FieldError{{Field: "a", Message: "bad"}, {Message: "worse"}})
	assert.Equal(t, "a: bad; worse", s)
}
