package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"OrderID", "orderid"},
		{"order_id", "orderid"},
		{"order-id", "orderid"},
		{"orderId", "orderid"},
		{"ORDERID", "orderid"},
		{"XMLParser", "xmlparser"},
		{"getHTTPResponse", "gethttpresponse"},
		{"Price_Cents", "pricecents"},
		{"order_item-ID", "orderitemid"},
		{"", ""},
		{"A", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeIdent(tt.input))
		})
	}
}

func TestNormalizeIdentWithSuffixStrip(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"OrderID", "order"},
		{"customer_id", "customer"},
		{"CreatedAt", "created"},
		{"UpdatedTimestamp", "updated"},
		{"ItemIDs", "item"},
		{"ID", "id"},
		{"Email", "email"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeIdentWithSuffixStrip(tt.input))
		})
	}
}

func TestTokenizeIdent(t *testing.T) {
	assert.Equal(t, []string{"order", "id"}, TokenizeIdent("OrderID"))
	assert.Equal(t, []string{"xml", "parser"}, TokenizeIdent("XMLParser"))
	assert.Equal(t, []string{"get", "http", "response"}, TokenizeIdent("getHTTPResponse"))
	assert.Equal(t, []string{"price", "cents"}, TokenizeIdent("price_cents"))
	assert.Empty(t, TokenizeIdent(""))
}
