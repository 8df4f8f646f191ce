package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"CustomerAddressCity", []string{"Customer", "Address", "City"}},
		{"OrderID", []string{"Order", "ID"}},
		{"HTTPStatus", []string{"HTTP", "Status"}},
		{"getHTTPResponse", []string{"get", "HTTP", "Response"}},
		{"customer_id", []string{"customer", "id"}},
		{"order-item ID", []string{"order", "item", "ID"}},
		{"Line2Total", []string{"Line2", "Total"}},
		{"__Leading", []string{"Leading"}},
		{"ID", []string{"ID"}},
		{"x", []string{"x"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitName(tt.input))
		})
	}
}

func TestNormalizeName(t *testing.T) {
	for _, name := range []string{"CustomerID", "customer_id", "customerId", "CUSTOMER_ID", "customer-id"} {
		assert.Equal(t, "customerid", NormalizeName(name), name)
	}

	assert.Equal(t, "totalcents", NormalizeName("TotalCents"))
	assert.Empty(t, NormalizeName(""))
}

func TestStemName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"CustomerID", "customer"},
		{"customer_ids", "customer"},
		{"CreatedAt", "created"},
		{"ShippedUTC", "shipped"},
		{"EventTimestamp", "event"},
		{"Paid", "paid"},
		{"ID", "id"},
		{"Identity", "identity"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, StemName(tt.input))
		})
	}
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"email", "email", 0},
		{"email", "emial", 2},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"straße", "strasse", 2},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, editDistance([]rune(tt.a), []rune(tt.b)))
			assert.Equal(t, tt.want, editDistance([]rune(tt.b), []rune(tt.a)))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 1.0, Similarity("city", "city"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
	assert.InDelta(t, 0.6, Similarity("email", "emial"), 1e-9)
}

func TestNameScore(t *testing.T) {
	assert.InDelta(t, 1.0, NameScore("customer_id", "CustomerID"), 1e-9)
	assert.InDelta(t, 1.0, NameScore("CreatedAt", "Created"), 1e-9, "stems match")
	assert.Less(t, NameScore("Street", "Country"), 0.5)
}
