// backend/src/utils/amount_utils_test.go
package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/username/contaclara/backend/src/models"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     string
		wantType models.TransactionType
	}{
		{name: "credit marker with thousands separator", raw: "1.234,56C", want: "1234.56", wantType: models.TypeIncome},
		{name: "debit marker", raw: "50,00D", want: "50", wantType: models.TypeExpense},
		{name: "marker preceded by space", raw: "1.000,00 C", want: "1000", wantType: models.TypeIncome},
		{name: "no marker", raw: "123,45", want: "123.45", wantType: models.TypeUnknown},
		{name: "currency prefix", raw: "R$ 2.500,10C", want: "2500.1", wantType: models.TypeIncome},
		{name: "plain machine float", raw: "99.90", want: "99.9", wantType: models.TypeUnknown},
		{name: "unparsable degrades to zero", raw: "saldo anterior", want: "0", wantType: models.TypeUnknown},
		{name: "empty", raw: "", want: "0", wantType: models.TypeUnknown},
		{name: "marker only", raw: "C", want: "0", wantType: models.TypeIncome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotType := ParseAmount(tt.raw)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"amount: got %s, want %s", got, tt.want)
			assert.Equal(t, tt.wantType, gotType)
		})
	}
}

func TestParseAmountNegativeValueIsMagnitude(t *testing.T) {
	got, gotType := ParseAmount("-150,00D")
	assert.True(t, got.Equal(decimal.RequireFromString("150")))
	assert.Equal(t, models.TypeExpense, gotType)
}

func TestParseSignedAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "negative brazilian format", raw: "-1.234,56", want: "-1234.56"},
		{name: "positive brazilian format", raw: "789,01", want: "789.01"},
		{name: "machine float", raw: "-1234.56", want: "-1234.56"},
		{name: "integer", raw: "42", want: "42"},
		{name: "unparsable degrades to zero", raw: "SALDO DIA", want: "0"},
		{name: "empty degrades to zero", raw: "", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSignedAmount(tt.raw)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}
