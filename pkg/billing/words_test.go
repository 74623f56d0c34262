package billing_test

import (
	"testing"

	"github.com/krishisethu/pos-api/pkg/billing"
)

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "Zero Rupees Only"},
		{1, "One Rupees Only"},
		{19, "Nineteen Rupees Only"},
		{42, "Forty Two Rupees Only"},
		{100, "One Hundred Rupees Only"},
		{210, "Two Hundred Ten Rupees Only"},
		{1234.50, "One Thousand Two Hundred Thirty Four Rupees and Fifty Paise Only"},
		{100000, "One Lakh Rupees Only"},
		{2550000, "Twenty Five Lakh Fifty Thousand Rupees Only"},
		{10000000, "One Crore Rupees Only"},
		{12345678.09, "One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight Rupees and Nine Paise Only"},
		{-5, "Zero Rupees Only"},
	}

	for _, tt := range tests {
		if got := billing.AmountInWords(tt.amount); got != tt.want {
			t.Errorf("AmountInWords(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}
