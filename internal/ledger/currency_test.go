package ledger

import "testing"

func TestFormatCurrency(t *testing.T) {
	testCases := []struct {
		amount int64
		want   string
	}{
		{500_000, "₹5.00 Lakh"},
		{2_000_000, "₹20.00 Lakh"},
		{10_000_000, "₹1.00 Cr"},
		{11_500_000, "₹1.15 Cr"},
		{99_999, "₹99999"},
	}

	for _, tc := range testCases {
		if got := FormatCurrency(tc.amount); got != tc.want {
			t.Errorf("FormatCurrency(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}
