package ledger

import "fmt"

// FormatCurrency formata valores no padrão indiano (Lakh e Crore)
func FormatCurrency(amount int64) string {
	switch {
	case amount >= 10_000_000:
		return fmt.Sprintf("₹%.2f Cr", float64(amount)/10_000_000)
	case amount >= 100_000:
		return fmt.Sprintf("₹%.2f Lakh", float64(amount)/100_000)
	default:
		return fmt.Sprintf("₹%d", amount)
	}
}
