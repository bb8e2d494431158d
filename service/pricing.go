package service

import (
	"math"

	"campus-grub-api/models"
)

// Pricing holds the money policy applied at order creation. Totals are
// computed exactly once, server-side; clients never supply them.
type Pricing struct {
	TaxRate     float64 // fraction of subtotal, e.g. 0.05
	DeliveryFee float64 // flat fee, currently 0 by policy
}

// DefaultPricing mirrors the platform defaults: 5% tax, free delivery.
func DefaultPricing() Pricing {
	return Pricing{TaxRate: 0.05, DeliveryFee: 0}
}

// roundMoney rounds to 2 decimals, half away from zero. This is the one
// rounding rule used everywhere money is computed.
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// computeTotals fills the money fields from the line-item snapshots:
// lineTotal = unitPrice × quantity, subtotal = Σ lineTotal,
// tax = subtotal × rate, total = subtotal + fee + tax.
func (p Pricing) computeTotals(items []models.OrderItem) (subtotal, fee, tax, total float64) {
	for _, it := range items {
		subtotal += it.LineTotal
	}
	subtotal = roundMoney(subtotal)
	fee = roundMoney(p.DeliveryFee)
	tax = roundMoney(subtotal * p.TaxRate)
	total = roundMoney(subtotal + fee + tax)
	return subtotal, fee, tax, total
}
