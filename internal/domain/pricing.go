package domain

// PaymentMethodCOD is the literal label the storefront sends for cash on
// delivery. Surcharge eligibility is an exact string match against it.
const PaymentMethodCOD = "COD (Cash on Delivery)"

// PricingBreakdown is what checkout persists onto the order record.
// CODSurcharge holds the applied amount, zero for non-COD orders.
type PricingBreakdown struct {
	Subtotal     float64 `json:"subtotal"`
	ShippingFee  float64 `json:"shipping_fee"`
	CODSurcharge float64 `json:"cod_surcharge"`
	Total        float64 `json:"total"`
}

// CalculateTotalWithCOD computes the final order total. The codSurcharge
// argument is the configured amount; callers must pass zero when the COD
// surcharge mechanism is disabled in settings, since the calculator itself
// does not consult the enable flag. Pure, no I/O, no range validation.
func CalculateTotalWithCOD(subtotal, shippingFee float64, paymentMethod string, codSurcharge float64) PricingBreakdown {
	applied := 0.0
	if paymentMethod == PaymentMethodCOD {
		applied = codSurcharge
	}
	return PricingBreakdown{
		Subtotal:     subtotal,
		ShippingFee:  shippingFee,
		CODSurcharge: applied,
		Total:        subtotal + shippingFee + applied,
	}
}
