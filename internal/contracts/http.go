package contracts

type SuccessResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type EnrollAffiliateResponse struct {
	AffiliateID string `json:"affiliate_id"`
	Code        string `json:"code"`
	ReferralURL string `json:"referral_url"`
	Status      string `json:"status"`
}

type OverviewResponse struct {
	AffiliateID      string  `json:"affiliate_id"`
	DisplayClicks    int     `json:"display_clicks"`
	DisplayReferrals int     `json:"display_referrals"`
	PendingTotal     float64 `json:"pending_total"`
	ApprovedTotal    float64 `json:"approved_total"`
	PaidTotal        float64 `json:"paid_total"`
	TotalCommission  float64 `json:"total_commission"`
}

type CommissionResponse struct {
	CommissionID     string  `json:"commission_id"`
	OrderID          string  `json:"order_id"`
	CommissionAmount float64 `json:"commission_amount"`
	Status           string  `json:"status"`
	CreatedAt        string  `json:"created_at"`
}

type CommissionListResponse struct {
	Items []CommissionResponse `json:"items"`
}

type QuoteOrderRequest struct {
	Subtotal      float64 `json:"subtotal"`
	ShippingFee   float64 `json:"shipping_fee"`
	PaymentMethod string  `json:"payment_method"`
}

type QuoteOrderResponse struct {
	Subtotal     float64 `json:"subtotal"`
	ShippingFee  float64 `json:"shipping_fee"`
	CODSurcharge float64 `json:"cod_surcharge"`
	Total        float64 `json:"total"`
}

type CODSettingsResponse struct {
	SurchargeAmount float64 `json:"surcharge_amount"`
	IsEnabled       bool    `json:"is_enabled"`
	Description     string  `json:"description"`
	UpdatedAt       string  `json:"updated_at"`
}

type UpdateCODSettingsRequest struct {
	SurchargeAmount *float64 `json:"surcharge_amount,omitempty"`
	IsEnabled       *bool    `json:"is_enabled,omitempty"`
	Description     *string  `json:"description,omitempty"`
}

type RecordCommissionRequest struct {
	OrderID          string  `json:"order_id"`
	ReferralID       string  `json:"referral_id,omitempty"`
	CommissionAmount float64 `json:"commission_amount"`
}

type RecordCommissionResponse struct {
	CommissionID string  `json:"commission_id"`
	AffiliateID  string  `json:"affiliate_id"`
	OrderID      string  `json:"order_id"`
	Amount       float64 `json:"amount"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"created_at"`
}

type AdvanceCommissionResponse struct {
	CommissionID string `json:"commission_id"`
	Status       string `json:"status"`
	UpdatedAt    string `json:"updated_at"`
}
