package payment

type initCheckoutBody struct {
	BookingID int64 `json:"booking_id" binding:"required"`
}

type InitCheckoutResponse struct {
	OrderID    string `json:"order_id"`
	InvID      int64  `json:"inv_id"`
	OutSum     string `json:"out_sum"`
	PaymentURL string `json:"payment_url"`
	Status     string `json:"status"`
}
