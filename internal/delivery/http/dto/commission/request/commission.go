package request

type MarkPaidRequest struct {
	IDs []string `json:"ids"`
}

type AssignCouponRequest struct {
	VendorID string `json:"vendor_id"`
}
