package commissiondto

type ListSalesInput struct {
	VendorID     string
	PaymentState string
	OrderState   string
	Period       string
	Limit        int
	Offset       int
}
