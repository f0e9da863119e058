package response

import commissiondto "github.com/LavaJover/shvark-commission-service/internal/usecase/dto/commission"

type MarkPaidResponse struct {
	RowsAffected int64 `json:"rows_affected"`
}

type ListSalesResponse struct {
	Sales  []commissiondto.SaleOutput `json:"sales"`
	Limit  int                        `json:"limit,omitempty"`
	Offset int                        `json:"offset,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
