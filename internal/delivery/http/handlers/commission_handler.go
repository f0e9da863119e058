package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/LavaJover/shvark-commission-service/internal/delivery/http/dto/commission/request"
	"github.com/LavaJover/shvark-commission-service/internal/delivery/http/dto/commission/response"
	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/usecase"
	commissiondto "github.com/LavaJover/shvark-commission-service/internal/usecase/dto/commission"
)

const maxRequestBody = 1 << 20

type CommissionHandler struct {
	settlementUC usecase.SettlementUsecase
	ledgerUC     usecase.LedgerUsecase
	tierUC       usecase.TierUsecase
	logger       *slog.Logger
}

func NewCommissionHandler(
	settlementUC usecase.SettlementUsecase,
	ledgerUC usecase.LedgerUsecase,
	tierUC usecase.TierUsecase,
	logger *slog.Logger,
) *CommissionHandler {
	return &CommissionHandler{
		settlementUC: settlementUC,
		ledgerUC:     ledgerUC,
		tierUC:       tierUC,
		logger:       logger,
	}
}

// MarkPaid authorizes inside the settlement usecase, so the raw token is
// passed through.
func (h *CommissionHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	var req request.MarkPaidRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.settlementUC.MarkPaid(r.Context(), bearerToken(r), req.IDs)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.MarkPaidResponse{RowsAffected: rows})
}

func (h *CommissionHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	h.listSales(w, r, r.URL.Query().Get("vendor_id"))
}

// VendorSales lists the calling vendor's own records; vendor_id in the query is ignored.
func (h *CommissionHandler) VendorSales(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok || principal.Subject == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	h.listSales(w, r, principal.Subject)
}

func (h *CommissionHandler) listSales(w http.ResponseWriter, r *http.Request, vendorID string) {
	q := r.URL.Query()
	limit, err := intParam(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}
	offset, err := intParam(q.Get("offset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "offset must be an integer")
		return
	}

	sales, err := h.ledgerUC.ListSales(r.Context(), &commissiondto.ListSalesInput{
		VendorID:     vendorID,
		PaymentState: q.Get("payment_state"),
		OrderState:   q.Get("order_state"),
		Period:       q.Get("period"),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response.ListSalesResponse{Sales: sales, Limit: limit, Offset: offset})
}

func (h *CommissionHandler) VendorSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ledgerUC.VendorSummary(r.Context(), chi.URLParam(r, "vendorID"), r.URL.Query().Get("period"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *CommissionHandler) VendorOwnSummary(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok || principal.Subject == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	summary, err := h.ledgerUC.VendorSummary(r.Context(), principal.Subject, r.URL.Query().Get("period"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *CommissionHandler) AssignCoupon(w http.ResponseWriter, r *http.Request) {
	var req request.AssignCouponRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.ledgerUC.AssignCoupon(r.Context(), chi.URLParam(r, "code"), req.VendorID); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CommissionHandler) UnassignCoupon(w http.ResponseWriter, r *http.Request) {
	if err := h.ledgerUC.UnassignCoupon(r.Context(), chi.URLParam(r, "code")); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecalculateTiers reruns the tier calculation for an explicit period. A run
// with failed vendors still returns its report.
func (h *CommissionHandler) RecalculateTiers(w http.ResponseWriter, r *http.Request) {
	period, err := domain.ParsePeriod(chi.URLParam(r, "period"), h.tierUC.Location())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	report, err := h.tierUC.RunPeriod(r.Context(), period)
	if err != nil && !(errors.Is(err, domain.ErrTierRunPartial) && report != nil) {
		h.writeDomainError(w, r, err)
		return
	}

	actor := ""
	if p, ok := PrincipalFromContext(r.Context()); ok {
		actor = p.Subject
	}
	h.logger.Info("manual tier recalculation", "period", period.String(), "admin", actor, "run_id", report.RunID)
	writeJSON(w, http.StatusOK, report)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.New("invalid JSON payload")
	}
	return nil
}

func intParam(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
