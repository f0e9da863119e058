package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
)

func TestMarkPaid_UpdatesOnlyPaymentState(t *testing.T) {
	repo := newMemSaleRepo()
	at := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	r1 := repo.put(domain.SaleRecord{OrderID: "O1", VendorID: "V1", Amount: decimal.NewFromInt(100), Date: at,
		OrderState: domain.OrderStateCompleted, PaymentState: domain.PaymentStateReadyToPay, CommissionRate: decimal.NewFromInt(20)})
	r2 := repo.put(domain.SaleRecord{OrderID: "O2", VendorID: "V1", Amount: decimal.NewFromInt(50), Date: at,
		OrderState: domain.OrderStateCompleted, PaymentState: domain.PaymentStateReadyToPay})
	untouched := repo.put(domain.SaleRecord{OrderID: "O3", VendorID: "V1", Amount: decimal.NewFromInt(70), Date: at,
		OrderState: domain.OrderStateCompleted, PaymentState: domain.PaymentStateReadyToPay})

	notifier := &stubNotifier{}
	uc := NewDefaultSettlementUsecase(repo, adminOnly("admin-token"), notifier, nil, discardLogger())

	rows, err := uc.MarkPaid(context.Background(), "admin-token", []string{r1.ID, " " + r2.ID + " ", r1.ID, "not-a-uuid"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), rows)
	assert.Equal(t, 1, repo.markPaidCall)

	got := repo.get("O1", "V1")
	assert.Equal(t, domain.PaymentStatePaid, got.PaymentState)
	assert.Equal(t, domain.OrderStateCompleted, got.OrderState)
	assert.True(t, got.CommissionRate.Equal(decimal.NewFromInt(20)))
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, domain.PaymentStateReadyToPay, repo.get(untouched.OrderID, "V1").PaymentState)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, domain.CommissionEventPaid, notifier.events[0].Type)
	assert.ElementsMatch(t, []string{r1.ID, r2.ID}, notifier.events[0].RecordIDs)

	// Повторная выплата идемпотентна
	rows, err = uc.MarkPaid(context.Background(), "admin-token", []string{r1.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	assert.Equal(t, domain.PaymentStatePaid, repo.get("O1", "V1").PaymentState)
}

func TestMarkPaid_RejectsNonAdmin(t *testing.T) {
	repo := newMemSaleRepo()
	rec := repo.put(domain.SaleRecord{OrderID: "O1", VendorID: "V1", PaymentState: domain.PaymentStateReadyToPay})
	uc := NewDefaultSettlementUsecase(repo, adminOnly("admin-token"), nil, nil, discardLogger())

	_, err := uc.MarkPaid(context.Background(), "", []string{rec.ID})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.MarkPaid(context.Background(), "vendor-token", []string{rec.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.Zero(t, repo.markPaidCall)
	assert.Equal(t, domain.PaymentStateReadyToPay, repo.get("O1", "V1").PaymentState)
}

func TestMarkPaid_EmptySetSkipsStore(t *testing.T) {
	repo := newMemSaleRepo()
	notifier := &stubNotifier{}
	uc := NewDefaultSettlementUsecase(repo, adminOnly("admin-token"), notifier, nil, discardLogger())

	rows, err := uc.MarkPaid(context.Background(), "admin-token", nil)
	require.NoError(t, err)
	assert.Zero(t, rows)

	rows, err = uc.MarkPaid(context.Background(), "admin-token", []string{"", "  ", "42"})
	require.NoError(t, err)
	assert.Zero(t, rows)

	assert.Zero(t, repo.markPaidCall)
	assert.Empty(t, notifier.events)
}

func TestMarkPaid_UnknownIdsCountZero(t *testing.T) {
	repo := newMemSaleRepo()
	uc := NewDefaultSettlementUsecase(repo, adminOnly("admin-token"), nil, nil, discardLogger())

	rows, err := uc.MarkPaid(context.Background(), "admin-token", []string{uuid.NewString()})
	require.NoError(t, err)
	assert.Zero(t, rows)
	assert.Equal(t, 1, repo.markPaidCall)
}

func TestNormalizeRecordIDs(t *testing.T) {
	id := uuid.New()
	padded := "  " + strings.ToUpper(id.String()) + "\t"
	got := NormalizeRecordIDs([]string{padded, id.String(), "", "abc"})
	assert.Equal(t, []string{id.String()}, got)
}
