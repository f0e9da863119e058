package usecase

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// memSaleRepo is an in-memory SaleRepository with the same upsert rules as the
// gorm one.
type memSaleRepo struct {
	mu      sync.Mutex
	records map[string]*domain.SaleRecord

	upserts      int
	markPaidCall int
	setRateErr   map[string]error
	distinctErr  error
}

func newMemSaleRepo() *memSaleRepo {
	return &memSaleRepo{records: make(map[string]*domain.SaleRecord)}
}

func saleKey(orderID, vendorID string) string { return orderID + "|" + vendorID }

func (r *memSaleRepo) put(rec domain.SaleRecord) *domain.SaleRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CommissionRate.IsZero() {
		rec.CommissionRate = domain.ProvisionalRate
	}
	r.records[saleKey(rec.OrderID, rec.VendorID)] = &rec
	return &rec
}

func (r *memSaleRepo) get(orderID, vendorID string) *domain.SaleRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[saleKey(orderID, vendorID)]
	if !ok {
		return nil
	}
	cp := *rec
	return &cp
}

func (r *memSaleRepo) UpsertSale(_ context.Context, in domain.SaleUpsert) (*domain.UpsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++

	amount := in.Amount.Round(2)
	existing, ok := r.records[saleKey(in.OrderID, in.VendorID)]
	if !ok {
		rec := &domain.SaleRecord{
			ID:             uuid.NewString(),
			OrderID:        in.OrderID,
			VendorID:       in.VendorID,
			Amount:         amount,
			CommissionRate: domain.ProvisionalRate,
			Date:           in.Now.UTC(),
			OrderState:     in.OrderState,
			PaymentState:   in.PaymentState,
			CouponCode:     in.CouponCode,
		}
		r.records[saleKey(in.OrderID, in.VendorID)] = rec
		cp := *rec
		return &domain.UpsertResult{Record: &cp, Action: domain.UpsertCreated}, nil
	}
	if existing.PaymentState.IsTerminal() {
		cp := *existing
		return &domain.UpsertResult{Record: &cp, Action: domain.UpsertSkipped}, nil
	}
	if existing.OrderState == in.OrderState && existing.PaymentState == in.PaymentState && existing.Amount.Equal(amount) {
		cp := *existing
		return &domain.UpsertResult{Record: &cp, Action: domain.UpsertUnchanged}, nil
	}
	existing.OrderState = in.OrderState
	existing.PaymentState = in.PaymentState
	existing.Amount = amount
	existing.Date = in.Now.UTC()
	cp := *existing
	return &domain.UpsertResult{Record: &cp, Action: domain.UpsertUpdated}, nil
}

func (r *memSaleRepo) FindSale(_ context.Context, orderID, vendorID string) (*domain.SaleRecord, error) {
	if rec := r.get(orderID, vendorID); rec != nil {
		return rec, nil
	}
	return nil, domain.ErrSaleNotFound
}

func (r *memSaleRepo) SumAmount(_ context.Context, vendorID string, period domain.Period, excludeStates []domain.OrderState) (decimal.NullDecimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total decimal.NullDecimal
	for _, rec := range r.records {
		if rec.VendorID != vendorID || !period.Contains(rec.Date) || excluded(rec.OrderState, excludeStates) {
			continue
		}
		total.Valid = true
		total.Decimal = total.Decimal.Add(rec.Amount)
	}
	return total, nil
}

func excluded(state domain.OrderState, states []domain.OrderState) bool {
	for _, s := range states {
		if s == state {
			return true
		}
	}
	return false
}

func (r *memSaleRepo) DistinctVendors(_ context.Context, period domain.Period) ([]string, error) {
	if r.distinctErr != nil {
		return nil, r.distinctErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]struct{}{}
	var out []string
	for _, rec := range r.records {
		if !period.Contains(rec.Date) {
			continue
		}
		if _, ok := seen[rec.VendorID]; ok {
			continue
		}
		seen[rec.VendorID] = struct{}{}
		out = append(out, rec.VendorID)
	}
	sort.Strings(out)
	return out, nil
}

func (r *memSaleRepo) SetRateForPeriod(_ context.Context, vendorID string, period domain.Period, rate decimal.Decimal) (int64, error) {
	if err := r.setRateErr[vendorID]; err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows int64
	for _, rec := range r.records {
		if rec.VendorID == vendorID && period.Contains(rec.Date) {
			rec.CommissionRate = rate
			rows++
		}
	}
	return rows, nil
}

func (r *memSaleRepo) MarkPaid(_ context.Context, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markPaidCall++
	want := map[string]struct{}{}
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var rows int64
	for _, rec := range r.records {
		if _, ok := want[rec.ID]; ok {
			rec.PaymentState = domain.PaymentStatePaid
			rows++
		}
	}
	return rows, nil
}

func (r *memSaleRepo) Query(_ context.Context, filter domain.SaleFilter) ([]*domain.SaleRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.SaleRecord
	for _, rec := range r.records {
		if filter.VendorID != "" && rec.VendorID != filter.VendorID {
			continue
		}
		if filter.Period != nil && !filter.Period.Contains(rec.Date) {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memSaleRepo) Summarize(context.Context, string, *domain.Period) ([]*domain.SaleSummary, error) {
	return nil, nil
}

type stubCouponLookup struct {
	vendors map[string]string
	err     error
}

func (s *stubCouponLookup) VendorForCoupon(_ context.Context, code string) (string, bool, error) {
	if s.err != nil {
		return "", false, s.err
	}
	vendorID, ok := s.vendors[code]
	return vendorID, ok, nil
}

type stubTierRunRepo struct {
	mu   sync.Mutex
	runs map[string]*domain.TierRun

	FindRunFn func(ctx context.Context, period domain.Period) (*domain.TierRun, error)
}

func newStubTierRunRepo() *stubTierRunRepo {
	return &stubTierRunRepo{runs: make(map[string]*domain.TierRun)}
}

func (s *stubTierRunRepo) FindRun(ctx context.Context, period domain.Period) (*domain.TierRun, error) {
	if s.FindRunFn != nil {
		return s.FindRunFn(ctx, period)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[period.String()]
	if !ok {
		return nil, domain.ErrTierRunNotFound
	}
	return run, nil
}

func (s *stubTierRunRepo) SaveRun(_ context.Context, run *domain.TierRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.Period] = run
	return nil
}

type scheduledJob struct {
	at  time.Time
	job func(context.Context)
}

type stubScheduler struct {
	mu   sync.Mutex
	jobs []scheduledJob
}

func (s *stubScheduler) ScheduleAt(_ context.Context, at time.Time, job func(context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, scheduledJob{at: at, job: job})
}

func (s *stubScheduler) last() scheduledJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[len(s.jobs)-1]
}

type stubNotifier struct {
	mu     sync.Mutex
	events []domain.CommissionEvent
	err    error
}

func (s *stubNotifier) Notify(_ context.Context, event domain.CommissionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

type stubAuthorizer struct {
	AuthorizeFn func(ctx context.Context, token string, role domain.Role) (*domain.Principal, error)
}

func (s *stubAuthorizer) Authorize(ctx context.Context, token string, role domain.Role) (*domain.Principal, error) {
	return s.AuthorizeFn(ctx, token, role)
}

func adminOnly(token string) *stubAuthorizer {
	return &stubAuthorizer{AuthorizeFn: func(_ context.Context, got string, role domain.Role) (*domain.Principal, error) {
		if got == "" {
			return nil, domain.ErrUnauthorized
		}
		if got != token || role != domain.RoleAdmin {
			return nil, domain.ErrForbidden
		}
		return &domain.Principal{Subject: "ops", Role: domain.RoleAdmin}, nil
	}}
}

type stubOrderSource struct {
	events []domain.OrderStatusChanged
}

func (s *stubOrderSource) Subscribe(ctx context.Context, handler domain.OrderStatusHandler) error {
	for _, e := range s.events {
		if err := handler(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
