package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CommissionMetrics содержит метрики леджера комиссий.
// Все методы безопасны для nil-получателя.
type CommissionMetrics struct {
	// Входящие события смены статуса заказа
	OrderEventsTotal    *prometheus.CounterVec
	OrderEventsRejected *prometheus.CounterVec
	UnresolvedCoupons   prometheus.Counter

	// Результаты upsert по действию (created/updated/skipped)
	SaleUpsertsTotal *prometheus.CounterVec

	// Пересчет тарифов
	TierRunsTotal        *prometheus.CounterVec
	TierRunDuration      prometheus.Histogram
	TierVendorsTotal     *prometheus.CounterVec
	TierRateAssignedRows *prometheus.CounterVec

	// Выплаты
	SettledRowsTotal prometheus.Counter
	SettlementsTotal *prometheus.CounterVec

	// Ошибки консьюмера
	ConsumerErrorsTotal *prometheus.CounterVec
}

// NewCommissionMetrics регистрирует метрики в reg (prometheus.DefaultRegisterer, если nil).
func NewCommissionMetrics(reg prometheus.Registerer) *CommissionMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &CommissionMetrics{
		OrderEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_order_events_total",
				Help: "Order status events received, by mapped order state",
			},
			[]string{"order_state"},
		),

		OrderEventsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_order_events_rejected_total",
				Help: "Order status events that could not be decoded or validated",
			},
			[]string{"reason"},
		),

		UnresolvedCoupons: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "commission_unresolved_coupons_total",
				Help: "Coupon codes without a linked vendor",
			},
		),

		SaleUpsertsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_sale_upserts_total",
				Help: "Ledger upserts by action",
			},
			[]string{"action"},
		),

		TierRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_tier_runs_total",
				Help: "Tier recalculation runs by outcome",
			},
			[]string{"outcome"},
		),

		TierRunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "commission_tier_run_duration_seconds",
				Help:    "Tier recalculation duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
			},
		),

		TierVendorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_tier_vendors_total",
				Help: "Vendors processed by tier runs, by result",
			},
			[]string{"result"},
		),

		TierRateAssignedRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_tier_rate_rows_total",
				Help: "Ledger rows rewritten by tier runs, by assigned rate",
			},
			[]string{"rate"},
		),

		SettledRowsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "commission_settled_rows_total",
				Help: "Ledger rows marked as paid",
			},
		),

		SettlementsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_settlements_total",
				Help: "Bulk settlement requests by outcome",
			},
			[]string{"outcome"},
		),

		ConsumerErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_consumer_errors_total",
				Help: "Order event consumer failures by stage",
			},
			[]string{"stage"},
		),
	}
}

func (m *CommissionMetrics) RecordOrderEvent(orderState string) {
	if m == nil {
		return
	}
	m.OrderEventsTotal.WithLabelValues(orderState).Inc()
}

func (m *CommissionMetrics) RecordRejectedEvent(reason string) {
	if m == nil {
		return
	}
	m.OrderEventsRejected.WithLabelValues(reason).Inc()
}

func (m *CommissionMetrics) RecordUnresolvedCoupon() {
	if m == nil {
		return
	}
	m.UnresolvedCoupons.Inc()
}

func (m *CommissionMetrics) RecordUpsert(action string) {
	if m == nil {
		return
	}
	m.SaleUpsertsTotal.WithLabelValues(action).Inc()
}

func (m *CommissionMetrics) RecordTierRun(outcome string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.TierRunsTotal.WithLabelValues(outcome).Inc()
	m.TierRunDuration.Observe(durationSeconds)
}

func (m *CommissionMetrics) RecordTierVendor(result string) {
	if m == nil {
		return
	}
	m.TierVendorsTotal.WithLabelValues(result).Inc()
}

func (m *CommissionMetrics) RecordRateAssigned(rate string, rows int64) {
	if m == nil {
		return
	}
	m.TierRateAssignedRows.WithLabelValues(rate).Add(float64(rows))
}

func (m *CommissionMetrics) RecordSettlement(outcome string, rows int64) {
	if m == nil {
		return
	}
	m.SettlementsTotal.WithLabelValues(outcome).Inc()
	if rows > 0 {
		m.SettledRowsTotal.Add(float64(rows))
	}
}

func (m *CommissionMetrics) RecordConsumerError(stage string) {
	if m == nil {
		return
	}
	m.ConsumerErrorsTotal.WithLabelValues(stage).Inc()
}
