package domain

import "context"

type Message struct {
	Key   []byte
	Value []byte
}

type PublisherPort interface {
	Publish(ctx context.Context, msgs ...Message) error
}

const (
	CommissionEventPaid         = "commission.paid"
	CommissionEventRateAssigned = "commission.rate_assigned"
)

// CommissionEvent is published after settlements and tier runs.
type CommissionEvent struct {
	Type         string   `json:"type"`
	VendorID     string   `json:"vendor_id,omitempty"`
	Period       string   `json:"period,omitempty"`
	Rate         string   `json:"rate,omitempty"`
	RecordIDs    []string `json:"record_ids,omitempty"`
	RowsAffected int64    `json:"rows_affected"`
}

type CommissionNotifier interface {
	Notify(ctx context.Context, event CommissionEvent) error
}
