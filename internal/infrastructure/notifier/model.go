package notifier

import "time"

type CallbackPayload struct {
	Type         string    `json:"type"`
	VendorID     string    `json:"vendor_id,omitempty"`
	Period       string    `json:"period,omitempty"`
	Rate         string    `json:"rate,omitempty"`
	RecordIDs    []string  `json:"record_ids,omitempty"`
	RowsAffected int64     `json:"rows_affected"`
	SentAt       time.Time `json:"sent_at"`
}
