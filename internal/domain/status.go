package domain

import "strings"

// MapOrderStatus projects the order subsystem's status vocabulary onto the
// three ledger order states. Unknown statuses map to processing so no event is dropped.
func MapOrderStatus(status string) OrderState {
	s := strings.ToLower(strings.TrimSpace(status))
	s = strings.TrimPrefix(s, "wc-")

	switch s {
	case "completed":
		return OrderStateCompleted
	case "cancelled", "refunded", "failed":
		return OrderStateCancelled
	case "processing", "on-hold":
		return OrderStateProcessing
	default:
		return OrderStateProcessing
	}
}

// PaymentStateFor derives the settlement state written on ingestion.
func PaymentStateFor(state OrderState) PaymentState {
	switch state {
	case OrderStateCompleted:
		return PaymentStateReadyToPay
	case OrderStateCancelled:
		return PaymentStateCancelled
	default:
		return PaymentStatePendingCompletion
	}
}
