package domain

import "errors"

var (
	ErrSaleNotFound      = errors.New("sale record not found")
	ErrDuplicateSale     = errors.New("sale record already exists for order and vendor")
	ErrTierRunInProgress = errors.New("tier recalculation already running")
	ErrTierRunNotFound   = errors.New("tier run not found")
	ErrTierRunPartial    = errors.New("tier run finished with failed vendors")
	ErrInvalidPeriod     = errors.New("invalid period")
	ErrInvalidEvent      = errors.New("invalid order status event")
	ErrInvalidCoupon     = errors.New("invalid coupon mapping")
	ErrInvalidFilter     = errors.New("invalid ledger filter")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
)
