package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/postgres/models"
)

const defaultQueryLimit = 500

type DefaultSaleRepository struct {
	DB              *gorm.DB
	ProvisionalRate decimal.Decimal
}

func NewDefaultSaleRepository(db *gorm.DB, provisionalRate decimal.Decimal) *DefaultSaleRepository {
	return &DefaultSaleRepository{
		DB:              db,
		ProvisionalRate: provisionalRate,
	}
}

// UpsertSale writes the observation for (order, vendor) under a row lock.
// A concurrent insert of the same key surfaces as a duplicate key on our
// insert; the second attempt then finds the row and updates it.
func (r *DefaultSaleRepository) UpsertSale(ctx context.Context, in domain.SaleUpsert) (*domain.UpsertResult, error) {
	result, err := r.upsertSale(ctx, in)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		result, err = r.upsertSale(ctx, in)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: order %s vendor %s", domain.ErrDuplicateSale, in.OrderID, in.VendorID)
		}
		return nil, fmt.Errorf("failed to upsert sale: %w", err)
	}
	return result, nil
}

func (r *DefaultSaleRepository) upsertSale(ctx context.Context, in domain.SaleUpsert) (*domain.UpsertResult, error) {
	var result *domain.UpsertResult

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.SaleModel
		err := tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
			Where("order_id = ? AND vendor_id = ?", in.OrderID, in.VendorID).
			Take(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			model := mappers.ToGORMSale(&domain.SaleRecord{
				ID:             uuid.New().String(),
				OrderID:        in.OrderID,
				VendorID:       in.VendorID,
				Amount:         in.Amount.Round(2),
				CommissionRate: r.ProvisionalRate,
				Date:           in.Now.UTC(),
				OrderState:     in.OrderState,
				PaymentState:   in.PaymentState,
				CouponCode:     in.CouponCode,
			})
			if err := tx.Create(model).Error; err != nil {
				return err
			}
			result = &domain.UpsertResult{Record: mappers.ToDomainSale(model), Action: domain.UpsertCreated}
			return nil
		}
		if err != nil {
			return err
		}

		// Выплаченная запись финальна: поздние события по заказу ее не трогают
		if existing.PaymentState.IsTerminal() {
			result = &domain.UpsertResult{Record: mappers.ToDomainSale(&existing), Action: domain.UpsertSkipped}
			return nil
		}

		amount := in.Amount.Round(2)
		if existing.OrderState == in.OrderState &&
			existing.PaymentState == in.PaymentState &&
			existing.Amount.Equal(amount) {
			result = &domain.UpsertResult{Record: mappers.ToDomainSale(&existing), Action: domain.UpsertUnchanged}
			return nil
		}

		existing.OrderState = in.OrderState
		existing.PaymentState = in.PaymentState
		existing.Date = in.Now.UTC()
		existing.Amount = amount

		if err := tx.Model(&existing).
			Select("order_state", "payment_state", "date", "amount").
			Updates(&existing).Error; err != nil {
			return err
		}
		result = &domain.UpsertResult{Record: mappers.ToDomainSale(&existing), Action: domain.UpsertUpdated}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *DefaultSaleRepository) FindSale(ctx context.Context, orderID, vendorID string) (*domain.SaleRecord, error) {
	var sale models.SaleModel
	err := r.DB.WithContext(ctx).
		Where("order_id = ? AND vendor_id = ?", orderID, vendorID).
		Take(&sale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSaleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find sale: %w", err)
	}
	return mappers.ToDomainSale(&sale), nil
}

// SumAmount returns an invalid NullDecimal when the vendor has no qualifying rows.
func (r *DefaultSaleRepository) SumAmount(ctx context.Context, vendorID string, period domain.Period, excludeStates []domain.OrderState) (decimal.NullDecimal, error) {
	query := r.periodScope(ctx, period).
		Select("SUM(amount)").
		Where("vendor_id = ?", vendorID)

	if len(excludeStates) > 0 {
		query = query.Where("order_state NOT IN ?", orderStateStrings(excludeStates))
	}

	var total decimal.NullDecimal
	if err := query.Row().Scan(&total); err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("failed to sum sales for vendor %s: %w", vendorID, err)
	}
	return total, nil
}

func (r *DefaultSaleRepository) DistinctVendors(ctx context.Context, period domain.Period) ([]string, error) {
	var vendorIDs []string
	if err := r.periodScope(ctx, period).
		Distinct().
		Order("vendor_id").
		Pluck("vendor_id", &vendorIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to list vendors for %s: %w", period, err)
	}
	return vendorIDs, nil
}

func (r *DefaultSaleRepository) SetRateForPeriod(ctx context.Context, vendorID string, period domain.Period, rate decimal.Decimal) (int64, error) {
	res := r.periodScope(ctx, period).
		Where("vendor_id = ?", vendorID).
		Update("commission_rate", rate)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to set rate for vendor %s: %w", vendorID, res.Error)
	}
	return res.RowsAffected, nil
}

// MarkPaid is a single UPDATE ... WHERE id IN (...). Already paid rows match
// the predicate and are counted.
func (r *DefaultSaleRepository) MarkPaid(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).
		Model(&models.SaleModel{}).
		Where("id IN ?", ids).
		Update("payment_state", string(domain.PaymentStatePaid))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark sales paid: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *DefaultSaleRepository) Query(ctx context.Context, filter domain.SaleFilter) ([]*domain.SaleRecord, error) {
	query := r.DB.WithContext(ctx).Model(&models.SaleModel{})

	if filter.VendorID != "" {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.PaymentState != "" {
		query = query.Where("payment_state = ?", string(filter.PaymentState))
	}
	if filter.OrderState != "" {
		query = query.Where("order_state = ?", string(filter.OrderState))
	}
	if filter.Period != nil {
		query = query.Where("date >= ? AND date < ?", filter.Period.Start().UTC(), filter.Period.End().UTC())
	}

	limit := filter.Limit
	if limit <= 0 || limit > defaultQueryLimit {
		limit = defaultQueryLimit
	}

	var sales []models.SaleModel
	if err := query.
		Order("date DESC").
		Order("id DESC").
		Offset(filter.Offset).
		Limit(limit).
		Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}

	return mappers.ToDomainSales(sales), nil
}

type saleSummaryRow struct {
	PaymentState domain.PaymentState
	Count        int64
	Amount       decimal.NullDecimal
	Commission   decimal.NullDecimal
}

func (r *DefaultSaleRepository) Summarize(ctx context.Context, vendorID string, period *domain.Period) ([]*domain.SaleSummary, error) {
	query := r.DB.WithContext(ctx).
		Model(&models.SaleModel{}).
		Select("payment_state, COUNT(*) AS count, SUM(amount) AS amount, SUM(amount * commission_rate / 100.0) AS commission").
		Where("vendor_id = ?", vendorID)

	if period != nil {
		query = query.Where("date >= ? AND date < ?", period.Start().UTC(), period.End().UTC())
	}

	var rows []saleSummaryRow
	if err := query.Group("payment_state").Order("payment_state").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to summarize sales for vendor %s: %w", vendorID, err)
	}

	summaries := make([]*domain.SaleSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, &domain.SaleSummary{
			PaymentState: row.PaymentState,
			Count:        row.Count,
			Amount:       row.Amount.Decimal.Round(2),
			Commission:   row.Commission.Decimal.Round(2),
		})
	}
	return summaries, nil
}

func (r *DefaultSaleRepository) periodScope(ctx context.Context, period domain.Period) *gorm.DB {
	return r.DB.WithContext(ctx).
		Model(&models.SaleModel{}).
		Where("date >= ? AND date < ?", period.Start().UTC(), period.End().UTC())
}

func orderStateStrings(states []domain.OrderState) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = string(s)
	}
	return out
}
