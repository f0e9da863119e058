package mappers

import (
	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/postgres/models"
)

func ToDomainSale(model *models.SaleModel) *domain.SaleRecord {
	return &domain.SaleRecord{
		ID:             model.ID,
		OrderID:        model.OrderID,
		VendorID:       model.VendorID,
		Amount:         model.Amount,
		CommissionRate: model.CommissionRate,
		Date:           model.Date,
		OrderState:     model.OrderState,
		PaymentState:   model.PaymentState,
		CouponCode:     model.CouponCode,
	}
}

func ToGORMSale(sale *domain.SaleRecord) *models.SaleModel {
	return &models.SaleModel{
		ID:             sale.ID,
		OrderID:        sale.OrderID,
		VendorID:       sale.VendorID,
		Amount:         sale.Amount,
		CommissionRate: sale.CommissionRate,
		Date:           sale.Date,
		OrderState:     sale.OrderState,
		PaymentState:   sale.PaymentState,
		CouponCode:     sale.CouponCode,
	}
}

func ToDomainSales(sales []models.SaleModel) []*domain.SaleRecord {
	records := make([]*domain.SaleRecord, len(sales))
	for i := range sales {
		records[i] = ToDomainSale(&sales[i])
	}
	return records
}
