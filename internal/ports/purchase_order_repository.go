package ports

import (
	"context"
	"fieldops-service/internal/domain"
	"time"
)

// PurchaseOrderFilter mirrors the filter widgets of the PO status report.
type PurchaseOrderFilter struct {
	StartDate       time.Time
	EndDate         time.Time
	UserCode        string
	StoreCode       string
	POStatus        string
	TeamLeaderCode  string
	ChainCode       string
	ProductCategory string
	DeliveryStatus  string
	Limit           int
}

// Port: a boundary for retrieving purchase-order lines.
type PurchaseOrderRepository interface {
	ListPurchaseOrders(ctx context.Context, f PurchaseOrderFilter) ([]domain.PurchaseOrderLine, error)
}
