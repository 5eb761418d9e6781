package domain

import "time"

// PurchaseOrderLine is one product line of a store purchase order.
type PurchaseOrderLine struct {
	PODate           time.Time
	POCreatedAt      *time.Time
	UserCode         string
	UserName         string
	TeamLeaderCode   string
	TeamLeaderName   string
	StoreCode        string
	StoreName        string
	ChainCode        string
	ChainName        string
	TrxCode          string
	PONumber         string
	POStatus         string
	TotalAmount      float64
	ProductCode      string
	ProductName      string
	ProductCategory  string
	Quantity         float64
	ReceivedQuantity float64
	PendingQuantity  float64
	UnitPrice        float64
	LineAmount       float64
	DeliveryStatus   string
	ImagePath        string
}

// PurchaseOrderSummary rolls up the currently filtered lines.
type PurchaseOrderSummary struct {
	Lines            int
	PurchaseOrders   int
	Stores           int
	TotalAmount      float64
	OrderedQuantity  float64
	ReceivedQuantity float64
	PendingQuantity  float64
	ByStatus         map[string]int
	ByDelivery       map[string]int
}
