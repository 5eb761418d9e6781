package services

import (
	"cmp"
	"fieldops-service/internal/domain"
	"fieldops-service/internal/ports"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	DefaultPurchaseOrderLimit = 5000
	MaxPurchaseOrderLimit     = 50000
)

// NormalizePurchaseOrderFilter validates f and fills defaults. "all" and
// blank values clear a filter.
func NormalizePurchaseOrderFilter(f ports.PurchaseOrderFilter) (ports.PurchaseOrderFilter, error) {
	if f.StartDate.IsZero() || f.EndDate.IsZero() {
		return f, fmt.Errorf("%w: start date and end date are required", ports.ErrInvalidFilter)
	}
	if f.StartDate.After(f.EndDate) {
		return f, fmt.Errorf("%w: start date is after end date", ports.ErrInvalidFilter)
	}

	switch {
	case f.Limit < 0:
		return f, fmt.Errorf("%w: limit must not be negative", ports.ErrInvalidFilter)
	case f.Limit == 0:
		f.Limit = DefaultPurchaseOrderLimit
	case f.Limit > MaxPurchaseOrderLimit:
		f.Limit = MaxPurchaseOrderLimit
	}

	for _, p := range []*string{
		&f.UserCode, &f.StoreCode, &f.POStatus, &f.TeamLeaderCode,
		&f.ChainCode, &f.ProductCategory, &f.DeliveryStatus,
	} {
		*p = strings.TrimSpace(*p)
		if strings.EqualFold(*p, "all") {
			*p = ""
		}
	}

	return f, nil
}

// PurchaseOrderCacheTTL scales the cache lifetime with the requested span.
func PurchaseOrderCacheTTL(f ports.PurchaseOrderFilter) time.Duration {
	days := f.EndDate.Sub(f.StartDate).Hours() / 24
	switch {
	case days <= 2:
		return 10 * time.Minute
	case days <= 7:
		return 15 * time.Minute
	case days <= 31:
		return 30 * time.Minute
	default:
		return time.Hour
	}
}

// PurchaseOrderCacheKey identifies a normalized filter.
func PurchaseOrderCacheKey(f ports.PurchaseOrderFilter) string {
	return strings.Join([]string{
		"purchase-orders",
		f.StartDate.Format(dateLayout),
		f.EndDate.Format(dateLayout),
		f.UserCode, f.StoreCode, f.POStatus, f.TeamLeaderCode,
		f.ChainCode, f.ProductCategory, f.DeliveryStatus,
		fmt.Sprint(f.Limit),
	}, "|")
}

// SummarizePurchaseOrders rolls up lines.
func SummarizePurchaseOrders(lines []domain.PurchaseOrderLine) domain.PurchaseOrderSummary {
	s := domain.PurchaseOrderSummary{
		Lines:      len(lines),
		ByStatus:   map[string]int{},
		ByDelivery: map[string]int{},
	}

	orders := make(map[string]struct{})
	stores := make(map[string]struct{})
	for _, l := range lines {
		if _, seen := orders[l.TrxCode]; !seen {
			orders[l.TrxCode] = struct{}{}
			s.ByStatus[l.POStatus]++
		}
		stores[l.StoreCode] = struct{}{}

		s.TotalAmount += l.LineAmount
		s.OrderedQuantity += l.Quantity
		s.ReceivedQuantity += l.ReceivedQuantity
		s.PendingQuantity += l.PendingQuantity
		s.ByDelivery[l.DeliveryStatus]++
	}

	s.PurchaseOrders = len(orders)
	s.Stores = len(stores)
	s.TotalAmount = round2(s.TotalAmount)

	return s
}

type lineCompare func(a, b domain.PurchaseOrderLine) int

var purchaseOrderSortColumns = map[string]lineCompare{
	"poDate":          func(a, b domain.PurchaseOrderLine) int { return a.PODate.Compare(b.PODate) },
	"poNumber":        func(a, b domain.PurchaseOrderLine) int { return cmp.Compare(a.PONumber, b.PONumber) },
	"userCode":        func(a, b domain.PurchaseOrderLine) int { return cmp.Compare(a.UserCode, b.UserCode) },
	"userName":        func(a, b domain.PurchaseOrderLine) int { return cmp.Compare(a.UserName, b.UserName) },
	"storeCode":       func(a, b domain.PurchaseOrderLine) int { return cmp.Compare(a.StoreCode, b.StoreCode) },
	"storeName":       func(a, b domain.PurchaseOrderLine) int { return cmp.Compare(a.StoreName, b.StoreName) },
	"chainName":       func(a, b domain.PurchaseOrderLine) int { return cmp.Compare(a.ChainName, b.ChainName) },
	"poStatus":        func(a, b domain.PurchaseOrderLine) int { return cmp.Compare(a.POStatus, b.POStatus) },
	"productCode":     func(a, b domain.PurchaseOrderLine) int { return cmp.Compare(a.ProductCode, b.ProductCode) },
	"productName":     func(a, b domain.PurchaseOrderLine) int { return cmp.Compare(a.ProductName, b.ProductName) },
	"productCategory": func(a, b domain.PurchaseOrderLine) int { return cmp.Compare(a.ProductCategory, b.ProductCategory) },
	"quantity":        func(a, b domain.PurchaseOrderLine) int { return cmp.Compare(a.Quantity, b.Quantity) },
	"receivedQty":     func(a, b domain.PurchaseOrderLine) int { return cmp.Compare(a.ReceivedQuantity, b.ReceivedQuantity) },
	"pendingQty":      func(a, b domain.PurchaseOrderLine) int { return cmp.Compare(a.PendingQuantity, b.PendingQuantity) },
	"lineAmount":      func(a, b domain.PurchaseOrderLine) int { return cmp.Compare(a.LineAmount, b.LineAmount) },
	"totalAmount":     func(a, b domain.PurchaseOrderLine) int { return cmp.Compare(a.TotalAmount, b.TotalAmount) },
	"deliveryStatus":  func(a, b domain.PurchaseOrderLine) int { return cmp.Compare(a.DeliveryStatus, b.DeliveryStatus) },
}

// SortPurchaseOrders orders lines in place by a whitelisted column. dir is
// "asc" or "desc"; an empty column keeps the repository order.
func SortPurchaseOrders(lines []domain.PurchaseOrderLine, column, dir string) error {
	if column == "" {
		return nil
	}

	compare, ok := purchaseOrderSortColumns[column]
	if !ok {
		return fmt.Errorf("%w: unknown sort column %q", ports.ErrInvalidFilter, column)
	}

	desc := false
	switch strings.ToLower(dir) {
	case "", "asc":
	case "desc":
		desc = true
	default:
		return fmt.Errorf("%w: sort direction %q: want asc or desc", ports.ErrInvalidFilter, dir)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		c := compare(lines[i], lines[j])
		if desc {
			return c > 0
		}
		return c < 0
	})

	return nil
}
