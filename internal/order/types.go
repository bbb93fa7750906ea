package order

import (
	"time"

	"github.com/example/flowershop/internal/i18n"
)

// Item is one line of an order, snapshotted from the cart at submission
// time. The snapshot never changes after the order is created.
type Item struct {
	ProductID string    `json:"product_id"`
	Name      i18n.Text `json:"name"`
	Price     int64     `json:"price"`
	Quantity  int       `json:"quantity"`
	Image     string    `json:"image,omitempty"`
}

type Order struct {
	ID            string    `json:"id"`
	OrderNo       string    `json:"order_no,omitempty"`
	Items         []Item    `json:"items"`
	TotalAmount   int64     `json:"total_amount"`
	Status        Status    `json:"status"`
	Consignee     string    `json:"consignee"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	Remark        string    `json:"remark,omitempty"`
	DeliveryType  string    `json:"delivery_type"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	// Local marks an order synthesized in degraded mode; it exists only in
	// local history until the backend reconciles it.
	Local bool `json:"local,omitempty"`
}

// Draft is the order submission payload built from the cart.
type Draft struct {
	Items        []Item
	Consignee    string
	Phone        string
	Address      string
	Remark       string
	DeliveryType string
	TotalAmount  int64
}

// ListFilters narrows an order list query.
type ListFilters struct {
	Page     int
	PageSize int
	Status   Status
	DateFrom string
	DateTo   string
	Search   string
}

// Page is one page of order list results.
type Page struct {
	Orders   []Order `json:"orders"`
	Total    int     `json:"total"`
	PageNum  int     `json:"page"`
	PageSize int     `json:"page_size"`
}

// Stats is the per-status order count summary.
type Stats struct {
	Pending   int `json:"pending"`
	Paid      int `json:"paid"`
	Shipped   int `json:"shipped"`
	Delivered int `json:"delivered"`
	Cancelled int `json:"cancelled"`
	Total     int `json:"total"`
}
