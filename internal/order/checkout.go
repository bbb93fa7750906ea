package order

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/example/flowershop/internal/cart"
	"github.com/example/flowershop/internal/client"
)

var ErrNoAddress = errors.New("delivery address is required")

// DeliveryInfo is what checkout collects beyond the cart contents.
type DeliveryInfo struct {
	Consignee    string
	Phone        string
	Address      string
	Remark       string
	DeliveryType string
}

// Checkout turns the selected cart lines into an order. When the backend
// cannot take the submission it degrades to a locally synthesized order,
// so the order is always recorded somewhere; in both outcomes the cart is
// cleared exactly once.
type Checkout struct {
	orders *Service
	cart   *cart.Engine
}

func NewCheckout(orders *Service, cartEngine *cart.Engine) *Checkout {
	return &Checkout{orders: orders, cart: cartEngine}
}

// PlaceOrder submits the selected cart lines. Validation failures (bad
// address, empty selection, rejected request) leave the cart untouched;
// only an accepted or degraded-mode order clears it.
func (c *Checkout) PlaceOrder(ctx context.Context, info DeliveryInfo) (*Order, error) {
	if info.Address == "" {
		return nil, ErrNoAddress
	}

	lines, err := c.cart.SelectedItems(ctx)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	totals, err := c.cart.Totals(ctx, true)
	if err != nil {
		return nil, err
	}

	draft := Draft{
		Items:        snapshotLines(lines),
		Consignee:    info.Consignee,
		Phone:        info.Phone,
		Address:      info.Address,
		Remark:       info.Remark,
		DeliveryType: info.DeliveryType,
		TotalAmount:  totals.Total,
	}

	placed, err := c.orders.Create(ctx, draft)
	if err != nil {
		// Degrade only on transport and server failures; a rejected request
		// means the order would be wrong and must not be recorded.
		if !errors.Is(err, client.ErrNetwork) && !errors.Is(err, client.ErrServer) {
			return nil, err
		}
		log.Printf("[Checkout] Backend submission failed, recording order locally: %v", err)
		placed, err = c.orders.CreateLocal(ctx, draft)
		if err != nil {
			return nil, fmt.Errorf("failed to record local order: %w", err)
		}
	}

	if err := c.cart.Clear(ctx); err != nil {
		// The order exists; a dirty cart is recoverable, losing the order
		// is not. Log and return the order.
		log.Printf("[Checkout] Failed to clear cart after order %s: %v", placed.ID, err)
	}
	return placed, nil
}

// snapshotLines freezes the cart lines into order items.
func snapshotLines(lines []cart.Line) []Item {
	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, Item{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
			Image:     line.Image,
		})
	}
	return items
}
