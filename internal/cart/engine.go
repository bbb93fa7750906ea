package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/flowershop/internal/catalog"
	"github.com/example/flowershop/internal/i18n"
	"github.com/example/flowershop/internal/infrastructure/storage"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrOutOfStock      = errors.New("product is out of stock")
	ErrExceedsStock    = errors.New("quantity exceeds available stock")
)

// ExceedsStockError reports how many more units may still be added.
type ExceedsStockError struct {
	ProductID string
	Available int
}

func (e *ExceedsStockError) Error() string {
	return fmt.Sprintf("quantity exceeds available stock: %d left for product %s", e.Available, e.ProductID)
}

func (e *ExceedsStockError) Unwrap() error { return ErrExceedsStock }

// Line is one product in the cart. Display fields are denormalized at add
// time so the cart renders without refetching the catalog; Stock is the
// snapshot used for quantity validation.
type Line struct {
	ProductID     string    `json:"product_id"`
	Name          i18n.Text `json:"name"`
	Price         int64     `json:"price"`
	OriginalPrice int64     `json:"original_price"`
	Image         string    `json:"image"`
	Stock         int       `json:"stock"`
	Quantity      int       `json:"quantity"`
	Selected      bool      `json:"selected"`
}

// Pricing holds the delivery fee configuration, in cents.
type Pricing struct {
	FreeDeliveryThreshold int64
	DeliveryFee           int64
}

// Totals is the computed cart summary.
type Totals struct {
	Subtotal      int64 `json:"subtotal"`
	DeliveryFee   int64 `json:"delivery_fee"`
	Total         int64 `json:"total"`
	ItemCount     int   `json:"item_count"`
	SelectedCount int   `json:"selected_count"`
}

// Calculate computes totals for the given lines. Pure: no storage access,
// no mutation.
func (p Pricing) Calculate(lines []Line, onlySelected bool) Totals {
	var t Totals
	for _, line := range lines {
		if onlySelected && !line.Selected {
			continue
		}
		t.Subtotal += line.Price * int64(line.Quantity)
		t.ItemCount += line.Quantity
		if line.Selected {
			t.SelectedCount++
		}
	}

	if t.Subtotal > 0 && t.Subtotal < p.FreeDeliveryThreshold {
		t.DeliveryFee = p.DeliveryFee
	}
	t.Total = t.Subtotal + t.DeliveryFee
	return t
}

// Engine maintains the cart line-item list. Every mutation is one
// read-modify-write of the full cart against storage; nothing is batched.
type Engine struct {
	storage storage.Storage
	pricing Pricing
}

func NewEngine(st storage.Storage, pricing Pricing) *Engine {
	return &Engine{storage: st, pricing: pricing}
}

// Items returns the current cart lines, oldest first.
func (e *Engine) Items(ctx context.Context) ([]Line, error) {
	return e.load(ctx)
}

// SelectedItems returns only the lines marked for checkout.
func (e *Engine) SelectedItems(ctx context.Context) ([]Line, error) {
	lines, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	selected := make([]Line, 0, len(lines))
	for _, line := range lines {
		if line.Selected {
			selected = append(selected, line)
		}
	}
	return selected, nil
}

// Add merges quantity into an existing line or appends a new selected line.
// It validates the request against the product's current stock and reports
// the remaining allowed quantity when the request exceeds it.
func (e *Engine) Add(ctx context.Context, product catalog.Product, quantity int) ([]Line, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if product.Stock <= 0 {
		return nil, ErrOutOfStock
	}

	lines, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOf(lines, product.ID)
	existing := 0
	if idx >= 0 {
		existing = lines[idx].Quantity
	}
	if existing+quantity > product.Stock {
		return nil, &ExceedsStockError{
			ProductID: product.ID,
			Available: product.Stock - existing,
		}
	}

	if idx >= 0 {
		lines[idx].Quantity += quantity
		lines[idx].Stock = product.Stock
	} else {
		lines = append(lines, Line{
			ProductID:     product.ID,
			Name:          product.Name,
			Price:         product.Price,
			OriginalPrice: product.OriginalPrice,
			Image:         product.Image,
			Stock:         product.Stock,
			Quantity:      quantity,
			Selected:      true,
		})
	}

	if err := e.save(ctx, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Remove drops the line for productID; removing an absent product is a
// no-op that still persists the (unchanged) cart.
func (e *Engine) Remove(ctx context.Context, productID string) ([]Line, error) {
	lines, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	kept := lines[:0]
	for _, line := range lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}

	if err := e.save(ctx, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// UpdateQuantity sets a line's quantity verbatim. A quantity of zero or
// less removes the line. The new quantity is validated against the line's
// stock snapshot, the same rule Add applies.
func (e *Engine) UpdateQuantity(ctx context.Context, productID string, quantity int) ([]Line, error) {
	if quantity <= 0 {
		return e.Remove(ctx, productID)
	}

	lines, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOf(lines, productID)
	if idx < 0 {
		return lines, nil
	}
	if quantity > lines[idx].Stock {
		return nil, &ExceedsStockError{
			ProductID: productID,
			Available: lines[idx].Stock,
		}
	}
	lines[idx].Quantity = quantity

	if err := e.save(ctx, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// ToggleSelection flips one line's selected flag.
func (e *Engine) ToggleSelection(ctx context.Context, productID string) ([]Line, error) {
	lines, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	if idx := indexOf(lines, productID); idx >= 0 {
		lines[idx].Selected = !lines[idx].Selected
	}

	if err := e.save(ctx, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// SelectAll sets every line's selected flag.
func (e *Engine) SelectAll(ctx context.Context, selected bool) ([]Line, error) {
	lines, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range lines {
		lines[i].Selected = selected
	}

	if err := e.save(ctx, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Totals computes the summary for the current cart state.
func (e *Engine) Totals(ctx context.Context, onlySelected bool) (Totals, error) {
	lines, err := e.load(ctx)
	if err != nil {
		return Totals{}, err
	}
	return e.pricing.Calculate(lines, onlySelected), nil
}

// Count returns the total quantity across all lines, for the cart badge.
func (e *Engine) Count(ctx context.Context) (int, error) {
	lines, err := e.load(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return count, nil
}

// ItemQuantity returns the quantity of one product, 0 when absent.
func (e *Engine) ItemQuantity(ctx context.Context, productID string) (int, error) {
	lines, err := e.load(ctx)
	if err != nil {
		return 0, err
	}
	if idx := indexOf(lines, productID); idx >= 0 {
		return lines[idx].Quantity, nil
	}
	return 0, nil
}

// Clear empties and persists the cart.
func (e *Engine) Clear(ctx context.Context) error {
	return e.save(ctx, []Line{})
}

func (e *Engine) load(ctx context.Context) ([]Line, error) {
	var lines []Line
	if _, err := e.storage.Get(ctx, storage.KeyCart, &lines); err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return lines, nil
}

func (e *Engine) save(ctx context.Context, lines []Line) error {
	if err := e.storage.Set(ctx, storage.KeyCart, lines); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func indexOf(lines []Line, productID string) int {
	for i, line := range lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}
