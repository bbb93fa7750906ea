package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/example/flowershop/internal/client"
	"github.com/example/flowershop/internal/infrastructure/storage"
)

var ErrEmptyOrder = errors.New("order must have at least one item")

// Service submits orders to the backend and maintains the append-only
// local history, most recent first. Status changes go through the central
// transition validation in both the remote and local paths.
type Service struct {
	client  *client.Client
	storage storage.Storage
}

func NewService(c *client.Client, st storage.Storage) *Service {
	return &Service{client: c, storage: st}
}

// Create submits the draft to the backend and records the returned order
// in local history. Clearing the cart is the caller's responsibility.
func (s *Service) Create(ctx context.Context, draft Draft) (*Order, error) {
	if len(draft.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	var dto orderDTO
	if err := s.client.Post(ctx, client.PathOrders, buildCreateRequest(draft), &dto); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	o := normalizeOrder(dto)
	// The backend owns the order now; the local copy is display cache.
	if err := s.prependHistory(ctx, o); err != nil {
		log.Printf("[Order] Failed to record order %s locally: %v", o.ID, err)
	}
	return &o, nil
}

// CreateLocal synthesizes a degraded-mode order after a failed backend
// submission: timestamp-derived identifier, status fixed at pending. It
// stays local until the backend reconciles it.
func (s *Service) CreateLocal(ctx context.Context, draft Draft) (*Order, error) {
	if len(draft.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	now := time.Now()
	o := Order{
		ID:           strconv.FormatInt(now.UnixMilli(), 10),
		Items:        draft.Items,
		TotalAmount:  draft.TotalAmount,
		Status:       StatusPending,
		Consignee:    draft.Consignee,
		Phone:        draft.Phone,
		Address:      draft.Address,
		Remark:       draft.Remark,
		DeliveryType: draft.DeliveryType,
		CreatedAt:    now,
		UpdatedAt:    now,
		Local:        true,
	}
	if o.DeliveryType == "" {
		o.DeliveryType = "delivery"
	}

	if err := s.prependHistory(ctx, o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Get fetches one order from the backend, falling back to local history
// when the backend is unreachable.
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	var dto orderDTO
	err := s.client.Get(ctx, client.PathOrders+"/"+id, nil, &dto)
	if err == nil {
		o := normalizeOrder(dto)
		return &o, nil
	}
	if !errors.Is(err, client.ErrNetwork) && !errors.Is(err, client.ErrServer) {
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}

	log.Printf("[Order] Backend unavailable, reading order %s from local history: %v", id, err)
	history, herr := s.History(ctx)
	if herr != nil {
		return nil, herr
	}
	for i := range history {
		if history[i].ID == id {
			return &history[i], nil
		}
	}
	return nil, fmt.Errorf("failed to get order %s: %w", id, err)
}

// List fetches one page of orders and normalizes the wire shape.
func (s *Service) List(ctx context.Context, filters ListFilters) (*Page, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 10
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(filters.Page))
	query.Set("pageSize", strconv.Itoa(filters.PageSize))
	if filters.Status != "" {
		query.Set("status", string(filters.Status))
	}
	if filters.DateFrom != "" {
		query.Set("dateFrom", filters.DateFrom)
	}
	if filters.DateTo != "" {
		query.Set("dateTo", filters.DateTo)
	}
	if filters.Search != "" {
		query.Set("search", filters.Search)
	}

	var dto orderPageDTO
	if err := s.client.Get(ctx, client.PathOrders, query, &dto); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	page := &Page{Total: dto.Total, PageNum: dto.Page, PageSize: dto.PageSize}
	for _, d := range dto.Data {
		page.Orders = append(page.Orders, normalizeOrder(d))
	}
	return page, nil
}

// ListOrHistory degrades to the local order history when the backend is
// unreachable.
func (s *Service) ListOrHistory(ctx context.Context, filters ListFilters) ([]Order, error) {
	page, err := s.List(ctx, filters)
	if err == nil {
		return page.Orders, nil
	}
	if !errors.Is(err, client.ErrNetwork) && !errors.Is(err, client.ErrServer) {
		return nil, err
	}

	log.Printf("[Order] Falling back to local order history: %v", err)
	return s.History(ctx)
}

// Cancel requests the cancelled transition on the backend. When the
// backend is unreachable the transition is applied to the local copy,
// accepting divergence until the next successful sync.
func (s *Service) Cancel(ctx context.Context, id string) error {
	return s.transition(ctx, id, StatusCancelled)
}

// ConfirmReceipt requests the delivered transition on the backend, with
// the same local fallback as Cancel.
func (s *Service) ConfirmReceipt(ctx context.Context, id string) error {
	return s.transition(ctx, id, StatusDelivered)
}

func (s *Service) transition(ctx context.Context, id string, target Status) error {
	// Validate against the local copy first, so an invalid transition never
	// leaves the process.
	history, err := s.History(ctx)
	if err != nil {
		return err
	}
	for _, o := range history {
		if o.ID == id {
			if err := ValidateTransition(o.Status, target); err != nil {
				return err
			}
			break
		}
	}

	err = s.client.Put(ctx, client.PathOrders+"/"+id+"/status", statusUpdateRequest{Status: string(target)}, nil)
	if err == nil {
		return s.applyLocalTransition(ctx, id, target)
	}
	if !errors.Is(err, client.ErrNetwork) && !errors.Is(err, client.ErrServer) {
		return fmt.Errorf("failed to update order %s status: %w", id, err)
	}

	log.Printf("[Order] Backend unavailable, applying %s to order %s locally: %v", target, id, err)
	return s.applyLocalTransition(ctx, id, target)
}

// Stats fetches the per-status counts, computing them from local history
// when the backend is unreachable.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	err := s.client.Get(ctx, client.PathOrderStats, nil, &stats)
	if err == nil {
		return &stats, nil
	}
	if !errors.Is(err, client.ErrNetwork) && !errors.Is(err, client.ErrServer) {
		return nil, fmt.Errorf("failed to get order stats: %w", err)
	}

	log.Printf("[Order] Falling back to local order stats: %v", err)
	history, herr := s.History(ctx)
	if herr != nil {
		return nil, herr
	}
	for _, o := range history {
		switch o.Status {
		case StatusPending:
			stats.Pending++
		case StatusPaid:
			stats.Paid++
		case StatusShipped:
			stats.Shipped++
		case StatusDelivered:
			stats.Delivered++
		case StatusCancelled:
			stats.Cancelled++
		}
		stats.Total++
	}
	return &stats, nil
}

// History returns the locally recorded orders, most recent first.
func (s *Service) History(ctx context.Context) ([]Order, error) {
	var history []Order
	if _, err := s.storage.Get(ctx, storage.KeyOrders, &history); err != nil {
		return nil, fmt.Errorf("failed to load order history: %w", err)
	}
	return history, nil
}

func (s *Service) prependHistory(ctx context.Context, o Order) error {
	history, err := s.History(ctx)
	if err != nil {
		return err
	}
	history = append([]Order{o}, history...)
	if err := s.storage.Set(ctx, storage.KeyOrders, history); err != nil {
		return fmt.Errorf("failed to save order history: %w", err)
	}
	return nil
}

func (s *Service) applyLocalTransition(ctx context.Context, id string, target Status) error {
	history, err := s.History(ctx)
	if err != nil {
		return err
	}
	for i := range history {
		if history[i].ID != id {
			continue
		}
		if err := ValidateTransition(history[i].Status, target); err != nil {
			return err
		}
		history[i].Status = target
		history[i].UpdatedAt = time.Now()
		if err := s.storage.Set(ctx, storage.KeyOrders, history); err != nil {
			return fmt.Errorf("failed to save order history: %w", err)
		}
		return nil
	}
	// Not in local history; nothing to update.
	return nil
}
