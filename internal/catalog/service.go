package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/example/flowershop/internal/client"
)

// Service fetches and normalizes catalog data. Backend failures degrade to
// the built-in sample catalog; the degraded result is always logged, never
// silently substituted.
type Service struct {
	client *client.Client
}

func NewService(c *client.Client) *Service {
	return &Service{client: c}
}

// ListProducts fetches one page of products from the backend.
func (s *Service) ListProducts(ctx context.Context, filters ListFilters) (*ProductPage, error) {
	filters = filters.withDefaults()

	query := url.Values{}
	query.Set("page", strconv.Itoa(filters.Page))
	query.Set("pageSize", strconv.Itoa(filters.PageSize))
	query.Set("isActive", "true")
	query.Set("isOnSale", "true")
	if filters.CategoryID != "" {
		query.Set("categoryId", filters.CategoryID)
	}
	if filters.Search != "" {
		query.Set("search", filters.Search)
	}

	var dto productPageDTO
	if err := s.client.Get(ctx, client.PathProducts, query, &dto); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &ProductPage{
		Products: normalizeProducts(dto.Data),
		Total:    dto.Total,
		Page:     dto.Page,
		PageSize: dto.PageSize,
	}, nil
}

// ListProductsOrFallback degrades to the sample catalog when the backend
// is unreachable. Cart and checkout keep working offline against it.
func (s *Service) ListProductsOrFallback(ctx context.Context, filters ListFilters) *ProductPage {
	page, err := s.ListProducts(ctx, filters)
	if err != nil {
		log.Printf("[Catalog] Falling back to local products: %v", err)
		products := FallbackProducts()
		return &ProductPage{
			Products: products,
			Total:    len(products),
			Page:     1,
			PageSize: len(products),
		}
	}
	return page
}

// GetProduct fetches a single product by id.
func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	var dto productDTO
	if err := s.client.Get(ctx, client.PathProducts+"/"+id, nil, &dto); err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	p := normalizeProduct(dto)
	return &p, nil
}

// FeaturedProducts returns the top-rated products for the home screen.
func (s *Service) FeaturedProducts(ctx context.Context, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 4
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var dtos []productDTO
	if err := s.client.Get(ctx, client.PathProductsFeatured, query, &dtos); err != nil {
		return nil, fmt.Errorf("failed to get featured products: %w", err)
	}
	return normalizeProducts(dtos), nil
}

// SearchProducts is a list query with a mandatory keyword.
func (s *Service) SearchProducts(ctx context.Context, keyword string, filters ListFilters) (*ProductPage, error) {
	if keyword == "" {
		return nil, errors.New("search keyword is required")
	}
	filters = filters.withDefaults()

	query := url.Values{}
	query.Set("keyword", keyword)
	query.Set("page", strconv.Itoa(filters.Page))
	query.Set("pageSize", strconv.Itoa(filters.PageSize))

	var dto productPageDTO
	if err := s.client.Get(ctx, client.PathProductsSearch, query, &dto); err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return &ProductPage{
		Products: normalizeProducts(dto.Data),
		Total:    dto.Total,
		Page:     dto.Page,
		PageSize: dto.PageSize,
	}, nil
}

// ListCategories fetches the flat category list.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	var dtos []categoryDTO
	if err := s.client.Get(ctx, client.PathCategories, nil, &dtos); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	out := make([]Category, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, normalizeCategory(dto))
	}
	return out, nil
}

// ListCategoriesOrFallback degrades to the categories of the sample catalog.
func (s *Service) ListCategoriesOrFallback(ctx context.Context) []Category {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		log.Printf("[Catalog] Falling back to local categories: %v", err)
		return FallbackCategories()
	}
	return categories
}

// CategoryTree fetches the nested category hierarchy.
func (s *Service) CategoryTree(ctx context.Context) ([]Category, error) {
	var dtos []categoryDTO
	if err := s.client.Get(ctx, client.PathCategoriesTree, nil, &dtos); err != nil {
		return nil, fmt.Errorf("failed to get category tree: %w", err)
	}

	out := make([]Category, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, normalizeCategory(dto))
	}
	return out, nil
}

// GetCategory fetches a single category by id.
func (s *Service) GetCategory(ctx context.Context, id string) (*Category, error) {
	var dto categoryDTO
	if err := s.client.Get(ctx, client.PathCategories+"/"+id, nil, &dto); err != nil {
		return nil, fmt.Errorf("failed to get category %s: %w", id, err)
	}
	c := normalizeCategory(dto)
	return &c, nil
}
