package devserver

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/flowershop/internal/auth"
	"github.com/example/flowershop/internal/catalog"
)

// Wire shapes served by the dev backend. These mirror what the real API
// speaks: snake_case with locale-suffixed duplicate fields.

type productJSON struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	NameEn        string   `json:"name_en"`
	Description   string   `json:"description"`
	DescriptionEn string   `json:"description_en"`
	Price         int64    `json:"price"`
	OriginalPrice int64    `json:"original_price"`
	CategoryID    string   `json:"category_id"`
	ImageURLs     []string `json:"image_urls"`
	Stock         int      `json:"stock"`
	Rating        float64  `json:"rating"`
	SalesCount    int      `json:"sales_count"`
	Tags          []string `json:"tags"`
	IsActive      bool     `json:"is_active"`
	IsOnSale      bool     `json:"is_on_sale"`
}

type categoryJSON struct {
	ID        string         `json:"id"`
	Slug      string         `json:"slug"`
	Name      string         `json:"name"`
	NameEn    string         `json:"name_en"`
	ParentID  string         `json:"parent_id,omitempty"`
	SortOrder int            `json:"sort_order"`
	Children  []categoryJSON `json:"children,omitempty"`
}

type userJSON struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Phone    string `json:"phone"`
}

type addressJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Region    string `json:"region"`
	Detail    string `json:"detail"`
	IsDefault bool   `json:"is_default"`
}

type orderItemJSON struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	NameEn    string `json:"name_en"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image"`
}

type orderJSON struct {
	ID           string          `json:"id"`
	OrderNo      string          `json:"order_no"`
	UserID       string          `json:"-"`
	Status       string          `json:"status"`
	Items        []orderItemJSON `json:"items"`
	TotalAmount  int64           `json:"total_amount"`
	Consignee    string          `json:"consignee"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	Remark       string          `json:"remark"`
	DeliveryType string          `json:"delivery_type"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type account struct {
	user         userJSON
	passwordHash string
}

// state is the in-memory world the dev backend serves. Seeded from the
// built-in sample catalog plus one demo shopper.
type state struct {
	mu sync.RWMutex

	products   []productJSON
	categories []categoryJSON
	accounts   map[string]*account // keyed by email
	addresses  map[string][]addressJSON
	orders     []orderJSON
	orderSeq   int
}

// DemoEmail and DemoPassword are the seeded login credentials.
const (
	DemoEmail    = "demo@flowershop.dev"
	DemoPassword = "flowers4ever"
)

func newState() (*state, error) {
	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to seed demo account: %w", err)
	}

	st := &state{
		accounts:  map[string]*account{},
		addresses: map[string][]addressJSON{},
	}
	st.accounts[DemoEmail] = &account{
		user: userJSON{
			ID:       uuid.NewString(),
			Email:    DemoEmail,
			Nickname: "Demo Shopper",
			Avatar:   "/images/default_avatar.png",
		},
		passwordHash: hash,
	}

	for _, p := range catalog.FallbackProducts() {
		st.products = append(st.products, productJSON{
			ID:            p.ID,
			Name:          p.Name.Resolve("zh"),
			NameEn:        p.Name.Resolve("en"),
			Description:   p.Description.Resolve("zh"),
			DescriptionEn: p.Description.Resolve("en"),
			Price:         p.Price,
			OriginalPrice: p.OriginalPrice,
			CategoryID:    p.CategoryID,
			ImageURLs:     p.Images,
			Stock:         p.Stock,
			Rating:        p.Rating,
			SalesCount:    p.SalesCount,
			Tags:          p.Tags,
			IsActive:      p.IsActive,
			IsOnSale:      p.IsOnSale,
		})
	}
	for _, c := range catalog.FallbackCategories() {
		st.categories = append(st.categories, categoryJSON{
			ID:        c.ID,
			Slug:      c.Slug,
			Name:      c.Name.Resolve("zh"),
			NameEn:    c.Name.Resolve("en"),
			SortOrder: c.SortOrder,
		})
	}
	return st, nil
}

func (st *state) findProduct(id string) (productJSON, bool) {
	for _, p := range st.products {
		if p.ID == id {
			return p, true
		}
	}
	return productJSON{}, false
}

func (st *state) filterProducts(categoryID, search string) []productJSON {
	out := make([]productJSON, 0, len(st.products))
	for _, p := range st.products {
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		if search != "" && !productMatches(p, search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func productMatches(p productJSON, search string) bool {
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.NameEn), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.DescriptionEn), needle)
}

func (st *state) featuredProducts(limit int) []productJSON {
	sorted := make([]productJSON, len(st.products))
	copy(sorted, st.products)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rating > sorted[j].Rating
	})
	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}

func (st *state) nextOrderNo(now time.Time) string {
	st.orderSeq++
	return fmt.Sprintf("FS%s%04d", now.Format("20060102"), st.orderSeq)
}

func (st *state) findOrder(id string) (*orderJSON, bool) {
	for i := range st.orders {
		if st.orders[i].ID == id {
			return &st.orders[i], true
		}
	}
	return nil, false
}

func paginate[T any](items []T, page, pageSize int) []T {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
