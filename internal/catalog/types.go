package catalog

import "github.com/example/flowershop/internal/i18n"

// DefaultImage is used when a product carries no image URLs.
const DefaultImage = "/images/default_flower.jpg"

// Product is the internal catalog shape. Prices are integer cents.
type Product struct {
	ID            string    `json:"id"`
	Name          i18n.Text `json:"name"`
	Description   i18n.Text `json:"description"`
	Price         int64     `json:"price"`
	OriginalPrice int64     `json:"original_price"`
	CategoryID    string    `json:"category_id"`
	CategoryName  string    `json:"category_name"`
	Image         string    `json:"image"`
	Images        []string  `json:"images"`
	Stock         int       `json:"stock"`
	Rating        float64   `json:"rating"`
	SalesCount    int       `json:"sales_count"`
	Tags          []string  `json:"tags"`
	DeliveryTime  i18n.Text `json:"delivery_time"`
	IsActive      bool      `json:"is_active"`
	IsOnSale      bool      `json:"is_on_sale"`
}

type Category struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Name        i18n.Text  `json:"name"`
	Description i18n.Text  `json:"description"`
	ParentID    string     `json:"parent_id,omitempty"`
	SortOrder   int        `json:"sort_order"`
	Children    []Category `json:"children,omitempty"`
}

// ProductPage is one page of catalog results.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// ListFilters narrows a product list query. Zero values mean "no filter";
// Page/PageSize default to 1/10.
type ListFilters struct {
	Page       int
	PageSize   int
	CategoryID string
	Search     string
}

func (f ListFilters) withDefaults() ListFilters {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 10
	}
	return f
}
