package catalog

import "github.com/example/flowershop/internal/i18n"

// Backend wire shapes. The backend speaks snake_case with locale-suffixed
// duplicate fields; normalization folds those into i18n.Text maps.

type productDTO struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	NameEn        string   `json:"name_en"`
	Description   string   `json:"description"`
	DescriptionEn string   `json:"description_en"`
	Price         int64    `json:"price"`
	OriginalPrice int64    `json:"original_price"`
	CategoryID    string   `json:"category_id"`
	Category      *struct {
		Name string `json:"name"`
	} `json:"category"`
	ImageURLs  []string `json:"image_urls"`
	Stock      int      `json:"stock"`
	Rating     float64  `json:"rating"`
	SalesCount int      `json:"sales_count"`
	Tags       []string `json:"tags"`
	IsActive   bool     `json:"is_active"`
	IsOnSale   bool     `json:"is_on_sale"`
}

type categoryDTO struct {
	ID            string        `json:"id"`
	Slug          string        `json:"slug"`
	Name          string        `json:"name"`
	NameEn        string        `json:"name_en"`
	Description   string        `json:"description"`
	DescriptionEn string        `json:"description_en"`
	ParentID      string        `json:"parent_id"`
	SortOrder     int           `json:"sort_order"`
	Children      []categoryDTO `json:"children"`
}

type productPageDTO struct {
	Data     []productDTO `json:"data"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

func normalizeProduct(dto productDTO) Product {
	p := Product{
		ID:            dto.ID,
		Name:          i18n.NewText(dto.Name, dto.NameEn),
		Description:   i18n.NewText(dto.Description, dto.DescriptionEn),
		Price:         dto.Price,
		OriginalPrice: dto.OriginalPrice,
		CategoryID:    dto.CategoryID,
		Images:        dto.ImageURLs,
		Stock:         dto.Stock,
		Rating:        dto.Rating,
		SalesCount:    dto.SalesCount,
		Tags:          dto.Tags,
		DeliveryTime:  i18n.NewText("当天送达", "Same Day"),
		IsActive:      dto.IsActive,
		IsOnSale:      dto.IsOnSale,
	}
	if dto.Category != nil {
		p.CategoryName = dto.Category.Name
	}
	if p.OriginalPrice == 0 {
		p.OriginalPrice = p.Price
	}
	if len(dto.ImageURLs) > 0 {
		p.Image = dto.ImageURLs[0]
	} else {
		p.Image = DefaultImage
	}
	if p.Rating == 0 {
		p.Rating = 4.5
	}
	return p
}

func normalizeProducts(dtos []productDTO) []Product {
	out := make([]Product, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, normalizeProduct(dto))
	}
	return out
}

func normalizeCategory(dto categoryDTO) Category {
	c := Category{
		ID:          dto.ID,
		Slug:        dto.Slug,
		Name:        i18n.NewText(dto.Name, dto.NameEn),
		Description: i18n.NewText(dto.Description, dto.DescriptionEn),
		ParentID:    dto.ParentID,
		SortOrder:   dto.SortOrder,
	}
	for _, child := range dto.Children {
		c.Children = append(c.Children, normalizeCategory(child))
	}
	return c
}
