package catalog

import "github.com/example/flowershop/internal/i18n"

// FallbackProducts returns the built-in sample catalog, served when the
// backend is unreachable. The slice is freshly allocated so callers may
// mutate their copy.
func FallbackProducts() []Product {
	return []Product{
		{
			ID:            "1",
			Name:          i18n.Text{"zh": "红玫瑰", "en": "Red Roses"},
			Description:   i18n.Text{"zh": "送给特别的人的美丽红玫瑰", "en": "Beautiful red roses for your special someone"},
			Price:         2999,
			OriginalPrice: 3999,
			CategoryID:    "roses",
			CategoryName:  "roses",
			Image:         "/images/red_roses.jpg",
			Images:        []string{"/images/red_roses.jpg"},
			Stock:         50,
			Rating:        4.8,
			Tags:          []string{"romantic", "valentine"},
			DeliveryTime:  i18n.Text{"zh": "当天送达", "en": "Same Day"},
			IsActive:      true,
			IsOnSale:      true,
		},
		{
			ID:            "2",
			Name:          i18n.Text{"zh": "向日葵花束", "en": "Sunflower Bouquet"},
			Description:   i18n.Text{"zh": "明亮欢快的向日葵花束", "en": "Bright and cheerful sunflower arrangement"},
			Price:         2499,
			OriginalPrice: 3499,
			CategoryID:    "sunflowers",
			CategoryName:  "sunflowers",
			Image:         "/images/sunflowers.jpg",
			Images:        []string{"/images/sunflowers.jpg"},
			Stock:         30,
			Rating:        4.7,
			Tags:          []string{"cheerful", "bright"},
			DeliveryTime:  i18n.Text{"zh": "当天送达", "en": "Same Day"},
			IsActive:      true,
			IsOnSale:      true,
		},
		{
			ID:            "3",
			Name:          i18n.Text{"zh": "混合花艺", "en": "Mixed Flower Arrangement"},
			Description:   i18n.Text{"zh": "精美的混合花艺作品", "en": "Assorted flowers in a beautiful arrangement"},
			Price:         3999,
			OriginalPrice: 4999,
			CategoryID:    "arrangements",
			CategoryName:  "arrangements",
			Image:         "/images/mixed_arrangement.jpg",
			Images:        []string{"/images/mixed_arrangement.jpg"},
			Stock:         25,
			Rating:        4.9,
			Tags:          []string{"mixed", "arrangement"},
			DeliveryTime:  i18n.Text{"zh": "次日送达", "en": "Next Day"},
			IsActive:      true,
			IsOnSale:      true,
		},
		{
			ID:            "4",
			Name:          i18n.Text{"zh": "兰花盆栽", "en": "Orchid Plant"},
			Description:   i18n.Text{"zh": "装饰花盆中的优雅兰花", "en": "Elegant orchid plant in decorative pot"},
			Price:         4599,
			OriginalPrice: 5599,
			CategoryID:    "plants",
			CategoryName:  "plants",
			Image:         "/images/orchid.jpg",
			Images:        []string{"/images/orchid.jpg"},
			Stock:         15,
			Rating:        4.6,
			Tags:          []string{"plant", "elegant"},
			DeliveryTime:  i18n.Text{"zh": "2-3天送达", "en": "2-3 Days"},
			IsActive:      true,
			IsOnSale:      true,
		},
		{
			ID:            "5",
			Name:          i18n.Text{"zh": "百合花束", "en": "Lily Bouquet"},
			Description:   i18n.Text{"zh": "纯白百合花束", "en": "Pure white lily bouquet"},
			Price:         3499,
			OriginalPrice: 4499,
			CategoryID:    "lilies",
			CategoryName:  "lilies",
			Image:         "/images/lilies.jpg",
			Images:        []string{"/images/lilies.jpg"},
			Stock:         20,
			Rating:        4.5,
			Tags:          []string{"white", "pure"},
			DeliveryTime:  i18n.Text{"zh": "当天送达", "en": "Same Day"},
			IsActive:      true,
			IsOnSale:      true,
		},
	}
}

// FallbackCategories derives the offline category list from the sample
// catalog.
func FallbackCategories() []Category {
	names := map[string]i18n.Text{
		"roses":        {"zh": "玫瑰", "en": "Roses"},
		"sunflowers":   {"zh": "向日葵", "en": "Sunflowers"},
		"arrangements": {"zh": "花艺", "en": "Arrangements"},
		"plants":       {"zh": "盆栽", "en": "Plants"},
		"lilies":       {"zh": "百合", "en": "Lilies"},
	}
	order := []string{"roses", "sunflowers", "arrangements", "plants", "lilies"}

	out := make([]Category, 0, len(order))
	for i, slug := range order {
		out = append(out, Category{
			ID:        slug,
			Slug:      slug,
			Name:      names[slug],
			SortOrder: i,
		})
	}
	return out
}
