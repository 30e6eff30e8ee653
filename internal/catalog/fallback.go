package catalog

import "verideal_back_end/internal/models"

// FallbackCategories is served when the remote category list is unreachable.
func FallbackCategories() []models.Category {
	return []models.Category{
		{
			ID:    "electronics",
			Name:  "Electronics",
			Image: "/images/categories/electronics.jpg",
			SubCategories: []models.SubCategory{
				{ID: "smartphones", Name: "Smartphones"},
				{ID: "laptops", Name: "Laptops"},
				{ID: "accessories", Name: "Accessories"},
			},
		},
		{
			ID:    "clothing",
			Name:  "Clothing",
			Image: "/images/categories/clothing.jpg",
			SubCategories: []models.SubCategory{
				{ID: "mens", Name: "Men's Clothing"},
				{ID: "womens", Name: "Women's Clothing"},
			},
		},
		{
			ID:    "beauty",
			Name:  "Beauty",
			Image: "/images/categories/beauty.jpg",
			SubCategories: []models.SubCategory{
				{ID: "skincare", Name: "Skincare"},
				{ID: "makeup", Name: "Makeup"},
				{ID: "fragrance", Name: "Fragrance"},
			},
		},
		{
			ID:    "home",
			Name:  "Home & Kitchen",
			Image: "/images/categories/home.jpg",
			SubCategories: []models.SubCategory{
				{ID: "furniture", Name: "Furniture"},
				{ID: "decor", Name: "Home Decor"},
				{ID: "kitchenware", Name: "Kitchenware"},
			},
		},
	}
}
