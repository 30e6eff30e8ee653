package models

type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Image         string        `json:"image"`
	SubCategories []SubCategory `json:"subCategories"`
}

type SubCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
