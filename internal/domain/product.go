package domain

type ProductVariant struct {
	Size  float64 `json:"size"`
	Color string  `json:"color"`
	Stock int     `json:"stock"`
}

type Product struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Brand       string           `json:"brand"`
	Price       float64          `json:"price"`
	Description string           `json:"description"`
	ImageURL    string           `json:"image_url"`
	Category    string           `json:"category"`
	Featured    bool             `json:"featured"`
	Variants    []ProductVariant `json:"variants"`
}

// InventoryItem is the admin view of a single product variant.
type InventoryItem struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	SKU         string  `json:"sku"`
	Color       string  `json:"color"`
	Size        float64 `json:"size"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"image_url"`
}
