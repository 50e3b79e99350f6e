package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/solestride/orders-service/internal/domain"
)

// InventoryView flattens products into one row per variant, each tagged
// with a derived SKU of the form SKU-{productID}-{COLOR}-{size}.
func InventoryView(products []domain.Product) []domain.InventoryItem {
	items := make([]domain.InventoryItem, 0, len(products))
	for _, product := range products {
		for _, variant := range product.Variants {
			items = append(items, domain.InventoryItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				SKU:         variantSKU(product.ID, variant),
				Color:       variant.Color,
				Size:        variant.Size,
				Stock:       variant.Stock,
				ImageURL:    product.ImageURL,
			})
		}
	}
	return items
}

func variantSKU(productID int64, variant domain.ProductVariant) string {
	color := strings.ToUpper(strings.ReplaceAll(variant.Color, " ", ""))
	size := strings.ReplaceAll(strconv.FormatFloat(variant.Size, 'f', -1, 64), ".", "_")
	return fmt.Sprintf("SKU-%d-%s-%s", productID, color, size)
}
