// Package catalog owns product data: public listing and the
// administrative CRUD and inventory views. Orders only snapshot catalog
// fields at creation time; nothing here touches placed orders.
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/solestride/orders-service/internal/domain"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ProductFilter narrows List. Zero-valued fields are ignored.
type ProductFilter struct {
	Brand    string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO products (name, brand, price, description, image_url, category, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, product.Name, product.Brand, product.Price, product.Description,
		product.ImageURL, product.Category, product.Featured,
	).Scan(&product.ID)
	if err != nil {
		return err
	}

	if err := insertVariants(ctx, tx, product.ID, product.Variants); err != nil {
		return err
	}

	return tx.Commit()
}

// Update replaces the product row and its full variant set. Returns false
// without error when the product does not exist.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		UPDATE products
		SET name = $1, brand = $2, price = $3, description = $4, image_url = $5, category = $6, featured = $7
		WHERE id = $8
	`, product.Name, product.Brand, product.Price, product.Description,
		product.ImageURL, product.Category, product.Featured, product.ID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rowsAffected == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_variants WHERE product_id = $1`, product.ID); err != nil {
		return false, err
	}
	if err := insertVariants(ctx, tx, product.ID, product.Variants); err != nil {
		return false, err
	}

	return true, tx.Commit()
}

// Delete removes the product and its variants. Returns false without
// error when the product does not exist.
func (r *ProductRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// GetByID returns nil without error when no product has the given id.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	product := &domain.Product{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, brand, price, description, image_url, category, featured
		FROM products
		WHERE id = $1
	`, id).Scan(&product.ID, &product.Name, &product.Brand, &product.Price,
		&product.Description, &product.ImageURL, &product.Category, &product.Featured)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT size, color, stock
		FROM product_variants
		WHERE product_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var variant domain.ProductVariant
		if err := rows.Scan(&variant.Size, &variant.Color, &variant.Stock); err != nil {
			return nil, err
		}
		product.Variants = append(product.Variants, variant)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return product, nil
}

func (r *ProductRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	query := `
		SELECT id, name, brand, price, description, image_url, category, featured
		FROM products
		WHERE 1=1`
	var args []any

	if filter.Brand != "" {
		args = append(args, filter.Brand)
		query += fmt.Sprintf(" AND brand = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		query += fmt.Sprintf(" AND price >= $%d", len(args))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		query += fmt.Sprintf(" AND price <= $%d", len(args))
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	productMap := make(map[int64]*domain.Product)
	var productIDs []int64

	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(&product.ID, &product.Name, &product.Brand, &product.Price,
			&product.Description, &product.ImageURL, &product.Category, &product.Featured); err != nil {
			return nil, err
		}
		product.Variants = []domain.ProductVariant{}
		productMap[product.ID] = &product
		productIDs = append(productIDs, product.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(productIDs) == 0 {
		return []domain.Product{}, nil
	}

	variantRows, err := r.db.QueryContext(ctx, `
		SELECT product_id, size, color, stock
		FROM product_variants
		WHERE product_id = ANY($1)
		ORDER BY id
	`, pq.Array(productIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = variantRows.Close() }()

	for variantRows.Next() {
		var productID int64
		var variant domain.ProductVariant
		if err := variantRows.Scan(&productID, &variant.Size, &variant.Color, &variant.Stock); err != nil {
			return nil, err
		}
		product := productMap[productID]
		product.Variants = append(product.Variants, variant)
	}

	if err := variantRows.Err(); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(productIDs))
	for _, id := range productIDs {
		products = append(products, *productMap[id])
	}

	return products, nil
}

func insertVariants(ctx context.Context, tx *sql.Tx, productID int64, variants []domain.ProductVariant) error {
	for _, variant := range variants {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO product_variants (product_id, size, color, stock)
			VALUES ($1, $2, $3, $4)
		`, productID, variant.Size, variant.Color, variant.Stock)
		if err != nil {
			return err
		}
	}
	return nil
}
