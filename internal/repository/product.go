package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/openinventory/inventory-admin/internal/model"
	"github.com/openinventory/inventory-admin/internal/storage/db"
)

var (
	// ErrProductNotFound is returned when no product row matches the given id.
	ErrProductNotFound = errors.New("product not found")

	// ErrInsufficientStock is returned by SellProduct when the conditional
	// decrement matches no row, either because stock < quantity or because
	// the product does not exist.
	ErrInsufficientStock = errors.New("insufficient stock")
)

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	Insert(ctx context.Context, product model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (model.Product, error)
	ListAll(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, product model.Product) error
	DeleteByID(ctx context.Context, id uuid.UUID) (model.Product, error)
	SellProduct(ctx context.Context, id uuid.UUID, quantity int) (model.Product, error)
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, description, category, price, stock, sold, image_url, created_at, updated_at`

func (r productRepository) Insert(ctx context.Context, product model.Product) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO products (id, name, description, category, price, stock, sold, image_url, created_at, updated_at)
		VALUES (@id, @name, @description, @category, @price, @stock, @sold, @image_url, @created_at, @updated_at)
	`, pgx.NamedArgs{
		"id":          product.ID,
		"name":        product.Name,
		"description": product.Description,
		"category":    product.Category,
		"price":       product.Price,
		"stock":       product.Stock,
		"sold":        product.Sold,
		"image_url":   product.ImageURL,
		"created_at":  product.CreatedAt,
		"updated_at":  product.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

func (r productRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Product, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = @id
	`, pgx.NamedArgs{"id": id})

	product, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, ErrProductNotFound
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("find product by id: %w", err)
	}

	return product, nil
}

func (r productRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list all products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

func (r productRepository) Update(ctx context.Context, product model.Product) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET name        = @name,
			description = @description,
			category    = @category,
			price       = @price,
			stock       = @stock,
			sold        = @sold,
			image_url   = @image_url,
			updated_at  = @updated_at
		WHERE id = @id
	`, pgx.NamedArgs{
		"id":          product.ID,
		"name":        product.Name,
		"description": product.Description,
		"category":    product.Category,
		"price":       product.Price,
		"stock":       product.Stock,
		"sold":        product.Sold,
		"image_url":   product.ImageURL,
		"updated_at":  product.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r productRepository) DeleteByID(ctx context.Context, id uuid.UUID) (model.Product, error) {
	row := r.db.QueryRow(ctx, `
		DELETE FROM products
		WHERE id = @id
		RETURNING `+productColumns+`
	`, pgx.NamedArgs{"id": id})

	product, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, ErrProductNotFound
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("delete product by id: %w", err)
	}

	return product, nil
}

// SellProduct decrements stock and increments sold in a single conditional
// statement, so stock can never go negative even under concurrent sales.
func (r productRepository) SellProduct(ctx context.Context, id uuid.UUID, quantity int) (model.Product, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE products
		SET stock      = stock - @quantity,
			sold       = sold + @quantity,
			updated_at = now()
		WHERE id = @id AND stock >= @quantity
		RETURNING `+productColumns+`
	`, pgx.NamedArgs{
		"id":       id,
		"quantity": quantity,
	})

	product, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, ErrInsufficientStock
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("sell product: %w", err)
	}

	return product, nil
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Category,
		&p.Price,
		&p.Stock,
		&p.Sold,
		&p.ImageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
