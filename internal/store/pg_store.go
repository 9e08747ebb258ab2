package store

import (
	"context"
	"errors"

	cerrors "github.com/catalog-kit/product-catalog/internal/errors"
	"github.com/catalog-kit/product-catalog/internal/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	sqlInsert = `INSERT INTO products (category, name)
	             VALUES ($1, $2)
	             RETURNING id, category, name, created_at`
	sqlFindByID = `SELECT id, category, name, created_at
	               FROM products WHERE id = $1`
	sqlReplace = `UPDATE products SET category = $2, name = $3
	              WHERE id = $1
	              RETURNING id, category, name, created_at`
	sqlDelete          = `DELETE FROM products WHERE id = $1`
	sqlCountByCategory = `SELECT count(*) FROM products WHERE category = $1`
	sqlFindByCategory  = `SELECT id, category, name, created_at
	                     FROM products WHERE category = $1
	                     ORDER BY id
	                     LIMIT $2 OFFSET $3`
	sqlDistinctCategories = `SELECT DISTINCT category FROM products ORDER BY category`
)

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// Insert persists a new product and returns its snapshot.
func (p *PgStore) Insert(ctx context.Context, category, name string) (*Product, error) {
	var product Product
	err := p.db.QueryRow(ctx, sqlInsert, category, name).
		Scan(&product.ID, &product.Category, &product.Name, &product.CreatedAt)
	if err != nil {
		return nil, &cerrors.StorageError{Op: "insert product", Err: err}
	}
	return &product, nil
}

// FindByID retrieves a product by its unique identifier.
// Returns NotFoundError if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	var product Product
	err := p.db.QueryRow(ctx, sqlFindByID, id).
		Scan(&product.ID, &product.Category, &product.Name, &product.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &cerrors.NotFoundError{ID: id}
		}
		return nil, &cerrors.StorageError{Op: "find product by ID", Err: err}
	}
	return &product, nil
}

// Replace overwrites both mutable fields of an existing row in one UPDATE.
// The single statement is the lost-update guard: concurrent replacers
// serialize on the row lock and each writes its full field set.
func (p *PgStore) Replace(ctx context.Context, id uuid.UUID, category, name string) (*Product, error) {
	var product Product
	err := p.db.QueryRow(ctx, sqlReplace, id, category, name).
		Scan(&product.ID, &product.Category, &product.Name, &product.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &cerrors.NotFoundError{ID: id}
		}
		return nil, &cerrors.StorageError{Op: "replace product", Err: err}
	}
	return &product, nil
}

// DeleteByID removes a product by its unique identifier. Existence is
// checked via the affected-row count of the delete itself.
func (p *PgStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tag, err := p.db.Exec(ctx, sqlDelete, id)
	if err != nil {
		return &cerrors.StorageError{Op: "delete product by ID", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &cerrors.NotFoundError{ID: id}
	}
	return nil
}

// QueryByCategory returns one page of products in the given category.
// Count and page select run in one repeatable-read transaction so items
// and totals come from the same snapshot.
func (p *PgStore) QueryByCategory(ctx context.Context, category string, page pagination.PageRequest) (*PageResult, error) {
	var result *PageResult

	txErr := p.withTransaction(ctx, func(tx pgx.Tx) error {
		var total int64
		if err := tx.QueryRow(ctx, sqlCountByCategory, category).Scan(&total); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, sqlFindByCategory, category, page.Size, page.Offset())
		if err != nil {
			return err
		}
		defer rows.Close()

		items := make([]Product, 0, page.Size)
		for rows.Next() {
			var product Product
			if err := rows.Scan(&product.ID, &product.Category, &product.Name, &product.CreatedAt); err != nil {
				return err
			}
			items = append(items, product)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		result = &PageResult{
			Items:         items,
			TotalElements: total,
			TotalPages:    TotalPages(total, page.Size),
			Page:          page.Page,
		}
		return nil
	})
	if txErr != nil {
		return nil, &cerrors.StorageError{Op: "query products by category", Err: txErr}
	}
	return result, nil
}

// DistinctCategories returns the category values currently in use.
func (p *PgStore) DistinctCategories(ctx context.Context) ([]string, error) {
	rows, err := p.db.Query(ctx, sqlDistinctCategories)
	if err != nil {
		return nil, &cerrors.StorageError{Op: "list distinct categories", Err: err}
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, &cerrors.StorageError{Op: "list distinct categories", Err: err}
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, &cerrors.StorageError{Op: "list distinct categories", Err: err}
	}
	return categories, nil
}

// withTransaction runs fn inside a repeatable-read transaction.
func (p *PgStore) withTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
