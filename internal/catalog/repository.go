package catalog

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"modernc.org/sqlite"
)

// casefold exposes Unicode case folding to SQL, since LOWER() only folds ASCII.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("casefold", 1, func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		switch v := args[0].(type) {
		case nil:
			return nil, nil
		case string:
			return fold(v), nil
		case []byte:
			return fold(string(v)), nil
		default:
			return nil, fmt.Errorf("casefold: unsupported argument %T", v)
		}
	})
}

const searchQuery = `
	SELECT id, name, description, price, image_url
	FROM products
	WHERE ? = ''
	   OR instr(casefold(name), ?) > 0
	   OR instr(casefold(description), ?) > 0
	ORDER BY id
`

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", dbPath, err)
	}

	// an in-memory database lives only as long as its single connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: ping %s: %w", dbPath, err)
	}

	return &Repository{db: db}, nil
}

// RunMigrations creates and seeds the products table. Already applied versions are skipped.
func (r *Repository) RunMigrations(migrationsPath string) error {
	dbDriver, err := sqlitemigrate.WithInstance(r.db, &sqlitemigrate.Config{
		MigrationsTable: "catalog_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("catalog: migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("catalog: load migrations from %s: %w", migrationsPath, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("catalog: apply migrations: %w", err)
	}
	return nil
}

// SearchProducts returns products whose folded name or description contains
// the folded query. An empty query matches every product.
func (r *Repository) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	needle := fold(query)

	rows, err := r.db.QueryContext(ctx, searchQuery, needle, needle, needle)
	if err != nil {
		return nil, fmt.Errorf("catalog: search %q: %w", query, err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL); err != nil {
			return nil, fmt.Errorf("catalog: scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: search %q: %w", query, err)
	}

	return products, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
