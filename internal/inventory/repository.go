package inventory

import (
	"context"
	"database/sql"
	"errors"

	"github.com/joao-fontenele/order-intake/internal/domain"
)

type InventoryRepository struct {
	db *sql.DB
}

func NewInventoryRepository(db *sql.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) ListAll(ctx context.Context) ([]domain.StockLevel, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT item_number, description, available, reserved
		FROM items
		ORDER BY item_number
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []domain.StockLevel{}
	for rows.Next() {
		var stock domain.StockLevel
		if err := rows.Scan(&stock.ItemNumber, &stock.Description, &stock.Available, &stock.Reserved); err != nil {
			return nil, err
		}
		items = append(items, stock)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// GetStock returns nil, nil for an unknown item number.
func (r *InventoryRepository) GetStock(ctx context.Context, itemNumber int) (*domain.StockLevel, error) {
	stock := &domain.StockLevel{}

	err := r.db.QueryRowContext(ctx, `
		SELECT item_number, description, available, reserved
		FROM items
		WHERE item_number = $1
	`, itemNumber).Scan(&stock.ItemNumber, &stock.Description, &stock.Available, &stock.Reserved)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return stock, nil
}
