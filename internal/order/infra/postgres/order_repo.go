package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	cartdomain "github.com/webshop-go/shop-backend/internal/cart/domain"
	"github.com/webshop-go/shop-backend/internal/order/domain"
)

type OrderRepo struct {
	db *sqlx.DB
}

func NewOrderRepo(db *sqlx.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

type orderRow struct {
	ID        uuid.UUID `db:"id"`
	UserID    string    `db:"user_id"`
	CartID    uuid.UUID `db:"cart_id"`
	Payment   []byte    `db:"payment"`
	Delivery  []byte    `db:"delivery"`
	Comments  string    `db:"comments"`
	Status    string    `db:"status"`
	Total     float64   `db:"total"`
	Items     []byte    `db:"items"`
	CreatedAt time.Time `db:"created_at"`
}

// Create persists the order snapshot. Items, payment and delivery are stored
// as jsonb documents: orders are terminal artifacts read back whole, never
// queried by line item.
func (r *OrderRepo) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	cartUUID, err := uuid.Parse(order.CartID)
	if err != nil {
		return domain.Order{}, errors.Wrap(err, "parse cart id")
	}

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return domain.Order{}, errors.Wrap(err, "marshal items")
	}
	paymentJSON, err := json.Marshal(order.Payment)
	if err != nil {
		return domain.Order{}, errors.Wrap(err, "marshal payment")
	}
	deliveryJSON, err := json.Marshal(order.Delivery)
	if err != nil {
		return domain.Order{}, errors.Wrap(err, "marshal delivery")
	}

	var row orderRow
	err = r.db.GetContext(ctx, &row, `
		INSERT INTO orders (id, user_id, cart_id, payment, delivery, comments, status, total, items)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, user_id, cart_id, payment, delivery, comments, status, total, items, created_at`,
		uuid.New(), order.UserID, cartUUID, paymentJSON, deliveryJSON,
		order.Comments, order.Status, order.Total, itemsJSON)
	if err != nil {
		return domain.Order{}, errors.Wrap(err, "insert order")
	}

	return toDomain(row)
}

func toDomain(row orderRow) (domain.Order, error) {
	var items []cartdomain.CartItem
	if err := json.Unmarshal(row.Items, &items); err != nil {
		return domain.Order{}, errors.Wrap(err, "unmarshal items")
	}
	var payment domain.Payment
	if err := json.Unmarshal(row.Payment, &payment); err != nil {
		return domain.Order{}, errors.Wrap(err, "unmarshal payment")
	}
	var delivery domain.Delivery
	if err := json.Unmarshal(row.Delivery, &delivery); err != nil {
		return domain.Order{}, errors.Wrap(err, "unmarshal delivery")
	}

	return domain.Order{
		ID:        row.ID.String(),
		UserID:    row.UserID,
		CartID:    row.CartID.String(),
		Items:     items,
		Payment:   payment,
		Delivery:  delivery,
		Comments:  row.Comments,
		Status:    row.Status,
		Total:     row.Total,
		CreatedAt: row.CreatedAt,
	}, nil
}
