package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/port"
)

type orderRepository struct {
	db DB
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{db: pool}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{db: tx}
}

type orderRow struct {
	ID                string
	OwnerID           string
	TotalAmount       string
	TotalCurrency     string
	ShippingAddressID string
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type orderItemRow struct {
	ProductID     string
	Quantity      int32
	PriceAmount   string
	PriceCurrency string
}

const selectOrderColumns = `id::text, owner_id, total_amount::text, total_currency, shipping_address_id::text, status, created_at, updated_at`

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	order, err := withTx(ctx, r.db, func(tx pgx.Tx) (domain.Order, error) {
		row := tx.QueryRow(ctx, `SELECT `+selectOrderColumns+` FROM orders WHERE id = $1`, orderID.String())

		dbOrder, err := scanOrderRow(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return o, fmt.Errorf("order[%s]: %w", orderID, domain.ErrNotFound)
			}
			return o, fmt.Errorf("scanOrderRow: %w", err)
		}

		items, err := getOrderItems(ctx, tx, orderID)
		if err != nil {
			return o, fmt.Errorf("getOrderItems: %w", err)
		}

		domainOrder, err := mapOrderRowToDomain(dbOrder, items)
		if err != nil {
			return o, fmt.Errorf("mapOrderRowToDomain: %w", err)
		}

		return domainOrder, nil
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return order, nil
}

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error) {
	if len(order.Items) == 0 {
		return uuid.Nil, errors.New("no items in order")
	}
	if order.ShippingAddressID == uuid.Nil {
		return uuid.Nil, errors.New("shipping address is empty")
	}

	status := order.Status
	if status == "" {
		status = domain.OrderStatusProcessing
	}

	orderID, err := withTx(ctx, r.db, func(tx pgx.Tx) (uuid.UUID, error) {
		var idStr string

		err := tx.QueryRow(ctx,
			`INSERT INTO orders (owner_id, total_amount, total_currency, shipping_address_id, status)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id::text`,
			order.OwnerID, order.Total.Amount.String(), order.Total.Currency.String(),
			order.ShippingAddressID.String(), string(status),
		).Scan(&idStr)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert order: %w", err)
		}

		orderID, err := uuid.Parse(idStr)
		if err != nil {
			return uuid.Nil, fmt.Errorf("uuid.Parse[%s]: %w", idStr, err)
		}

		// TODO: batch the item inserts
		for _, item := range order.Items {
			if _, err := tx.Exec(ctx,
				`INSERT INTO order_items (order_id, product_id, quantity, price_amount, price_currency)
				 VALUES ($1, $2, $3, $4, $5)`,
				orderID.String(), item.ProductID.String(), item.Quantity,
				item.UnitPrice.Amount.String(), item.UnitPrice.Currency.String(),
			); err != nil {
				return uuid.Nil, fmt.Errorf("insert order item: %w", err)
			}
		}

		return orderID, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("withTx: %w", err)
	}

	return orderID, nil
}

func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	ids := nilSliceIfEmpty(lo.Map(filter.IDs, func(id uuid.UUID, _ int) string { return id.String() }))
	ownerIDs := nilSliceIfEmpty(filter.OwnerIDs)
	statuses := nilSliceIfEmpty(lo.Map(filter.Statuses, func(s domain.OrderStatus, _ int) string { return string(s) }))

	var createdAfter, createdBefore *time.Time
	if filter.CreatedAt != nil {
		createdAfter = filter.CreatedAt.After
		createdBefore = filter.CreatedAt.Before
	}

	rows, err := r.db.Query(ctx,
		`SELECT o.id::text, o.owner_id, o.total_amount::text, o.total_currency, o.shipping_address_id::text, o.status, o.created_at, o.updated_at,
		        oi.product_id::text, oi.quantity, oi.price_amount::text, oi.price_currency
		   FROM orders o
		   JOIN order_items oi ON oi.order_id = o.id
		  WHERE ($1::uuid[] IS NULL OR o.id = ANY($1::uuid[]))
		    AND ($2::text[] IS NULL OR o.owner_id = ANY($2::text[]))
		    AND ($3::text[] IS NULL OR o.status = ANY($3::text[]))
		    AND ($4::timestamptz IS NULL OR o.created_at >= $4)
		    AND ($5::timestamptz IS NULL OR o.created_at <= $5)
		  ORDER BY o.created_at DESC, o.id`,
		ids, ownerIDs, statuses, createdAfter, createdBefore)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	// Group item rows under their order, preserving the query's order.
	orderMap := make(map[string]*domain.Order)
	var orderedIDs []string

	for rows.Next() {
		var (
			oRow orderRow
			iRow orderItemRow
		)

		if err := rows.Scan(
			&oRow.ID, &oRow.OwnerID, &oRow.TotalAmount, &oRow.TotalCurrency,
			&oRow.ShippingAddressID, &oRow.Status, &oRow.CreatedAt, &oRow.UpdatedAt,
			&iRow.ProductID, &iRow.Quantity, &iRow.PriceAmount, &iRow.PriceCurrency,
		); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		if _, exists := orderMap[oRow.ID]; !exists {
			order, err := mapOrderRowToDomain(oRow, nil)
			if err != nil {
				return nil, fmt.Errorf("mapOrderRowToDomain: %w", err)
			}
			orderMap[oRow.ID] = &order
			orderedIDs = append(orderedIDs, oRow.ID)
		}

		item, err := mapOrderItemRowToDomain(iRow)
		if err != nil {
			return nil, fmt.Errorf("mapOrderItemRowToDomain: %w", err)
		}

		orderMap[oRow.ID].Items = append(orderMap[oRow.ID].Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	result := make([]domain.Order, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		result = append(result, *orderMap[id])
	}

	return result, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}
	if status == "" {
		return fmt.Errorf("status is empty")
	}

	if _, err := domain.ToOrderStatus(string(status)); err != nil {
		return fmt.Errorf("domain.ToOrderStatus[%s]: %w", status, err)
	}

	// Statuses an order must currently hold for the target to be legal.
	sources := domain.TransitionSources(status)
	if len(sources) == 0 {
		return fmt.Errorf("no transition leads to status[%s]: %w", status, domain.ErrInvalidTransition)
	}
	sourceStrs := lo.Map(sources, func(s domain.OrderStatus, _ int) string { return string(s) })

	cmdTag, err := r.db.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1 AND status = ANY($3::text[])`,
		orderID.String(), string(status), sourceStrs)
	if err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	if cmdTag.RowsAffected() > 0 {
		return nil
	}

	// Zero rows: either the order is missing or its current status forbids the move.
	var current string
	if err := r.db.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, orderID.String()).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("order[%s]: %w", orderID, domain.ErrNotFound)
		}
		return fmt.Errorf("db.QueryRow: %w", err)
	}

	return fmt.Errorf("order[%s] %s -> %s: %w", orderID, current, status, domain.ErrInvalidTransition)
}

func getOrderItems(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := tx.Query(ctx,
		`SELECT product_id::text, quantity, price_amount::text, price_currency
		   FROM order_items WHERE order_id = $1`,
		orderID.String())
	if err != nil {
		return nil, fmt.Errorf("tx.Query: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var row orderItemRow
		if err := rows.Scan(&row.ProductID, &row.Quantity, &row.PriceAmount, &row.PriceCurrency); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		item, err := mapOrderItemRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapOrderItemRowToDomain: %w", err)
		}

		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return items, nil
}

func scanOrderRow(row pgx.Row) (orderRow, error) {
	var r orderRow

	err := row.Scan(&r.ID, &r.OwnerID, &r.TotalAmount, &r.TotalCurrency,
		&r.ShippingAddressID, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return r, err
	}

	return r, nil
}

func mapOrderRowToDomain(row orderRow, items []domain.OrderItem) (domain.Order, error) {
	var o domain.Order

	orderID, err := uuid.Parse(row.ID)
	if err != nil {
		return o, fmt.Errorf("uuid.Parse[%s]: %w", row.ID, err)
	}

	addressID, err := uuid.Parse(row.ShippingAddressID)
	if err != nil {
		return o, fmt.Errorf("uuid.Parse[%s]: %w", row.ShippingAddressID, err)
	}

	total, err := mapMoney(row.TotalAmount, row.TotalCurrency)
	if err != nil {
		return o, fmt.Errorf("mapMoney: %w", err)
	}

	status, err := domain.ToOrderStatus(row.Status)
	if err != nil {
		return o, fmt.Errorf("domain.ToOrderStatus[%s]: %w", row.Status, err)
	}

	return domain.Order{
		ID:                orderID,
		OwnerID:           row.OwnerID,
		Items:             items,
		Total:             total,
		ShippingAddressID: addressID,
		Status:            status,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}, nil
}

func mapOrderItemRowToDomain(row orderItemRow) (domain.OrderItem, error) {
	productID, err := uuid.Parse(row.ProductID)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("uuid.Parse[%s]: %w", row.ProductID, err)
	}

	price, err := mapMoney(row.PriceAmount, row.PriceCurrency)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("mapMoney: %w", err)
	}

	return domain.OrderItem{
		ProductID: productID,
		Quantity:  row.Quantity,
		UnitPrice: price,
	}, nil
}

func nilSliceIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
