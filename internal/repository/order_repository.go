package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lightbox/internal/domain/models"
	"lightbox/internal/storage"
	"lightbox/internal/storage/postgresql"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var orderColumns = []string{
	"id",
	"gallery_id",
	"customer_name",
	"customer_email",
	"customer_phone",
	"shipping_address1",
	"shipping_address2",
	"shipping_city",
	"shipping_state",
	"shipping_zip",
	"shipping_country",
	"subtotal",
	"tax",
	"shipping",
	"total",
	"payment_status",
	"fulfillment_status",
	"payment_session_id",
	"payment_session_url",
	"idempotency_key",
	"created_at",
	"updated_at",
}

var orderItemColumns = []string{
	"id",
	"order_id",
	"photo_id",
	"photo_url",
	"photo_filename",
	"product_name",
	"product_size",
	"variant_id",
	"quantity",
	"unit_price",
	"line_total",
}

type OrderRepo struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

func NewOrderRepo(db *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateOrder пишет заказ и строки одной транзакцией: либо все, либо ничего.
// Повтор idempotency_key возвращает storage.ErrAlreadyExists
func (r *OrderRepo) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	const op = "repository.OrderRepo.CreateOrder"

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	err := postgresql.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		query, args, err := r.sb.Insert("orders").
			Columns(
				"id",
				"gallery_id",
				"customer_name",
				"customer_email",
				"customer_phone",
				"shipping_address1",
				"shipping_address2",
				"shipping_city",
				"shipping_state",
				"shipping_zip",
				"shipping_country",
				"subtotal",
				"tax",
				"shipping",
				"total",
				"payment_status",
				"fulfillment_status",
				"idempotency_key",
			).
			Values(
				order.ID,
				order.GalleryID,
				order.Customer.Name,
				order.Customer.Email,
				order.Customer.Phone,
				order.Shipping.Address1,
				order.Shipping.Address2,
				order.Shipping.City,
				order.Shipping.State,
				order.Shipping.Zip,
				order.Shipping.Country,
				order.Subtotal,
				order.Tax,
				order.ShippingCost,
				order.Total,
				order.PaymentStatus,
				order.FulfillmentStatus,
				order.IdempotencyKey,
			).
			Suffix("RETURNING created_at, updated_at").
			ToSql()
		if err != nil {
			return err
		}

		if err := tx.QueryRow(ctx, query, args...).Scan(&order.CreatedAt, &order.UpdatedAt); err != nil {
			return err
		}

		if len(order.Items) == 0 {
			return nil
		}

		items := r.sb.Insert("order_items").Columns(orderItemColumns...)
		for i := range order.Items {
			it := &order.Items[i]
			if it.ID == uuid.Nil {
				it.ID = uuid.New()
			}
			it.OrderID = order.ID

			items = items.Values(
				it.ID,
				it.OrderID,
				it.PhotoID,
				it.PhotoURL,
				it.PhotoFilename,
				it.ProductName,
				it.ProductSize,
				it.VariantID,
				it.Quantity,
				it.UnitPrice,
				it.LineTotal,
			)
		}

		query, args, err = items.ToSql()
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, query, args...)
		return err
	})
	if err != nil {
		if postgresql.IsUniqueViolation(err) {
			return models.Order{}, fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	return order, nil
}

// AttachPaymentSession сохраняет id и ссылку платежной сессии
func (r *OrderRepo) AttachPaymentSession(ctx context.Context, orderID uuid.UUID, sessionID, sessionURL string) error {
	const op = "repository.OrderRepo.AttachPaymentSession"

	query, args, err := r.sb.Update("orders").
		Set("payment_session_id", sessionID).
		Set("payment_session_url", sessionURL).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": orderID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return r.execOne(ctx, op, query, args)
}

func (r *OrderRepo) SetPaymentStatus(ctx context.Context, orderID uuid.UUID, status models.PaymentStatus) error {
	const op = "repository.OrderRepo.SetPaymentStatus"

	query, args, err := r.sb.Update("orders").
		Set("payment_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": orderID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return r.execOne(ctx, op, query, args)
}

// GetOrderByIDAndSession ищет заказ по обоим идентификаторам сразу
func (r *OrderRepo) GetOrderByIDAndSession(ctx context.Context, orderID uuid.UUID, sessionID string) (models.Order, error) {
	const op = "repository.OrderRepo.GetOrderByIDAndSession"

	return r.getWithItems(ctx, op, squirrel.Eq{"id": orderID, "payment_session_id": sessionID})
}

func (r *OrderRepo) GetOrderByIdempotencyKey(ctx context.Context, key string) (models.Order, error) {
	const op = "repository.OrderRepo.GetOrderByIdempotencyKey"

	return r.getWithItems(ctx, op, squirrel.Eq{"idempotency_key": key})
}

func (r *OrderRepo) getWithItems(ctx context.Context, op string, where squirrel.Eq) (models.Order, error) {
	query, args, err := r.sb.Select(orderColumns...).
		From("orders").
		Where(where).
		ToSql()
	if err != nil {
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	order, err := scanOrder(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, fmt.Errorf("%s: %w", op, storage.ErrOrderNotFound)
		}
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	items, err := r.items(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	order.Items = items[order.ID]
	if order.Items == nil {
		order.Items = []models.OrderItem{}
	}

	return order, nil
}

func (r *OrderRepo) ListOrdersByGallery(ctx context.Context, galleryID uuid.UUID) ([]models.Order, error) {
	const op = "repository.OrderRepo.ListOrdersByGallery"

	query, args, err := r.sb.Select(orderColumns...).
		From("orders").
		Where(squirrel.Eq{"gallery_id": galleryID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	orders := []models.Order{}
	var ids []uuid.UUID
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}

	return orders, nil
}

// FailStaleOrders переводит в failed pending-заказы без сессии, созданные раньше createdBefore
func (r *OrderRepo) FailStaleOrders(ctx context.Context, createdBefore time.Time) (int64, error) {
	const op = "repository.OrderRepo.FailStaleOrders"

	query, args, err := r.sb.Update("orders").
		Set("payment_status", models.PaymentFailed).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"payment_status": models.PaymentPending, "payment_session_id": nil}).
		Where(squirrel.Lt{"created_at": createdBefore}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected(), nil
}

func (r *OrderRepo) items(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]models.OrderItem, error) {
	query, args, err := r.sb.Select(orderItemColumns...).
		From("order_items").
		Where(squirrel.Eq{"order_id": orderIDs}).
		OrderBy("order_id", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]models.OrderItem, len(orderIDs))
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(
			&it.ID,
			&it.OrderID,
			&it.PhotoID,
			&it.PhotoURL,
			&it.PhotoFilename,
			&it.ProductName,
			&it.ProductSize,
			&it.VariantID,
			&it.Quantity,
			&it.UnitPrice,
			&it.LineTotal,
		); err != nil {
			return nil, err
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}

	return out, rows.Err()
}

func (r *OrderRepo) execOne(ctx context.Context, op, query string, args []interface{}) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrOrderNotFound)
	}

	return nil
}

func scanOrder(row pgx.Row) (models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID,
		&o.GalleryID,
		&o.Customer.Name,
		&o.Customer.Email,
		&o.Customer.Phone,
		&o.Shipping.Address1,
		&o.Shipping.Address2,
		&o.Shipping.City,
		&o.Shipping.State,
		&o.Shipping.Zip,
		&o.Shipping.Country,
		&o.Subtotal,
		&o.Tax,
		&o.ShippingCost,
		&o.Total,
		&o.PaymentStatus,
		&o.FulfillmentStatus,
		&o.PaymentSessionID,
		&o.PaymentSessionURL,
		&o.IdempotencyKey,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}
