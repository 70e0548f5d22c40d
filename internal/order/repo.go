package order

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiendita/shop-api/internal/catalog"
)

type Repository interface {
	// Place runs the whole placement as one transaction: lock the item
	// rows, deduct stock, insert the order with its lines and delete the
	// consumed cart lines. On any failure nothing is committed.
	Place(ctx context.Context, o *Order, consumedCartLineIDs []string) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByMember(ctx context.Context, memberID string, limit, offset int) ([]Order, int64, error)
	// Cancel restores every line's stock and flips the status, again in
	// one transaction. A non-PLACED order fails with ErrInvalidTransition.
	Cancel(ctx context.Context, id string) (*Order, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Place(ctx context.Context, o *Order, consumedCartLineIDs []string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock items in a stable order so concurrent placements on
	// overlapping item sets cannot deadlock.
	locked := append([]Line(nil), o.Lines...)
	sort.Slice(locked, func(i, j int) bool { return locked[i].ItemID < locked[j].ItemID })
	for _, l := range locked {
		var it catalog.Item
		err := tx.QueryRow(ctx, `
			SELECT id, stock FROM items WHERE id=$1 FOR UPDATE
		`, l.ItemID).Scan(&it.ID, &it.Stock)
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := it.RemoveStock(l.Quantity); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			UPDATE items SET stock=$2, updated_at=NOW() WHERE id=$1
		`, it.ID, it.Stock); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO orders (id, member_id, status, order_date, created_at, updated_at)
		VALUES ($1,$2,$3,$4,NOW(),NOW())
	`, o.ID, o.MemberID, o.Status, o.OrderDate); err != nil {
		return err
	}
	for _, l := range o.Lines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_lines (id, order_id, item_id, quantity, price)
			VALUES ($1,$2,$3,$4,$5)
		`, l.ID, o.ID, l.ItemID, l.Quantity, l.Price); err != nil {
			return err
		}
	}
	if len(consumedCartLineIDs) > 0 {
		if _, err := tx.Exec(ctx, `
			DELETE FROM cart_lines WHERE id = ANY($1)
		`, consumedCartLineIDs); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	err := r.db.QueryRow(ctx, `
		SELECT id, member_id, status, order_date, created_at, updated_at
		FROM orders WHERE id=$1
	`, id).Scan(&o.ID, &o.MemberID, &o.Status, &o.OrderDate, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	lines, err := r.loadLines(ctx, r.db, []string{id})
	if err != nil {
		return nil, err
	}
	o.Lines = lines[id]
	return &o, nil
}

func (r *PGRepo) ListByMember(ctx context.Context, memberID string, limit, offset int) ([]Order, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := r.db.QueryRow(ctx, `
		SELECT count(*) FROM orders WHERE member_id=$1
	`, memberID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, member_id, status, order_date, created_at, updated_at
		FROM orders WHERE member_id=$1
		ORDER BY order_date DESC, id DESC
		LIMIT $2 OFFSET $3
	`, memberID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Order
	var ids []string
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.MemberID, &o.Status, &o.OrderDate, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	lines, err := r.loadLines(ctx, r.db, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range out {
		out[i].Lines = lines[out[i].ID]
	}
	return out, total, nil
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// loadLines fetches the lines of a batch of orders in a single query,
// joined with the item name for display.
func (r *PGRepo) loadLines(ctx context.Context, q queryer, orderIDs []string) (map[string][]Line, error) {
	out := make(map[string][]Line, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}
	rows, err := q.Query(ctx, `
		SELECT ol.id, ol.order_id, ol.item_id, i.name, ol.quantity, ol.price
		FROM order_lines ol
		JOIN items i ON i.id = ol.item_id
		WHERE ol.order_id = ANY($1)
		ORDER BY ol.id
	`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l Line
		var orderID string
		if err := rows.Scan(&l.ID, &orderID, &l.ItemID, &l.ItemName, &l.Quantity, &l.Price); err != nil {
			return nil, err
		}
		out[orderID] = append(out[orderID], l)
	}
	return out, rows.Err()
}

func (r *PGRepo) Cancel(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var o Order
	err = tx.QueryRow(ctx, `
		SELECT id, member_id, status, order_date, created_at, updated_at
		FROM orders WHERE id=$1 FOR UPDATE
	`, id).Scan(&o.ID, &o.MemberID, &o.Status, &o.OrderDate, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	lines, err := r.loadLines(ctx, tx, []string{id})
	if err != nil {
		return nil, err
	}
	o.Lines = lines[id]

	// The state machine decides; the row lock above makes the decision
	// race-free, so a double cancel can never restore stock twice.
	if err := o.Cancel(); err != nil {
		return nil, err
	}

	for _, l := range o.Lines {
		if _, err := tx.Exec(ctx, `
			UPDATE items SET stock = stock + $2, updated_at = NOW() WHERE id=$1
		`, l.ItemID, l.Quantity); err != nil {
			return nil, err
		}
	}
	if _, err := tx.Exec(ctx, `
		UPDATE orders SET status=$2, updated_at=NOW() WHERE id=$1
	`, o.ID, o.Status); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &o, nil
}
