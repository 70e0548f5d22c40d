package cart

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	GetCartByMember(ctx context.Context, memberID string) (*Cart, error)
	CreateCart(ctx context.Context, c *Cart) error
	FindLine(ctx context.Context, cartID, itemID string) (*Line, error)
	GetLine(ctx context.Context, lineID string) (*Line, error)
	CreateLine(ctx context.Context, l *Line) error
	UpdateLineQuantity(ctx context.Context, lineID string, qty int) error
	DeleteLine(ctx context.Context, lineID string) error
	ListDetails(ctx context.Context, memberID string) ([]Detail, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) GetCartByMember(ctx context.Context, memberID string) (*Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c Cart
	err := r.db.QueryRow(ctx, `
		SELECT id, member_id, created_at, updated_at
		FROM carts WHERE member_id=$1
	`, memberID).Scan(&c.ID, &c.MemberID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PGRepo) CreateCart(ctx context.Context, c *Cart) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO carts (id, member_id, created_at, updated_at)
		VALUES ($1,$2,NOW(),NOW())
	`, c.ID, c.MemberID)
	return err
}

func (r *PGRepo) FindLine(ctx context.Context, cartID, itemID string) (*Line, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var l Line
	err := r.db.QueryRow(ctx, `
		SELECT id, cart_id, item_id, quantity, created_at, updated_at
		FROM cart_lines WHERE cart_id=$1 AND item_id=$2
	`, cartID, itemID).Scan(&l.ID, &l.CartID, &l.ItemID, &l.Quantity, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *PGRepo) GetLine(ctx context.Context, lineID string) (*Line, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var l Line
	err := r.db.QueryRow(ctx, `
		SELECT cl.id, cl.cart_id, cl.item_id, cl.quantity, c.member_id, cl.created_at, cl.updated_at
		FROM cart_lines cl
		JOIN carts c ON c.id = cl.cart_id
		WHERE cl.id=$1
	`, lineID).Scan(&l.ID, &l.CartID, &l.ItemID, &l.Quantity, &l.MemberID, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *PGRepo) CreateLine(ctx context.Context, l *Line) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO cart_lines (id, cart_id, item_id, quantity, created_at, updated_at)
		VALUES ($1,$2,$3,$4,NOW(),NOW())
	`, l.ID, l.CartID, l.ItemID, l.Quantity)
	return err
}

func (r *PGRepo) UpdateLineQuantity(ctx context.Context, lineID string, qty int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE cart_lines SET quantity=$2, updated_at=NOW() WHERE id=$1
	`, lineID, qty)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) DeleteLine(ctx context.Context, lineID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM cart_lines WHERE id=$1`, lineID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListDetails joins cart lines with items and the representative image in
// one query, newest line first.
func (r *PGRepo) ListDetails(ctx context.Context, memberID string) ([]Detail, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT cl.id, i.id, i.name, i.price, cl.quantity, COALESCE(im.url, '')
		FROM cart_lines cl
		JOIN carts c ON c.id = cl.cart_id
		JOIN items i ON i.id = cl.item_id
		LEFT JOIN item_images im ON im.item_id = i.id AND im.rep
		WHERE c.member_id = $1
		ORDER BY cl.created_at DESC
	`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Detail
	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.LineID, &d.ItemID, &d.ItemName, &d.Price, &d.Quantity, &d.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
