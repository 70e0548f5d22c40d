package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Query struct {
	Q          string
	SellStatus SellStatus // empty = any
	Limit      int
	Offset     int
}

type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	Update(ctx context.Context, it *Item) error
	Search(ctx context.Context, q Query) ([]Item, int64, error)
	CreateImage(ctx context.Context, img *ItemImage) error
	GetImage(ctx context.Context, id string) (*ItemImage, error)
	UpdateImage(ctx context.Context, img *ItemImage) error
	ListImages(ctx context.Context, itemID string) ([]ItemImage, error)
	RepImageURLs(ctx context.Context, itemIDs []string) (map[string]string, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, it *Item) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO items (id, name, detail, price, stock, sell_status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
	`, it.ID, it.Name, it.Detail, it.Price, it.Stock, it.SellStatus)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var it Item
	err := r.db.QueryRow(ctx, `
		SELECT id, name, detail, price, stock, sell_status, created_at, updated_at
		FROM items WHERE id=$1
	`, id).Scan(&it.ID, &it.Name, &it.Detail, &it.Price, &it.Stock, &it.SellStatus, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &it, nil
}

func (r *PGRepo) Update(ctx context.Context, it *Item) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE items
		SET name = $2, detail = $3, price = $4, stock = $5, sell_status = $6, updated_at = NOW()
		WHERE id = $1
	`, it.ID, it.Name, it.Detail, it.Price, it.Stock, it.SellStatus)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Search(ctx context.Context, q Query) ([]Item, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	search := strings.TrimSpace(q.Q)

	var total int64
	if err := r.db.QueryRow(ctx, `
		SELECT count(*) FROM items
		WHERE ($1 = '' OR name ILIKE '%'||$1||'%' OR detail ILIKE '%'||$1||'%')
		  AND ($2 = '' OR sell_status = $2)
	`, search, string(q.SellStatus)).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, name, detail, price, stock, sell_status, created_at, updated_at
		FROM items
		WHERE ($1 = '' OR name ILIKE '%'||$1||'%' OR detail ILIKE '%'||$1||'%')
		  AND ($2 = '' OR sell_status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, search, string(q.SellStatus), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Detail, &it.Price, &it.Stock, &it.SellStatus, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, it)
	}
	return out, total, rows.Err()
}

func (r *PGRepo) CreateImage(ctx context.Context, img *ItemImage) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO item_images (id, item_id, orig_name, name, url, rep, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
	`, img.ID, img.ItemID, img.OrigName, img.Name, img.URL, img.Rep)
	return err
}

func (r *PGRepo) GetImage(ctx context.Context, id string) (*ItemImage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var img ItemImage
	err := r.db.QueryRow(ctx, `
		SELECT id, item_id, orig_name, name, url, rep, created_at, updated_at
		FROM item_images WHERE id=$1
	`, id).Scan(&img.ID, &img.ItemID, &img.OrigName, &img.Name, &img.URL, &img.Rep, &img.CreatedAt, &img.UpdatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &img, nil
}

func (r *PGRepo) UpdateImage(ctx context.Context, img *ItemImage) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE item_images
		SET orig_name = $2, name = $3, url = $4, updated_at = NOW()
		WHERE id = $1
	`, img.ID, img.OrigName, img.Name, img.URL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) ListImages(ctx context.Context, itemID string) ([]ItemImage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, item_id, orig_name, name, url, rep, created_at, updated_at
		FROM item_images WHERE item_id=$1
		ORDER BY created_at ASC, id ASC
	`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ItemImage
	for rows.Next() {
		var img ItemImage
		if err := rows.Scan(&img.ID, &img.ItemID, &img.OrigName, &img.Name, &img.URL, &img.Rep, &img.CreatedAt, &img.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

// RepImageURLs resolves the representative image for a batch of items in
// one query. Items without images are simply absent from the map.
func (r *PGRepo) RepImageURLs(ctx context.Context, itemIDs []string) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out := make(map[string]string, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT item_id, url FROM item_images
		WHERE rep AND item_id = ANY($1)
	`, itemIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, url string
		if err := rows.Scan(&id, &url); err != nil {
			return nil, err
		}
		out[id] = url
	}
	return out, rows.Err()
}
