package catalog

import (
	"errors"
	"fmt"

	"github.com/tiendita/shop-api/internal/audit"
)

type SellStatus string

const (
	OnSale  SellStatus = "ON_SALE"
	SoldOut SellStatus = "SOLD_OUT"
	Stop    SellStatus = "STOP"
)

func (s SellStatus) Valid() bool {
	switch s {
	case OnSale, SoldOut, Stop:
		return true
	}
	return false
}

var (
	ErrNotFound        = errors.New("item not found")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// InsufficientStockError carries the stock level at the moment the
// deduction was refused so the caller can show it.
type InsufficientStockError struct {
	ItemID    string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock (current stock: %d)", e.Available)
}

type Item struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Detail     string     `json:"detail"`
	Price      int64      `json:"price"` // smallest currency unit
	Stock      int        `json:"stock"`
	SellStatus SellStatus `json:"sell_status"`
	audit.Fields
}

// RemoveStock is the only way stock goes down. The persisted deduction in
// the order transaction applies exactly this rule under a row lock.
func (i *Item) RemoveStock(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	rest := i.Stock - qty
	if rest < 0 {
		return &InsufficientStockError{ItemID: i.ID, Available: i.Stock}
	}
	i.Stock = rest
	return nil
}

// AddStock restores stock on order cancellation. There is no upper bound.
func (i *Item) AddStock(qty int) {
	i.Stock += qty
}

type ItemImage struct {
	ID       string `json:"id"`
	ItemID   string `json:"item_id"`
	OrigName string `json:"orig_name"`
	Name     string `json:"name"` // stored file name
	URL      string `json:"url"`
	Rep      bool   `json:"rep"` // representative image
	audit.Fields
}
