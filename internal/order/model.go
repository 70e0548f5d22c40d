package order

import (
	"errors"
	"time"

	"github.com/tiendita/shop-api/internal/audit"
)

type Status string

const (
	// StatusPlaced is the initial state; StatusCancelled is terminal.
	StatusPlaced    Status = "PLACED"
	StatusCancelled Status = "CANCELLED"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrForbidden         = errors.New("order belongs to another member")
	ErrEmptyOrder        = errors.New("order must have at least one line")
	ErrEmptySelection    = errors.New("no cart lines selected")
	ErrInvalidTransition = errors.New("order cannot be cancelled in its current state")
)

// Line captures the unit price at order time; later item price changes
// never alter a placed order. ItemName is filled on reads for display.
type Line struct {
	ID       string `json:"id"`
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name,omitempty"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

func (l Line) Total() int64 {
	return l.Price * int64(l.Quantity)
}

// Order owns its lines; a line never outlives or back-references the order.
type Order struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"member_id"`
	Status    Status    `json:"status"`
	OrderDate time.Time `json:"order_date"`
	Lines     []Line    `json:"lines"`
	audit.Fields
}

// New assembles a PLACED order. Stock side effects are not performed
// here; the placement transaction applies them atomically with the insert.
func New(memberID string, lines []Line, now time.Time) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	o := &Order{
		MemberID:  memberID,
		Status:    StatusPlaced,
		OrderDate: now,
		Lines:     lines,
	}
	return o, nil
}

// Cancel transitions PLACED -> CANCELLED. Any other starting state is
// rejected so stock is never restored twice.
func (o *Order) Cancel() error {
	if o.Status != StatusPlaced {
		return ErrInvalidTransition
	}
	o.Status = StatusCancelled
	return nil
}

func (o *Order) TotalPrice() int64 {
	var total int64
	for _, l := range o.Lines {
		total += l.Total()
	}
	return total
}
