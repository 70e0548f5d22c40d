package cart

import (
	"errors"

	"github.com/tiendita/shop-api/internal/audit"
)

var (
	ErrNotFound  = errors.New("cart line not found")
	ErrForbidden = errors.New("cart line belongs to another member")
)

// Cart is created lazily on the first line addition; one per member.
type Cart struct {
	ID       string `json:"id"`
	MemberID string `json:"member_id"`
	audit.Fields
}

// Line pairs an item with the quantity the member wants. MemberID is the
// owning cart's member, populated on reads for ownership checks.
type Line struct {
	ID       string `json:"id"`
	CartID   string `json:"cart_id"`
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
	MemberID string `json:"-"`
	audit.Fields
}

// Detail is one cart page row.
type Detail struct {
	LineID         string `json:"line_id"`
	ItemID         string `json:"item_id"`
	ItemName       string `json:"item_name"`
	Price          int64  `json:"price"`
	PriceFormatted string `json:"price_formatted"`
	Quantity       int    `json:"quantity"`
	ImageURL       string `json:"image_url"`
}
