package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tiendita/shop-api/internal/cart"
	"github.com/tiendita/shop-api/internal/catalog"
)

// HistPageSize is how many orders one history page carries.
const HistPageSize = 4

type ItemSource interface {
	GetByID(ctx context.Context, id string) (*catalog.Item, error)
}

type CartSource interface {
	GetLine(ctx context.Context, lineID string) (*cart.Line, error)
}

type ImageResolver interface {
	RepImageURLs(ctx context.Context, itemIDs []string) (map[string]string, error)
}

type Service struct {
	repo   Repository
	items  ItemSource
	carts  CartSource
	images ImageResolver
}

func NewService(repo Repository, items ItemSource, carts CartSource, images ImageResolver) *Service {
	return &Service{repo: repo, items: items, carts: carts, images: images}
}

// PlaceDirect orders a single item without going through the cart.
func (s *Service) PlaceDirect(ctx context.Context, memberID, itemID string, qty int) (string, error) {
	if qty <= 0 {
		return "", catalog.ErrInvalidQuantity
	}
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return "", err
	}
	line := Line{ID: uuid.NewString(), ItemID: it.ID, Quantity: qty, Price: it.Price}
	o, err := New(memberID, []Line{line}, time.Now())
	if err != nil {
		return "", err
	}
	o.ID = uuid.NewString()
	if err := s.repo.Place(ctx, o, nil); err != nil {
		return "", err
	}
	return o.ID, nil
}

// PlaceFromCart turns selected cart lines into one order. Every line's
// ownership is verified before any stock is touched, so a mixed-ownership
// batch fails whole with no deduction at all.
func (s *Service) PlaceFromCart(ctx context.Context, memberID string, lineIDs []string) (string, error) {
	if len(lineIDs) == 0 {
		return "", ErrEmptySelection
	}

	resolved := make([]*cart.Line, 0, len(lineIDs))
	for _, id := range lineIDs {
		cl, err := s.carts.GetLine(ctx, id)
		if err != nil {
			return "", err
		}
		if cl.MemberID != memberID {
			return "", ErrForbidden
		}
		resolved = append(resolved, cl)
	}

	lines := make([]Line, 0, len(resolved))
	for _, cl := range resolved {
		it, err := s.items.GetByID(ctx, cl.ItemID)
		if err != nil {
			return "", err
		}
		lines = append(lines, Line{
			ID:       uuid.NewString(),
			ItemID:   it.ID,
			Quantity: cl.Quantity,
			Price:    it.Price,
		})
	}
	o, err := New(memberID, lines, time.Now())
	if err != nil {
		return "", err
	}
	o.ID = uuid.NewString()
	if err := s.repo.Place(ctx, o, lineIDs); err != nil {
		return "", err
	}
	return o.ID, nil
}

// Cancel restores the deducted stock and marks the order CANCELLED. Only
// the owning member may cancel.
func (s *Service) Cancel(ctx context.Context, memberID, orderID string) error {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.MemberID != memberID {
		return ErrForbidden
	}
	_, err = s.repo.Cancel(ctx, orderID)
	return err
}

// ListHistory returns one page of the member's orders, newest first, with
// per-line display data. Image lookups are batched for the whole page.
func (s *Service) ListHistory(ctx context.Context, memberID string, page int) (*HistoryPage, error) {
	if page < 0 {
		page = 0
	}
	orders, total, err := s.repo.ListByMember(ctx, memberID, HistPageSize, page*HistPageSize)
	if err != nil {
		return nil, err
	}

	var itemIDs []string
	seen := make(map[string]bool)
	for _, o := range orders {
		for _, l := range o.Lines {
			if !seen[l.ItemID] {
				seen[l.ItemID] = true
				itemIDs = append(itemIDs, l.ItemID)
			}
		}
	}
	urls, err := s.images.RepImageURLs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	out := &HistoryPage{Page: page, PageSize: HistPageSize, Total: total}
	for _, o := range orders {
		h := History{
			OrderID:        o.ID,
			OrderDate:      o.OrderDate.Format("2006-01-02 15:04"),
			Status:         o.Status,
			Total:          o.TotalPrice(),
			TotalFormatted: catalog.FormatPrice(o.TotalPrice()),
		}
		for _, l := range o.Lines {
			h.Lines = append(h.Lines, LineView{
				ItemName:       l.ItemName,
				Quantity:       l.Quantity,
				Price:          l.Price,
				PriceFormatted: catalog.FormatPrice(l.Price),
				ImageURL:       urls[l.ItemID],
			})
		}
		out.Orders = append(out.Orders, h)
	}
	return out, nil
}
