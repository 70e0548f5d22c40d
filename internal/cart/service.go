package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/tiendita/shop-api/internal/catalog"
)

// ItemSource is the slice of the catalog the cart needs.
type ItemSource interface {
	GetByID(ctx context.Context, id string) (*catalog.Item, error)
}

type Service struct {
	repo  Repository
	items ItemSource
}

func NewService(repo Repository, items ItemSource) *Service {
	return &Service{repo: repo, items: items}
}

// AddItem puts an item into the member's cart, creating the cart on first
// use. Adding an item already in the cart merges quantities instead of
// creating a second line. Returns the affected line id.
func (s *Service) AddItem(ctx context.Context, memberID, itemID string, qty int) (string, error) {
	if qty <= 0 {
		return "", catalog.ErrInvalidQuantity
	}
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return "", err
	}

	c, err := s.repo.GetCartByMember(ctx, memberID)
	if errors.Is(err, ErrNotFound) {
		c = &Cart{ID: uuid.NewString(), MemberID: memberID}
		if err := s.repo.CreateCart(ctx, c); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	existing, err := s.repo.FindLine(ctx, c.ID, itemID)
	if err == nil {
		if err := s.repo.UpdateLineQuantity(ctx, existing.ID, existing.Quantity+qty); err != nil {
			return "", err
		}
		return existing.ID, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	l := &Line{ID: uuid.NewString(), CartID: c.ID, ItemID: itemID, Quantity: qty}
	if err := s.repo.CreateLine(ctx, l); err != nil {
		return "", err
	}
	return l.ID, nil
}

func (s *Service) List(ctx context.Context, memberID string) ([]Detail, error) {
	details, err := s.repo.ListDetails(ctx, memberID)
	if err != nil {
		return nil, err
	}
	for i := range details {
		details[i].PriceFormatted = catalog.FormatPrice(details[i].Price)
	}
	return details, nil
}

// UpdateQuantity replaces a line's quantity. Stock is not touched here;
// it only matters at order placement.
func (s *Service) UpdateQuantity(ctx context.Context, memberID, lineID string, qty int) error {
	if qty < 1 {
		return catalog.ErrInvalidQuantity
	}
	if err := s.checkOwner(ctx, memberID, lineID); err != nil {
		return err
	}
	return s.repo.UpdateLineQuantity(ctx, lineID, qty)
}

func (s *Service) Remove(ctx context.Context, memberID, lineID string) error {
	if err := s.checkOwner(ctx, memberID, lineID); err != nil {
		return err
	}
	return s.repo.DeleteLine(ctx, lineID)
}

// GetLine exposes a line with its owner for the order placement flow.
func (s *Service) GetLine(ctx context.Context, lineID string) (*Line, error) {
	return s.repo.GetLine(ctx, lineID)
}

func (s *Service) checkOwner(ctx context.Context, memberID, lineID string) error {
	l, err := s.repo.GetLine(ctx, lineID)
	if err != nil {
		return err
	}
	if l.MemberID != memberID {
		return ErrForbidden
	}
	return nil
}
