package catalog

import (
	"context"
	"errors"
	"path"

	"github.com/google/uuid"
)

var ErrImageRequired = errors.New("first item image is required")

// ItemForm carries the admin item registration/edit fields.
type ItemForm struct {
	Name       string     `json:"name"`
	Detail     string     `json:"detail"`
	Price      int64      `json:"price"`
	Stock      int        `json:"stock"`
	SellStatus SellStatus `json:"sell_status"`
}

type ImageUpload struct {
	OrigName string
	Data     []byte
}

type ItemDetail struct {
	Item   Item        `json:"item"`
	Images []ItemImage `json:"images"`
}

type Service struct {
	repo   Repository
	files  *FileStore
	imgURL string // public URL prefix for stored images
}

func NewService(repo Repository, files *FileStore, imgURL string) *Service {
	return &Service{repo: repo, files: files, imgURL: imgURL}
}

// SaveItem registers an item with its images. The first image becomes the
// representative one shown in lists, carts and order history.
func (s *Service) SaveItem(ctx context.Context, form ItemForm, images []ImageUpload) (string, error) {
	if len(images) == 0 || len(images[0].Data) == 0 {
		return "", ErrImageRequired
	}
	if !form.SellStatus.Valid() {
		form.SellStatus = OnSale
	}
	it := &Item{
		ID:         uuid.NewString(),
		Name:       form.Name,
		Detail:     form.Detail,
		Price:      form.Price,
		Stock:      form.Stock,
		SellStatus: form.SellStatus,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return "", err
	}
	for i, up := range images {
		if err := s.saveImage(ctx, it.ID, up, i == 0); err != nil {
			return "", err
		}
	}
	return it.ID, nil
}

func (s *Service) saveImage(ctx context.Context, itemID string, up ImageUpload, rep bool) error {
	name, err := s.files.Save(up.OrigName, up.Data)
	if err != nil {
		return err
	}
	return s.repo.CreateImage(ctx, &ItemImage{
		ID:       uuid.NewString(),
		ItemID:   itemID,
		OrigName: up.OrigName,
		Name:     name,
		URL:      path.Join(s.imgURL, name),
		Rep:      rep,
	})
}

// UpdateItem applies the form to an existing item and replaces the image
// files whose slots carry new data. Empty uploads leave the stored image
// untouched.
func (s *Service) UpdateItem(ctx context.Context, id string, form ItemForm, images []ImageUpload) error {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	it.Name = form.Name
	it.Detail = form.Detail
	it.Price = form.Price
	it.Stock = form.Stock
	if form.SellStatus.Valid() {
		it.SellStatus = form.SellStatus
	}
	if err := s.repo.Update(ctx, it); err != nil {
		return err
	}

	existing, err := s.repo.ListImages(ctx, id)
	if err != nil {
		return err
	}
	for i, up := range images {
		if len(up.Data) == 0 {
			continue
		}
		if i >= len(existing) {
			if err := s.saveImage(ctx, id, up, len(existing) == 0 && i == 0); err != nil {
				return err
			}
			continue
		}
		img := existing[i]
		if img.Name != "" {
			if err := s.files.Delete(img.Name); err != nil {
				return err
			}
		}
		name, err := s.files.Save(up.OrigName, up.Data)
		if err != nil {
			return err
		}
		img.OrigName = up.OrigName
		img.Name = name
		img.URL = path.Join(s.imgURL, name)
		if err := s.repo.UpdateImage(ctx, &img); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) GetDetail(ctx context.Context, id string) (*ItemDetail, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	imgs, err := s.repo.ListImages(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ItemDetail{Item: *it, Images: imgs}, nil
}

func (s *Service) Search(ctx context.Context, q Query) ([]Item, int64, error) {
	return s.repo.Search(ctx, q)
}
