package main

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tiendita/shop-api/internal/catalog"
)

const (
	mainPageSize  = 6
	adminPageSize = 3
)

type itemListResponse struct {
	Q     string         `json:"q,omitempty"`
	Page  int            `json:"page"`
	Total int64          `json:"total"`
	Items []catalog.Item `json:"items"`
}

// listItemsHandler handles the public GET /items.
//
// @Summary  Search items
// @Produce  json
// @Param    q    query string false "search text"
// @Param    page query int    false "zero-based page"
// @Success  200 {object} itemListResponse
// @Router   /items [get]
func listItemsHandler(svc *catalog.Service) gin.HandlerFunc {
	return searchHandler(svc, mainPageSize)
}

// adminListItemsHandler handles GET /admin/items with the smaller admin
// page size and an optional sell-status filter.
func adminListItemsHandler(svc *catalog.Service) gin.HandlerFunc {
	return searchHandler(svc, adminPageSize)
}

func searchHandler(svc *catalog.Service, pageSize int) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.Query("page"))
		if page < 0 {
			page = 0
		}
		q := catalog.Query{
			Q:          c.Query("q"),
			SellStatus: catalog.SellStatus(c.Query("sell_status")),
			Limit:      pageSize,
			Offset:     page * pageSize,
		}
		items, total, err := svc.Search(c.Request.Context(), q)
		if err != nil {
			writeErr(c, err)
			return
		}
		if items == nil {
			items = []catalog.Item{}
		}
		c.JSON(http.StatusOK, itemListResponse{Q: q.Q, Page: page, Total: total, Items: items})
	}
}

// getItemHandler handles GET /items/:id.
//
// @Summary  Item detail with images
// @Produce  json
// @Param    id path string true "item id"
// @Success  200 {object} catalog.ItemDetail
// @Failure  404 {object} HTTPError
// @Router   /items/{id} [get]
func getItemHandler(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := svc.GetDetail(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

// createItemHandler handles POST /admin/items (multipart). The first
// uploaded image becomes the representative one.
//
// @Summary  Register an item (admin)
// @Accept   mpfd
// @Produce  json
// @Success  201 {object} map[string]string
// @Failure  400 {object} HTTPError
// @Router   /admin/items [post]
func createItemHandler(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, uploads, err := bindItemForm(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, HTTPError{Error: err.Error()})
			return
		}
		id, err := svc.SaveItem(c.Request.Context(), form, uploads)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

// updateItemHandler handles PUT /admin/items/:id. Image slots without a
// new file keep the stored image.
func updateItemHandler(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, uploads, err := bindItemForm(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, HTTPError{Error: err.Error()})
			return
		}
		if err := svc.UpdateItem(c.Request.Context(), c.Param("id"), form, uploads); err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	}
}

func bindItemForm(c *gin.Context) (catalog.ItemForm, []catalog.ImageUpload, error) {
	var form catalog.ItemForm
	form.Name = c.PostForm("name")
	form.Detail = c.PostForm("detail")
	form.SellStatus = catalog.SellStatus(c.PostForm("sell_status"))

	price, err := strconv.ParseInt(c.PostForm("price"), 10, 64)
	if err != nil || price < 0 {
		return form, nil, errInvalidField("price")
	}
	stock, err := strconv.Atoi(c.PostForm("stock"))
	if err != nil || stock < 0 {
		return form, nil, errInvalidField("stock")
	}
	form.Price = price
	form.Stock = stock

	mf, err := c.MultipartForm()
	if err != nil {
		return form, nil, err
	}
	uploads, err := readUploads(mf.File["images"])
	if err != nil {
		return form, nil, err
	}
	return form, uploads, nil
}

func readUploads(files []*multipart.FileHeader) ([]catalog.ImageUpload, error) {
	var out []catalog.ImageUpload
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, catalog.ImageUpload{OrigName: fh.Filename, Data: data})
	}
	return out, nil
}

type fieldError string

func (e fieldError) Error() string { return "invalid " + string(e) }

func errInvalidField(name string) error { return fieldError(name) }
