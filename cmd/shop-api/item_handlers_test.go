package main

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tiendita/shop-api/internal/catalog"
	"github.com/tiendita/shop-api/internal/member"
)

// doMultipart posts an admin item form with the given fields and images.
func (e *env) doMultipart(t *testing.T, method, path, token string, fields map[string]string, images map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for name, data := range images {
		fw, err := mw.CreateFormFile("images", name)
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	e.router.ServeHTTP(w, req)
	return w
}

func itemFields(name string) map[string]string {
	return map[string]string{
		"name":        name,
		"detail":      "a fine " + name,
		"price":       "1990",
		"stock":       "10",
		"sell_status": "ON_SALE",
	}
}

func TestCreateItem_AdminOnly(t *testing.T) {
	e := newEnv(t)
	_, userTok := e.addMember(t, member.RoleUser)

	w := e.doMultipart(t, http.MethodPost, "/admin/items", userTok,
		itemFields("Keyboard"), map[string][]byte{"kbd.png": []byte("png-bytes")})
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-admin create: got %d, want 403", w.Code)
	}

	w = e.doMultipart(t, http.MethodPost, "/admin/items", "",
		itemFields("Keyboard"), map[string][]byte{"kbd.png": []byte("png-bytes")})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated create: got %d, want 401", w.Code)
	}
}

func TestCreateItem_AndGetDetail(t *testing.T) {
	e := newEnv(t)
	_, adminTok := e.addMember(t, member.RoleAdmin)

	w := e.doMultipart(t, http.MethodPost, "/admin/items", adminTok,
		itemFields("Keyboard"), map[string][]byte{
			"front.png": []byte("front-bytes"),
			"back.png":  []byte("back-bytes"),
		})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: got %d, want 201 (%s)", w.Code, w.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	decode(t, w, &created)
	if created.ID == "" {
		t.Fatal("create returned no id")
	}

	w = e.do(t, http.MethodGet, "/items/"+created.ID, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("detail: got %d, want 200", w.Code)
	}
	var d catalog.ItemDetail
	decode(t, w, &d)
	if d.Item.Name != "Keyboard" || d.Item.Price != 1990 || d.Item.Stock != 10 {
		t.Fatalf("unexpected item: %+v", d.Item)
	}
	if len(d.Images) != 2 {
		t.Fatalf("got %d images, want 2", len(d.Images))
	}
	reps := 0
	for _, img := range d.Images {
		if img.Rep {
			reps++
		}
		if !strings.HasPrefix(img.URL, "/images/item/") {
			t.Errorf("image url %q lacks the public prefix", img.URL)
		}
	}
	if reps != 1 {
		t.Fatalf("got %d representative images, want exactly 1", reps)
	}
}

func TestCreateItem_ImageRequired(t *testing.T) {
	e := newEnv(t)
	_, adminTok := e.addMember(t, member.RoleAdmin)

	w := e.doMultipart(t, http.MethodPost, "/admin/items", adminTok, itemFields("Keyboard"), nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400 (%s)", w.Code, w.Body.String())
	}
}

func TestCreateItem_BadPrice(t *testing.T) {
	e := newEnv(t)
	_, adminTok := e.addMember(t, member.RoleAdmin)

	fields := itemFields("Keyboard")
	fields["price"] = "-5"
	w := e.doMultipart(t, http.MethodPost, "/admin/items", adminTok,
		fields, map[string][]byte{"kbd.png": []byte("png-bytes")})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", w.Code)
	}
}

func TestUpdateItem(t *testing.T) {
	e := newEnv(t)
	_, adminTok := e.addMember(t, member.RoleAdmin)
	id := e.addItem(t, "Keyboard", 1990, 10)

	fields := itemFields("Keyboard DX")
	fields["price"] = "2490"
	fields["stock"] = "4"
	w := e.doMultipart(t, http.MethodPut, "/admin/items/"+id, adminTok, fields, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("update: got %d, want 200 (%s)", w.Code, w.Body.String())
	}

	it := e.catalog.items[id]
	if it.Name != "Keyboard DX" || it.Price != 2490 || it.Stock != 4 {
		t.Fatalf("update not applied: %+v", it)
	}
}

func TestListItems_Paging(t *testing.T) {
	e := newEnv(t)
	for i := 0; i < 7; i++ {
		id := e.addItem(t, fmt.Sprintf("Item %d", i), 100, 1)
		e.catalog.items[id].CreatedAt = time.Now().Add(time.Duration(i) * time.Minute)
	}

	w := e.do(t, http.MethodGet, "/items", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", w.Code)
	}
	var page itemListResponse
	decode(t, w, &page)
	if page.Total != 7 || len(page.Items) != 6 {
		t.Fatalf("page 0: total=%d len=%d, want 7/6", page.Total, len(page.Items))
	}
	if page.Items[0].Name != "Item 6" {
		t.Fatalf("newest first: got %q", page.Items[0].Name)
	}

	w = e.do(t, http.MethodGet, "/items?page=1", "", "")
	decode(t, w, &page)
	if len(page.Items) != 1 {
		t.Fatalf("page 1: len=%d, want 1", len(page.Items))
	}
}

func TestGetItem_NotFound(t *testing.T) {
	e := newEnv(t)
	if w := e.do(t, http.MethodGet, "/items/missing", "", ""); w.Code != http.StatusNotFound {
		t.Fatalf("got %d, want 404", w.Code)
	}
}
