package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tiendita/shop-api/internal/cart"
	"github.com/tiendita/shop-api/internal/catalog"
	"github.com/tiendita/shop-api/internal/member"
	"github.com/tiendita/shop-api/internal/order"
)

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
}

//
// ===== IN-MEMORY STUB REPOS =====
//

type memCatalog struct {
	items  map[string]*catalog.Item
	images map[string]*catalog.ItemImage
}

func newMemCatalog() *memCatalog {
	return &memCatalog{items: map[string]*catalog.Item{}, images: map[string]*catalog.ItemImage{}}
}

func (m *memCatalog) Create(_ context.Context, it *catalog.Item) error {
	cp := *it
	cp.CreatedAt = time.Now()
	m.items[it.ID] = &cp
	return nil
}

func (m *memCatalog) GetByID(_ context.Context, id string) (*catalog.Item, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (m *memCatalog) Update(_ context.Context, it *catalog.Item) error {
	if _, ok := m.items[it.ID]; !ok {
		return catalog.ErrNotFound
	}
	cp := *it
	m.items[it.ID] = &cp
	return nil
}

func (m *memCatalog) Search(_ context.Context, q catalog.Query) ([]catalog.Item, int64, error) {
	var all []catalog.Item
	for _, it := range m.items {
		if q.Q != "" && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(q.Q)) {
			continue
		}
		if q.SellStatus != "" && it.SellStatus != q.SellStatus {
			continue
		}
		all = append(all, *it)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if q.Offset > len(all) {
		return []catalog.Item{}, total, nil
	}
	end := q.Offset + q.Limit
	if end > len(all) || q.Limit <= 0 {
		end = len(all)
	}
	return all[q.Offset:end], total, nil
}

func (m *memCatalog) CreateImage(_ context.Context, img *catalog.ItemImage) error {
	cp := *img
	m.images[img.ID] = &cp
	return nil
}

func (m *memCatalog) GetImage(_ context.Context, id string) (*catalog.ItemImage, error) {
	img, ok := m.images[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *img
	return &cp, nil
}

func (m *memCatalog) UpdateImage(_ context.Context, img *catalog.ItemImage) error {
	if _, ok := m.images[img.ID]; !ok {
		return catalog.ErrNotFound
	}
	cp := *img
	m.images[img.ID] = &cp
	return nil
}

func (m *memCatalog) ListImages(_ context.Context, itemID string) ([]catalog.ItemImage, error) {
	var out []catalog.ItemImage
	for _, img := range m.images {
		if img.ItemID == itemID {
			out = append(out, *img)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memCatalog) RepImageURLs(_ context.Context, itemIDs []string) (map[string]string, error) {
	out := map[string]string{}
	for _, id := range itemIDs {
		for _, img := range m.images {
			if img.ItemID == id && img.Rep {
				out[id] = img.URL
			}
		}
	}
	return out, nil
}

type memCart struct {
	carts map[string]*cart.Cart // by member
	lines map[string]*cart.Line
}

func newMemCart() *memCart {
	return &memCart{carts: map[string]*cart.Cart{}, lines: map[string]*cart.Line{}}
}

func (m *memCart) GetCartByMember(_ context.Context, memberID string) (*cart.Cart, error) {
	c, ok := m.carts[memberID]
	if !ok {
		return nil, cart.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCart) CreateCart(_ context.Context, c *cart.Cart) error {
	cp := *c
	m.carts[c.MemberID] = &cp
	return nil
}

func (m *memCart) FindLine(_ context.Context, cartID, itemID string) (*cart.Line, error) {
	for _, l := range m.lines {
		if l.CartID == cartID && l.ItemID == itemID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, cart.ErrNotFound
}

func (m *memCart) GetLine(_ context.Context, lineID string) (*cart.Line, error) {
	l, ok := m.lines[lineID]
	if !ok {
		return nil, cart.ErrNotFound
	}
	cp := *l
	for _, c := range m.carts {
		if c.ID == l.CartID {
			cp.MemberID = c.MemberID
		}
	}
	return &cp, nil
}

func (m *memCart) CreateLine(_ context.Context, l *cart.Line) error {
	cp := *l
	cp.CreatedAt = time.Now()
	m.lines[l.ID] = &cp
	return nil
}

func (m *memCart) UpdateLineQuantity(_ context.Context, lineID string, qty int) error {
	l, ok := m.lines[lineID]
	if !ok {
		return cart.ErrNotFound
	}
	l.Quantity = qty
	return nil
}

func (m *memCart) DeleteLine(_ context.Context, lineID string) error {
	if _, ok := m.lines[lineID]; !ok {
		return cart.ErrNotFound
	}
	delete(m.lines, lineID)
	return nil
}

func (m *memCart) ListDetails(_ context.Context, memberID string) ([]cart.Detail, error) {
	c, ok := m.carts[memberID]
	if !ok {
		return nil, nil
	}
	var out []cart.Detail
	for _, l := range m.lines {
		if l.CartID != c.ID {
			continue
		}
		out = append(out, cart.Detail{LineID: l.ID, ItemID: l.ItemID, Quantity: l.Quantity})
	}
	return out, nil
}

type memOrder struct {
	catalog *memCatalog
	cart    *memCart
	orders  []*order.Order
}

func (m *memOrder) Place(_ context.Context, o *order.Order, consumed []string) error {
	copies := map[string]*catalog.Item{}
	for _, l := range o.Lines {
		it, ok := m.catalog.items[l.ItemID]
		if !ok {
			return catalog.ErrNotFound
		}
		cp, ok := copies[l.ItemID]
		if !ok {
			c := *it
			cp = &c
			copies[l.ItemID] = cp
		}
		if err := cp.RemoveStock(l.Quantity); err != nil {
			return err
		}
	}
	for id, cp := range copies {
		m.catalog.items[id] = cp
	}
	oc := *o
	oc.Lines = append([]order.Line(nil), o.Lines...)
	m.orders = append(m.orders, &oc)
	for _, id := range consumed {
		delete(m.cart.lines, id)
	}
	return nil
}

func (m *memOrder) find(id string) *order.Order {
	for _, o := range m.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (m *memOrder) GetByID(_ context.Context, id string) (*order.Order, error) {
	o := m.find(id)
	if o == nil {
		return nil, order.ErrNotFound
	}
	cp := *o
	cp.Lines = append([]order.Line(nil), o.Lines...)
	return &cp, nil
}

func (m *memOrder) ListByMember(_ context.Context, memberID string, limit, offset int) ([]order.Order, int64, error) {
	var mine []order.Order
	for _, o := range m.orders {
		if o.MemberID == memberID {
			cp := *o
			cp.Lines = append([]order.Line(nil), o.Lines...)
			mine = append(mine, cp)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool { return mine[i].OrderDate.After(mine[j].OrderDate) })
	total := int64(len(mine))
	if offset > len(mine) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[offset:end], total, nil
}

func (m *memOrder) Cancel(_ context.Context, id string) (*order.Order, error) {
	o := m.find(id)
	if o == nil {
		return nil, order.ErrNotFound
	}
	if err := o.Cancel(); err != nil {
		return nil, err
	}
	for _, l := range o.Lines {
		m.catalog.items[l.ItemID].AddStock(l.Quantity)
	}
	cp := *o
	return &cp, nil
}

type memMembers struct {
	byID map[string]*member.Member
}

func newMemMembers() *memMembers { return &memMembers{byID: map[string]*member.Member{}} }

func (m *memMembers) Create(_ context.Context, mm *member.Member) error {
	for _, ex := range m.byID {
		if ex.Email == mm.Email {
			return member.ErrDuplicate
		}
	}
	cp := *mm
	m.byID[mm.ID] = &cp
	return nil
}

func (m *memMembers) GetByID(_ context.Context, id string) (*member.Member, error) {
	mm, ok := m.byID[id]
	if !ok {
		return nil, member.ErrNotFound
	}
	cp := *mm
	return &cp, nil
}

func (m *memMembers) GetByEmail(_ context.Context, email string) (*member.Member, error) {
	for _, mm := range m.byID {
		if mm.Email == email {
			cp := *mm
			return &cp, nil
		}
	}
	return nil, member.ErrNotFound
}

//
// ===== TEST HARNESS =====
//

type env struct {
	router   *gin.Engine
	catalog  *memCatalog
	cart     *memCart
	order    *memOrder
	members  *memMembers
	sessions *member.MemorySessions
}

func newEnv(t *testing.T) *env {
	t.Helper()

	cat := newMemCatalog()
	crt := newMemCart()
	ord := &memOrder{catalog: cat, cart: crt}
	mem := newMemMembers()
	sessions := member.NewMemorySessions()

	files, err := catalog.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}

	memberSvc := member.NewService(mem, sessions, time.Hour)
	itemSvc := catalog.NewService(cat, files, "/images/item")
	cartSvc := cart.NewService(crt, cat)
	orderSvc := order.NewService(ord, cat, crt, cat)

	r := newRouter(services{
		members: memberSvc,
		items:   itemSvc,
		carts:   cartSvc,
		orders:  orderSvc,
	})
	return &env{router: r, catalog: cat, cart: crt, order: ord, members: mem, sessions: sessions}
}

// addMember seeds a member and an authenticated session, bypassing the
// HTTP registration flow.
func (e *env) addMember(t *testing.T, role member.Role) (string, string) {
	t.Helper()
	id := uuid.NewString()
	e.members.byID[id] = &member.Member{
		ID: id, Name: "Tester", Email: id + "@example.com", Role: role,
	}
	token := uuid.NewString()
	if err := e.sessions.Save(context.Background(), token, id, time.Hour); err != nil {
		t.Fatalf("session: %v", err)
	}
	return id, token
}

func (e *env) addItem(t *testing.T, name string, price int64, stock int) string {
	t.Helper()
	id := uuid.NewString()
	e.catalog.items[id] = &catalog.Item{
		ID: id, Name: name, Price: price, Stock: stock, SellStatus: catalog.OnSale,
	}
	return id
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func (e *env) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	e.router.ServeHTTP(w, req)
	return w
}
