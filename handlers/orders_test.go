package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xterics/xterics/backend/api/internal/models"
	"github.com/xterics/xterics/backend/api/internal/orders"
	"github.com/xterics/xterics/backend/api/pkg/middleware"
)

type fakeCatalogLookup struct {
	services map[uint]*models.Service
}

func (f *fakeCatalogLookup) GetByID(_ context.Context, id uint) (*models.Service, error) {
	return f.services[id], nil
}

type fakeOrderRepo struct {
	byID       map[uint]*models.Order
	customByID map[uint]*models.CustomOrder
	nextID     uint
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{byID: map[uint]*models.Order{}, customByID: map[uint]*models.CustomOrder{}}
}

func (r *fakeOrderRepo) Create(_ context.Context, o *models.Order) error {
	r.nextID++
	o.ID = r.nextID
	cp := *o
	r.byID[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id uint) (*models.Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID uint) ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.byID {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListAll(_ context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.byID {
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeOrderRepo) Update(_ context.Context, id uint, updates map[string]interface{}) error {
	o := r.byID[id]
	if s, ok := updates["status"].(string); ok {
		o.Status = s
	}
	if n, ok := updates["notes"].(string); ok {
		o.Notes = n
	}
	if p, ok := updates["payment_id"].(string); ok {
		o.PaymentID = p
	}
	return nil
}

func (r *fakeOrderRepo) CreateCustom(_ context.Context, o *models.CustomOrder) error {
	r.nextID++
	o.ID = r.nextID
	cp := *o
	r.customByID[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetCustomByID(_ context.Context, id uint) (*models.CustomOrder, error) {
	o, ok := r.customByID[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) ListCustomByUser(_ context.Context, userID uint) ([]models.CustomOrder, error) {
	var out []models.CustomOrder
	for _, o := range r.customByID {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListCustomAll(_ context.Context) ([]models.CustomOrder, error) {
	var out []models.CustomOrder
	for _, o := range r.customByID {
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateCustom(_ context.Context, id uint, updates map[string]interface{}) error {
	o := r.customByID[id]
	if s, ok := updates["status"].(string); ok {
		o.Status = s
	}
	if p, ok := updates["quoted_price"].(int64); ok {
		o.QuotedPrice = &p
	}
	if n, ok := updates["notes"].(string); ok {
		o.Notes = n
	}
	if pid, ok := updates["payment_id"].(string); ok {
		o.PaymentID = pid
	}
	return nil
}

// asUser injects an authenticated user the way the session middleware would.
func asUser(u *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if u != nil {
			c.Set(middleware.UserKey, u)
		}
		c.Next()
	}
}

func requireSession(c *gin.Context) {
	if _, ok := middleware.UserFrom(c); !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	}
}

func newOrdersRouter(t *testing.T, repo *fakeOrderRepo, user *models.User) (*gin.Engine, *orders.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	lookup := &fakeCatalogLookup{services: map[uint]*models.Service{
		1: {ID: 1, Name: "Logo Design", Price: 15000, IsActive: true},
		2: {ID: 2, Name: "Retired", Price: 9000, IsActive: false},
	}}
	svc := orders.NewService(repo, lookup)

	r := gin.New()
	identity := asUser(user)
	admin := r.Group("/api/admin", identity)
	NewOrdersHandler(svc).Register(&r.RouterGroup, identity, gin.HandlerFunc(func(c *gin.Context) {
		identity(c)
		if !c.IsAborted() {
			requireSession(c)
		}
	}), admin)
	return r, svc
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	res := httptest.NewRecorder()
	rq := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rq.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(res, rq)
	return res
}

func TestCreateOrder_GuestGetsPendingOrderWithCatalogPrice(t *testing.T) {
	repo := newFakeOrderRepo()
	r, _ := newOrdersRouter(t, repo, nil)

	res := postJSON(t, r, "/api/orders", gin.H{
		"serviceId":   1,
		"clientName":  "Sam Client",
		"clientEmail": "sam@example.com",
		"description": "A logo for my coffee shop",
	})

	require.Equal(t, http.StatusCreated, res.Code)
	var got models.Order
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &got))
	assert.Equal(t, models.OrderPending, got.Status)
	assert.Equal(t, int64(15000), got.Price)
	assert.Equal(t, uint(0), got.UserID)
}

func TestCreateOrder_AttachesSignedInUser(t *testing.T) {
	repo := newFakeOrderRepo()
	r, _ := newOrdersRouter(t, repo, &models.User{ID: 7, OpenID: "sub-7"})

	res := postJSON(t, r, "/api/orders", gin.H{
		"serviceId":   1,
		"clientName":  "Sam Client",
		"clientEmail": "sam@example.com",
		"description": "A logo for my coffee shop",
	})

	require.Equal(t, http.StatusCreated, res.Code)
	var got models.Order
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &got))
	assert.Equal(t, uint(7), got.UserID)
}

func TestCreateOrder_ValidationAndInactiveService(t *testing.T) {
	repo := newFakeOrderRepo()
	r, _ := newOrdersRouter(t, repo, nil)

	res := postJSON(t, r, "/api/orders", gin.H{"serviceId": 1, "clientName": "Sam", "clientEmail": "not-an-email", "description": "A logo for my coffee shop"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = postJSON(t, r, "/api/orders", gin.H{"serviceId": 1, "clientName": "Sam", "clientEmail": "sam@example.com", "description": "short"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = postJSON(t, r, "/api/orders", gin.H{"serviceId": 2, "clientName": "Sam", "clientEmail": "sam@example.com", "description": "A logo for my coffee shop"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	assert.Empty(t, repo.byID)
}

func TestListOrders_RequiresSessionAndScopesToUser(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.Create(context.Background(), &models.Order{UserID: 7, ServiceID: 1, Status: models.OrderPending})
	repo.Create(context.Background(), &models.Order{UserID: 8, ServiceID: 1, Status: models.OrderPending})

	anon, _ := newOrdersRouter(t, repo, nil)
	res := httptest.NewRecorder()
	anon.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	assert.Equal(t, http.StatusForbidden, res.Code)

	r, _ := newOrdersRouter(t, repo, &models.User{ID: 7, OpenID: "sub-7"})
	res = httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	require.Equal(t, http.StatusOK, res.Code)
	var list []models.Order
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, uint(7), list[0].UserID)
}

func TestGetOrder_HidesOtherUsersOrders(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.Create(context.Background(), &models.Order{UserID: 8, ServiceID: 1, Status: models.OrderPending})

	r, _ := newOrdersRouter(t, repo, &models.User{ID: 7, OpenID: "sub-7"})
	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/orders/1", nil))
	assert.Equal(t, http.StatusNotFound, res.Code)

	adminRouter, _ := newOrdersRouter(t, repo, &models.User{ID: 9, OpenID: "sub-9", Role: models.RoleAdmin})
	res = httptest.NewRecorder()
	adminRouter.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/orders/1", nil))
	assert.Equal(t, http.StatusOK, res.Code)

	// the payment page fetches by id without a session
	anon, _ := newOrdersRouter(t, repo, nil)
	res = httptest.NewRecorder()
	anon.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/orders/1", nil))
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestAdminUpdateStatus(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.Create(context.Background(), &models.Order{UserID: 7, ServiceID: 1, Status: models.OrderPending})
	r, _ := newOrdersRouter(t, repo, &models.User{ID: 1, OpenID: "admin", Role: models.RoleAdmin})

	raw, _ := json.Marshal(gin.H{"status": "in-progress", "notes": "started sketches"})
	res := httptest.NewRecorder()
	rq := httptest.NewRequest(http.MethodPatch, "/api/admin/orders/1/status", bytes.NewReader(raw))
	rq.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(res, rq)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, models.OrderInProgress, repo.byID[1].Status)
	assert.Equal(t, "started sketches", repo.byID[1].Notes)

	raw, _ = json.Marshal(gin.H{"status": "nonsense"})
	res = httptest.NewRecorder()
	rq = httptest.NewRequest(http.MethodPatch, "/api/admin/orders/1/status", bytes.NewReader(raw))
	rq.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(res, rq)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestCustomOrderQuoteFlow(t *testing.T) {
	repo := newFakeOrderRepo()
	r, _ := newOrdersRouter(t, repo, &models.User{ID: 4, OpenID: "sub-4"})

	res := postJSON(t, r, "/api/custom-orders", gin.H{
		"clientName":  "Pat",
		"clientEmail": "pat@example.com",
		"description": "Full brand identity package",
		"budget":      250000,
	})
	require.Equal(t, http.StatusCreated, res.Code)
	var created models.CustomOrder
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &created))
	assert.Equal(t, models.CustomPending, created.Status)
	require.NotNil(t, created.UserID)
	assert.Equal(t, uint(4), *created.UserID)

	adminRouter, _ := newOrdersRouter(t, repo, &models.User{ID: 1, OpenID: "admin", Role: models.RoleAdmin})
	raw, _ := json.Marshal(gin.H{"status": "quoted", "quotedPrice": 300000})
	res = httptest.NewRecorder()
	rq := httptest.NewRequest(http.MethodPatch, "/api/admin/custom-orders/1/status", bytes.NewReader(raw))
	rq.Header.Set("Content-Type", "application/json")
	adminRouter.ServeHTTP(res, rq)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, models.CustomQuoted, repo.customByID[1].Status)
	require.NotNil(t, repo.customByID[1].QuotedPrice)
	assert.Equal(t, int64(300000), *repo.customByID[1].QuotedPrice)
}
