package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/storefront/admin-console/internal/api/http"
	"github.com/storefront/admin-console/internal/api/http/handlers"
	"github.com/storefront/admin-console/internal/apiclient"
	"github.com/storefront/admin-console/internal/auth"
	"github.com/storefront/admin-console/internal/auth/authtest"
	"github.com/storefront/admin-console/internal/config"
	"github.com/storefront/admin-console/internal/events"
	"github.com/storefront/admin-console/internal/guard"
	"github.com/storefront/admin-console/internal/observability"
	"github.com/storefront/admin-console/internal/persistence"
	"github.com/storefront/admin-console/internal/repository"
	"github.com/storefront/admin-console/internal/service"
	"github.com/storefront/admin-console/internal/session"
	"github.com/storefront/admin-console/internal/view"
)

const cookieName = "_console_sid"

type call struct {
	Method string
	Path   string
	Query  map[string][]string
	Body   string
	Auth   string
}

type stubBackend struct {
	mu     sync.Mutex
	calls  []call
	routes map[string]http.HandlerFunc
	srv    *httptest.Server
}

func (b *stubBackend) on(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = h
}

func (b *stubBackend) reply(method, path string, status int, body string) {
	b.on(method, path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (b *stubBackend) find(method, path string) (call, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.calls) - 1; i >= 0; i-- {
		if b.calls[i].Method == method && b.calls[i].Path == path {
			return b.calls[i], true
		}
	}
	return call{}, false
}

type console struct {
	app      *fiber.App
	backend  *stubBackend
	sessions *session.Manager
	store    *session.MemoryStore
	audit    *service.AuditService
	metrics  *observability.Metrics
}

func newConsole(t *testing.T) *console {
	t.Helper()
	b := &stubBackend{routes: map[string]http.HandlerFunc{}}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.calls = append(b.calls, call{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Body:   string(raw),
			Auth:   r.Header.Get("Authorization"),
		})
		h, ok := b.routes[r.Method+" "+r.URL.Path]
		b.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		// restore the body for handlers that parse it
		r.Body = io.NopCloser(bytes.NewReader(raw))
		h(w, r)
	}))
	t.Cleanup(b.srv.Close)

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	client := apiclient.New(b.srv.URL+"/api", 5*time.Second)

	store := session.NewMemoryStore("console:session")
	sessions := session.NewManager(store, auth.NewTokenDecoder("role", "email"),
		config.SessionConfig{CookieName: cookieName, KeyPrefix: "console:session", TTLMinutes: 60}, "/login", logger)

	audit := service.NewAuditService(repository.NewMemoryAuditRepository(100), logger)
	dispatcher := events.NewInMemoryDispatcher()
	for _, eventType := range events.AllTypes() {
		dispatcher.Subscribe(eventType, audit.Record)
	}
	publisher := handlers.NewPublisher(dispatcher, logger)
	tracker := view.NewTracker()
	managerRoles := []string{"Admin", "Manager"}
	adminRoles := []string{"Admin"}

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, 10*time.Second)
	app.Get("/boom/canceled", func(c *fiber.Ctx) error {
		return fmt.Errorf("load orders: %w", context.Canceled)
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:       handlers.NewHealthHandler("admin-console", "test", &persistence.Postgres{}, nil, client, metrics),
		Auth:         handlers.NewAuthHandler(service.NewAuthService(client), sessions, publisher, logger),
		Dashboard:    handlers.NewDashboardHandler(managerRoles, adminRoles),
		Orders:       handlers.NewOrdersHandler(service.NewOrderService(client), tracker, publisher),
		Products:     handlers.NewProductsHandler(service.NewProductService(client), tracker, publisher),
		SaleItems:    handlers.NewSaleItemsHandler(service.NewSaleItemService(client), tracker, publisher),
		Audit:        handlers.NewAuditHandler(audit),
		Sessions:     sessions,
		Guard:        guard.New("/login", "/unauthorized", logger),
		LoginPath:    "/login",
		ManagerRoles: managerRoles,
		AdminRoles:   adminRoles,
	})

	return &console{app: app, backend: b, sessions: sessions, store: store, audit: audit, metrics: metrics}
}

func (c *console) signIn(t *testing.T, role string) string {
	t.Helper()
	sess := c.sessions.Open(uuid.NewString())
	_, err := sess.Begin(context.Background(), authtest.Token(t, strings.ToLower(role)+"@shop.test", role, time.Hour))
	require.NoError(t, err)
	return sess.ID()
}

func (c *console) do(t *testing.T, method, path, sid string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: sid})
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (c *console) doJSON(t *testing.T, method, path, sid, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	return c.do(t, method, path, sid, reader, fiber.MIMEApplicationJSON)
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAdminOnlyPage_AdminRendersCustomerRedirected(t *testing.T) {
	c := newConsole(t)

	resp := c.do(t, http.MethodGet, "/admin/audit", c.signIn(t, "Admin"), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "audit", decode(t, resp)["page"])

	resp = c.do(t, http.MethodGet, "/admin/audit", c.signIn(t, "Customer"), nil, "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/unauthorized", resp.Header.Get("Location"))

	resp = c.do(t, http.MethodGet, "/unauthorized", "", nil, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decode(t, resp)
	notice := body["notice"].(map[string]any)
	assert.Equal(t, "error", notice["severity"])
}

func TestAdminPages_RequireSignIn(t *testing.T) {
	c := newConsole(t)

	resp := c.do(t, http.MethodGet, "/admin/products?search=hat", "", nil, "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?redir=%2Fadmin%2Fproducts%3Fsearch%3Dhat", resp.Header.Get("Location"))

	_, called := c.backend.find(http.MethodGet, "/api/products")
	assert.False(t, called, "guarded pages never reach the backend without a session")
}

func TestUnsentOrders_MapsZeroBasedPage(t *testing.T) {
	c := newConsole(t)
	c.backend.reply(http.MethodGet, "/api/admin/orders", http.StatusOK,
		`{"items":[{"orderNo":"ORD-21","isSentByPost":false}],"page":2,"pageSize":20,"totalCount":21}`)
	sid := c.signIn(t, "Manager")

	resp := c.do(t, http.MethodGet, "/admin/orders/unsent?page=1&rowsPerPage=20&q=ORD", sid, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	sent, ok := c.backend.find(http.MethodGet, "/api/admin/orders")
	require.True(t, ok)
	assert.Equal(t, []string{"2"}, sent.Query["page"])
	assert.Equal(t, []string{"20"}, sent.Query["pageSize"])
	assert.Equal(t, []string{"false"}, sent.Query["isSentByPost"])
	assert.Equal(t, []string{"ORD"}, sent.Query["q"])
	assert.True(t, strings.HasPrefix(sent.Auth, "Bearer "))

	data := decode(t, resp)["data"].(map[string]any)
	assert.EqualValues(t, 21, data["total"])
	page := data["page"].(map[string]any)
	assert.EqualValues(t, 1, page["index"])
	assert.EqualValues(t, 20, page["size"])
	assert.Len(t, data["items"], 1)
}

func TestMarkSent_PatchesThenReloads(t *testing.T) {
	c := newConsole(t)
	var (
		mu   sync.Mutex
		sent bool
	)
	c.backend.on(http.MethodPatch, "/api/admin/orders/ORD-123/mark-sent", func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		sent = true
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	c.backend.on(http.MethodGet, "/api/admin/orders/ORD-123", func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"orderNo":"ORD-123","isSentByPost":%t,"trackingNumber":"TRK1"}`, sent)
	})
	sid := c.signIn(t, "Manager")

	resp := c.doJSON(t, http.MethodPost, "/admin/orders/ORD-123/mark-sent", sid, `{"trackingNumber":"TRK1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	patch, ok := c.backend.find(http.MethodPatch, "/api/admin/orders/ORD-123/mark-sent")
	require.True(t, ok)
	assert.JSONEq(t, `{"orderNo":"ORD-123","trackingNumber":"TRK1"}`, patch.Body)

	body := decode(t, resp)
	order := body["data"].(map[string]any)
	assert.Equal(t, true, order["isSentByPost"])
	assert.Equal(t, "success", body["notice"].(map[string]any)["severity"])

	trail, err := c.audit.List(context.Background(), repository.AuditFilter{Action: "order_marked_sent"}, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, trail.Total)
	assert.Equal(t, "ORD-123", trail.Items[0].TargetID)
	assert.Equal(t, "manager@shop.test", trail.Items[0].ActorEmail)
}

func TestLoginLogoutFlow(t *testing.T) {
	c := newConsole(t)
	token := authtest.Token(t, "admin@shop.test", "Admin", time.Hour)
	c.backend.reply(http.MethodPost, "/api/auth/login", http.StatusOK, `{"token":"`+token+`"}`)

	resp := c.doJSON(t, http.MethodPost, "/login", "", `{"username":"admin","password":"pw","redir":"/admin/products"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sid string
	for _, ck := range resp.Cookies() {
		if ck.Name == cookieName {
			sid = ck.Value
		}
	}
	require.NotEmpty(t, sid)
	body := decode(t, resp)
	assert.Equal(t, "/admin/products", body["redirect"])
	assert.Equal(t, "Admin", body["user"].(map[string]any)["role"])

	resp = c.do(t, http.MethodGet, "/admin", sid, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	dash := decode(t, resp)
	assert.Len(t, dash["data"].(map[string]any)["links"], 4)

	resp = c.do(t, http.MethodPost, "/logout", sid, nil, "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.False(t, c.store.Has(session.TokenKey("console:session", sid)))
	assert.False(t, c.store.Has(session.UserKey("console:session", sid)))

	resp = c.do(t, http.MethodGet, "/admin", sid, nil, "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	trail, err := c.audit.List(context.Background(), repository.AuditFilter{TargetType: "session"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, trail.Total)
}

func TestLoginPage_CarriesRedirTarget(t *testing.T) {
	c := newConsole(t)

	for _, sid := range []string{"", c.signIn(t, "Manager")} {
		resp := c.do(t, http.MethodGet, "/login?redir=%2Fadmin%2Forders", sid, nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		data := decode(t, resp)["data"].(map[string]any)
		assert.Equal(t, "/admin/orders", data["redir"])
		assert.Equal(t, sid != "", data["authenticated"])
		assert.NotContains(t, data, "redirect")
	}
}

func TestLogin_RejectsOffsiteRedirect(t *testing.T) {
	c := newConsole(t)
	token := authtest.Token(t, "admin@shop.test", "Admin", time.Hour)
	c.backend.reply(http.MethodPost, "/api/auth/login", http.StatusOK, `{"token":"`+token+`"}`)

	resp := c.doJSON(t, http.MethodPost, "/login", "", `{"username":"admin","password":"pw","redir":"//evil.test/x"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/admin", decode(t, resp)["redirect"])
}

func TestLogin_Validation(t *testing.T) {
	c := newConsole(t)

	resp := c.doJSON(t, http.MethodPost, "/login", "", `{"username":"  "}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode(t, resp)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_FAILED", errBody["code"])
	details := errBody["details"].(map[string]any)
	assert.Contains(t, details, "username")
	assert.Contains(t, details, "password")
	assert.Equal(t, "error", body["notice"].(map[string]any)["severity"])
}

func TestLogin_BackendRejection(t *testing.T) {
	c := newConsole(t)
	c.backend.reply(http.MethodPost, "/api/auth/login", http.StatusUnauthorized, `{"message":"Invalid credentials"}`)

	resp := c.doJSON(t, http.MethodPost, "/login", "", `{"username":"admin","password":"nope"}`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "Invalid credentials", body["notice"].(map[string]any)["message"])
	assert.Empty(t, resp.Cookies())
}

func TestProducts_ClientSideSearchAndPaging(t *testing.T) {
	c := newConsole(t)
	products := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		name := fmt.Sprintf("Hat %d", i)
		if i%2 == 0 {
			name = fmt.Sprintf("Wool Scarf %d", i)
		}
		products = append(products, fmt.Sprintf(`{"id":"p%d","name":%q,"price":10}`, i, name))
	}
	c.backend.reply(http.MethodGet, "/api/products", http.StatusOK, "["+strings.Join(products, ",")+"]")

	resp := c.do(t, http.MethodGet, "/admin/products?search=SCARF&page=1&rowsPerPage=10", c.signIn(t, "Admin"), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decode(t, resp)["data"].(map[string]any)
	assert.EqualValues(t, 13, data["total"])
	items := data["items"].([]any)
	require.Len(t, items, 3)
	assert.Equal(t, "Wool Scarf 20", items[0].(map[string]any)["name"])
	assert.Equal(t, "SCARF", data["filters"].(map[string]any)["search"])
}

func TestProducts_HugePageIndexRendersEmptyPage(t *testing.T) {
	c := newConsole(t)
	c.backend.reply(http.MethodGet, "/api/products", http.StatusOK, `[{"id":"p1","name":"Hat","price":10}]`)

	resp := c.do(t, http.MethodGet, "/admin/products?page=461168601842738791", c.signIn(t, "Admin"), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decode(t, resp)["data"].(map[string]any)
	assert.Empty(t, data["items"])
	assert.EqualValues(t, 1, data["total"])
	assert.Equal(t, float64(view.MaxIndex), data["page"].(map[string]any)["index"])
}

func TestProducts_CreateValidation(t *testing.T) {
	c := newConsole(t)

	resp := c.doJSON(t, http.MethodPost, "/admin/products", c.signIn(t, "Manager"), `{"name":"","price":"-1","stock":2}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	details := decode(t, resp)["error"].(map[string]any)["details"].(map[string]any)
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "price")
	assert.NotContains(t, details, "stock")

	_, called := c.backend.find(http.MethodPost, "/api/products")
	assert.False(t, called)
}

func TestProducts_UploadMediaReturnsRefreshedProduct(t *testing.T) {
	c := newConsole(t)
	var field string
	c.backend.on(http.MethodPost, "/api/products/p1/upload", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			for name := range r.MultipartForm.File {
				field = name
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})
	c.backend.reply(http.MethodGet, "/api/products/p1", http.StatusOK,
		`{"id":"p1","name":"Scarf","media":[{"url":"https://cdn.test/a.png","type":"image"}]}`)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "a.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("png"))
	require.NoError(t, mw.Close())

	resp := c.do(t, http.MethodPost, "/admin/products/p1/media", c.signIn(t, "Admin"), &buf, mw.FormDataContentType())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "MediaFile", field)

	product := decode(t, resp)["data"].(map[string]any)
	assert.Len(t, product["media"], 1)
}

func TestBackendFailure_RendersPageNotice(t *testing.T) {
	c := newConsole(t)
	c.backend.reply(http.MethodGet, "/api/admin/orders", http.StatusInternalServerError, `<html>oops</html>`)

	resp := c.do(t, http.MethodGet, "/admin/orders/unsent", c.signIn(t, "Admin"), nil, "")
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "UPSTREAM_ERROR", body["error"].(map[string]any)["code"])
	assert.Equal(t, "Failed to load orders", body["notice"].(map[string]any)["message"])
}

func TestBackendNotFound_KeepsStatusAndMessage(t *testing.T) {
	c := newConsole(t)
	c.backend.reply(http.MethodGet, "/api/sale-items/missing", http.StatusNotFound, `{"title":"Sale item not found"}`)

	resp := c.do(t, http.MethodGet, "/admin/sale-items/missing", c.signIn(t, "Manager"), nil, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "Sale item not found", body["notice"].(map[string]any)["message"])
}

func TestSaleItems_InvalidSortRejected(t *testing.T) {
	c := newConsole(t)

	resp := c.do(t, http.MethodGet, "/admin/sale-items?sortBy=price", c.signIn(t, "Manager"), nil, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_, called := c.backend.find(http.MethodGet, "/api/sale-items")
	assert.False(t, called)
}

func TestCanceledLoad_AnswersNoContentSilently(t *testing.T) {
	c := newConsole(t)

	resp := c.do(t, http.MethodGet, "/boom/canceled", "", nil, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Empty(t, raw)
	assert.Equal(t, int64(1), c.metrics.Snapshot().Canceled)
}

func TestHealth(t *testing.T) {
	c := newConsole(t)

	resp := c.do(t, http.MethodGet, "/health/live", "", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = c.do(t, http.MethodGet, "/health/ready", "", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	deps := decode(t, resp)["dependencies"].(map[string]any)
	assert.Equal(t, "disabled", deps["postgres"])
	assert.Equal(t, "disabled", deps["redis"])
	assert.Equal(t, "ok", deps["backend"])

	resp = c.do(t, http.MethodGet, "/metrics", "", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReady_ReportsEachDependency(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	defer backend.Close()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()

	health := handlers.NewHealthHandler("admin-console", "test", &persistence.Postgres{},
		&persistence.Redis{Client: client}, apiclient.New(backend.URL, time.Second), observability.NewMetrics())
	app := fiber.New()
	app.Get("/ready", health.Ready)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ready", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	deps := decode(t, resp)["dependencies"].(map[string]any)
	assert.Equal(t, map[string]any{"postgres": "disabled", "redis": "ok", "backend": "ok"}, deps)

	mr.Close()
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/ready", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	details := decode(t, resp)["error"].(map[string]any)["details"].(map[string]any)
	assert.NotEqual(t, "ok", details["redis"])
	assert.Equal(t, "ok", details["backend"])
	assert.Equal(t, "disabled", details["postgres"])
}
