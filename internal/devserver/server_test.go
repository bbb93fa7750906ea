package devserver

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/flowershop/internal/cart"
	"github.com/example/flowershop/internal/catalog"
	"github.com/example/flowershop/internal/client"
	"github.com/example/flowershop/internal/infrastructure/storage"
	"github.com/example/flowershop/internal/order"
	"github.com/example/flowershop/internal/session"
)

// app wires the full client stack against a dev backend instance, the
// same way the CLI does it.
type app struct {
	client   *client.Client
	session  *session.Service
	catalog  *catalog.Service
	cart     *cart.Engine
	orders   *order.Service
	checkout *order.Checkout
}

func newApp(t *testing.T) (*app, *httptest.Server) {
	t.Helper()

	server, err := New(Options{})
	require.NoError(t, err)
	srv := httptest.NewServer(server.Handler())
	t.Cleanup(srv.Close)

	st := storage.NewMemoryStorage()
	tokens := session.NewTokenStore(st)
	c := client.New(srv.URL+"/api", 5*time.Second, tokens)

	cartEngine := cart.NewEngine(st, cart.Pricing{FreeDeliveryThreshold: 9900, DeliveryFee: 1000})
	orders := order.NewService(c, st)

	return &app{
		client:   c,
		session:  session.NewService(c, st, tokens),
		catalog:  catalog.NewService(c),
		cart:     cartEngine,
		orders:   orders,
		checkout: order.NewCheckout(orders, cartEngine),
	}, srv
}

func login(t *testing.T, a *app) {
	t.Helper()
	_, err := a.session.Login(context.Background(), DemoEmail, DemoPassword)
	require.NoError(t, err)
}

func TestLogin(t *testing.T) {
	a, _ := newApp(t)
	ctx := context.Background()

	user, err := a.session.Login(ctx, DemoEmail, DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, DemoEmail, user.Email)
	assert.True(t, a.session.IsLoggedIn(ctx))

	_, err = a.session.Login(ctx, DemoEmail, "wrong-password")
	assert.ErrorIs(t, err, client.ErrUnauthorized)
}

func TestCatalogRoundTrip(t *testing.T) {
	a, _ := newApp(t)
	ctx := context.Background()

	page, err := a.catalog.ListProducts(ctx, catalog.ListFilters{PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Len(t, page.Products, 3)
	assert.Equal(t, "Red Roses", page.Products[0].Name.Resolve("en"))
	assert.Equal(t, "红玫瑰", page.Products[0].Name.Resolve("zh"))

	p, err := a.catalog.GetProduct(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, int64(4599), p.Price)

	_, err = a.catalog.GetProduct(ctx, "nope")
	assert.ErrorIs(t, err, client.ErrNotFound)

	featured, err := a.catalog.FeaturedProducts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, featured, 2)
	// ordered by rating
	assert.GreaterOrEqual(t, featured[0].Rating, featured[1].Rating)

	results, err := a.catalog.SearchProducts(ctx, "lily", catalog.ListFilters{})
	require.NoError(t, err)
	require.Len(t, results.Products, 1)
	assert.Equal(t, "5", results.Products[0].ID)

	categories, err := a.catalog.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 5)
}

func TestProtectedRoutesRequireLogin(t *testing.T) {
	a, _ := newApp(t)

	_, err := a.orders.List(context.Background(), order.ListFilters{})
	assert.ErrorIs(t, err, client.ErrUnauthorized)
}

func TestCheckoutAgainstBackend(t *testing.T) {
	a, _ := newApp(t)
	ctx := context.Background()
	login(t, a)

	roses, err := a.catalog.GetProduct(ctx, "1")
	require.NoError(t, err)
	_, err = a.cart.Add(ctx, *roses, 2)
	require.NoError(t, err)

	placed, err := a.checkout.PlaceOrder(ctx, order.DeliveryInfo{
		Consignee: "Demo Shopper",
		Phone:     "13800000000",
		Address:   "1 Flower St",
	})
	require.NoError(t, err)
	assert.False(t, placed.Local)
	assert.True(t, strings.HasPrefix(placed.OrderNo, "FS"))
	assert.Equal(t, order.StatusPending, placed.Status)
	// 2 x 2999 is below the free delivery threshold
	assert.Equal(t, int64(2*2999+1000), placed.TotalAmount)

	count, err := a.cart.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	fetched, err := a.orders.Get(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.OrderNo, fetched.OrderNo)
	assert.Equal(t, "红玫瑰", fetched.Items[0].Name.Resolve("zh"))
}

func TestOrderLifecycleAgainstBackend(t *testing.T) {
	a, _ := newApp(t)
	ctx := context.Background()
	login(t, a)

	roses, err := a.catalog.GetProduct(ctx, "1")
	require.NoError(t, err)
	_, err = a.cart.Add(ctx, *roses, 1)
	require.NoError(t, err)

	placed, err := a.checkout.PlaceOrder(ctx, order.DeliveryInfo{
		Consignee: "Demo Shopper",
		Phone:     "13800000000",
		Address:   "1 Flower St",
	})
	require.NoError(t, err)

	require.NoError(t, a.orders.Cancel(ctx, placed.ID))

	fetched, err := a.orders.Get(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, fetched.Status)

	// cancelled is terminal, both locally and on the backend
	err = a.orders.Cancel(ctx, placed.ID)
	assert.ErrorIs(t, err, order.ErrInvalidTransition)

	stats, err := a.orders.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Cancelled)
	assert.Equal(t, 1, stats.Total)

	page, err := a.orders.List(ctx, order.ListFilters{Status: order.StatusCancelled})
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, placed.ID, page.Orders[0].ID)
}

func TestOrderRejectsOverstock(t *testing.T) {
	a, _ := newApp(t)
	ctx := context.Background()
	login(t, a)

	// orchids are stocked at 15; submit a draft that asks for more
	_, err := a.orders.Create(ctx, order.Draft{
		Items:       []order.Item{{ProductID: "4", Quantity: 100, Price: 4599}},
		Consignee:   "Demo Shopper",
		Phone:       "13800000000",
		Address:     "1 Flower St",
		TotalAmount: 459900,
	})
	assert.ErrorIs(t, err, client.ErrRequestFailed)
}

func TestAddressBookAgainstBackend(t *testing.T) {
	a, _ := newApp(t)
	ctx := context.Background()
	login(t, a)

	created, err := a.session.AddAddress(ctx, session.Address{
		Name: "Demo Shopper", Phone: "13800000000", Region: "Haidian", Detail: "1 Flower St",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	def, err := a.session.SetDefaultAddress(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, def.IsDefault)

	cached, found, err := a.session.DefaultAddress(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, created.ID, cached.ID)

	require.NoError(t, a.session.DeleteAddress(ctx, created.ID))
	list, err := a.session.Addresses(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUploadAgainstBackend(t *testing.T) {
	a, _ := newApp(t)
	ctx := context.Background()
	login(t, a)

	var resp struct {
		URL string `json:"url"`
	}
	err := a.client.Upload(ctx, client.PathUpload, "file", "avatar.png", strings.NewReader("png-bytes"), nil, &resp)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(resp.URL, "_avatar.png"))
}

func TestProfileUpdateAgainstBackend(t *testing.T) {
	a, _ := newApp(t)
	ctx := context.Background()
	login(t, a)

	updated, err := a.session.UpdateProfile(ctx, session.User{Nickname: "Flower Fan"})
	require.NoError(t, err)
	assert.Equal(t, "Flower Fan", updated.Nickname)

	profile, err := a.session.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Flower Fan", profile.Nickname)
}
