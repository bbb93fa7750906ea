package order

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/example/flowershop/internal/client"
	"github.com/example/flowershop/internal/i18n"
	"github.com/example/flowershop/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(handler http.HandlerFunc) (*Service, *storage.MemoryStorage, *httptest.Server) {
	srv := httptest.NewServer(handler)
	st := storage.NewMemoryStorage()
	return NewService(client.New(srv.URL, 2*time.Second, nil), st), st, srv
}

func newOfflineService() (*Service, *storage.MemoryStorage) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	st := storage.NewMemoryStorage()
	return NewService(client.New(srv.URL, time.Second, nil), st), st
}

func testDraft() Draft {
	return Draft{
		Items: []Item{
			{ProductID: "1", Name: i18n.NewText("红玫瑰", "Red Roses"), Price: 2999, Quantity: 2},
		},
		Consignee:   "Rose",
		Phone:       "13800000000",
		Address:     "1 Flower St",
		TotalAmount: 6998,
	}
}

func TestService_Create(t *testing.T) {
	svc, _, srv := newTestService(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Rose", req["consignee"])
		assert.Equal(t, "delivery", req["delivery_type"])
		assert.Equal(t, float64(6998), req["total_amount"])
		items := req["items"].([]any)
		require.Len(t, items, 1)
		assert.Equal(t, "1", items[0].(map[string]any)["product_id"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"ord-1","order_no":"FS20260901001","status":"pending","total_amount":6998,
			"items":[{"product_id":"1","name":"红玫瑰","name_en":"Red Roses","price":2999,"quantity":2}],
			"consignee":"Rose","created_at":"2026-09-01T10:00:00Z"}`))
	})
	defer srv.Close()

	o, err := svc.Create(context.Background(), testDraft())

	require.NoError(t, err)
	assert.Equal(t, "ord-1", o.ID)
	assert.Equal(t, "FS20260901001", o.OrderNo)
	assert.Equal(t, StatusPending, o.Status)
	assert.False(t, o.Local)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Red Roses", o.Items[0].Name.Resolve("en"))

	// recorded in local history too
	history, err := svc.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "ord-1", history[0].ID)
}

func TestService_Create_EmptyDraft(t *testing.T) {
	svc, _ := newOfflineService()
	_, err := svc.Create(context.Background(), Draft{})
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestService_CreateLocal(t *testing.T) {
	svc, _ := newOfflineService()
	ctx := context.Background()

	before := time.Now().UnixMilli()
	o, err := svc.CreateLocal(ctx, testDraft())
	require.NoError(t, err)

	assert.Equal(t, StatusPending, o.Status)
	assert.True(t, o.Local)
	assert.NotEmpty(t, o.ID)
	// timestamp-derived identifier
	assert.GreaterOrEqual(t, parseMillis(t, o.ID), before)
	assert.Equal(t, "delivery", o.DeliveryType)

	history, err := svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, o.ID, history[0].ID)
}

func TestService_HistoryIsMostRecentFirst(t *testing.T) {
	svc, _ := newOfflineService()
	ctx := context.Background()

	first, err := svc.CreateLocal(ctx, testDraft())
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := svc.CreateLocal(ctx, testDraft())
	require.NoError(t, err)

	history, err := svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)
}

func TestService_List_Normalizes(t *testing.T) {
	svc, _, srv := newTestService(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "cancelled", r.URL.Query().Get("status"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		w.Write([]byte(`{"data":[{"id":"ord-2","status":"cancelled","total_amount":1500,
			"items":[{"product_id":"2","name":"百合","price":1500,"quantity":1}],
			"created_at":"2026-08-30T09:00:00Z"}],"total":1,"page":1,"page_size":10}`))
	})
	defer srv.Close()

	page, err := svc.List(context.Background(), ListFilters{Status: StatusCancelled})

	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	o := page.Orders[0]
	assert.Equal(t, StatusCancelled, o.Status)
	assert.Equal(t, "已取消", o.Status.Label("zh"))
	assert.Equal(t, "#9e9e9e", o.Status.Color())
	assert.Equal(t, "百合", o.Items[0].Name.Resolve("en")) // no en variant, falls back
}

func TestService_ListOrHistory_BackendDown(t *testing.T) {
	svc, _ := newOfflineService()
	ctx := context.Background()

	_, err := svc.CreateLocal(ctx, testDraft())
	require.NoError(t, err)

	orders, err := svc.ListOrHistory(ctx, ListFilters{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].Local)
}

func TestService_Cancel_Remote(t *testing.T) {
	var gotPath string
	var gotStatus string
	svc, _, srv := newTestService(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotStatus = req["status"]
		w.WriteHeader(http.StatusOK)
	})
	defer srv.Close()

	err := svc.Cancel(context.Background(), "ord-1")

	require.NoError(t, err)
	assert.Equal(t, "/orders/ord-1/status", gotPath)
	assert.Equal(t, "cancelled", gotStatus)
}

func TestService_Cancel_LocalFallback(t *testing.T) {
	svc, _ := newOfflineService()
	ctx := context.Background()

	o, err := svc.CreateLocal(ctx, testDraft())
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, o.ID))

	history, err := svc.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, history[0].Status)
}

func TestService_Cancel_RejectsInvalidTransition(t *testing.T) {
	svc, st := newOfflineService()
	ctx := context.Background()

	o, err := svc.CreateLocal(ctx, testDraft())
	require.NoError(t, err)

	// force the local order to a terminal state
	history, err := svc.History(ctx)
	require.NoError(t, err)
	history[0].Status = StatusDelivered
	require.NoError(t, st.Set(ctx, storage.KeyOrders, history))

	err = svc.Cancel(ctx, o.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_ConfirmReceipt_RequiresShipped(t *testing.T) {
	svc, st := newOfflineService()
	ctx := context.Background()

	o, err := svc.CreateLocal(ctx, testDraft())
	require.NoError(t, err)

	// pending -> delivered is not allowed
	err = svc.ConfirmReceipt(ctx, o.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	history, err := svc.History(ctx)
	require.NoError(t, err)
	history[0].Status = StatusShipped
	require.NoError(t, st.Set(ctx, storage.KeyOrders, history))

	require.NoError(t, svc.ConfirmReceipt(ctx, o.ID))
	history, err = svc.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, history[0].Status)
}

func TestService_Stats_LocalFallback(t *testing.T) {
	svc, st := newOfflineService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.CreateLocal(ctx, testDraft())
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}
	history, err := svc.History(ctx)
	require.NoError(t, err)
	history[0].Status = StatusCancelled
	require.NoError(t, st.Set(ctx, storage.KeyOrders, history))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.Cancelled)
	assert.Equal(t, 3, stats.Total)
}

func TestService_Get_LocalFallback(t *testing.T) {
	svc, _ := newOfflineService()
	ctx := context.Background()

	o, err := svc.CreateLocal(ctx, testDraft())
	require.NoError(t, err)

	got, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	_, err = svc.Get(ctx, "unknown")
	assert.Error(t, err)
}

func parseMillis(t *testing.T, s string) int64 {
	t.Helper()
	n, err := strconv.ParseInt(s, 10, 64)
	require.NoError(t, err)
	return n
}
