package orders_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"storefront/internal/cart"
	"storefront/internal/kvstore"
	"storefront/internal/kvstore/fakestore"
	"storefront/internal/models"
	"storefront/internal/orders"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func order(id string) models.Order {
	return models.Order{
		ID:      id,
		Product: models.Product{ID: 1, Title: "Backpack", Price: 109.95},
		Buyer:   models.Buyer{Name: "Asha", Address: "12 MG Road", PaymentMethod: "UPI"},
		Date:    "2025-01-02T03:04:05.000Z",
	}
}

func TestHistory_EmptyWhenMissingOrCorrupt(t *testing.T) {
	ctx := context.Background()

	list, err := orders.NewHistory(fakestore.New()).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)

	corrupt := fakestore.New().Seed(kvstore.KeyOrderHistory, "{not json")
	list, err = orders.NewHistory(corrupt).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestHistory_ReadError(t *testing.T) {
	kv := fakestore.New()
	kv.FailGet(kvstore.KeyOrderHistory, errors.New("io"))

	_, err := orders.NewHistory(kv).List(context.Background())
	require.Error(t, err)
}

func TestHistory_AppendGetRemove(t *testing.T) {
	ctx := context.Background()
	kv := fakestore.New()
	h := orders.NewHistory(kv)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, h.Append(ctx, order(id)))
	}

	got, err := h.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "b", got.ID)

	remaining, err := h.Remove(ctx, 1)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, "a", remaining[0].ID)
	assert.Equal(t, "c", remaining[1].ID)

	raw, ok := kv.Value(kvstore.KeyOrderHistory)
	require.True(t, ok)
	var stored []models.Order
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, remaining, stored)
}

func TestHistory_RemoveOutOfRangeWritesNothing(t *testing.T) {
	ctx := context.Background()
	kv := fakestore.New()
	h := orders.NewHistory(kv)
	require.NoError(t, h.Append(ctx, order("a")))
	writes := kv.SetCount(kvstore.KeyOrderHistory)

	for _, idx := range []int{-1, 1, 5} {
		list, err := h.Remove(ctx, idx)
		require.ErrorIs(t, err, orders.ErrOrderNotFound)
		assert.Len(t, list, 1)
	}
	_, err := h.Get(ctx, 3)
	require.ErrorIs(t, err, orders.ErrOrderNotFound)

	assert.Equal(t, writes, kv.SetCount(kvstore.KeyOrderHistory))
}

func TestHistory_StoredEncoding(t *testing.T) {
	kv := fakestore.New()
	require.NoError(t, orders.NewHistory(kv).Append(context.Background(), order("x")))

	raw, _ := kv.Value(kvstore.KeyOrderHistory)
	assert.JSONEq(t, `[{
		"id": "x",
		"product": {"id": 1, "title": "Backpack", "price": 109.95, "image": "", "description": ""},
		"buyer": {"name": "Asha", "address": "12 MG Road", "paymentMethod": "UPI"},
		"date": "2025-01-02T03:04:05.000Z"
	}]`, raw)
}

func TestCheckout_Place(t *testing.T) {
	ctx := context.Background()
	kv := fakestore.New()
	c := cart.New()
	product := models.Product{ID: 7, Title: "Bracelet", Price: 695}
	c.Add(product)
	c.Add(models.Product{ID: 8})

	ist := time.FixedZone("IST", 5*3600+1800)
	co := orders.NewCheckout(orders.NewHistory(kv),
		orders.WithCart(c),
		orders.WithNowTime(func() time.Time { return time.Date(2025, 3, 4, 10, 30, 0, 123e6, ist) }),
		orders.WithIDGenerator(func() string { return "order-1" }),
	)

	placed, err := co.Place(ctx, product, models.Buyer{Name: "Asha", Address: "Pune", PaymentMethod: "Card"})
	require.NoError(t, err)
	assert.Equal(t, "order-1", placed.ID)
	assert.Equal(t, "2025-03-04T05:00:00.123Z", placed.Date)

	assert.False(t, c.Contains(7))
	assert.True(t, c.Contains(8))

	list, err := orders.NewHistory(kv).List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Order{placed}, list)
}

func TestCheckout_DefaultIDIsUUID(t *testing.T) {
	co := orders.NewCheckout(orders.NewHistory(fakestore.New()))

	placed, err := co.Place(context.Background(), models.Product{ID: 1}, models.Buyer{Name: "a", Address: "b", PaymentMethod: "c"})
	require.NoError(t, err)
	assert.Len(t, placed.ID, 36)
	_, err = time.Parse(orders.DateLayout, placed.Date)
	assert.NoError(t, err)
}

func TestCheckout_RejectsMissingBuyerDetails(t *testing.T) {
	kv := fakestore.New()
	co := orders.NewCheckout(orders.NewHistory(kv))

	buyers := []models.Buyer{
		{},
		{Name: "a", Address: "b"},
		{Name: "a", PaymentMethod: "c"},
		{Address: "b", PaymentMethod: "c"},
	}
	for _, b := range buyers {
		_, err := co.Place(context.Background(), models.Product{ID: 1}, b)
		require.ErrorIs(t, err, orders.ErrMissingBuyerDetails)
	}
	assert.Equal(t, 0, kv.SetCount(kvstore.KeyOrderHistory))
}

func TestCheckout_PersistFailureKeepsCart(t *testing.T) {
	kv := fakestore.New()
	kv.FailSet(kvstore.KeyOrderHistory, errors.New("disk full"))
	c := cart.New()
	c.Add(models.Product{ID: 1})

	co := orders.NewCheckout(orders.NewHistory(kv), orders.WithCart(c))
	_, err := co.Place(context.Background(), models.Product{ID: 1}, models.Buyer{Name: "a", Address: "b", PaymentMethod: "c"})

	require.Error(t, err)
	assert.True(t, c.Contains(1))
}
