package product

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ichibaBody = `{
	"Items": [
		{"Item": {
			"itemName": "お祝い用 花束 バラ",
			"itemPrice": 3980,
			"itemUrl": "https://example.com/item/1",
			"mediumImageUrls": [{"imageUrl": "https://example.com/img/1.jpg"}],
			"shopName": "フラワーショップ花子",
			"reviewAverage": 4.5
		}},
		{"Item": {
			"itemName": "名入れ ギフト",
			"itemPrice": 2500,
			"itemUrl": "https://example.com/item/2",
			"mediumImageUrls": [],
			"shopName": "ギフト工房",
			"reviewAverage": 4.0
		}}
	]
}`

func TestSearchItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/api/IchibaItem/Search/20220601", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "app-id", q.Get("applicationId"))
		assert.Equal(t, "入学式 花束", q.Get("keyword"))
		assert.Equal(t, "10", q.Get("hits"))
		assert.Equal(t, "-reviewCount", q.Get("sort"))
		assert.Equal(t, "json", q.Get("format"))
		w.Write([]byte(ichibaBody))
	}))
	defer server.Close()

	svc := NewService(server.URL, "app-id", 10, slog.Default())

	items, err := svc.SearchItems(context.Background(), "入学式 花束")
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "お祝い用 花束 バラ", items[0].ItemName)
	assert.Equal(t, 3980, items[0].ItemPrice)
	assert.Equal(t, "https://example.com/img/1.jpg", items[0].ImageURL)
	assert.Equal(t, "フラワーショップ花子", items[0].ShopName)
	assert.InDelta(t, 4.5, items[0].ReviewAverage, 0.001)

	assert.Empty(t, items[1].ImageURL, "items without images keep an empty URL")
}

func TestSearchItemsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := NewService(server.URL, "app-id", 10, slog.Default())

	_, err := svc.SearchItems(context.Background(), "花束")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestSearchItemsEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Items": []}`))
	}))
	defer server.Close()

	svc := NewService(server.URL, "app-id", 10, slog.Default())

	items, err := svc.SearchItems(context.Background(), "該当なしキーワード")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
