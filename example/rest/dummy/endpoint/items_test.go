// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/z5labs/returns"
	"github.com/z5labs/returns/rest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func itemsApi(t *testing.T, store *ItemStore, rps rate.Limit) *rest.Api {
	t.Helper()

	api := rest.NewApi("test", "v0.0.0")
	require.NoError(t, Items(returns.NewRegistrar(api), store, rps))
	return api
}

func createItem(name string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"name": "`+name+`"}`))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestItems(t *testing.T) {
	t.Run("will create an item", func(t *testing.T) {
		store := NewItemStore()
		api := itemsApi(t, store, rate.Inf)

		resp, body := do(t, api, createItem("widget"))
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var item Item
		require.NoError(t, json.Unmarshal([]byte(body), &item))
		require.Equal(t, "widget", item.Name)

		stored, ok := store.Get(item.ID)
		require.True(t, ok)
		require.Equal(t, item, stored)
	})

	t.Run("will fail to create an item without a name", func(t *testing.T) {
		api := itemsApi(t, NewItemStore(), rate.Inf)

		resp, body := do(t, api, createItem(" "))
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.JSONEq(t, `{"detail": ["name must not be empty"]}`, body)
	})

	t.Run("will fail to create an item with a taken name", func(t *testing.T) {
		store := NewItemStore()
		existing, _ := store.Create("widget")
		api := itemsApi(t, store, rate.Inf)

		resp, body := do(t, api, createItem("widget"))
		require.Equal(t, http.StatusConflict, resp.StatusCode)
		require.JSONEq(t, `{"detail": {"existing_id": "`+existing.ID.String()+`", "name": "widget"}}`, body)
	})

	t.Run("will get an item", func(t *testing.T) {
		store := NewItemStore()
		existing, _ := store.Create("widget")
		api := itemsApi(t, store, rate.Inf)

		resp, body := do(t, api, httptest.NewRequest(http.MethodGet, "/items/"+existing.ID.String(), nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.JSONEq(t, `{"id": "`+existing.ID.String()+`", "name": "widget"}`, body)
	})

	t.Run("will fail to get an item with an invalid id", func(t *testing.T) {
		api := itemsApi(t, NewItemStore(), rate.Inf)

		resp, body := do(t, api, httptest.NewRequest(http.MethodGet, "/items/not-a-uuid", nil))
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.JSONEq(t, `{"detail": "invalid item id"}`, body)
	})

	t.Run("will fail to get an unknown item", func(t *testing.T) {
		api := itemsApi(t, NewItemStore(), rate.Inf)

		id := uuid.New()
		resp, body := do(t, api, httptest.NewRequest(http.MethodGet, "/items/"+id.String(), nil))
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		require.JSONEq(t, `{"detail": "no item with id `+id.String()+`"}`, body)
	})

	t.Run("will delete an item", func(t *testing.T) {
		store := NewItemStore()
		existing, _ := store.Create("widget")
		api := itemsApi(t, store, rate.Inf)

		resp, body := do(t, api, httptest.NewRequest(http.MethodDelete, "/items/"+existing.ID.String(), nil))
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		require.Empty(t, body)

		_, ok := store.Get(existing.ID)
		require.False(t, ok)
	})

	t.Run("will list items ordered by name", func(t *testing.T) {
		store := NewItemStore()
		b, _ := store.Create("b")
		a, _ := store.Create("a")
		api := itemsApi(t, store, rate.Inf)

		resp, body := do(t, api, httptest.NewRequest(http.MethodGet, "/items", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list ItemList
		require.NoError(t, json.Unmarshal([]byte(body), &list))
		require.Equal(t, []Item{a, b}, list.Items)
	})

	t.Run("will limit the rate of listing items", func(t *testing.T) {
		api := itemsApi(t, NewItemStore(), rate.Limit(0.001))

		resp, _ := do(t, api, httptest.NewRequest(http.MethodGet, "/items", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = do(t, api, httptest.NewRequest(http.MethodGet, "/items", nil))
		require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	})
}
