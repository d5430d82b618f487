// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"net/http"
	"strings"

	"github.com/z5labs/returns"
	"github.com/z5labs/returns/rest"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// CreateItemRequest is the JSON body of POST /items.
type CreateItemRequest struct {
	Name string `json:"name"`
}

// ItemList is returned by GET /items.
type ItemList struct {
	Items []Item `json:"items"`
}

// ItemRequest reads the item id from the path.
type ItemRequest struct {
	ID string
}

// ReadRequest implements the [returns.RequestReader] interface.
func (req *ItemRequest) ReadRequest(ctx context.Context, r *http.Request) error {
	req.ID = rest.PathParamValue(ctx, "id")
	return nil
}

func (req *ItemRequest) parse() (uuid.UUID, returns.Failure) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return uuid.Nil, InvalidItemID.Err()
	}
	return id, nil
}

// Items registers the item routes backed by store.
// Listing is limited to rps requests per second.
func Items(reg *returns.Registrar, store *ItemStore, rps rate.Limit) error {
	items := rest.BasePath("/items")
	item := items.Param("id")
	tags := rest.Tags("items")

	err := returns.Post(
		reg,
		items,
		returns.HandlerFunc[CreateItemRequest, Item](func(ctx context.Context, req *CreateItemRequest) (returns.Result[*Item], error) {
			name := strings.TrimSpace(req.Name)
			if name == "" {
				return returns.Fail[Item](InvalidItem.New([]string{"name must not be empty"})), nil
			}

			created, ok := store.Create(name)
			if !ok {
				return returns.Fail[Item](ItemAlreadyExists.New(ItemConflict{
					ExistingID: created.ID.String(),
					Name:       created.Name,
				})), nil
			}
			return returns.Ok(&created), nil
		}),
		returns.Errors(InvalidItem, ItemAlreadyExists),
		returns.StatusCode(http.StatusCreated),
		returns.Operation(rest.Summary("Create an item"), tags),
	)
	if err != nil {
		return err
	}

	err = returns.Get(
		reg,
		items,
		returns.HandlerFunc[returns.EmptyRequest, ItemList](func(ctx context.Context, req *returns.EmptyRequest) (returns.Result[*ItemList], error) {
			return returns.Ok(&ItemList{Items: store.List()}), nil
		}),
		returns.Errors(),
		returns.Operation(rest.Summary("List items"), tags, rest.RateLimit(rps, 1)),
	)
	if err != nil {
		return err
	}

	err = returns.Get(
		reg,
		item,
		returns.HandlerFunc[ItemRequest, Item](func(ctx context.Context, req *ItemRequest) (returns.Result[*Item], error) {
			id, failure := req.parse()
			if failure != nil {
				return returns.Fail[Item](failure), nil
			}

			found, ok := store.Get(id)
			if !ok {
				return returns.Fail[Item](ItemNotFound.New("no item with id " + id.String())), nil
			}
			return returns.Ok(&found), nil
		}),
		returns.Errors(InvalidItemID, ItemNotFound),
		returns.Operation(rest.Summary("Get an item"), tags),
	)
	if err != nil {
		return err
	}

	return returns.Delete(
		reg,
		item,
		returns.HandlerFunc[ItemRequest, returns.Empty](func(ctx context.Context, req *ItemRequest) (returns.Result[*returns.Empty], error) {
			id, failure := req.parse()
			if failure != nil {
				return returns.Fail[returns.Empty](failure), nil
			}

			if !store.Delete(id) {
				return returns.Fail[returns.Empty](ItemNotFound.New("no item with id " + id.String())), nil
			}
			return returns.Ok(&returns.Empty{}), nil
		}),
		returns.Errors(InvalidItemID, ItemNotFound),
		returns.StatusCode(http.StatusNoContent),
		returns.Operation(rest.Summary("Delete an item"), tags),
	)
}
