// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/z5labs/returns"
	"github.com/z5labs/returns/rest"
)

// MaxDummy is the largest n served by GET /dummy/{n}.
const MaxDummy = 100

// DummyModel is returned by GET /dummy/{n}.
type DummyModel struct {
	SomeField string `json:"some_field"`
}

// GetDummyRequest reads n from the path.
type GetDummyRequest struct {
	N string
}

// ReadRequest implements the [returns.RequestReader] interface.
func (req *GetDummyRequest) ReadRequest(ctx context.Context, r *http.Request) error {
	req.N = rest.PathParamValue(ctx, "n")
	return nil
}

type getDummyHandler struct {
	now func() time.Time
}

// GetDummy registers GET /dummy/{n}.
//
// Positive n up to [MaxDummy] succeed, zero is forbidden, larger n are not
// found and negative n are unprocessable.
func GetDummy(reg *returns.Registrar) error {
	h := &getDummyHandler{
		now: time.Now,
	}

	return returns.Get(
		reg,
		rest.BasePath("/dummy").Param("n"),
		h,
		returns.Errors(InvalidNumber, DummyForbidden, DummyNotFound, DummyUnprocessable),
		returns.Operation(
			rest.Summary("Get a dummy"),
			rest.Tags("dummy"),
		),
	)
}

func (h *getDummyHandler) Handle(ctx context.Context, req *GetDummyRequest) (returns.Result[*DummyModel], error) {
	n, err := strconv.Atoi(req.N)
	if err != nil {
		return returns.Fail[DummyModel](InvalidNumber.Err()), nil
	}

	switch {
	case n == 0:
		return returns.Fail[DummyModel](DummyForbidden.Err()), nil
	case n < 0:
		return returns.Fail[DummyModel](DummyUnprocessable.New(DummyErrorDetails{
			ErrorDatetime: h.now().UTC(),
			Reason:        "n must not be negative",
		})), nil
	case n > MaxDummy:
		return returns.Fail[DummyModel](DummyNotFound.Err()), nil
	}

	return returns.Ok(&DummyModel{
		SomeField: fmt.Sprintf("dummy %d", n),
	}), nil
}
