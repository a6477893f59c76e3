package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vansh-justcharge/Autocredits-backend/internal/api/middleware"
	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
	"github.com/vansh-justcharge/Autocredits-backend/internal/core/ports"
)

// CRUD maps the HTTP verbs onto a generic repository and wraps results in
// the success envelope. Entity handlers compose it and hang their specific
// behavior on the hooks; every hook is optional.
type CRUD[T any] struct {
	Repo ports.Repository[T]

	// BeforeCreate runs after bind+validate, before persistence.
	BeforeCreate func(c echo.Context, doc *T) error
	// BeforeUpdate may rewrite the partial-update field set.
	BeforeUpdate func(c echo.Context, set ports.Filter) error
	// AfterWrite runs after any successful mutation.
	AfterWrite func(ctx context.Context)
	// Decorate enriches a document on its way out (reference population).
	Decorate func(ctx context.Context, doc *T) error
	// ListFilter builds the query for List from request parameters.
	ListFilter func(c echo.Context) ports.Filter
}

func (h *CRUD[T]) Create(c echo.Context) error {
	payload := ports.Filter{}
	if err := c.Bind(&payload); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	for _, field := range restrictedFields {
		delete(payload, field)
	}

	doc := new(T)
	if err := applyFields(doc, payload); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(doc); err != nil {
		return err
	}
	if h.BeforeCreate != nil {
		if err := h.BeforeCreate(c, doc); err != nil {
			return err
		}
	}

	ctx := c.Request().Context()
	created, err := h.Repo.Create(ctx, doc)
	if err != nil {
		return err
	}
	if h.AfterWrite != nil {
		h.AfterWrite(ctx)
	}
	if h.Decorate != nil {
		if err := h.Decorate(ctx, created); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusCreated, success(created))
}

func (h *CRUD[T]) Get(c echo.Context) error {
	ctx := c.Request().Context()
	doc, err := h.Repo.FindByID(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	if h.Decorate != nil {
		if err := h.Decorate(ctx, doc); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, success(doc))
}

func (h *CRUD[T]) List(c echo.Context) error {
	filter := ports.Filter{}
	if h.ListFilter != nil {
		filter = h.ListFilter(c)
	}
	params := middleware.PageParamsFrom(c)

	ctx := c.Request().Context()
	page, err := h.Repo.Find(ctx, filter, ports.ListOptions{Page: params.Page, Limit: params.Limit})
	if err != nil {
		return err
	}
	if h.Decorate != nil {
		for _, doc := range page.Data {
			if err := h.Decorate(ctx, doc); err != nil {
				return err
			}
		}
	}
	return c.JSON(http.StatusOK, success(page))
}

// restrictedFields never pass through a create or partial-update payload.
var restrictedFields = []string{"_id", "id", "createdAt", "updatedAt", "createdBy"}

// applyFields overlays a bound JSON payload onto a document. Keys follow the
// entities' json tags, so the round trip needs no translation.
func applyFields[T any](doc *T, fields ports.Filter) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, doc)
}

func (h *CRUD[T]) Update(c echo.Context) error {
	set := ports.Filter{}
	if err := c.Bind(&set); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	for _, field := range restrictedFields {
		delete(set, field)
	}
	if h.BeforeUpdate != nil {
		if err := h.BeforeUpdate(c, set); err != nil {
			return err
		}
	}

	// Re-validate the merged document so a partial update cannot slip an
	// invariant-violating value (negative price, bad enum) past the rules
	// enforced on create.
	ctx := c.Request().Context()
	merged, err := h.Repo.FindByID(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	if err := applyFields(merged, set); err != nil {
		return domain.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(merged); err != nil {
		return err
	}

	updated, err := h.Repo.Update(ctx, c.Param("id"), set)
	if err != nil {
		return err
	}
	if h.AfterWrite != nil {
		h.AfterWrite(ctx)
	}
	if h.Decorate != nil {
		if err := h.Decorate(ctx, updated); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, success(updated))
}

func (h *CRUD[T]) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.Repo.Delete(ctx, c.Param("id")); err != nil {
		return err
	}
	if h.AfterWrite != nil {
		h.AfterWrite(ctx)
	}
	return c.NoContent(http.StatusNoContent)
}
