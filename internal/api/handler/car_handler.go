package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vansh-justcharge/Autocredits-backend/internal/api/metrics"
	"github.com/vansh-justcharge/Autocredits-backend/internal/api/middleware"
	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
	"github.com/vansh-justcharge/Autocredits-backend/internal/core/ports"
)

// CarListingCache abstracts the Redis cache for the public car listing.
type CarListingCache interface {
	Get(ctx context.Context, page, limit int64) (*ports.Page[domain.Car], error)
	Set(ctx context.Context, page, limit int64, data *ports.Page[domain.Car]) error
	Invalidate(ctx context.Context) error
}

// CarHandler serves the car inventory: the generic CRUD verbs plus creator
// stamping, creator population on reads, and listing cache maintenance.
// Admin gating happens in the router middleware, not here.
type CarHandler struct {
	crud  *CRUD[domain.Car]
	users ports.UserRepository
	cache CarListingCache
	log   zerolog.Logger
}

func NewCarHandler(cars ports.CarRepository, users ports.UserRepository, cache CarListingCache, log zerolog.Logger) *CarHandler {
	h := &CarHandler{users: users, cache: cache, log: log}
	h.crud = &CRUD[domain.Car]{
		Repo:         cars,
		BeforeCreate: h.stampCreator,
		BeforeUpdate: h.stampUpdater,
		AfterWrite:   h.invalidateCache,
		Decorate:     h.populateCreator,
	}
	return h
}

// Create adds a car to the inventory.
//
// @Summary      Create a car
// @Tags         cars
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.Car  true  "Car details"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  map[string]string
// @Router       /cars [post]
func (h *CarHandler) Create(c echo.Context) error {
	if err := h.crud.Create(c); err != nil {
		return err
	}
	metrics.CarsCreatedTotal.Inc()
	return nil
}

// Get returns a single car.
//
// @Summary      Get a car by id
// @Tags         cars
// @Produce      json
// @Param        id   path      string  true  "Car id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]string
// @Router       /cars/{id} [get]
func (h *CarHandler) Get(c echo.Context) error {
	return h.crud.Get(c)
}

// List returns a page of the inventory. The public listing is served from
// the Redis cache when possible; cache failures fall through to the store.
//
// @Summary      List cars
// @Tags         cars
// @Produce      json
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {object}  map[string]any
// @Router       /cars [get]
func (h *CarHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	params := middleware.PageParamsFrom(c)

	if h.cache != nil {
		cached, err := h.cache.Get(ctx, params.Page, params.Limit)
		if err != nil {
			h.log.Warn().Err(err).Msg("car listing cache read failed")
		} else if cached != nil {
			return c.JSON(http.StatusOK, success(cached))
		}
	}

	page, err := h.crud.Repo.Find(ctx, ports.Filter{}, ports.ListOptions{Page: params.Page, Limit: params.Limit})
	if err != nil {
		return err
	}
	for _, car := range page.Data {
		if err := h.populateCreator(ctx, car); err != nil {
			return err
		}
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, params.Page, params.Limit, page); err != nil {
			h.log.Warn().Err(err).Msg("car listing cache write failed")
		}
	}
	return c.JSON(http.StatusOK, success(page))
}

// Update applies a partial update to a car.
//
// @Summary      Update a car
// @Tags         cars
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Car id"
// @Success      200   {object}  map[string]any
// @Failure      404   {object}  map[string]string
// @Router       /cars/{id} [patch]
func (h *CarHandler) Update(c echo.Context) error {
	return h.crud.Update(c)
}

// Delete removes a car from the inventory.
//
// @Summary      Delete a car
// @Tags         cars
// @Security     BearerAuth
// @Param        id  path  string  true  "Car id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /cars/{id} [delete]
func (h *CarHandler) Delete(c echo.Context) error {
	return h.crud.Delete(c)
}

func (h *CarHandler) stampCreator(c echo.Context, car *domain.Car) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	car.CreatedBy = user.ID
	if car.Status == "" {
		car.Status = domain.CarStatusAvailable
	}
	return nil
}

func (h *CarHandler) stampUpdater(c echo.Context, set ports.Filter) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	set["lastUpdatedBy"] = user.ID

	if raw, ok := set["status"]; ok {
		v, _ := raw.(string)
		switch domain.CarStatus(v) {
		case domain.CarStatusAvailable, domain.CarStatusSold, domain.CarStatusReserved, domain.CarStatusMaintenance:
		default:
			return domain.NewValidationError("Invalid car status: " + v)
		}
	}
	if raw, ok := set["condition"]; ok {
		v, _ := raw.(string)
		switch domain.CarCondition(v) {
		case domain.CarConditionNew, domain.CarConditionUsed, domain.CarConditionCertified:
		default:
			return domain.NewValidationError("Invalid car condition: " + v)
		}
	}
	return nil
}

// populateCreator resolves createdBy into a UserSummary. Lookup failures are
// logged and skipped; a read never fails because a user was deleted.
func (h *CarHandler) populateCreator(ctx context.Context, car *domain.Car) error {
	if car == nil || car.CreatedBy.IsZero() {
		return nil
	}
	user, err := h.users.FindByID(ctx, car.CreatedBy.Hex())
	if err != nil {
		h.log.Warn().Err(err).Str("user_id", car.CreatedBy.Hex()).Msg("failed to resolve car creator")
		return nil
	}
	car.Creator = &domain.UserSummary{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}
	return nil
}

func (h *CarHandler) invalidateCache(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(ctx); err != nil {
		h.log.Warn().Err(err).Msg("car listing cache invalidation failed")
	}
}
