package api

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/mesh-intelligence/herostore/pkg/types"
)

// Backend is what the API serves from: a gateway that can also read one
// entity. *sqlite.Backend satisfies it.
type Backend interface {
	types.Gateway
	types.EntityGetter
}

// EntityController serves the CRUD routes of every collection.
type EntityController struct {
	backend Backend
}

func NewEntityController(backend Backend) *EntityController {
	return &EntityController{backend: backend}
}

func (c *EntityController) List(ctx echo.Context) error {
	entities, err := c.backend.List(ctx.Request().Context(), ctx.Param("collection"))
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(http.StatusOK, entities)
}

func (c *EntityController) Get(ctx echo.Context) error {
	id, err := pathParam(ctx, "id")
	if err != nil {
		return err
	}
	entity, err := c.backend.Get(ctx.Request().Context(), ctx.Param("collection"), id)
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(http.StatusOK, entity)
}

func (c *EntityController) Create(ctx echo.Context) error {
	var draft types.Entity
	if err := ctx.Bind(&draft); err != nil {
		return err
	}

	created, err := c.backend.Create(ctx.Request().Context(), ctx.Param("collection"), draft)
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(http.StatusCreated, created)
}

func (c *EntityController) Update(ctx echo.Context) error {
	id, err := pathParam(ctx, "id")
	if err != nil {
		return err
	}
	var entity types.Entity
	if err := ctx.Bind(&entity); err != nil {
		return err
	}

	switch {
	case entity.ID == "":
		entity.ID = id
	case entity.ID != id:
		return echo.NewHTTPError(http.StatusBadRequest, "id in body does not match path")
	}

	updated, err := c.backend.Update(ctx.Request().Context(), ctx.Param("collection"), entity)
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(http.StatusOK, updated)
}

func (c *EntityController) Delete(ctx echo.Context) error {
	id, err := pathParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.backend.Delete(ctx.Request().Context(), ctx.Param("collection"), id); err != nil {
		return toHTTPError(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// pathParam returns the decoded value of a path parameter. echo routes on the
// raw path when the request carries escaped separators, so ids such as "a/b"
// arrive still escaped.
func pathParam(ctx echo.Context, name string) (string, error) {
	value := ctx.Param(name)
	if ctx.Request().URL.RawPath == "" {
		return value, nil
	}
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "malformed "+name+" in path")
	}
	return decoded, nil
}

// toHTTPError maps backend errors onto HTTP statuses.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, types.ErrCollectionNotFound), errors.Is(err, types.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, types.ErrInvalidID), errors.Is(err, types.ErrInvalidData):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, types.ErrDuplicateID):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, types.ErrBackendDetached):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
}
