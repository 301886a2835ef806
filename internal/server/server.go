// Package server exposes a storage.Store as the JSON todos resource the
// client expects: GET/POST /todos and PUT/DELETE /todos/:id under a base path.
package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"remindr/internal/storage"
	"remindr/internal/todo"
)

type errorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	store *storage.Store
}

func NewHandler(store *storage.Store) *Handler {
	return &Handler{store: store}
}

// NewRouter mounts the todos collection below basePath (e.g. "/api").
func NewRouter(store *storage.Store, basePath string, logRequests bool) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if logRequests {
		r.Use(gin.Logger())
	}
	h := NewHandler(store)
	g := r.Group(basePath)
	g.GET("/todos", h.List)
	g.POST("/todos", h.Create)
	g.GET("/todos/:id", h.Get)
	g.PUT("/todos/:id", h.Update)
	g.DELETE("/todos/:id", h.Delete)
	return r
}

func (h *Handler) List(c *gin.Context) {
	tasks, err := h.store.List(c.Request.Context())
	if err != nil {
		h.internal(c, "list", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) Get(c *gin.Context) {
	t, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	if err != nil {
		h.internal(c, "get", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) Create(c *gin.Context) {
	var d todo.Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		return
	}
	t, err := h.store.Create(c.Request.Context(), d)
	if errors.Is(err, todo.ErrTitleRequired) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		h.internal(c, "create", err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *Handler) Update(c *gin.Context) {
	var t todo.Task
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		return
	}
	updated, err := h.store.Replace(c.Request.Context(), c.Param("id"), t)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
		return
	case errors.Is(err, todo.ErrTitleRequired):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	case err != nil:
		h.internal(c, "update", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	t, err := h.store.Get(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	if err != nil {
		h.internal(c, "delete", err)
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.internal(c, "delete", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) internal(c *gin.Context, op string, err error) {
	log.Printf("todos %s: %v", op, err)
	c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
}
