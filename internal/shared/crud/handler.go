// Package crud provides the HTTP side of the list/get/create/update/delete
// endpoints shared by every catalog resource.
package crud

import (
	"context"
	"log/slog"
	"net/http"

	"starwars-api/internal/shared/response"
)

// Service is the contract a resource implements to be served by Handler.
// Implementations own validation and return AppErrors.
type Service[T any, In any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int) (T, error)
	Create(ctx context.Context, in In) (T, error)
	Update(ctx context.Context, id int, in In) (T, error)
	Delete(ctx context.Context, id int) error
}

type Handler[T any, In any] struct {
	resource  string
	service   Service[T, In]
	serialize func(T) any
}

// NewHandler builds a handler for resource. serialize produces the public
// projection written to clients.
func NewHandler[T any, In any](resource string, service Service[T, In], serialize func(T) any) *Handler[T, In] {
	return &Handler[T, In]{
		resource:  resource,
		service:   service,
		serialize: serialize,
	}
}

// Register mounts the five routes under base (e.g. "/people"), each wrapped
// with wrap when it is non-nil.
func (h *Handler[T, In]) Register(mux *http.ServeMux, base string, wrap func(http.Handler) http.Handler) {
	if wrap == nil {
		wrap = func(next http.Handler) http.Handler { return next }
	}

	mux.Handle("GET "+base, wrap(http.HandlerFunc(h.List)))
	mux.Handle("POST "+base, wrap(http.HandlerFunc(h.Create)))
	mux.Handle("GET "+base+"/{id}", wrap(http.HandlerFunc(h.Get)))
	mux.Handle("PUT "+base+"/{id}", wrap(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE "+base+"/{id}", wrap(http.HandlerFunc(h.Delete)))
}

func (h *Handler[T, In]) logger(operation string) *slog.Logger {
	return slog.With("handler", h.resource, "operation", operation)
}

func (h *Handler[T, In]) List(w http.ResponseWriter, r *http.Request) {
	logger := h.logger("list")

	items, err := h.service.List(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, h.serialize(item))
	}

	response.Success(w, http.StatusOK, out)
}

func (h *Handler[T, In]) Get(w http.ResponseWriter, r *http.Request) {
	logger := h.logger("get")

	id, err := PathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, h.serialize(item))
}

func (h *Handler[T, In]) Create(w http.ResponseWriter, r *http.Request) {
	logger := h.logger("create")

	var in In
	if err := DecodeJSON(w, r, &in); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	item, err := h.service.Create(r.Context(), in)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, h.serialize(item))
}

func (h *Handler[T, In]) Update(w http.ResponseWriter, r *http.Request) {
	logger := h.logger("update")

	id, err := PathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var in In
	if err := DecodeJSON(w, r, &in); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	item, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusAccepted, h.serialize(item))
}

func (h *Handler[T, In]) Delete(w http.ResponseWriter, r *http.Request) {
	logger := h.logger("delete")

	id, err := PathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.NoContent(w)
}
