package favorite

import (
	"log/slog"
	"net/http"

	"starwars-api/internal/middleware"
	"starwars-api/internal/shared/crud"
	"starwars-api/internal/shared/errors"
	"starwars-api/internal/shared/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the favorites routes under base, which should be an
// authenticated prefix such as "/user/favorites".
func (h *Handler) Register(mux *http.ServeMux, base string, wrap func(http.Handler) http.Handler) {
	if wrap == nil {
		wrap = func(next http.Handler) http.Handler { return next }
	}

	mux.Handle("GET "+base, wrap(http.HandlerFunc(h.ListAll)))
	mux.Handle("GET "+base+"/{nature}", wrap(http.HandlerFunc(h.ListByNature)))
	mux.Handle("POST "+base+"/{nature}", wrap(http.HandlerFunc(h.Create)))
	mux.Handle("GET "+base+"/{nature}/{id}", wrap(http.HandlerFunc(h.Get)))
	mux.Handle("PUT "+base+"/{nature}/{id}", wrap(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE "+base+"/{nature}/{id}", wrap(http.HandlerFunc(h.Delete)))
}

type target struct {
	userID   int
	nature   Nature
	natureID int
}

// parseTarget reads the caller and whichever of {nature} and {id} the route
// declares.
func parseTarget(r *http.Request, withNature, withID bool) (target, error) {
	var t target

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		return t, errors.Unauthorized("authentication required")
	}
	t.userID = claims.UserID

	if withNature {
		nature, err := ParseNature(r.PathValue("nature"))
		if err != nil {
			return t, err
		}
		t.nature = nature
	}

	if withID {
		id, err := crud.PathID(r, "id")
		if err != nil {
			return t, err
		}
		t.natureID = id
	}
	return t, nil
}

func serializeAll(favorites []*Favorite) []Response {
	out := make([]Response, 0, len(favorites))
	for _, f := range favorites {
		out = append(out, f.Serialize())
	}
	return out
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "favorites", "operation", "list_all")

	t, err := parseTarget(r, false, false)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	favorites, err := h.service.ListAll(r.Context(), t.userID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, serializeAll(favorites))
}

func (h *Handler) ListByNature(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "favorites", "operation", "list_by_nature")

	t, err := parseTarget(r, true, false)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	favorites, err := h.service.ListByNature(r.Context(), t.userID, t.nature)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, serializeAll(favorites))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "favorites", "operation", "get")

	t, err := parseTarget(r, true, true)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	f, err := h.service.Get(r.Context(), t.userID, t.nature, t.natureID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, f.Serialize())
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "favorites", "operation", "create")

	t, err := parseTarget(r, true, false)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var in Input
	if err := crud.DecodeJSON(w, r, &in); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	f, err := h.service.Create(r.Context(), t.userID, t.nature, in)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, f.Serialize())
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "favorites", "operation", "update")

	t, err := parseTarget(r, true, true)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var in Input
	if err := crud.DecodeJSON(w, r, &in); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	f, err := h.service.Update(r.Context(), t.userID, t.nature, t.natureID, in)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusAccepted, f.Serialize())
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "favorites", "operation", "delete")

	t, err := parseTarget(r, true, true)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), t.userID, t.nature, t.natureID); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.NoContent(w)
}
