package content

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/grouppic/internal/comment"
	"github.com/fkhayef/grouppic/pkg/middleware"
	"github.com/fkhayef/grouppic/pkg/pagination"
	"github.com/fkhayef/grouppic/pkg/response"
)

// Handler handles HTTP requests for content operations
type Handler struct {
	service *Service
}

// NewHandler creates a new content handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GroupRoutes returns the routes mounted under /groups/{id}/contents.
// The group ID comes from the parent route's {id} param.
func (h *Handler) GroupRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.ListByGroup)

	return r
}

// Routes returns the routes mounted at /contents
func (h *Handler) Routes(comments *comment.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/{contentId}", h.Get)
	r.Delete("/{contentId}", h.Delete)
	r.Mount("/{contentId}/comments", comments.Routes())

	return r
}

func requesterID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
	}
	return userID, ok
}

// Create handles POST /groups/{id}/contents
// @Summary      Post content to a group
// @Tags         contents
// @Accept       json
// @Produce      json
// @Param        id path string true "Group ID"
// @Param        request body CreateContentRequest true "Content creation request"
// @Success      201 {object} response.APIResponse{data=ContentResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /groups/{id}/contents [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	var req CreateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	content, err := h.service.Create(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, content.ToResponse())
}

// ListByGroup handles GET /groups/{id}/contents
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	p := pagination.FromQuery(r.URL.Query())
	contents, page, err := h.service.ListByGroup(r.Context(), userID, chi.URLParam(r, "id"), p)
	if err != nil {
		response.FromError(w, err)
		return
	}

	contentResponses := make([]*ContentResponse, len(contents))
	for i, c := range contents {
		contentResponses[i] = c.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, contentResponses, &response.Meta{
		Limit:      p.Limit,
		Order:      string(p.Order),
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	})
}

// Get handles GET /contents/{contentId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	content, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "contentId"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, content.ToResponse())
}

// Delete handles DELETE /contents/{contentId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "contentId")); err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
