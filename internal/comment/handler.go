package comment

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/grouppic/pkg/middleware"
	"github.com/fkhayef/grouppic/pkg/pagination"
	"github.com/fkhayef/grouppic/pkg/response"
)

// Handler handles HTTP requests for comment operations
type Handler struct {
	service *Service
}

// NewHandler creates a new comment handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the routes mounted under /contents/{contentId}/comments.
// The content ID comes from the parent route's {contentId} param.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.ListByContent)

	return r
}

// ItemRoutes returns the routes mounted at /comments
func (h *Handler) ItemRoutes() chi.Router {
	r := chi.NewRouter()

	r.Put("/{commentId}", h.Update)
	r.Delete("/{commentId}", h.Delete)

	return r
}

func requesterID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
	}
	return userID, ok
}

// Create handles POST /contents/{contentId}/comments
// @Summary      Comment on content
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        contentId path string true "Content ID"
// @Param        request body CreateCommentRequest true "Comment creation request"
// @Success      201 {object} response.APIResponse{data=CommentResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /contents/{contentId}/comments [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.service.Create(r.Context(), userID, chi.URLParam(r, "contentId"), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, comment.ToResponse())
}

// ListByContent handles GET /contents/{contentId}/comments
func (h *Handler) ListByContent(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	p := pagination.FromQuery(r.URL.Query())
	comments, page, err := h.service.ListByContent(r.Context(), userID, chi.URLParam(r, "contentId"), p)
	if err != nil {
		response.FromError(w, err)
		return
	}

	commentResponses := make([]*CommentResponse, len(comments))
	for i, c := range comments {
		commentResponses[i] = c.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, commentResponses, &response.Meta{
		Limit:      p.Limit,
		Order:      string(p.Order),
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	})
}

// Update handles PUT /comments/{commentId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	var req UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "commentId"), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, comment.ToResponse())
}

// Delete handles DELETE /comments/{commentId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "commentId")); err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
