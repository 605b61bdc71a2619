package member

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/grouppic/pkg/middleware"
	"github.com/fkhayef/grouppic/pkg/pagination"
	"github.com/fkhayef/grouppic/pkg/response"
)

// Handler handles HTTP requests for membership operations
type Handler struct {
	service *Service
}

// NewHandler creates a new member handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the member router, mounted under /groups/{id}/members.
// The group ID comes from the parent route's {id} param.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/{memberId}/approve", h.Approve)
	r.Post("/{memberId}/reject", h.Reject)
	r.Post("/{memberId}/drop-out", h.DropOut)
	r.Post("/{memberId}/transfer-ownership", h.TransferOwnership)

	return r
}

func requesterID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
	}
	return userID, ok
}

// RequestJoin handles POST /groups/join
// @Summary      Request to join a group
// @Description  Resolve an invitation code and create a pending membership
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        request body JoinGroupRequest true "Join request"
// @Success      201 {object} response.APIResponse{data=MemberResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /groups/join [post]
func (h *Handler) RequestJoin(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	var req JoinGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	m, err := h.service.RequestJoin(r.Context(), userID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, m.ToResponse())
}

// List handles GET /groups/{id}/members
// @Summary      List group members
// @Tags         members
// @Produce      json
// @Param        id path string true "Group ID"
// @Param        status query string false "Filter by status"
// @Param        limit query int false "Page size" default(20)
// @Param        order query string false "asc or desc" default(desc)
// @Param        cursor query string false "Page cursor (member ID)"
// @Success      200 {object} response.APIResponse{data=[]MemberResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /groups/{id}/members [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")

	filter := ListFilter{}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := Status(raw)
		filter.Status = &status
	}
	if ids, present := r.URL.Query()["member_id"]; present {
		filter.MemberIDs = ids
	}
	p := pagination.FromQuery(r.URL.Query())

	members, page, err := h.service.List(r.Context(), userID, groupID, filter, p)
	if err != nil {
		response.FromError(w, err)
		return
	}

	memberResponses := make([]*MemberResponse, len(members))
	for i, m := range members {
		memberResponses[i] = m.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, memberResponses, &response.Meta{
		Limit:      p.Limit,
		Order:      string(p.Order),
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	})
}

// Approve handles POST /groups/{id}/members/{memberId}/approve
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	m, err := h.service.Approve(r.Context(), userID, chi.URLParam(r, "id"), chi.URLParam(r, "memberId"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, m.ToResponse())
}

// Reject handles POST /groups/{id}/members/{memberId}/reject
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	m, err := h.service.Reject(r.Context(), userID, chi.URLParam(r, "id"), chi.URLParam(r, "memberId"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, m.ToResponse())
}

// DropOut handles POST /groups/{id}/members/{memberId}/drop-out
func (h *Handler) DropOut(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	m, err := h.service.DropOut(r.Context(), userID, chi.URLParam(r, "id"), chi.URLParam(r, "memberId"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, m.ToResponse())
}

// TransferOwnership handles POST /groups/{id}/members/{memberId}/transfer-ownership
func (h *Handler) TransferOwnership(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	if err := h.service.TransferOwnership(r.Context(), userID, chi.URLParam(r, "id"), chi.URLParam(r, "memberId")); err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"status": "transferred"})
}

// Leave handles POST /groups/{id}/leave
// @Summary      Leave a group
// @Description  Self-service exit; the owner must transfer or delete instead
// @Tags         members
// @Produce      json
// @Param        id path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=MemberResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /groups/{id}/leave [post]
func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	m, err := h.service.Leave(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, m.ToResponse())
}
