package group

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/grouppic/internal/content"
	"github.com/fkhayef/grouppic/internal/member"
	"github.com/fkhayef/grouppic/pkg/middleware"
	"github.com/fkhayef/grouppic/pkg/pagination"
	"github.com/fkhayef/grouppic/pkg/response"
)

// Handler handles HTTP requests for group operations
type Handler struct {
	service *Service
	invites *InviteService
}

// NewHandler creates a new group handler
func NewHandler(service *Service, invites *InviteService) *Handler {
	return &Handler{service: service, invites: invites}
}

// Routes returns the router for group endpoints. Membership and content
// routers are mounted under each group so they share the {id} param.
func (h *Handler) Routes(members *member.Handler, contents *content.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.ListMine)
	r.Post("/join", members.RequestJoin)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetByID)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)

		r.Get("/invitation", h.GetInvitationCode)
		r.Post("/invitation", h.RefreshInvitationCode)
		r.Delete("/invitation", h.DeleteInvitationCode)

		r.Post("/leave", members.Leave)
		r.Mount("/members", members.Routes())
		r.Mount("/contents", contents.GroupRoutes())
	})

	return r
}

func requesterID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
	}
	return userID, ok
}

// Create handles POST /groups
// @Summary      Create a new group
// @Description  Create a group; the caller becomes its approved owner
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        request body CreateGroupRequest true "Group creation request"
// @Success      201 {object} response.APIResponse{data=GroupResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /groups [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	group, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, group.ToResponse())
}

// ListMine handles GET /groups
// @Summary      List my groups
// @Description  Cursor-paged list of groups where the caller is approved
// @Tags         groups
// @Produce      json
// @Param        limit query int false "Page size" default(20)
// @Param        order query string false "asc or desc" default(desc)
// @Param        cursor query string false "Page cursor (group ID)"
// @Success      200 {object} response.APIResponse{data=[]GroupResponse}
// @Router       /groups [get]
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	p := pagination.FromQuery(r.URL.Query())
	groups, page, err := h.service.ListMine(r.Context(), userID, p)
	if err != nil {
		response.FromError(w, err)
		return
	}

	groupResponses := make([]*GroupResponse, len(groups))
	for i, g := range groups {
		groupResponses[i] = g.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, groupResponses, &response.Meta{
		Limit:      p.Limit,
		Order:      string(p.Order),
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	})
}

// GetByID handles GET /groups/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	group, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, group.ToResponse())
}

// Update handles PUT /groups/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	var req UpdateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	group, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, group.ToResponse())
}

// Delete handles DELETE /groups/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetInvitationCode handles GET /groups/{id}/invitation
// @Summary      Get the group's invitation code
// @Description  Idempotent; generates a code if the group has none
// @Tags         invitations
// @Produce      json
// @Param        id path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=InvitationCodeResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /groups/{id}/invitation [get]
func (h *Handler) GetInvitationCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")

	code, err := h.invites.Get(r.Context(), userID, groupID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, &InvitationCodeResponse{GroupID: groupID, InvitationCode: code})
}

// RefreshInvitationCode handles POST /groups/{id}/invitation
func (h *Handler) RefreshInvitationCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")

	code, err := h.invites.Refresh(r.Context(), userID, groupID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, &InvitationCodeResponse{GroupID: groupID, InvitationCode: code})
}

// DeleteInvitationCode handles DELETE /groups/{id}/invitation
func (h *Handler) DeleteInvitationCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	if err := h.invites.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
