package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/ftdgame/internal/api/middleware"
	"github.com/mcoot/ftdgame/internal/api/request"
	"github.com/mcoot/ftdgame/internal/api/response"
	"github.com/mcoot/ftdgame/internal/model"
	"github.com/mcoot/ftdgame/internal/services/profile"
)

// ProfileHandler handles registration and the caller's own profile
type ProfileHandler struct {
	profiles *profile.Service
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *profile.Service) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Register handles POST /api/register
func (h *ProfileHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.ProfileRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.profiles.Register(r.Context(), req.Profile()); err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, "User registered")
}

// Login handles POST /api/auth/login. Reaching it means the gate passed.
func (h *ProfileHandler) Login(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, "authentication success")
}

// Get handles GET /api/auth/users/{username}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())

	identity, err := h.profiles.Get(r.Context(), caller, mux.Vars(r)["username"])
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProfileFromModel(identity))
}

// Update handles PUT /api/auth/users/{username}
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())
	username := mux.Vars(r)["username"]

	// Ownership is decided before the body is looked at
	if caller != username {
		WriteError(w, model.ErrForbidden)
		return
	}

	var req request.ProfileRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.profiles.Update(r.Context(), caller, username, req.Profile()); err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, "Profile updated")
}

// Delete handles DELETE /api/auth/users/{username}
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())

	if err := h.profiles.Delete(r.Context(), caller, mux.Vars(r)["username"]); err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, "User deleted")
}
