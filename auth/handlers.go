package auth

import (
	"net/http"

	"recipebox/utils"

	"github.com/julienschmidt/httprouter"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type Handlers struct {
	svc *Service
}

func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// Register handles POST /register
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in credentials
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithError(w, err, "Registration failed")
		return
	}

	email, err := h.svc.Register(r.Context(), in.Email, in.Password, in.FullName)
	if err != nil {
		utils.RespondWithError(w, err, "Registration failed")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "User registered!",
		"email":   email,
	})
}

// Login handles POST /login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in credentials
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithError(w, err, "Login failed")
		return
	}

	sess, err := h.svc.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		utils.RespondWithError(w, err, "Login failed")
		return
	}

	resp := utils.M{
		"success": true,
		"message": "Login successful",
		"email":   sess.Email,
	}
	if sess.Token != "" {
		resp["token"] = sess.Token
		resp["expiresAt"] = sess.ExpiresAt
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// Logout handles POST /logout
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	_ = h.svc.Logout(r.Context())
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// CurrentUser handles GET /current-user. It runs behind OptionalAuth and
// reports the caller's email, or null when no identity was presented.
func (h *Handlers) CurrentUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var email any
	if e := utils.GetEmailFromRequest(r); e != "" {
		email = e
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"email": email})
}
