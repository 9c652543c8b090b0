package profile

import (
	"errors"
	"net/http"

	"recipebox/apperr"
	"recipebox/filemgr"
	"recipebox/utils"

	"github.com/julienschmidt/httprouter"
)

type Handlers struct {
	svc *Service
}

func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// GetProfile handles GET /profile
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	p, err := h.svc.GetProfile(r.Context(), utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.RespondWithError(w, err, "Failed to load profile")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":  true,
		"fullName": p.FullName,
		"email":    p.Email,
		"avatar":   p.Avatar,
	})
}

// UpdateProfile handles POST /profile/update with a multipart form carrying
// an optional fullName field and an optional avatar file.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	r.Body = http.MaxBytesReader(w, r.Body, filemgr.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(filemgr.MaxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		utils.RespondWithError(w, apperr.New(apperr.ErrBadRequest, "Unable to parse form"), "")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	var displayName *string
	if vals, ok := r.PostForm["fullName"]; ok && len(vals) > 0 {
		displayName = &vals[0]
	}

	var avatar *filemgr.Upload
	file, header, err := r.FormFile("avatar")
	switch {
	case err == nil:
		defer file.Close()
		avatar = &filemgr.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		utils.RespondWithError(w, apperr.New(apperr.ErrBadRequest, "Unable to read avatar"), "")
		return
	}

	acct, err := h.svc.UpdateProfile(r.Context(), utils.GetUserIDFromRequest(r), displayName, avatar)
	if err != nil {
		utils.RespondWithError(w, err, "Failed to update profile")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "user": acct})
}

// ByEmail handles the legacy GET /profile/:email route.
func (h *Handlers) ByEmail(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	acct, err := h.svc.ByEmail(r.Context(), ps.ByName("email"))
	if err != nil {
		utils.RespondWithError(w, err, "Failed to load profile")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "user": acct})
}
