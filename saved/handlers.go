package saved

import (
	"bytes"
	"log"
	"net/http"

	"recipebox/apperr"
	"recipebox/models"
	"recipebox/utils"

	"github.com/julienschmidt/httprouter"
)

type Handlers struct {
	svc *Service
}

func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// Save handles POST /save with body {"recipe":{"id","title","image"}}
func (h *Handlers) Save(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in struct {
		Recipe *models.SavedRecipe `json:"recipe"`
	}
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithError(w, err, "Failed to save recipe")
		return
	}
	if in.Recipe == nil {
		utils.RespondWithError(w, apperr.New(apperr.ErrBadRequest, "Recipe is required"), "")
		return
	}

	list, err := h.svc.Save(r.Context(), utils.GetUserIDFromRequest(r), *in.Recipe)
	if err != nil {
		utils.RespondWithError(w, err, "Failed to save recipe")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "savedRecipes": list})
}

// List handles GET /saved. The body is the bare array.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	list, err := h.svc.List(r.Context(), utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.RespondWithError(w, err, "Failed to load saved recipes")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// Remove handles DELETE /saved with body {"recipeId"}
func (h *Handlers) Remove(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in struct {
		RecipeID string `json:"recipeId"`
	}
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithError(w, err, "Failed to remove recipe")
		return
	}

	list, err := h.svc.Remove(r.Context(), utils.GetUserIDFromRequest(r), in.RecipeID)
	if err != nil {
		utils.RespondWithError(w, err, "Failed to remove recipe")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "savedRecipes": list})
}

// Export handles GET /saved/export
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var buf bytes.Buffer
	if err := h.svc.ExportPDF(r.Context(), utils.GetUserIDFromRequest(r), &buf); err != nil {
		utils.RespondWithError(w, err, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=saved-recipes.pdf")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("write saved export: %v", err)
	}
}
