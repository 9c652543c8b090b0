package routes

import (
	"net/http"

	"recipebox/utils"

	"github.com/julienschmidt/httprouter"
)

// NewRouter mounts every route of the API.
func NewRouter(d Deps) *httprouter.Router {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithJSON(w, http.StatusNotFound, utils.M{"success": false, "message": "Not found"})
	})

	AddAuthRoutes(router, d)
	AddProfileRoutes(router, d)
	AddSavedRoutes(router, d)
	AddRecipeRoutes(router, d)
	AddStaticRoutes(router, d)
	AddUtilityRoutes(router)
	return router
}
