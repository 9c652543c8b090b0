package recipes

import (
	"context"
	"log"
	"net/http"
	"strings"

	"recipebox/models"
	"recipebox/utils"

	"github.com/julienschmidt/httprouter"
)

// DefaultSearch is used when GET /recipes carries no search term.
const DefaultSearch = "pizza"

// Searcher is satisfied by *Client.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.RecipeSummary, error)
}

type Handlers struct {
	src Searcher
}

func NewHandlers(src Searcher) *Handlers {
	return &Handlers{src: src}
}

// Search handles GET /recipes?search=<term>&q=<filter>. An upstream failure
// is logged and answered with an empty list.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	term := strings.TrimSpace(r.URL.Query().Get("search"))
	if term == "" {
		term = DefaultSearch
	}

	list, err := h.src.Search(r.Context(), term)
	if err != nil {
		log.Printf("recipe search %q: %v", term, err)
		list = nil
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"recipes": Filter(list, r.URL.Query().Get("q")),
	})
}
