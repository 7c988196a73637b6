package http

import (
	"catering-quote/common/vars"
	"catering-quote/model"
	"net/http"
)

type CatalogHttp struct{}

func RegisterCatalogHttp(mux *http.ServeMux) *CatalogHttp {
	in := &CatalogHttp{}

	mux.HandleFunc("GET /api/catalog", in.list)

	return in
}

func (in *CatalogHttp) list(w http.ResponseWriter, r *http.Request) {
	resp := model.CatalogResponse{
		Items:       []model.CatalogItemResponse{},
		Categories:  []string{},
		DietaryTags: []string{},
	}

	cat := vars.GetCatalog()
	if cat != nil {
		for _, item := range cat.Items() {
			resp.Items = append(resp.Items, catalogItemResponse(item))
		}
		resp.Categories = append(resp.Categories, cat.Categories()...)
		resp.DietaryTags = append(resp.DietaryTags, cat.DietaryTags()...)
	}

	writeJSONResponse(w, http.StatusOK, resp)
}
