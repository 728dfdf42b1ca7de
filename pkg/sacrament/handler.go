package sacrament

import (
	"encoding/json"
	"net/http"
)

type Handler struct {
	catalog Catalog
}

type SacramentTypeDTO struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

func NewHandler(catalog Catalog) *Handler {
	return &Handler{catalog}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	types, err := h.catalog.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]SacramentTypeDTO, 0, len(types))
	for _, st := range types {
		dtos = append(dtos, SacramentTypeDTO{ID: st.ID, Name: st.Name, DisplayName: st.DisplayName})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
