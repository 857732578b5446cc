package server

import "net/http"

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	category, err := s.categories.Create(r.Context(), actingUser(r).ID, req.Name, req.Color)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "Category created successfully", map[string]any{"category": category})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.List(r.Context(), actingUser(r).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", map[string]any{"categories": categories})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.categories.Delete(r.Context(), r.PathValue("id"), actingUser(r).ID); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "Category deleted successfully", nil)
}
