package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/notevault/internal/server/models"
	"github.com/dmitrijs2005/notevault/internal/server/repositories/notes"
	"github.com/dmitrijs2005/notevault/internal/server/services"
)

type noteView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func viewNote(n *models.Note) noteView {
	return noteView{ID: n.ID, Title: n.Title, Content: n.Content, CreatedAt: n.CreatedAt, UpdatedAt: n.UpdatedAt}
}

type paginationView struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int64 `json:"totalPages"`
	TotalNotes   int64 `json:"totalNotes"`
	NotesPerPage int   `json:"notesPerPage"`
}

type noteListResponse struct {
	Pagination paginationView `json:"pagination"`
	Search     string         `json:"search"`
	SortBy     string         `json:"sortBy"`
	Order      string         `json:"order"`
	Notes      []noteView     `json:"notes"`
}

// listParamsFromQuery maps the query string to repository list parameters;
// out-of-range values are normalized by the service.
func listParamsFromQuery(r *http.Request) notes.ListParams {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	return notes.ListParams{
		Page:     page,
		PageSize: limit,
		Search:   q.Get("search"),
		SortBy:   q.Get("sortBy"),
		Asc:      q.Get("order") == "asc",
	}
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	p := listParamsFromQuery(r)

	items, total, err := s.notes.List(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]noteView, 0, len(items))
	for _, n := range items {
		views = append(views, viewNote(n))
	}

	// echo back the normalized parameters so clients can render controls
	norm := services.NormalizeListParams(p)
	order := "desc"
	if norm.Asc {
		order = "asc"
	}

	totalPages := (total + int64(norm.PageSize) - 1) / int64(norm.PageSize)

	writeData(w, http.StatusOK, "", noteListResponse{
		Pagination: paginationView{
			CurrentPage:  norm.Page,
			TotalPages:   totalPages,
			TotalNotes:   total,
			NotesPerPage: norm.PageSize,
		},
		Search: norm.Search,
		SortBy: norm.SortBy,
		Order:  order,
		Notes:  views,
	})
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	note, err := s.notes.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", viewNote(note))
}

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	note, err := s.notes.Create(r.Context(), req.Title, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, "", viewNote(note))
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	note, err := s.notes.Update(r.Context(), r.PathValue("id"), req.Title, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "", viewNote(note))
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.notes.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "Note deleted successfully.", nil)
}
