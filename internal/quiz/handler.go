// backend/internal/quiz/handler.go
package quiz

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"prep-system/internal/auth"
	"prep-system/internal/content"
	"prep-system/internal/result"
)

var validate = validator.New()

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the attempt routes on an authenticated router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/quiz/attempts", h.StartAttempt).Methods("POST", "OPTIONS")
	r.HandleFunc("/quiz/attempts/{id}", h.GetAttempt).Methods("GET")
	r.HandleFunc("/quiz/attempts/{id}", h.ExitAttempt).Methods("DELETE")
	r.HandleFunc("/quiz/attempts/{id}/select", h.SelectOption).Methods("POST")
	r.HandleFunc("/quiz/attempts/{id}/clear", h.ClearResponse).Methods("POST")
	r.HandleFunc("/quiz/attempts/{id}/review", h.ToggleReview).Methods("POST")
	r.HandleFunc("/quiz/attempts/{id}/next", h.Next).Methods("POST")
	r.HandleFunc("/quiz/attempts/{id}/prev", h.Prev).Methods("POST")
	r.HandleFunc("/quiz/attempts/{id}/jump", h.JumpTo).Methods("POST")
	r.HandleFunc("/quiz/attempts/{id}/submit", h.Submit).Methods("POST")
	r.HandleFunc("/quiz/attempts/{id}/result", h.Result).Methods("GET")
}

type StartRequest struct {
	TopicID string `json:"topic_id" validate:"required"`
	Level   string `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
}

type SelectRequest struct {
	Option *int `json:"option" validate:"required,min=0"`
}

type JumpRequest struct {
	Index *int `json:"index" validate:"required,min=0"`
}

func (h *Handler) StartAttempt(w http.ResponseWriter, r *http.Request) {
	student, ok := auth.StudentFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req StartRequest
	if !decode(w, r, &req) {
		return
	}

	snap, err := h.service.StartAttempt(r.Context(), student, req.TopicID, req.Level)
	if err != nil {
		log.Printf("Error starting attempt: %v", err)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(snap)
}

func (h *Handler) GetAttempt(w http.ResponseWriter, r *http.Request) {
	h.snapshot(w, r, func(id, student string) (Snapshot, error) {
		return h.service.Get(id, student)
	})
}

func (h *Handler) SelectOption(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if !decode(w, r, &req) {
		return
	}
	h.snapshot(w, r, func(id, student string) (Snapshot, error) {
		return h.service.SelectOption(id, student, *req.Option)
	})
}

func (h *Handler) ClearResponse(w http.ResponseWriter, r *http.Request) {
	h.snapshot(w, r, h.service.ClearResponse)
}

func (h *Handler) ToggleReview(w http.ResponseWriter, r *http.Request) {
	h.snapshot(w, r, h.service.ToggleReview)
}

func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	h.snapshot(w, r, h.service.Next)
}

func (h *Handler) Prev(w http.ResponseWriter, r *http.Request) {
	h.snapshot(w, r, h.service.Prev)
}

func (h *Handler) JumpTo(w http.ResponseWriter, r *http.Request) {
	var req JumpRequest
	if !decode(w, r, &req) {
		return
	}
	h.snapshot(w, r, func(id, student string) (Snapshot, error) {
		return h.service.JumpTo(id, student, *req.Index)
	})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	student, ok := auth.StudentFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	res, err := h.service.Submit(mux.Vars(r)["id"], student)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(res)
}

func (h *Handler) Result(w http.ResponseWriter, r *http.Request) {
	student, ok := auth.StudentFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	res, questions, answers, err := h.service.Review(mux.Vars(r)["id"], student)
	if err != nil {
		writeError(w, err)
		return
	}

	view := result.Present(res, questions, answers)
	if r.URL.Query().Get("wrong") == "true" {
		view.Review = result.WrongAnswers(view)
	}
	json.NewEncoder(w).Encode(view)
}

func (h *Handler) ExitAttempt(w http.ResponseWriter, r *http.Request) {
	student, ok := auth.StudentFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.service.Exit(mux.Vars(r)["id"], student); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request, fn func(id, student string) (Snapshot, error)) {
	student, ok := auth.StudentFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	snap, err := fn(mux.Vars(r)["id"], student)
	if err != nil {
		writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(snap)
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAttemptNotFound):
		http.Error(w, "Attempt not found", http.StatusNotFound)
	case errors.Is(err, ErrNotSubmitted):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, content.ErrNotFound), errors.Is(err, ErrNoQuestions):
		http.Error(w, "No questions available", http.StatusNotFound)
	case errors.Is(err, content.ErrUnavailable):
		http.Error(w, "Content service unavailable", http.StatusServiceUnavailable)
	case errors.Is(err, ErrOptionOutOfRange), errors.Is(err, ErrIndexOutOfRange),
		errors.Is(err, ErrInvalidQuestion):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
