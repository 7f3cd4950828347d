package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/marcyannick1/roomly-backend-go/internal/domain/visit"
	"github.com/marcyannick1/roomly-backend-go/internal/handler/http/middleware"
	"github.com/marcyannick1/roomly-backend-go/internal/handler/http/response"
	visitService "github.com/marcyannick1/roomly-backend-go/internal/service/visit"
)

type VisitHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Transition(w http.ResponseWriter, r *http.Request)
	ListMy(w http.ResponseWriter, r *http.Request)
	Calendar(w http.ResponseWriter, r *http.Request)
	DeclineReasons(w http.ResponseWriter, r *http.Request)
	ListForMatch(w http.ResponseWriter, r *http.Request)
}

type visitHandlerImpl struct {
	service visit.Service
}

func NewVisitHandler(service visit.Service) VisitHandler {
	return &visitHandlerImpl{service: service}
}

// Create implements VisitHandler - propose a new visit
func (h *visitHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var req visit.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.service.Propose(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Visit proposed successfully", visit.ToResponse(created))
}

// Transition implements VisitHandler - accept, decline or cancel a visit
func (h *visitHandlerImpl) Transition(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	visitID := chi.URLParam(r, "visitID")

	var req visit.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.service.Transition(r.Context(), visitID, userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Visit updated successfully", visit.ToResponse(updated))
}

// ListMy implements VisitHandler - all visits of the authenticated user,
// optionally filtered by upcoming/past or status
func (h *visitHandlerImpl) ListMy(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	visits, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	switch r.URL.Query().Get("filter") {
	case "upcoming":
		visits = visitService.Filter(visits, visitService.Upcoming(time.Now()))
	case "past":
		visits = visitService.Filter(visits, visitService.Past(time.Now()))
	case "":
	default:
		response.BadRequest(w, "filter must be one of upcoming, past", nil)
		return
	}

	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		status, ok := visit.ParseStatus(statusParam)
		if !ok {
			response.BadRequest(w, "Unknown status", nil)
			return
		}
		visits = visitService.Filter(visits, visitService.WithStatus(status))
	}

	response.Success(w, visit.ToResponses(visits))
}

// Calendar implements VisitHandler - month view bucketed by local calendar day
func (h *visitHandlerImpl) Calendar(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	monthParam := r.URL.Query().Get("month")
	if monthParam == "" {
		monthParam = time.Now().Format("2006-01")
	}
	month, err := time.Parse("2006-01", monthParam)
	if err != nil {
		response.BadRequest(w, "month must be in YYYY-MM format", nil)
		return
	}

	loc := time.UTC
	if tz := r.URL.Query().Get("tz"); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			response.BadRequest(w, "Unknown timezone", nil)
			return
		}
	}

	calendar, err := h.service.MonthCalendar(r.Context(), userID, month, loc)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, calendar)
}

// DeclineReasons implements VisitHandler - the canonical reason set
func (h *visitHandlerImpl) DeclineReasons(w http.ResponseWriter, r *http.Request) {
	response.Success(w, visit.DeclineReasons)
}

// ListForMatch implements VisitHandler - the proposal history of one match
func (h *visitHandlerImpl) ListForMatch(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	matchID := chi.URLParam(r, "matchID")

	visits, err := h.service.ListForMatch(r.Context(), matchID, userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, visit.ToResponses(visits))
}
