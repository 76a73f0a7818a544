package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/oggyb/skillswap/internal/db"
	"github.com/oggyb/skillswap/internal/repository"
	"github.com/oggyb/skillswap/internal/service/swap"
)

// Handler carries the service dependency for all route handlers.
type Handler struct {
	svc *swap.Service
}

var errBadID = errors.New("invalid id")

// pathID extracts the {id} route variable.
func pathID(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, errBadID
	}
	return id, nil
}

// viewerID extracts the caller's identity from the viewer query parameter.
// There is no authentication layer; the SPA passes its user id explicitly.
func viewerID(r *http.Request) (uint64, error) {
	v := r.URL.Query().Get("viewer")
	if v == "" {
		return 0, errors.New("viewer query parameter is required")
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, errors.New("viewer must be a valid user id")
	}
	return id, nil
}

func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	viewer, err := viewerID(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	users, err := h.svc.ListUsers(r.Context(), viewer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	viewer, err := viewerID(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	q := r.URL.Query()
	filters := repository.SearchFilters{
		Location:     q.Get("location"),
		Availability: q.Get("availability"),
	}
	if s := q.Get("minRating"); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			filters.MinRating = f
		}
	}

	users, err := h.svc.SearchUsers(r.Context(), viewer, q.Get("q"), filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	user, err := h.svc.GetCurrentUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	limit := 10
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}

	if token := r.URL.Query().Get("pageToken"); token != "" {
		activities, next, err := h.svc.GetUserActivitiesPage(r.Context(), id, &token, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"activities":    activities,
			"nextPageToken": next,
		})
		return
	}

	activities, err := h.svc.GetUserActivities(r.Context(), id, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

func (h *Handler) MarkActivitiesRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	n, err := h.svc.MarkActivitiesRead(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"marked": n})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	stats, err := h.svc.GetDashboardStats(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) ListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.svc.ListSkills(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, skills)
}

type userSkillBody struct {
	SkillName   string       `json:"skillName"`
	Type        db.SkillType `json:"type"`
	Proficiency int          `json:"proficiency"`
}

func (h *Handler) AddUserSkill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	var body userSkillBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, err)
		return
	}
	if err := h.svc.AddUserSkill(r.Context(), id, body.SkillName, body.Type, body.Proficiency); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

func (h *Handler) RemoveUserSkill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	var body userSkillBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, err)
		return
	}
	if err := h.svc.RemoveUserSkill(r.Context(), id, body.SkillName, body.Type); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var input swap.CreateSwapRequestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		badRequest(w, err)
		return
	}
	req, err := h.svc.SubmitSwapRequest(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	viewer, err := viewerID(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	requests, err := h.svc.ListRequests(r.Context(), viewer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (h *Handler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	viewer, err := viewerID(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	activeSwap, err := h.svc.AcceptSwapRequest(r.Context(), id, viewer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, activeSwap)
}

func (h *Handler) DeclineRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	viewer, err := viewerID(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	if err := h.svc.DeclineSwapRequest(r.Context(), id, viewer); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "declined"})
}

func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	viewer, err := viewerID(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	if err := h.svc.CancelSwapRequest(r.Context(), id, viewer); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) AddActivity(w http.ResponseWriter, r *http.Request) {
	var input swap.AddActivityInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		badRequest(w, err)
		return
	}
	activity, err := h.svc.AddActivity(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, activity)
}

type scheduleBody struct {
	At            time.Time `json:"at"`
	TotalSessions int       `json:"totalSessions"`
}

func (h *Handler) ScheduleSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	var body scheduleBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, err)
		return
	}
	sw, err := h.svc.ScheduleSession(r.Context(), id, body.At, body.TotalSessions)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sw)
}

func (h *Handler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	sw, err := h.svc.CompleteSession(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sw)
}
