package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ivaldepablo/play-sib-v2/internal/app"
	"github.com/ivaldepablo/play-sib-v2/internal/domain"
)

const (
	defaultLeaderboardLimit = 50
	defaultNeighborRange    = 5
	defaultHistoryLimit     = 20
)

// TopBoards serves the cacheable leaderboard views. Satisfied by the
// ranking engine directly or by its Redis cache wrapper.
type TopBoards interface {
	GlobalTop(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	WeeklyTop(ctx context.Context, limit int) ([]domain.WeeklyEntry, error)
}

// APIHandler exposes the JSON endpoints around the game: users, rankings,
// score history, duel rooms and question submission.
type APIHandler struct {
	users     *app.UserService
	boards    *app.LeaderboardService
	tops      TopBoards
	rooms     *app.RoomService
	questions *app.QuestionService
}

func NewAPIHandler(users *app.UserService, boards *app.LeaderboardService, tops TopBoards, rooms *app.RoomService, questions *app.QuestionService) *APIHandler {
	if tops == nil {
		tops = boards
	}
	return &APIHandler{users: users, boards: boards, tops: tops, rooms: rooms, questions: questions}
}

// Register mounts all API routes on the mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/users", h.createUser)
	mux.HandleFunc("GET /api/users/{id}", h.getProfile)
	mux.HandleFunc("PATCH /api/users/{id}/nickname", h.updateNickname)
	mux.HandleFunc("GET /api/users/{id}/rank", h.getUserRank)
	mux.HandleFunc("GET /api/users/{id}/neighbors", h.getNeighbors)
	mux.HandleFunc("GET /api/users/{id}/history", h.getHistory)
	mux.HandleFunc("GET /api/users/{id}/stats", h.getStats)
	mux.HandleFunc("GET /api/leaderboard/global", h.getGlobal)
	mux.HandleFunc("GET /api/leaderboard/weekly", h.getWeekly)
	mux.HandleFunc("POST /api/rooms", h.createRoom)
	mux.HandleFunc("POST /api/rooms/join", h.joinRoom)
	mux.HandleFunc("GET /api/rooms/{id}", h.getRoom)
	mux.HandleFunc("POST /api/questions", h.submitQuestion)
	mux.HandleFunc("GET /api/categories/{category}/questions", h.getCategoryQuestions)
}

func (h *APIHandler) createUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nickname string `json:"nickname"`
		UserID   string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.users.GetOrCreate(r.Context(), req.Nickname, req.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *APIHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.users.GetProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *APIHandler) updateNickname(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nickname string `json:"nickname"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.users.UpdateNickname(r.Context(), r.PathValue("id"), req.Nickname)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *APIHandler) getUserRank(w http.ResponseWriter, r *http.Request) {
	rank, err := h.boards.UserRank(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rank)
}

func (h *APIHandler) getNeighbors(w http.ResponseWriter, r *http.Request) {
	rng := queryInt(r, "range", defaultNeighborRange)
	entries, err := h.boards.UsersAround(r.Context(), r.PathValue("id"), rng)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *APIHandler) getHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultHistoryLimit)
	var mode *domain.GameMode
	if m := r.URL.Query().Get("mode"); m != "" {
		gm := domain.GameMode(m)
		mode = &gm
	}
	scores, err := h.boards.History(r.Context(), r.PathValue("id"), mode, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

func (h *APIHandler) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.boards.Stats(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *APIHandler) getGlobal(w http.ResponseWriter, r *http.Request) {
	entries, err := h.tops.GlobalTop(r.Context(), queryInt(r, "limit", defaultLeaderboardLimit))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *APIHandler) getWeekly(w http.ResponseWriter, r *http.Request) {
	entries, err := h.tops.WeeklyTop(r.Context(), queryInt(r, "limit", defaultLeaderboardLimit))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *APIHandler) createRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	room, err := h.rooms.Create(r.Context(), req.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (h *APIHandler) joinRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code   string `json:"code"`
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	room, err := h.rooms.Join(r.Context(), req.Code, req.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *APIHandler) getRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.rooms.Status(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *APIHandler) submitQuestion(w http.ResponseWriter, r *http.Request) {
	var sq domain.SubmittedQuestion
	if err := json.NewDecoder(r.Body).Decode(&sq); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.questions.Submit(r.Context(), sq); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "pending review"})
}

// getCategoryQuestions lists a category's active pool without the answers.
func (h *APIHandler) getCategoryQuestions(w http.ResponseWriter, r *http.Request) {
	pool, err := h.questions.ActiveByCategory(r.Context(), r.PathValue("category"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]wireQuestion, len(pool))
	for i, q := range pool {
		out[i] = toWireQuestion(q)
	}
	writeJSON(w, http.StatusOK, out)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrRoomNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNicknameTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrRoomUnavailable):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
