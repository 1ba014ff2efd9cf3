package server

import (
	"net/http"
	"time"

	"github.com/bobmcallan/league/internal/interfaces"
	"github.com/bobmcallan/league/internal/models"
)

// groupSummary is the list view of a group.
type groupSummary struct {
	GroupID        string    `json:"group_id"`
	Name           string    `json:"name"`
	Members        int       `json:"members"`
	Holdings       int       `json:"holdings"`
	ActiveSeasonID string    `json:"active_season_id,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// snapshotRequest is the body of POST /api/groups/{id}/snapshots.
type snapshotRequest struct {
	Scope      string    `json:"scope"`
	TotalValue float64   `json:"total_value"`
	Timestamp  time.Time `json:"timestamp,omitempty"`
}

// seasonRequest is the body of POST /api/groups/{id}/seasons.
type seasonRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleGroupList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	groups, err := s.app.LeagueService.ListGroups(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	summaries := make([]groupSummary, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, groupSummary{
			GroupID:        g.GroupID,
			Name:           g.Name,
			Members:        len(g.Members),
			Holdings:       len(g.Holdings),
			ActiveSeasonID: g.ActiveSeasonID,
			UpdatedAt:      g.UpdatedAt,
		})
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"groups": summaries})
}

func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request, groupID string) {
	switch r.Method {
	case http.MethodGet:
		g, err := s.app.LeagueService.GetGroup(r.Context(), groupID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, g)

	case http.MethodPut:
		var g models.Group
		if !DecodeJSON(w, r, &g) {
			return
		}
		if g.GroupID != "" && g.GroupID != groupID {
			WriteError(w, http.StatusBadRequest, "group_id in body does not match path")
			return
		}
		g.GroupID = groupID
		if err := s.app.LeagueService.SaveGroup(r.Context(), &g); err != nil {
			WriteServiceError(w, err)
			return
		}
		saved, err := s.app.LeagueService.GetGroup(r.Context(), groupID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, saved)

	case http.MethodDelete:
		if err := s.app.LeagueService.DeleteGroup(r.Context(), groupID); err != nil {
			WriteServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// parseScope reads the "scope" query parameter; empty means all-time.
func parseScope(w http.ResponseWriter, r *http.Request) (models.Scope, bool) {
	scope, err := models.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), "invalid_argument")
		return "", false
	}
	return scope, true
}

func (s *Server) handleGroupMetrics(w http.ResponseWriter, r *http.Request, groupID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	scope, ok := parseScope(w, r)
	if !ok {
		return
	}

	gm, err := s.app.LeagueService.GetGroupMetrics(r.Context(), groupID, scope, r.URL.Query().Get("season"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, gm)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request, groupID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	scope, ok := parseScope(w, r)
	if !ok {
		return
	}

	lb, err := s.app.LeagueService.GetLeaderboard(r.Context(), groupID, scope, r.URL.Query().Get("season"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, lb)
}

func (s *Server) handleMemberPerformance(w http.ResponseWriter, r *http.Request, groupID, memberID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	perf, err := s.app.LeagueService.GetMemberPerformance(r.Context(), groupID, memberID, r.URL.Query().Get("season"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, perf)
}

// parseChartOptions reads series, timeframe, mode, kind and season query parameters.
func parseChartOptions(w http.ResponseWriter, r *http.Request) (interfaces.ChartOptions, bool) {
	q := r.URL.Query()
	opts := interfaces.ChartOptions{
		Scope:    q.Get("series"),
		SeasonID: q.Get("season"),
	}

	var err error
	if opts.Timeframe, err = models.ParseTimeframe(q.Get("timeframe")); err != nil {
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), "invalid_argument")
		return opts, false
	}
	if opts.Mode, err = models.ParseScope(q.Get("mode")); err != nil {
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), "invalid_argument")
		return opts, false
	}
	if opts.Kind, err = models.ParseValueKind(q.Get("kind")); err != nil {
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), "invalid_argument")
		return opts, false
	}
	return opts, true
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request, groupID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	opts, ok := parseChartOptions(w, r)
	if !ok {
		return
	}

	data, err := s.app.LeagueService.GetChart(r.Context(), groupID, opts)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, data)
}

func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request, groupID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	opts, ok := parseChartOptions(w, r)
	if !ok {
		return
	}

	png, err := s.app.LeagueService.RenderChart(r.Context(), groupID, opts)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (s *Server) handleSnapshotAppend(w http.ResponseWriter, r *http.Request, groupID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req snapshotRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	snap := &models.PortfolioSnapshot{
		GroupID:    groupID,
		Scope:      req.Scope,
		TotalValue: req.TotalValue,
		Timestamp:  req.Timestamp,
	}
	if err := s.app.LeagueService.AppendSnapshot(r.Context(), snap); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleSnapshotRecord(w http.ResponseWriter, r *http.Request, groupID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	snapshots, err := s.app.LeagueService.RecordSnapshots(r.Context(), groupID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]interface{}{"snapshots": snapshots})
}

func (s *Server) handleSeasons(w http.ResponseWriter, r *http.Request, groupID string) {
	switch r.Method {
	case http.MethodGet:
		seasons, err := s.app.LeagueService.ListSeasons(r.Context(), groupID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		if seasons == nil {
			seasons = []*models.Season{}
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"seasons": seasons})

	case http.MethodPost:
		var req seasonRequest
		if r.ContentLength != 0 && !DecodeJSON(w, r, &req) {
			return
		}
		season, err := s.app.LeagueService.StartSeason(r.Context(), groupID, req.Name)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, season)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleSeasonEnd(w http.ResponseWriter, r *http.Request, groupID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	season, err := s.app.LeagueService.EndSeason(r.Context(), groupID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, season)
}

func (s *Server) handleSeasonGet(w http.ResponseWriter, r *http.Request, groupID, seasonID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if seasonID == "" {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	season, err := s.app.LeagueService.GetSeason(r.Context(), groupID, seasonID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, season)
}
