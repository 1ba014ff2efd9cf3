package server

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/league/internal/common"
)

// registerRoutes sets up all HTTP routes on the given mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Groups
	mux.HandleFunc("/api/groups", s.handleGroupList)
	mux.HandleFunc("/api/groups/", s.routeGroups)
}

// splitGroupPath splits /api/groups/{id}/{subpath} into its group id and
// subpath. The id is empty for paths outside /api/groups/.
func splitGroupPath(urlPath string) (groupID, subpath string) {
	path, ok := strings.CutPrefix(urlPath, "/api/groups/")
	if !ok {
		return "", ""
	}
	groupID, subpath, _ = strings.Cut(path, "/")
	return groupID, strings.TrimSuffix(subpath, "/")
}

// routeGroups dispatches /api/groups/{id}/... to the appropriate handler.
func (s *Server) routeGroups(w http.ResponseWriter, r *http.Request) {
	groupID, subpath := splitGroupPath(r.URL.Path)
	if groupID == "" {
		WriteError(w, http.StatusBadRequest, "Group ID is required")
		return
	}

	switch {
	case subpath == "":
		s.handleGroup(w, r, groupID)
	case subpath == "metrics":
		s.handleGroupMetrics(w, r, groupID)
	case subpath == "leaderboard":
		s.handleLeaderboard(w, r, groupID)
	case subpath == "chart":
		s.handleChart(w, r, groupID)
	case subpath == "chart.png":
		s.handleChartPNG(w, r, groupID)
	case subpath == "snapshots":
		s.handleSnapshotAppend(w, r, groupID)
	case subpath == "snapshots/record":
		s.handleSnapshotRecord(w, r, groupID)
	case subpath == "seasons":
		s.handleSeasons(w, r, groupID)
	case subpath == "seasons/end":
		s.handleSeasonEnd(w, r, groupID)
	case strings.HasPrefix(subpath, "seasons/"):
		s.handleSeasonGet(w, r, groupID, strings.TrimPrefix(subpath, "seasons/"))
	case strings.HasPrefix(subpath, "members/") && strings.HasSuffix(subpath, "/performance"):
		memberID := strings.TrimSuffix(strings.TrimPrefix(subpath, "members/"), "/performance")
		if memberID == "" || strings.Contains(memberID, "/") {
			WriteError(w, http.StatusNotFound, "Not found")
			return
		}
		s.handleMemberPerformance(w, r, groupID, memberID)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
