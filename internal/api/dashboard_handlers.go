package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerDashboardRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getDashboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/dashboard",
		Summary:     "Get reading dashboard",
		Description: "Returns shelf counts and finished papers per calendar quarter",
		Tags:        []string{"Dashboard"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetDashboard)
}

// === DTOs ===

// QuarterCountResponse is the number of papers finished in one quarter.
type QuarterCountResponse struct {
	Quarter string `json:"quarter" doc:"Quarter label, e.g. Q3 2026"`
	Count   int    `json:"count" doc:"Papers marked read in the quarter"`
}

// DashboardOutput wraps the dashboard payload for Huma.
type DashboardOutput struct {
	Body struct {
		ToRead           int                    `json:"to_read" doc:"Papers on the to-read shelf"`
		Reading          int                    `json:"reading" doc:"Papers currently being read"`
		Read             int                    `json:"read" doc:"Papers finished"`
		Total            int                    `json:"total" doc:"Total library entries"`
		ReadingByQuarter []QuarterCountResponse `json:"reading_by_quarter" doc:"Finished papers per quarter, oldest first"`
	}
}

// === Handlers ===

func (s *Server) handleGetDashboard(ctx context.Context, _ *struct{}) (*DashboardOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.services.Library.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	quarters, err := s.services.Library.ReadingByQuarter(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &DashboardOutput{}
	out.Body.ToRead = snapshot.ToRead
	out.Body.Reading = snapshot.Reading
	out.Body.Read = snapshot.Read
	out.Body.Total = snapshot.Total()
	out.Body.ReadingByQuarter = make([]QuarterCountResponse, len(quarters))
	for i, q := range quarters {
		out.Body.ReadingByQuarter[i] = QuarterCountResponse{Quarter: q.Quarter, Count: q.Count}
	}
	return out, nil
}
