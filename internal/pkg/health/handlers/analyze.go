package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Vodeneev/leonspider/internal/parser/harvest"
)

// AckMessage is returned for every completed trigger, successful or not.
const AckMessage = "Data successfully processed"

// Runner runs one harvesting pipeline.
type Runner interface {
	Run(ctx context.Context) (*harvest.RunResult, error)
}

type AnalyzeResponse struct {
	Message    string               `json:"message"`
	Success    bool                 `json:"success"`
	Matches    int                  `json:"matches"`
	ReportPath string               `json:"report_path,omitempty"`
	Duration   string               `json:"duration"`
	Pages      []harvest.PageResult `json:"pages,omitempty"`
	Error      string               `json:"error,omitempty"`
}

// HandleAnalyze runs the pipeline and acknowledges once it returns.
// POST /api/analyze-leon
//
// The run is detached from the request: a client that disconnects does not
// cancel page tasks already dispatched. The status is always 200; failures
// are reported through success and error in the body.
func HandleAnalyze(runner Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetReqID(r.Context())
		slog.Info("Leon analysis triggered", "request_id", reqID)

		start := time.Now()
		res, err := runner.Run(context.WithoutCancel(r.Context()))

		resp := AnalyzeResponse{
			Message:  AckMessage,
			Success:  err == nil,
			Duration: time.Since(start).String(),
		}
		if res != nil {
			resp.Matches = res.Matches
			resp.ReportPath = res.ReportPath
			resp.Pages = res.Pages
		}
		if err != nil {
			resp.Error = err.Error()
			slog.Warn("Leon analysis finished with error", "request_id", reqID, "error", err)
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
