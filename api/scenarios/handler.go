// Package scenarios exposes the calculator over HTTP.
package scenarios

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/kilianp07/solarcar/core/history"
	"github.com/kilianp07/solarcar/core/input"
	"github.com/kilianp07/solarcar/core/model"
	"github.com/kilianp07/solarcar/core/solver"
	"github.com/kilianp07/solarcar/pkg/export"
)

// Calculator is the service behind the handlers.
type Calculator interface {
	Calculate(ctx context.Context, sc model.ScenarioType, form map[string]string) (history.Record, error)
	History(ctx context.Context, q history.Query) ([]history.Record, error)
	Sweep(in model.RequiredSpeedInput, withBudget bool) ([]solver.SweepPoint, float64, error)
	Vehicle() model.VehicleParameters
	Subscribe(ctx context.Context) <-chan history.Record
}

// Request is the body of POST /api/scenarios/{scenario}. Field values may be
// JSON strings or numbers.
type Request struct {
	Fields map[string]any `json:"fields"`
}

// ErrorResponse carries the user-facing message and, for calculation
// failures, the recorded attempt.
type ErrorResponse struct {
	Error  string          `json:"error"`
	Record *history.Record `json:"record,omitempty"`
}

// ScenarioInfo describes one scenario and the form fields it reads.
type ScenarioInfo struct {
	Name   string   `json:"name"`
	Title  string   `json:"title"`
	Fields []string `json:"fields"`
}

// NewHandler returns the API routes. When token is non-empty the history
// endpoint requires an "Authorization: Bearer <token>" header.
func NewHandler(calc Calculator, token string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/scenarios", listScenarios)
	mux.HandleFunc("POST /api/scenarios/{scenario}", calculate(calc))
	mux.HandleFunc("GET /api/sweep", sweep(calc))
	mux.Handle("GET /api/history", requireToken(token, historyHandler(calc)))
	mux.HandleFunc("GET /api/stream", stream(calc))
	mux.HandleFunc("GET /api/vehicle", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, calc.Vehicle())
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func listScenarios(w http.ResponseWriter, _ *http.Request) {
	out := make([]ScenarioInfo, 0, len(model.Scenarios))
	for _, sc := range model.Scenarios {
		out = append(out, ScenarioInfo{Name: sc.String(), Title: sc.Title(), Fields: input.Fields(sc)})
	}
	writeJSON(w, http.StatusOK, out)
}

func calculate(calc Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, err := model.ParseScenarioType(r.PathValue("scenario"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		var req Request
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}
		rec, err := calc.Calculate(r.Context(), sc, input.FromValues(req.Fields))
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, rec)
		case model.IsValidation(err), model.IsNotFound(err), errors.Is(err, model.ErrArrivalTimeNotPositive):
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Record: &rec})
		default:
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
	}
}

// sweep serves GET /api/sweep?distance_km=&solar_power_w=[&current_soc_wh=&target_soc_wh=][&format=json|csv|html].
func sweep(calc Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		format, err := export.ParseFormat(q.Get("format"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		form := input.Form{}
		for _, f := range []string{input.FieldDistanceKm, input.FieldSolarPowerW, input.FieldCurrentSoCWh, input.FieldTargetSoCWh} {
			form[f] = q.Get(f)
		}
		in := model.RequiredSpeedInput{}
		if in.DistanceKm, err = form.Number(input.FieldDistanceKm); err == nil {
			in.SolarPowerW, err = form.Number(input.FieldSolarPowerW)
		}
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
			return
		}
		withBudget := q.Has(input.FieldCurrentSoCWh) || q.Has(input.FieldTargetSoCWh)
		if withBudget {
			full, err := form.RequiredSpeed()
			if err != nil {
				writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
				return
			}
			in = full
		}
		pts, speed, err := calc.Sweep(in, withBudget)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
			return
		}
		s := export.Sweep{DistanceKm: in.DistanceKm, SolarPowerW: in.SolarPowerW, RequiredKmh: speed, Points: pts}
		if withBudget {
			s.BudgetWh = in.CurrentSoCWh - in.TargetSoCWh
		}
		w.Header().Set("Content-Type", format.ContentType())
		if err := export.Write(w, format, s); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// historyHandler serves GET /api/history?scenario=&outcome=&start=&end=&limit=.
func historyHandler(calc Calculator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := r.URL.Query()
		q := history.Query{Scenario: v.Get("scenario"), Outcome: v.Get("outcome")}
		if s := v.Get("start"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.Start = t
			}
		}
		if s := v.Get("end"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.End = t
			}
		}
		if s := v.Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
				return
			}
			q.Limit = n
		}
		records, err := calc.History(r.Context(), q)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
		if records == nil {
			records = []history.Record{}
		}
		writeJSON(w, http.StatusOK, records)
	})
}

// stream serves GET /api/stream[?scenario=] as Server-Sent Events, one
// "calculation" event per recorded calculation.
func stream(calc Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}
		scenario := r.URL.Query().Get("scenario")
		records := calc.Subscribe(r.Context())
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()
		for rec := range records {
			if scenario != "" && rec.Scenario.String() != scenario {
				continue
			}
			data, err := json.Marshal(rec)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: calculation\nid: %s\ndata: %s\n\n", rec.ID, data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func requireToken(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Error: "encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
