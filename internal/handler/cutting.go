package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/piwi3910/beamcut/internal/engine"
	"github.com/piwi3910/beamcut/internal/importer"
	"github.com/piwi3910/beamcut/internal/model"
	"github.com/piwi3910/beamcut/internal/project"
	"github.com/piwi3910/beamcut/internal/report"
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "ok", nil)
}

type partInput struct {
	Length   float64 `json:"length" validate:"required,gt=0"`
	Quantity int     `json:"quantity" validate:"required,gte=1"`
}

// solverOverrides lets a request tune individual genetic algorithm
// parameters; unset fields keep the defaults. The merged configuration is
// still validated as a whole before the run starts.
type solverOverrides struct {
	PopulationSize *int     `json:"population_size" validate:"omitempty,gte=2"`
	MaxGenerations *int     `json:"max_generations" validate:"omitempty,gte=1"`
	StallLimit     *int     `json:"stall_limit" validate:"omitempty,gte=0"`
	TournamentSize *int     `json:"tournament_size" validate:"omitempty,gte=1"`
	CrossoverRate  *float64 `json:"crossover_rate" validate:"omitempty,gte=0,lte=1"`
	MutationRate   *float64 `json:"mutation_rate" validate:"omitempty,gte=0,lte=1"`
	BeamWeight     *float64 `json:"beam_weight" validate:"omitempty,gte=0"`
	WasteWeight    *float64 `json:"waste_weight" validate:"omitempty,gte=0"`
	Seed           *int64   `json:"seed"`
}

func (o *solverOverrides) apply(cfg model.SolverConfig) model.SolverConfig {
	if o == nil {
		return cfg
	}
	if o.PopulationSize != nil {
		cfg.PopulationSize = *o.PopulationSize
	}
	if o.MaxGenerations != nil {
		cfg.MaxGenerations = *o.MaxGenerations
	}
	if o.StallLimit != nil {
		cfg.StallLimit = *o.StallLimit
	}
	if o.TournamentSize != nil {
		cfg.TournamentSize = *o.TournamentSize
	}
	if o.CrossoverRate != nil {
		cfg.CrossoverRate = *o.CrossoverRate
	}
	if o.MutationRate != nil {
		cfg.MutationRate = *o.MutationRate
	}
	if o.BeamWeight != nil {
		cfg.BeamWeight = *o.BeamWeight
	}
	if o.WasteWeight != nil {
		cfg.WasteWeight = *o.WasteWeight
	}
	if o.Seed != nil {
		cfg.Seed = *o.Seed
	}
	return cfg
}

func (h *Handler) SolveCutting(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RawLength float64          `json:"raw_length" validate:"required,gt=0"`
		Parts     []partInput      `json:"parts" validate:"required,min=1,dive"`
		Config    *solverOverrides `json:"config" validate:"omitempty"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	parts := make([]model.RequiredPart, len(req.Parts))
	for i, p := range req.Parts {
		parts[i] = model.RequiredPart{Length: p.Length, Quantity: p.Quantity}
	}

	h.runSolve(w, r, req.RawLength, parts, req.Config.apply(model.DefaultSolverConfig()))
}

// UploadCutting accepts a multipart part-list file (csv, xlsx, or the plain
// text format whose first line is the raw stock length). For formats that
// do not carry the raw length, the raw_length form field must be set.
func (h *Handler) UploadCutting(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.Solver.MaxUploadSize)
	if err := r.ParseMultipartForm(h.config.Solver.MaxUploadSize); err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "cannot parse upload: "+err.Error())
		return
	}

	file, header, err := r.FormFile("parts_file")
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "parts_file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	imported := importer.ImportFile(header.Filename, data)
	if len(imported.Errors) > 0 {
		h.writeJSON(w, r, http.StatusBadRequest, Response{
			Success: false,
			Message: "part list contains errors",
			Data:    map[string]any{"errors": imported.Errors, "warnings": imported.Warnings},
		})
		return
	}

	rawLength := imported.RawLength
	if v := r.FormValue("raw_length"); v != "" {
		rawLength, err = strconv.ParseFloat(v, 64)
		if err != nil {
			h.errorResponse(w, r, http.StatusBadRequest, "invalid raw_length value")
			return
		}
	}
	if rawLength <= 0 {
		h.errorResponse(w, r, http.StatusBadRequest, "raw_length is required for this file format")
		return
	}

	h.runSolve(w, r, rawLength, imported.Parts, model.DefaultSolverConfig())
}

// runSolve is the shared path behind the form and upload endpoints:
// normalize the demand, run the optimizer under the configured deadline,
// persist the result and respond with the report.
func (h *Handler) runSolve(w http.ResponseWriter, r *http.Request, rawLength float64, parts []model.RequiredPart, cfg model.SolverConfig) {
	demand, err := model.NewDemand(rawLength, parts)
	if err != nil {
		var invalid *model.InvalidInputError
		var infeasible *model.InfeasiblePartError
		switch {
		case errors.As(err, &invalid):
			h.errorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.As(err, &infeasible):
			h.errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	solver, err := engine.New(cfg, demand)
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	if h.config.Solver.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(h.config.Solver.Timeout)*time.Second)
		defer cancel()
	}

	res, err := solver.Solve(ctx)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	rep := report.Build(demand, res)
	rec := project.NewRecord(rawLength, parts, rep)
	if err := h.store.Save(rec); err != nil {
		// The report is still good; losing history is worth a warning, not a failure.
		slog.Warn("failed to persist cutting request", "id", rec.ID, "error", err)
	}

	h.successResponse(w, r, "cutting plan computed", rec)
}

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.store.Load(id)
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			h.errorResponse(w, r, http.StatusNotFound, "cutting request not found")
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "", rec)
}

type requestSummary struct {
	ID        string  `json:"id"`
	CreatedAt string  `json:"created_at"`
	RawLength float64 `json:"raw_length"`
	BeamCount int     `json:"beam_count"`
	Waste     float64 `json:"genotype_waste"`
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.List()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	summaries := make([]requestSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, requestSummary{
			ID:        rec.ID,
			CreatedAt: rec.CreatedAt,
			RawLength: rec.RawLength,
			BeamCount: rec.Report.BeamCount,
			Waste:     rec.Report.GenotypeWaste,
		})
	}

	h.successResponse(w, r, "", summaries)
}
