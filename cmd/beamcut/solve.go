package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/beamcut/internal/engine"
	"github.com/piwi3910/beamcut/internal/export"
	"github.com/piwi3910/beamcut/internal/importer"
	"github.com/piwi3910/beamcut/internal/model"
	"github.com/piwi3910/beamcut/internal/report"
)

var (
	solveInput     string
	solveRawLength float64
	solveSeed      int64
	solveConfig    string
	solveOutput    string
	solvePDF       string
	solveDXF       string
	solveLabels    string
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Compute a cutting plan from a part list file",
	Long: `Reads a part list (csv, xlsx, or plain text with the raw stock length
on the first line), runs the genetic optimizer and prints the resulting
report as JSON. Optional flags export the plan as a PDF drawing, a DXF
file or a sheet of QR beam labels.`,
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().StringVarP(&solveInput, "input", "i", "", "part list file (csv, xlsx or text)")
	solveCmd.Flags().Float64VarP(&solveRawLength, "raw-length", "r", 0, "raw stock length (overrides the value from the file)")
	solveCmd.Flags().Int64Var(&solveSeed, "seed", 0, "random seed (overrides the config value)")
	solveCmd.Flags().StringVarP(&solveConfig, "config", "c", "", "solver configuration file (yaml)")
	solveCmd.Flags().StringVarP(&solveOutput, "output", "o", "", "write the JSON report to a file instead of stdout")
	solveCmd.Flags().StringVar(&solvePDF, "pdf", "", "export the cutting plan drawing as PDF")
	solveCmd.Flags().StringVar(&solveDXF, "dxf", "", "export the cutting plan as DXF")
	solveCmd.Flags().StringVar(&solveLabels, "labels", "", "export QR beam labels as PDF")
	solveCmd.MarkFlagRequired("input")
}

func loadSolverConfig(path string) (model.SolverConfig, error) {
	cfg := model.DefaultSolverConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read solver config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse solver config: %w", err)
	}
	return cfg, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(solveInput)
	if err != nil {
		return fmt.Errorf("read part list: %w", err)
	}

	imported := importer.ImportFile(solveInput, data)
	for _, w := range imported.Warnings {
		slog.Warn("import warning", "detail", w)
	}
	if len(imported.Errors) > 0 {
		for _, e := range imported.Errors {
			slog.Error("import error", "detail", e)
		}
		return fmt.Errorf("part list %s contains %d errors", solveInput, len(imported.Errors))
	}

	rawLength := imported.RawLength
	if cmd.Flags().Changed("raw-length") {
		rawLength = solveRawLength
	}

	cfg, err := loadSolverConfig(solveConfig)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = solveSeed
	}

	demand, err := model.NewDemand(rawLength, imported.Parts)
	if err != nil {
		return err
	}

	solver, err := engine.New(cfg, demand)
	if err != nil {
		return err
	}

	// Ctrl-C stops the optimizer at the next generation boundary and the
	// best plan found so far is still reported.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := solver.Solve(ctx)
	if err != nil {
		return err
	}
	if res.Cancelled {
		slog.Warn("optimization interrupted, reporting best plan so far", "generations", res.Generations)
	}

	rep := report.Build(demand, res)

	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	if solveOutput != "" {
		if err := os.WriteFile(solveOutput, append(out, '\n'), 0644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	} else {
		fmt.Println(string(out))
	}

	if solvePDF != "" {
		if err := export.ExportPDF(solvePDF, rep); err != nil {
			return fmt.Errorf("export pdf: %w", err)
		}
		slog.Info("exported cutting plan", "file", solvePDF)
	}
	if solveDXF != "" {
		if err := export.ExportDXF(solveDXF, rep); err != nil {
			return fmt.Errorf("export dxf: %w", err)
		}
		slog.Info("exported cutting plan", "file", solveDXF)
	}
	if solveLabels != "" {
		if err := export.ExportLabels(solveLabels, rep); err != nil {
			return fmt.Errorf("export labels: %w", err)
		}
		slog.Info("exported beam labels", "file", solveLabels)
	}

	return nil
}
