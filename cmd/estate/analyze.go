package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Simplici0/estatecalc/internal/analyzer"
	"github.com/Simplici0/estatecalc/internal/db"
	"github.com/Simplici0/estatecalc/internal/migrations"
	"github.com/Simplici0/estatecalc/internal/report"
	"github.com/Simplici0/estatecalc/internal/scenario"
	"github.com/Simplici0/estatecalc/internal/store"
)

type analyzeCmd struct {
	*cli
	file   string
	sample string
	format string
	output string
	emit   string
	save   bool
}

func (c *cli) newAnalyzeCmd() *cobra.Command {
	ac := &analyzeCmd{cli: c}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a scenario file or a bundled sample",
		RunE:  ac.run,
	}

	cmd.Flags().StringVarP(&ac.file, "file", "f", "", "Scenario YAML file")
	cmd.Flags().StringVar(&ac.sample, "sample", "", "Name of a bundled sample scenario")
	cmd.Flags().StringVar(&ac.format, "format", "markdown", "Output format: markdown, html or json")
	cmd.Flags().StringVarP(&ac.output, "output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().StringVar(&ac.emit, "emit-scenario", "", "Write the completed cells back out as a scenario file")
	cmd.Flags().BoolVar(&ac.save, "save", false, "Store the run in the database")
	cmd.MarkFlagsMutuallyExclusive("file", "sample")
	cmd.MarkFlagsOneRequired("file", "sample")

	return cmd
}

func (ac *analyzeCmd) run(cmd *cobra.Command, _ []string) error {
	cfg, err := ac.config()
	if err != nil {
		return err
	}

	sc, err := ac.scenario()
	if err != nil {
		return err
	}
	d, err := sc.Dataset()
	if err != nil {
		return fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	logger := ac.logger(cmd, cfg)
	out := analyzer.New(logger, cfg.SolverMaxPasses).Analyze(d)

	if ac.save {
		id, err := saveRun(cmd, cfg.DBPath, sc.Name, d, out)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved analysis %s\n", id)
	}

	if ac.emit != "" {
		data, err := scenario.FromDataset(sc.Name, out).Marshal()
		if err != nil {
			return fmt.Errorf("encode scenario: %w", err)
		}
		if err := os.WriteFile(ac.emit, data, 0o644); err != nil {
			return fmt.Errorf("write scenario: %w", err)
		}
	}

	body, err := render(ac.format, sc.Name, out)
	if err != nil {
		return err
	}

	if ac.output == "" {
		_, err = cmd.OutOrStdout().Write(body)
	} else {
		err = os.WriteFile(ac.output, body, 0o644)
	}
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if out.Err != nil {
		return fmt.Errorf("analysis stopped: %w", out.Err)
	}
	return nil
}

func (ac *analyzeCmd) scenario() (*scenario.Scenario, error) {
	if ac.sample != "" {
		sc, ok := scenario.Sample(ac.sample)
		if !ok {
			return nil, fmt.Errorf("unknown sample %q", ac.sample)
		}
		return sc, nil
	}
	return scenario.Load(ac.file)
}

func render(format, name string, d analyzer.Dataset) ([]byte, error) {
	switch format {
	case "markdown", "md":
		return []byte(report.Markdown(name, d)), nil
	case "html":
		return report.HTML(name, d)
	case "json":
		b, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode analysis: %w", err)
		}
		return append(b, '\n'), nil
	default:
		return nil, errors.New("format must be markdown, html or json")
	}
}

func saveRun(cmd *cobra.Command, dbPath, name string, in, out analyzer.Dataset) (string, error) {
	database, err := db.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer database.Close()

	if err := migrations.Up(database.DB); err != nil {
		return "", err
	}

	saved, err := store.New(database).SaveAnalysis(cmd.Context(), name, in, out)
	if err != nil {
		return "", err
	}
	return saved.ID, nil
}
