package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lodeline/orescore/internal/config"
	"github.com/lodeline/orescore/internal/model"
	"github.com/lodeline/orescore/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score companies from JSON datasets",
	Long: `Score mining companies on peer-relative cash-flow quality.

Reads one or more JSON datasets (arrays of company records), builds
percentile statistics per company type, and produces a 0-100 composite
score per company with a full metric breakdown, peer ranks, and
insights.

Examples:
  # Score one dataset and print a table
  orescore score --input companies.json

  # Merge several datasets, custom weights, export to xlsx
  orescore score --input producers.json --input explorers.json \
    --weights weights.yaml --format xlsx --output scores.xlsx

  # Score with free-tier metrics only and persist the run
  orescore score --input companies.json --tiers free --save`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.StringArray("input", nil, "JSON dataset file (repeatable)")
	f.String("weights", "", "YAML weight configuration (default: built-in)")
	f.String("tiers", "free,pro,premium", "comma-separated access tiers")
	f.String("format", "table", "output format: table, csv, json, or xlsx")
	f.String("output", "", "output file path (default: stdout; required for xlsx)")
	f.Bool("save", false, "persist the run to the configured store")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	inputs, _ := cmd.Flags().GetStringArray("input")
	weightsPath, _ := cmd.Flags().GetString("weights")
	tiersFlag, _ := cmd.Flags().GetString("tiers")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	save, _ := cmd.Flags().GetBool("save")

	if len(inputs) == 0 {
		return eris.New("score: at least one --input file is required")
	}
	if format == "xlsx" && outputPath == "" {
		return eris.New("score: --format xlsx requires --output")
	}

	tiers, err := parseTiers(tiersFlag)
	if err != nil {
		return err
	}

	wf, err := loadWeightConfig(weightsPath)
	if err != nil {
		return err
	}

	log := zap.L().With(zap.String("command", "score"))

	companies, err := loadCompanies(ctx, inputs)
	if err != nil {
		return err
	}

	log.Info("scoring companies",
		zap.Int("companies", len(companies)),
		zap.Int("datasets", len(inputs)),
		zap.String("tiers", tiersFlag),
	)

	engine := scoring.NewEngine(cfg.Engine, scoring.ZapObserver{})
	results := engine.ScoreAll(companies, wf.Weights, wf.NormalizeByShares, model.MetricsForTiers(tiers...))

	log.Info("scoring complete", zap.Int("results", len(results)))

	if err := outputResults(results, format, outputPath); err != nil {
		return err
	}

	if save {
		run := &model.ScoringRun{
			ID:           uuid.NewString(),
			CreatedAt:    time.Now().UTC(),
			CompanyCount: len(companies),
			Results:      results,
		}
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}
		if err := st.SaveRun(ctx, run); err != nil {
			return eris.Wrap(err, "score: save run")
		}
		fmt.Printf("Saved run %s (%d companies)\n", run.ID, run.CompanyCount)
	}

	if format == "table" && outputPath == "" {
		printScoreSummary(results)
	}
	return nil
}

// loadCompanies reads all input datasets concurrently and concatenates
// them in argument order. Company IDs must be unique across datasets.
func loadCompanies(ctx context.Context, paths []string) ([]model.Company, error) {
	batches := make([][]model.Company, len(paths))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range paths {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return eris.Wrapf(err, "score: read dataset %s", path)
			}
			var batch []model.Company
			if err := json.Unmarshal(data, &batch); err != nil {
				return eris.Wrapf(err, "score: parse dataset %s", path)
			}
			batches[i] = batch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var companies []model.Company
	seen := make(map[string]string)
	for i, batch := range batches {
		for _, c := range batch {
			if prev, dup := seen[c.ID]; dup {
				return nil, eris.Errorf("score: duplicate company ID %q in %s and %s", c.ID, prev, paths[i])
			}
			seen[c.ID] = paths[i]
			companies = append(companies, c)
		}
	}
	return companies, nil
}

func loadWeightConfig(path string) (*config.WeightsFile, error) {
	if path == "" {
		return config.DefaultWeights(), nil
	}
	return config.LoadWeights(path)
}

func parseTiers(s string) ([]model.AccessTier, error) {
	var tiers []model.AccessTier
	for _, part := range splitAndTrim(s) {
		t := model.AccessTier(part)
		switch t {
		case model.TierFree, model.TierPro, model.TierPremium:
			tiers = append(tiers, t)
		default:
			return nil, eris.Errorf("score: unknown tier %q (want free, pro, or premium)", part)
		}
	}
	if len(tiers) == 0 {
		return nil, eris.New("score: --tiers must name at least one tier")
	}
	return tiers, nil
}

func outputResults(results []model.ScoringResult, format, outputPath string) error {
	if format == "xlsx" {
		return writeScoreXLSX(results, outputPath)
	}

	var w io.Writer = os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "score: create output file %s", outputPath)
		}
		defer f.Close() //nolint:errcheck
		w = f
	}

	switch format {
	case "table":
		return writeScoreTable(w, results)
	case "csv":
		return writeScoreCSV(w, results)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(results), "score: write JSON")
	default:
		return eris.Errorf("score: unsupported format %q", format)
	}
}

func writeScoreTable(w io.Writer, results []model.ScoringResult) error {
	header := fmt.Sprintf("%-12s %-32s %-10s %7s %7s %6s %6s %10s\n",
		"ID", "Company", "Type", "Score", "FCF", "Conf", "Rank", "Cap Band")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "score: write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 98)); err != nil {
		return eris.Wrap(err, "score: write table separator")
	}

	for _, r := range results {
		name := r.CompanyName
		if runes := []rune(name); len(runes) > 32 {
			name = string(runes[:29]) + "..."
		}
		rank := fmt.Sprintf("%d/%d", r.PeerRank.WithinType, r.PeerRank.TypeGroupSize)
		line := fmt.Sprintf("%-12s %-32s %-10s %7.1f %7.1f %6.2f %6s %10s\n",
			r.CompanyID, name, r.Type, r.FinalScore, r.FCFScore, r.Confidence, rank, r.PeerRank.CapBand)
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "score: write table row")
		}
	}
	return nil
}

func writeScoreCSV(w io.Writer, results []model.ScoringResult) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"company_id", "company_name", "type", "final_score", "fcf_score",
		"confidence", "data_completeness", "market_cap", "cap_band",
		"rank_within_type", "type_group_size", "error",
	}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "score: write CSV header")
	}

	for _, r := range results {
		row := []string{
			r.CompanyID,
			r.CompanyName,
			string(r.Type),
			fmt.Sprintf("%.2f", r.FinalScore),
			fmt.Sprintf("%.2f", r.FCFScore),
			fmt.Sprintf("%.2f", r.Confidence),
			fmt.Sprintf("%.2f", r.DataCompleteness),
			fmt.Sprintf("%.0f", r.MarketCap),
			string(r.PeerRank.CapBand),
			fmt.Sprintf("%d", r.PeerRank.WithinType),
			fmt.Sprintf("%d", r.PeerRank.TypeGroupSize),
			r.Error,
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "score: write CSV row")
		}
	}
	return nil
}

// writeScoreXLSX exports two sheets: a scores overview and a long-form
// per-metric breakdown.
func writeScoreXLSX(results []model.ScoringResult, path string) error {
	f := xlsx.NewFile()

	scores, err := f.AddSheet("Scores")
	if err != nil {
		return eris.Wrap(err, "score: add Scores sheet")
	}
	hdr := scores.AddRow()
	for _, h := range []string{"ID", "Company", "Type", "Score", "FCF Score", "Confidence", "Completeness", "Market Cap", "Cap Band", "Rank"} {
		hdr.AddCell().Value = h
	}
	for _, r := range results {
		row := scores.AddRow()
		row.AddCell().Value = r.CompanyID
		row.AddCell().Value = r.CompanyName
		row.AddCell().Value = string(r.Type)
		row.AddCell().SetFloatWithFormat(r.FinalScore, "0.0")
		row.AddCell().SetFloatWithFormat(r.FCFScore, "0.0")
		row.AddCell().SetFloatWithFormat(r.Confidence, "0.00")
		row.AddCell().SetFloatWithFormat(r.DataCompleteness, "0.00")
		row.AddCell().SetFloatWithFormat(r.MarketCap, "#,##0")
		row.AddCell().Value = string(r.PeerRank.CapBand)
		row.AddCell().Value = fmt.Sprintf("%d/%d", r.PeerRank.WithinType, r.PeerRank.TypeGroupSize)
	}

	breakdown, err := f.AddSheet("Breakdown")
	if err != nil {
		return eris.Wrap(err, "score: add Breakdown sheet")
	}
	hdr = breakdown.AddRow()
	for _, h := range []string{"ID", "Metric", "Raw", "Normalized", "Weight", "Contribution", "Percentile", "Imputed"} {
		hdr.AddCell().Value = h
	}
	for _, r := range results {
		for _, key := range sortedBreakdownKeys(r.Breakdown) {
			bd := r.Breakdown[key]
			row := breakdown.AddRow()
			row.AddCell().Value = r.CompanyID
			row.AddCell().Value = string(key)
			row.AddCell().SetFloatWithFormat(bd.RawValue, "0.00")
			row.AddCell().SetFloatWithFormat(bd.NormalizedValue, "0.0")
			row.AddCell().SetInt(bd.Weight)
			row.AddCell().SetFloatWithFormat(bd.Contribution, "0.00")
			row.AddCell().SetFloatWithFormat(bd.PercentileRank, "0.00")
			row.AddCell().SetBool(bd.Imputed)
		}
	}

	return eris.Wrapf(f.Save(path), "score: save xlsx %s", path)
}

func sortedBreakdownKeys(bd map[model.MetricKey]model.MetricBreakdown) []model.MetricKey {
	keys := make([]model.MetricKey, 0, len(bd))
	for k := range bd {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func printScoreSummary(results []model.ScoringResult) {
	if len(results) == 0 {
		fmt.Println("No results.")
		return
	}
	var sum, minScore, maxScore float64
	minScore = 101
	failed := 0
	for _, r := range results {
		sum += r.FinalScore
		if r.FinalScore > maxScore {
			maxScore = r.FinalScore
		}
		if r.FinalScore < minScore {
			minScore = r.FinalScore
		}
		if r.Error != "" {
			failed++
		}
	}
	fmt.Printf("\n--- Summary ---\n")
	fmt.Printf("Companies scored: %d\n", len(results))
	fmt.Printf("Score range:      %.1f - %.1f\n", minScore, maxScore)
	fmt.Printf("Average score:    %.1f\n", sum/float64(len(results)))
	if failed > 0 {
		fmt.Printf("Failed:           %d (zero fallback score)\n", failed)
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
