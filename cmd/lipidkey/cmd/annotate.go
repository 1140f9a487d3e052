package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/LipidKey/pkg/adduct"
	"github.com/ChrisMcGann/LipidKey/pkg/core"
	"github.com/ChrisMcGann/LipidKey/pkg/logging"
	"github.com/ChrisMcGann/LipidKey/pkg/pipeline"
	"github.com/ChrisMcGann/LipidKey/pkg/reader/msp"
	"github.com/ChrisMcGann/LipidKey/pkg/writer/sqlite"
)

var (
	// Flags for annotate command
	inputFile        string
	outputFile       string
	ppmTolerance     int
	threads          int
	topN             int
	cutoffPercent    float64
	minIntensity     float64
	positiveAdducts  string
	negativeAdducts  string
	compoundClassCSV string
)

func init() {
	annotateCmd.Flags().StringVarP(&inputFile, "in", "i", "", "Input MSP feature file (required)")
	annotateCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Output database file (required)")
	annotateCmd.Flags().IntVar(&ppmTolerance, "ppm", adduct.DefaultPPMTolerance, "Mass tolerance in ppm")
	annotateCmd.Flags().IntVar(&threads, "threads", 1, "Number of worker threads")
	annotateCmd.Flags().IntVar(&topN, "top-n", 0, "Keep only top N most intense peaks per group (0 = no limit)")
	annotateCmd.Flags().Float64Var(&cutoffPercent, "cutoff", 0, "Intensity cutoff as % of base peak (0 = no cutoff)")
	annotateCmd.Flags().Float64Var(&minIntensity, "min-intensity", 0, "Absolute intensity minimum (0 = no minimum)")
	annotateCmd.Flags().StringVar(&positiveAdducts, "positive-adducts", "", "Custom positive adduct table (.csv, .yaml)")
	annotateCmd.Flags().StringVar(&negativeAdducts, "negative-adducts", "", "Custom negative adduct table (.csv, .yaml)")
	annotateCmd.Flags().StringVar(&compoundClassCSV, "compound-class", "", "Path to lipid name to class CSV file")

	annotateCmd.MarkFlagRequired("in")
	annotateCmd.MarkFlagRequired("out")
}

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Detect adducts for an MSP feature list and write a SQLite database",
	Long: `Read lipid features with their co-eluting peak groups from an MSP file,
detect the adduct of each feature and write the annotations to SQLite.

Examples:
  # Annotate with the built-in adduct tables
  lipidkey annotate --in features.msp --out annotations.db

  # Tighter tolerance, filtered peak groups and four workers
  lipidkey annotate --in features.msp --out annotations.db --ppm 5 --cutoff 1 --threads 4

  # Custom negative mode adducts
  lipidkey annotate --in features.msp --out annotations.db --negative-adducts negative.yaml`,
	RunE: runAnnotate,
}

// applyFlagOverrides copies explicitly set command flags over the config
func applyFlagOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("ppm") {
		cfg.Detection.PPMTolerance = ppmTolerance
	}
	if flags.Changed("threads") {
		cfg.Run.Threads = threads
	}
	if flags.Changed("top-n") {
		cfg.Filter.TopN = topN
	}
	if flags.Changed("cutoff") {
		cfg.Filter.Cutoff = cutoffPercent
	}
	if flags.Changed("min-intensity") {
		cfg.Filter.MinIntensity = minIntensity
	}
	if flags.Changed("positive-adducts") {
		cfg.Adducts.Positive = positiveAdducts
	}
	if flags.Changed("negative-adducts") {
		cfg.Adducts.Negative = negativeAdducts
	}
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	logger := logging.New("annotate")

	// Validate input file exists
	if _, err := os.Stat(inputFile); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", inputFile)
	}

	tables, err := loadTables()
	if err != nil {
		return err
	}
	detector := adduct.NewDetector(tables,
		adduct.WithTolerance(cfg.Detection.PPMTolerance),
		adduct.WithLogger(logging.New("adduct")))

	// Load compound class mapping if provided
	compoundClassMap := make(map[string]string)
	if compoundClassCSV != "" {
		compoundClassMap, err = loadCompoundClassCSV(compoundClassCSV)
		if err != nil {
			return fmt.Errorf("failed to load compound class CSV: %w", err)
		}
		logger.Info("loaded compound class mappings", "count", len(compoundClassMap))
	}

	inFile, err := os.Open(inputFile)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer inFile.Close()

	features, err := msp.NewReader(inFile).ReadAll()
	if err != nil {
		return fmt.Errorf("error reading input file: %w", err)
	}
	for _, f := range features {
		if class, ok := compoundClassMap[f.Lipid.Name]; ok {
			f.Lipid.Type = core.LipidType(class)
		}
	}

	logger.Info("annotating features",
		"input", inputFile, "features", len(features), "ppm", cfg.Detection.PPMTolerance, "threads", cfg.Run.Threads)

	runner := &pipeline.Runner{
		Detector: detector,
		Filter:   cfg.PeakFilter(),
		Threads:  cfg.Run.Threads,
		Logger:   logging.New("pipeline"),
	}
	annotations, err := runner.Run(cmd.Context(), features)
	if err != nil {
		return err
	}

	writer, err := sqlite.NewWriter(outputFile, cfg.Detection.PPMTolerance)
	if err != nil {
		return fmt.Errorf("failed to create output database: %w", err)
	}
	defer writer.Close()

	for _, a := range annotations {
		if err := writer.WriteAnnotation(a); err != nil {
			return fmt.Errorf("failed to write annotation %s: %w", a.Lipid().Name, err)
		}
	}

	if err := writer.Finalize(); err != nil {
		return fmt.Errorf("failed to finalize database: %w", err)
	}

	printSummary(cmd.OutOrStdout(), pipeline.Summarize(annotations), len(features)-len(annotations))
	logger.Info("annotation written", "output", outputFile, "run_id", writer.RunID())
	return nil
}

// printSummary renders adduct counts as a table
func printSummary(w io.Writer, s pipeline.Summary, skipped int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Adduct", "Annotations"})
	for _, c := range s.PerAdduct {
		t.AppendRow(table.Row{c.Adduct, c.Count})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"unassigned", s.Unassigned})
	if skipped > 0 {
		t.AppendRow(table.Row{"skipped (validation errors)", skipped})
	}
	t.AppendFooter(table.Row{"Total", s.Total})
	t.Render()
}

func loadCompoundClassCSV(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	result := make(map[string]string)
	scanner := bufio.NewScanner(file)

	// Skip header line
	scanner.Scan()

	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		name, class, ok := strings.Cut(line, ",")
		if !ok {
			return nil, fmt.Errorf("line %d: expected 2 fields (Name,CompoundClass), got 1", lineNum)
		}

		result[strings.TrimSpace(name)] = strings.ToUpper(strings.TrimSpace(class))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}

	return result, nil
}
