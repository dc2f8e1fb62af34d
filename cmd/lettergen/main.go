package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/nkaramanos/lettergen/internal/config"
	"github.com/nkaramanos/lettergen/internal/dataset"
	"github.com/nkaramanos/lettergen/internal/render"
	"github.com/nkaramanos/lettergen/pkg/utils"
)

var (
	cfgFile  string
	dataFile string
	sheet    string
	outFile  string
	limit    int
)

var rootCmd = &cobra.Command{
	Use:   "lettergen",
	Short: "Generate letters from a workbook and document templates",
	Long: `lettergen fills [[placeholder]] tokens in per-category document
templates from the rows of a workbook and collects the results into a
zip archive, continuing past individual bad rows.`,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render one letter per workbook row into a zip archive",
	RunE:  runGenerate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file")

	generateCmd.Flags().StringVar(&dataFile, "data", "", "workbook file with one row per record")
	generateCmd.Flags().StringVar(&sheet, "sheet", "", "sheet name (default: first sheet)")
	generateCmd.Flags().StringVar(&outFile, "out", "", "output zip path (default from config)")
	generateCmd.Flags().IntVar(&limit, "limit", 0, "stop after N attempted rows (test mode)")
	generateCmd.MarkFlagRequired("data")

	rootCmd.AddCommand(generateCmd)
}

func main() {
	gotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	logger = logger.With(zap.String("batch_id", uuid.NewString()))

	if sheet == "" {
		sheet = cfg.Dataset.Sheet
	}
	if outFile == "" {
		outFile = cfg.Render.Output
	}
	if limit == 0 {
		limit = cfg.Render.Limit
	}

	loader := dataset.NewLoader(cfg.Dataset.HeaderRow, logger)
	table, err := loader.LoadFile(dataFile, sheet)
	if err != nil {
		return err
	}

	templates, err := render.LoadTemplates(cfg.Templates.Dir, cfg.Templates.Files, cfg.Templates.Default, logger)
	if err != nil {
		return err
	}

	renderer := render.NewRenderer(render.Config{
		Identifier: cfg.Identifier.Spec(),
		Fields:     cfg.FieldSpecs(),
		Rules:      cfg.Rules(),
	}, templates, logger)

	archive, failures, stats, err := renderer.RenderAll(table, render.Options{Limit: limit})
	if err != nil {
		return err
	}

	out, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("failed to create output archive: %w", err)
	}
	defer out.Close()
	if err := archive.WriteZip(out); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s)\n", dataFile, outFile, stats)
	for _, f := range failures {
		fmt.Fprintf(cmd.OutOrStdout(), "  row %d (%s): %s\n", f.Row, f.Identifier, f.Reason)
	}
	return nil
}
