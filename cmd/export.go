package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"snowdemo/internal/datagen"
	"snowdemo/internal/provision"
	"snowdemo/internal/vertical"
	"snowdemo/pkg/errors"
)

var exportFlags struct {
	out      string
	csvDir   string
	scenario string
	samples  int
	quick    bool
	seed     int64
}

var exportCmd = &cobra.Command{
	Use:   "export <vertical>",
	Short: "Write the demo package as JSON without connecting",
	Long: `Generate everything a provision run would load and write it as one JSON
package: the DDL, a sample of every table, the rendered prompts and the
search service and semantic view definitions.

With --csv-dir the asset management security master is also written as
securities.csv, the cache asset_management.securities_csv reads.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVarP(&exportFlags.out, "out", "o", "", "Output file (default <vertical>-demo-package.json)")
	f.StringVar(&exportFlags.csvDir, "csv-dir", "", "Directory for the securities.csv cache (asset management only)")
	f.StringVar(&exportFlags.scenario, "scenario", "all", "Scenario to render prompts for")
	f.IntVar(&exportFlags.samples, "samples", 5, "Rows per table to include; -1 includes every row")
	f.BoolVar(&exportFlags.quick, "quick", false, "Use the --quick data scale")
	f.Int64Var(&exportFlags.seed, "seed", 0, "Random seed (default from config)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	v, err := vertical.Get(args[0])
	if err != nil {
		return err
	}
	v.Configure(cfg)

	seed := cfg.Seed
	if cmd.Flags().Changed("seed") {
		seed = exportFlags.seed
	}

	opts := provision.ExportOptions{
		Scenario:  exportFlags.scenario,
		Scale:     1,
		Seed:      seed,
		DocMin:    cfg.Documents.MinPerScenario,
		DocMax:    cfg.Documents.MaxPerScenario,
		Samples:   exportFlags.samples,
		Warehouse: cfg.Warehouse,
		TargetLag: cfg.SearchService.TargetLag,
	}
	if exportFlags.quick {
		opts.Scale = cfg.QuickScale
		opts.DocMin = datagen.Scale(cfg.Documents.MinPerScenario, cfg.QuickScale, 1)
		opts.DocMax = datagen.Scale(cfg.Documents.MaxPerScenario, cfg.QuickScale, opts.DocMin)
	}

	pkg, err := provision.BuildPackage(v, opts)
	if err != nil {
		return err
	}

	out := exportFlags.out
	if out == "" {
		out = v.Name + "-demo-package.json"
	}
	f, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeFileOperation, "Failed to create export file").WithContext("path", out)
	}
	defer f.Close()

	if err := pkg.Write(f); err != nil {
		return err
	}

	u := newUI(cmd)
	u.Success("wrote %s: %d tables, %d prompts", out, len(pkg.Tables), len(pkg.Prompts))
	logger.Info("export written", zap.String("vertical", v.Name), zap.String("path", out), zap.Int64("seed", seed))

	if exportFlags.csvDir == "" {
		return nil
	}
	if v.Name != "asset_management" {
		u.Warning("--csv-dir only applies to asset_management; no CSV written")
		return nil
	}

	securities := provision.SecurityMaster(seed)
	if v.SecuritiesCSV != "" {
		if securities, err = datagen.ReadSecuritiesCSV(v.SecuritiesCSV); err != nil {
			return err
		}
	}
	path := filepath.Join(exportFlags.csvDir, "securities.csv")
	if err := datagen.WriteSecuritiesCSV(path, securities); err != nil {
		return err
	}
	u.Success("wrote %s: %d securities", path, len(securities))
	fmt.Fprintf(cmd.OutOrStdout(), "Set asset_management.securities_csv: %s to reuse it\n", path)
	return nil
}
