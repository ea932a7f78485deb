// Command speedeval runs clustering and nearest-neighbor evaluation over a
// preprocessed speed-dating CSV, writing plots and a SQLite result store.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/datalab/speedeval/cluster"
	"github.com/datalab/speedeval/dataset"
	"github.com/datalab/speedeval/internal/analysis"
	"github.com/datalab/speedeval/report"
	"github.com/datalab/speedeval/scale"
)

const version = "0.1.0"

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "speedeval",
		Short:         "Exploratory clustering and kNN evaluation for the speed-dating dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "optional config file (yaml)")
	flags.String("data", "cleaned_speed_data.csv", "preprocessed CSV path")
	flags.String("target", "dec", "decision target column")
	flags.Int("neighbors", 5, "neighbor count k for the classifier")
	flags.Int("folds", 10, "cross-validation fold count")
	flags.Int64("seed", 42, "random seed for shuffles and seeding")
	flags.Float64("test-fraction", 0.3, "held-out test fraction")
	flags.Int("cluster-min", 2, "lowest candidate cluster count")
	flags.Int("cluster-max", 30, "candidate cluster count upper bound (exclusive)")
	flags.String("plot-dir", "plots", "directory for PNG plots (empty disables)")
	flags.String("report-db", "speedeval.sqlite", "SQLite result store path (empty disables)")
	flags.Bool("segments", true, "also analyze gender and age-band segments")
	flags.Bool("verbose", false, "debug logging")

	cobra.OnInitialize(func() {
		v.SetEnvPrefix("speedeval")
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		v.AutomaticEnv()
		if cfg, _ := flags.GetString("config"); cfg != "" {
			v.SetConfigFile(cfg)
			if err := v.ReadInConfig(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}
	})
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}

	root.AddCommand(newRunCmd(v), newTuneCmd(v), newVersionCmd())
	return root
}

func newRunCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full analysis suite over every segment",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(v.GetBool("verbose"))
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			frame, err := dataset.LoadCSV(v.GetString("data"))
			if err != nil {
				return err
			}
			log.Info("dataset loaded",
				zap.String("path", v.GetString("data")),
				zap.Int("rows", frame.Len()),
				zap.Int("columns", len(frame.Columns())))

			cfg := configFrom(v)
			if cfg.PlotDir != "" {
				if err := os.MkdirAll(cfg.PlotDir, 0o755); err != nil {
					return errors.Wrap(err, "creating plot directory")
				}
			}

			var store *report.Store
			if dsn := v.GetString("report-db"); dsn != "" {
				if store, err = report.Open(dsn); err != nil {
					return err
				}
				defer store.Close()
			}

			runner := analysis.NewRunner(cfg, log, store)
			return runner.Run(context.Background(), frame, v.GetBool("segments"))
		},
	}
}

func newTuneCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "tune",
		Short: "Search the cluster-count range by silhouette score and print the table",
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := dataset.LoadCSV(v.GetString("data"))
			if err != nil {
				return err
			}
			var scaler scale.Scaler
			scaled, err := scaler.FitTransform(frame.Matrix())
			if err != nil {
				return err
			}
			best, table, err := cluster.TuneClusterCount(scaled,
				v.GetInt("cluster-min"), v.GetInt("cluster-max"), v.GetInt64("seed"))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%8s %12s\n", "clusters", "silhouette")
			for _, r := range table {
				marker := ""
				if r.K == best {
					marker = "  <- best"
				}
				fmt.Fprintf(out, "%8d %12.4f%s\n", r.K, r.Score, marker)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the speedeval version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "speedeval "+version)
		},
	}
}

func configFrom(v *viper.Viper) analysis.Config {
	cfg := analysis.DefaultConfig()
	cfg.Target = v.GetString("target")
	cfg.Neighbors = v.GetInt("neighbors")
	cfg.Folds = v.GetInt("folds")
	cfg.Seed = v.GetInt64("seed")
	cfg.TestFraction = v.GetFloat64("test-fraction")
	cfg.ClusterMin = v.GetInt("cluster-min")
	cfg.ClusterMax = v.GetInt("cluster-max")
	cfg.PlotDir = v.GetString("plot-dir")
	return cfg
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	return cfg.Build()
}
