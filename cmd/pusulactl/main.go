package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pusula/internal/config"
	"pusula/internal/model"
	"pusula/internal/parser"
	"pusula/internal/service/schedule"
	"pusula/internal/util"
)

var (
	flagConfig  string
	flagSheet   string
	flagNow     string
	flagJSON    bool
	flagNoColor bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pusulactl",
		Short: "Proje programı analiz aracı",
		Long: `pusulactl reads schedule exports (xlsx or csv), derives critical and
completed activities and compares the current schedule against a baseline.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagNoColor {
				util.DisableColor()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config.toml path (default: next to the executable)")
	rootCmd.PersistentFlags().StringVar(&flagSheet, "sheet", "", "Worksheet name (default: auto-detect)")
	rootCmd.PersistentFlags().StringVar(&flagNow, "now", "", "Reference date for the report (default: today)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable coloured output")

	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig 读取配置文件，--sheet 覆盖 [excel] sheet_name
func loadConfig() (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if flagConfig != "" {
		cfg, _, err = config.LoadConfigFrom(flagConfig)
	} else {
		cfg, _, err = config.LoadConfigWithInfo()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flagSheet != "" {
		cfg.Excel.SheetName = flagSheet
	}
	return cfg, nil
}

// referenceTime 报告参考时间，每次命令只采样一次
func referenceTime() (time.Time, error) {
	if flagNow == "" {
		return time.Now(), nil
	}
	t := parser.ParseDate(flagNow)
	if t == nil {
		return time.Time{}, fmt.Errorf("invalid --now value %q", flagNow)
	}
	return *t, nil
}

// loadSchedule 加载计划文件；致命错误输出面向用户的说明
func loadSchedule(cfg *config.AppConfig, path string) (*model.Schedule, error) {
	sch, err := schedule.NewLoader(cfg.Excel.SheetName).LoadFile(path)
	if err != nil {
		if le, ok := schedule.AsLoadError(err); ok {
			return nil, fmt.Errorf("%s: %s", path, le.Message)
		}
		return nil, err
	}
	if len(sch.MissingColumns) > 0 && !flagJSON {
		fmt.Fprintf(os.Stderr, "%s %s: eksik sütunlar: %v\n", util.BoldYellow("uyarı"), path, sch.MissingColumns)
	}
	return sch, nil
}
