package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pusula/internal/model"
	"pusula/internal/service/compare"
	"pusula/internal/service/excel"
	"pusula/internal/service/report"
	"pusula/internal/util"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show KPIs, weekly risks and insights for a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			now, err := referenceTime()
			if err != nil {
				return err
			}
			sch, err := loadSchedule(cfg, args[0])
			if err != nil {
				return err
			}

			ropts := cfg.ReportOptions(now)
			dash := report.BuildDashboard(sch, ropts)
			ins := report.BuildInsights(sch, nil, ropts)

			if flagJSON {
				return writeJSON(map[string]any{"dashboard": dash, "insights": ins})
			}
			renderDashboard(cmd.OutOrStdout(), dash)
			renderInsights(cmd.OutOrStdout(), ins)
			return nil
		},
	}
}

func compareCmd() *cobra.Command {
	var (
		limit   int
		dueOnly bool
		all     bool
	)
	cmd := &cobra.Command{
		Use:   "compare <current> <baseline>",
		Short: "Compare the current schedule against a baseline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			now, err := referenceTime()
			if err != nil {
				return err
			}
			cur, err := loadSchedule(cfg, args[0])
			if err != nil {
				return err
			}
			base, err := loadSchedule(cfg, args[1])
			if err != nil {
				return err
			}

			opts := cfg.CompareOptions(now)
			if cmd.Flags().Changed("limit") {
				opts.Limit = limit
			}
			if cmd.Flags().Changed("due-only") {
				opts.DueOnly = dueOnly
			}
			opts.LeavesOnly = !all

			cmp := compare.Compare(cur, base, opts)
			if flagJSON {
				return writeJSON(cmp)
			}
			renderComparison(cmd.OutOrStdout(), cmp)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", compare.DefaultLimit, "Rows per risk view (0 = all)")
	cmd.Flags().BoolVar(&dueOnly, "due-only", false, "Only count delays whose baseline date has passed")
	cmd.Flags().BoolVar(&all, "all", false, "Include summary rows")
	return cmd
}

func exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <current> [baseline]",
		Short: "Write the xlsx report workbook",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			now, err := referenceTime()
			if err != nil {
				return err
			}
			cur, err := loadSchedule(cfg, args[0])
			if err != nil {
				return err
			}

			ropts := cfg.ReportOptions(now)
			in := excel.ReportInput{
				Current:     cur,
				Dashboard:   report.BuildDashboard(cur, ropts),
				GeneratedAt: now,
			}
			var cmp *model.Comparison
			if len(args) == 2 {
				if in.Baseline, err = loadSchedule(cfg, args[1]); err != nil {
					return err
				}
				cmp = compare.Compare(cur, in.Baseline, cfg.CompareOptions(now))
			}
			in.Comparison = cmp
			in.Insights = report.BuildInsights(cur, cmp, ropts)

			f, err := excel.NewExporter().Export(in)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := excel.SaveWorkbook(f, output); err != nil {
				return fmt.Errorf("save %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", util.BoldGreen("✓"), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "pusula-rapor.xlsx", "Output workbook path")
	return cmd
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
