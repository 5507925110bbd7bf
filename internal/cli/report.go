package cli

import (
	"github.com/spf13/cobra"

	"github.com/scanrelay/scanrelay/internal/config"
	"github.com/scanrelay/scanrelay/internal/findings"
	"github.com/scanrelay/scanrelay/internal/logging"
	"github.com/scanrelay/scanrelay/internal/output"
)

var (
	flagReportSHA string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the aggregated findings without posting anything",
	Long: "Parse the configured scanner reports and render them locally in the chosen\n" +
		"format. No network access: deep links are included only when --repo and\n" +
		"--sha are given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}

		log, err := logging.New(flagDebug)
		if err != nil {
			return err
		}
		defer log.Sync()

		all, metrics := collectFindings(cfg, log)
		report := &findings.Report{
			Repo:     cfg.Repository,
			PR:       cfg.PullRequest,
			HeadSHA:  flagReportSHA,
			Findings: all,
			Metrics:  metrics,
		}

		if err := output.WriteReport(report, cfg.Format, flagOut); err != nil {
			return err
		}

		checkFailOn(all, cfg.FailOn)
		return nil
	},
}

func init() {
	addReportFlags(reportCmd)
	reportCmd.Flags().StringVar(&flagRepo, "repo", "", "Repository as owner/name (for deep links)")
	reportCmd.Flags().IntVar(&flagPR, "pr", 0, "Pull request number (for the report header)")
	reportCmd.Flags().StringVar(&flagReportSHA, "sha", "", "Head commit SHA (for deep links)")
}
