package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scanrelay/scanrelay/internal/annotate"
	"github.com/scanrelay/scanrelay/internal/config"
	"github.com/scanrelay/scanrelay/internal/diffmap"
	"github.com/scanrelay/scanrelay/internal/findings"
	"github.com/scanrelay/scanrelay/internal/github"
	"github.com/scanrelay/scanrelay/internal/logging"
	"github.com/scanrelay/scanrelay/internal/output"
	"github.com/scanrelay/scanrelay/internal/scanners"
	"github.com/scanrelay/scanrelay/internal/summary"
)

// Shared flags
var (
	flagRepo        string
	flagPR          int
	flagFormat      string
	flagOut         string
	flagFailOn      string
	flagDebug       bool
	flagDryRun      bool
	flagNoRedact    bool
	flagFlake8      string
	flagBandit      string
	flagTrivy       string
	flagHadolint    string
	flagCheckov     string
	flagCheckovPlan string
)

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagFlake8, "flake8", "", "Path to flake8 text report")
	cmd.Flags().StringVar(&flagBandit, "bandit", "", "Path to bandit JSON report")
	cmd.Flags().StringVar(&flagTrivy, "trivy", "", "Path to trivy misconfiguration JSON report")
	cmd.Flags().StringVar(&flagHadolint, "hadolint", "", "Path to hadolint JSON report")
	cmd.Flags().StringVar(&flagCheckov, "checkov", "", "Path to checkov JSON report")
	cmd.Flags().StringVar(&flagCheckovPlan, "checkov-plan", "", "Path to checkov plan enrichment JSON")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown, sarif)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "", "Fail on severity threshold (none, LOW, MEDIUM, HIGH, CRITICAL)")
	cmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagRepo != "" {
		m["repo"] = flagRepo
	}
	if flagPR > 0 {
		m["pr"] = fmt.Sprintf("%d", flagPR)
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagFailOn != "" {
		m["failOn"] = flagFailOn
	}
	for key, v := range map[string]string{
		"flake8":      flagFlake8,
		"bandit":      flagBandit,
		"trivy":       flagTrivy,
		"hadolint":    flagHadolint,
		"checkov":     flagCheckov,
		"checkovPlan": flagCheckovPlan,
	} {
		if v != "" {
			m[key] = v
		}
	}
	return m
}

// collectFindings reads every configured report artifact and parses it. A
// missing or unreadable report demotes to a warning; the tool contributes
// nothing.
func collectFindings(cfg config.Config, log *zap.SugaredLogger) ([]findings.Finding, map[findings.Tool]findings.ToolMetrics) {
	read := func(tool findings.Tool, path string) []byte {
		if path == "" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warnw("report unreadable, tool contributes no findings",
				"tool", tool, "path", path, "error", err)
			return nil
		}
		return data
	}

	byTool := make(map[findings.Tool][]findings.Finding)
	metrics := make(map[findings.Tool]findings.ToolMetrics)

	for tool, path := range map[findings.Tool]string{
		findings.ToolFlake8:   cfg.Reports.Flake8,
		findings.ToolBandit:   cfg.Reports.Bandit,
		findings.ToolTrivy:    cfg.Reports.Trivy,
		findings.ToolHadolint: cfg.Reports.Hadolint,
	} {
		if raw := read(tool, path); raw != nil {
			byTool[tool] = scanners.Parse(tool, raw, log)
		}
	}

	if raw := read(findings.ToolCheckov, cfg.Reports.Checkov); raw != nil {
		plan := read(findings.ToolCheckov, cfg.Reports.CheckovPlan)
		ff, m := scanners.ParseCheckov(raw, plan, log)
		byTool[findings.ToolCheckov] = ff
		metrics[findings.ToolCheckov] = m
	}

	return findings.Aggregate(byTool), metrics
}

func resolveRepo(cfg config.Config) (string, error) {
	if cfg.Repository != "" {
		return cfg.Repository, nil
	}
	owner, repo, err := github.DetectRepo()
	if err != nil {
		return "", err
	}
	return owner + "/" + repo, nil
}

func splitRepo(repo string) (owner, name string, err error) {
	for i := 0; i < len(repo); i++ {
		if repo[i] == '/' {
			return repo[:i], repo[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("repository must be owner/name, got %q", repo)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Parse reports and publish annotations plus a summary comment",
	Long: "Run the full pipeline: parse the configured scanner reports, filter findings\n" +
		"against the pull request's diff, post inline annotations in batches, and\n" +
		"create or update the summary comment.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		if flagNoRedact {
			off := false
			cfg.Privacy.RedactSecrets = &off
			fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
		}

		log, err := logging.New(flagDebug)
		if err != nil {
			return err
		}
		defer log.Sync()

		repo, err := resolveRepo(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}
		owner, name, err := splitRepo(repo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}
		if cfg.PullRequest <= 0 {
			fmt.Fprintln(os.Stderr, "Error: no pull request number (use --pr, SCANRELAY_PR, or the config file)")
			exitCode = ExitUsageError
			return nil
		}

		client, err := github.NewClient(owner, name, cfg.PullRequest)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitAuthError
			return nil
		}

		all, metrics := collectFindings(cfg, log)
		runPipeline(cmd.Context(), client, cfg, repo, all, metrics, log)
		return nil
	},
}

func runPipeline(ctx context.Context, client *github.Client, cfg config.Config, repo string,
	all []findings.Finding, metrics map[findings.Tool]findings.ToolMetrics, log *zap.SugaredLogger) {

	headSHA, err := client.HeadSHA(ctx)
	if err != nil {
		log.Warnw("cannot resolve head commit, deep links disabled", "error", err)
	}

	report := &findings.Report{
		Repo:     repo,
		PR:       cfg.PullRequest,
		HeadSHA:  headSHA,
		Findings: all,
		Metrics:  metrics,
	}

	// Annotation phase. Failing to read the changed-file list skips the
	// phase entirely; the summary still publishes below.
	files, err := client.ChangedFiles(ctx)
	if err != nil {
		log.Errorw("cannot list changed files, skipping inline annotations", "error", err)
	} else {
		lineMap := diffmap.Build(files)
		reqs, outside := annotate.Build(all, lineMap, annotate.BuildOptions{
			RedactSecrets: cfg.Privacy.RedactSecretsEnabled(),
			RedactPaths:   cfg.Privacy.RedactPaths,
		})
		report.OutsideDiff = outside

		if flagDryRun {
			fmt.Fprintf(os.Stderr, "Dry run: would post %d inline annotation(s), %d outside the diff\n",
				len(reqs), outside)
		} else {
			batcher := &annotate.Batcher{
				Post: func(ctx context.Context, chunk []annotate.Request) error {
					return client.PostReview(ctx, headSHA, chunk)
				},
				Log: log,
			}
			stats := batcher.Run(ctx, reqs)
			fmt.Fprintf(os.Stderr, "Annotations: %d attempted, %d posted, %d dropped, %d failed\n",
				stats.Attempted, stats.Posted, stats.Dropped, stats.Failed)
		}
	}

	// Summary phase.
	var body bytes.Buffer
	if err := (&output.MarkdownWriter{}).Write(&body, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering summary: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}
	if flagDryRun {
		fmt.Fprintf(os.Stderr, "Dry run: summary comment not published\n")
	} else {
		manager := &summary.Manager{API: client, Log: log}
		if err := manager.Publish(ctx, body.String()); err != nil {
			fmt.Fprintf(os.Stderr, "Error publishing summary: %v\n", err)
			exitCode = ExitRuntimeError
			return
		}
	}

	if flagOut != "" || flagFormat != "" {
		if err := output.WriteReport(report, cfg.Format, flagOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			exitCode = ExitRuntimeError
			return
		}
	}

	checkFailOn(report.Findings, cfg.FailOn)
}

func checkFailOn(all []findings.Finding, failOn string) {
	for _, f := range all {
		if findings.MeetsThreshold(f.Severity, failOn) {
			exitCode = ExitFindings
			return
		}
	}
}

func init() {
	addReportFlags(runCmd)
	runCmd.Flags().StringVar(&flagRepo, "repo", "", "Repository as owner/name (default: detect from git remote)")
	runCmd.Flags().IntVar(&flagPR, "pr", 0, "Pull request number")
	runCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Build everything but post nothing")
}
