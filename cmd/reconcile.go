package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"catalog-sync/core/platform"
	"catalog-sync/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	sourceFlag string
	dryRunSync bool
	yesConfirm bool
)

// diffCmd reports the differences of one entity kind.
var diffCmd = &cobra.Command{
	Use:   "diff <kind>",
	Short: "Report catalog differences between the two platforms",
	Long: `Fetches the catalogs of both platforms and reports which entities the
destination lacks (creations) or holds with different values (updates).
Nothing is written.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiff,
}

// syncCmd detects differences and applies them inline.
var syncCmd = &cobra.Command{
	Use:   "sync <kind>",
	Short: "Detect differences and write them to the destination platform",
	Long: `Detects differences like "diff" does and then writes them to the
destination platform, one item at a time, retrying transient failures.

Examples:
  # Report only
  sync product --source woocommerce --dry-run

  # Apply with interactive confirmation
  sync product --source woocommerce

  # Apply without confirmation
  sync collection --source shopify --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	for _, c := range []*cobra.Command{diffCmd, syncCmd} {
		c.Flags().StringVar(&sourceFlag, "source", string(platform.WooCommerce), "Source of truth (woocommerce, shopify)")
	}
	syncCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Report only, never write")
	syncCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm writes (non-interactive)")

	RootCmd.AddCommand(diffCmd)
	RootCmd.AddCommand(syncCmd)
}

func platformOf(s string) platform.Platform {
	return platform.Platform(strings.ToLower(strings.TrimSpace(s)))
}

func runDiff(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	report, err := a.migrate.Diff(context.Background(), platformOf(sourceFlag), platform.Kind(args[0]), true)
	if err != nil {
		return fmt.Errorf("failed to detect differences: %w", err)
	}
	printReconcileReport(a.logger, report)
	return nil
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()
	l := a.logger

	source := platformOf(sourceFlag)
	kind := platform.Kind(args[0])

	l.Info("Detecting differences...")
	report, err := a.migrate.Diff(ctx, source, kind, true)
	if err != nil {
		return fmt.Errorf("failed to detect differences: %w", err)
	}
	printReconcileReport(l, report)

	if len(report.Differences) == 0 {
		l.Info("Platforms are in sync. Nothing to do.")
		return nil
	}
	if dryRunSync {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if !confirmWrites(len(report.Differences), report.DestinationPlatform) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	id, err := a.migrate.Sync(ctx, source, kind, report.Differences)
	if err != nil {
		return fmt.Errorf("failed to start sync: %w", err)
	}
	l.Info("Applying differences...", zap.String("job_id", id))
	if err := a.queue.Wait(ctx); err != nil {
		return err
	}

	job, err := a.migrate.Job(ctx, id)
	if err != nil {
		return err
	}
	for _, r := range job.Results {
		if !r.Success {
			l.Warn("Item failed",
				zap.String("key", r.MatchingKey),
				zap.Int("attempts", r.Attempts),
				zap.String("error", r.Error))
		}
	}
	l.Info("Sync finished",
		zap.String("status", string(job.Status)),
		zap.Int("processed", job.Processed),
		zap.Int("failed", job.Failed),
		zap.String("error", job.Error))
	if job.Failed > 0 {
		return fmt.Errorf("%d of %d items failed", job.Failed, job.Total)
	}
	return nil
}

// printReconcileReport prints the report summary and a sample of differences.
func printReconcileReport(l *zap.Logger, report reconcile.Report) {
	s := report.Summary

	l.Info("Reconciliation report",
		zap.String("kind", string(report.Kind)),
		zap.String("source", string(report.SourcePlatform)),
		zap.String("destination", string(report.DestinationPlatform)),
		zap.Int("source_count", s.SourceCount),
		zap.Int("destination_count", s.DestinationCount),
		zap.Int("creations", s.Creations),
		zap.Int("updates", s.Updates),
		zap.Int("in_sync", s.InSync),
	)

	for _, w := range report.Warnings {
		l.Warn("Data quality warning",
			zap.String("type", string(w.Type)),
			zap.String("key", w.Key),
			zap.String("platform", string(w.Platform)),
			zap.String("entity_id", w.EntityID))
	}

	maxShow := min(5, len(report.Differences))
	for _, d := range report.Differences[:maxShow] {
		l.Info("Sample difference",
			zap.String("key", d.MatchingKey),
			zap.String("title", d.Title),
			zap.Bool("creation", d.IsCreation()),
			zap.Strings("fields", d.FieldsChanged))
	}
	if len(report.Differences) > maxShow {
		l.Info("Additional differences not shown", zap.Int("count", len(report.Differences)-maxShow))
	}
}

// confirmWrites prompts the user for confirmation or uses the --yes flag.
func confirmWrites(n int, dst platform.Platform) bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\n⚠️  Type 'yes' to write %d changes to %s: ", n, dst)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}

