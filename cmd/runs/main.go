package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"price-backend/cmd"
	"price-backend/internal/config"
	"price-backend/internal/database"
	"price-backend/internal/tracking"

	"github.com/google/uuid"
)

func listRuns(ctx context.Context, tracker *tracking.Client, status string, limit int) error {
	runs, err := database.ListRuns(ctx, tracker.DB(), status, limit, 0)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tNAME\tSTATUS\tCREATED\tRMSE")
	for _, run := range runs {
		rmse := "-"
		for _, m := range run.Metrics {
			if m.Name == "rmse" {
				rmse = fmt.Sprintf("%.4f", m.Value)
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", run.Id, run.Name, run.Status, run.CreationTime.Format("2006-01-02 15:04:05"), rmse)
	}
	return w.Flush()
}

func showRun(ctx context.Context, tracker *tracking.Client, runId uuid.UUID) error {
	run, err := database.GetRun(ctx, tracker.DB(), runId)
	if err != nil {
		return err
	}

	fmt.Printf("run %s (%s)\n", run.Id, run.Name)
	fmt.Printf("  status:  %s\n", run.Status)
	fmt.Printf("  data:    %s\n", run.DataPath)
	fmt.Printf("  created: %s\n", run.CreationTime.Format("2006-01-02 15:04:05"))
	if run.CompletionTime.Valid {
		fmt.Printf("  done:    %s\n", run.CompletionTime.Time.Format("2006-01-02 15:04:05"))
	}
	if run.Error.Valid {
		fmt.Printf("  error:   %s\n", run.Error.String)
	}

	if len(run.Params) > 0 {
		fmt.Println("  params:")
		for _, p := range run.Params {
			fmt.Printf("    %s = %s\n", p.Key, p.Value)
		}
	}
	if len(run.Metrics) > 0 {
		fmt.Println("  metrics:")
		for _, m := range run.Metrics {
			fmt.Printf("    %s = %.6f\n", m.Name, m.Value)
		}
	}
	if len(run.Artifacts) > 0 {
		fmt.Println("  artifacts:")
		for _, a := range run.Artifacts {
			fmt.Printf("    %s (%s) -> %s/%s\n", a.Name, a.Kind, a.Bucket, a.Key)
		}
	}
	return nil
}

func main() {
	var (
		runIdArg string
		status   string
		limit    int
	)
	flag.StringVar(&runIdArg, "run", "", "show a single run by id")
	flag.StringVar(&status, "status", "", "filter runs by status (RUNNING, COMPLETED, FAILED)")
	flag.IntVar(&limit, "limit", 20, "max runs to list")
	cmd.LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	tracker, err := tracking.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to tracking database: %v", err)
	}
	defer tracker.Close()

	ctx := context.Background()

	if runIdArg != "" {
		runId, err := uuid.Parse(runIdArg)
		if err != nil {
			log.Fatalf("invalid run id '%s': %v", runIdArg, err)
		}
		if err := showRun(ctx, tracker, runId); err != nil {
			log.Fatalf("error loading run: %v", err)
		}
		return
	}

	if err := listRuns(ctx, tracker, status, limit); err != nil {
		log.Fatalf("error listing runs: %v", err)
	}
}
