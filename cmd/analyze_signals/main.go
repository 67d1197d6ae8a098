package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"signalAnalytics/internal/analytics"
	"signalAnalytics/internal/domain"
	"signalAnalytics/internal/matching"
	"signalAnalytics/internal/normalize"
	"signalAnalytics/internal/utils"
)

func main() {
	dir := "data"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	exportPath := ""
	if len(os.Args) > 2 {
		exportPath = os.Args[2]
	}

	// Find all execution export files
	files, err := findExecutionFiles(dir, "executions")
	if err != nil {
		log.Fatalf("Error finding execution files: %v", err)
	}

	if len(files) == 0 {
		log.Printf("No execution CSV files found in %s. Export the execution log first.", dir)
		return
	}

	// Create a tabwriter for formatted output
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight|tabwriter.Debug)
	fmt.Fprintln(w, "File\tEvents\tBad\tTrades\tWinRate\tTotalPnL%\tAvgPnL%\tConsist%\tOrphans\t")

	var allClosed []domain.ClosedPosition

	// Process each file
	for _, file := range files {
		raw, err := utils.ReadRawEventsFromCSV(file)
		if err != nil {
			log.Printf("Error reading executions from %s: %v", file, err)
			continue
		}

		closed, orphans, malformed := matchAll(raw)
		summary := analytics.Aggregate(closed)
		allClosed = append(allClosed, closed...)

		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%d\t\n",
			filepath.Base(file),
			len(raw),
			malformed,
			summary.TotalTrades,
			summary.WinRate,
			summary.TotalPnL,
			summary.AveragePnL,
			summary.ConsistencyScore,
			orphans,
		)
	}
	w.Flush()

	// Print the PnL distribution across everything analyzed
	fmt.Println("\n## PnL Distribution")
	printDistribution(allClosed)

	if exportPath != "" {
		if err := utils.WriteClosedPositionsToCSV(allClosed, exportPath); err != nil {
			log.Fatalf("Error exporting closed positions to %s: %v", exportPath, err)
		}
		log.Printf("Exported %d closed positions to %s", len(allClosed), exportPath)
	}
}

// matchAll runs the normalize/partition/match pipeline over one file's
// records, collecting results across partitions. A partition that fails to
// match is skipped; the rest of the file still counts.
func matchAll(raw []*domain.RawEvent) (closed []domain.ClosedPosition, orphans, malformed int) {
	events, errs := normalize.Normalize(raw)
	malformed = len(errs)

	matcher := matching.NewMatcher(matching.DefaultFeePerSide)
	partitions := matching.Partition(events)

	keys := make([]string, 0, len(partitions))
	for key := range partitions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		result, err := matcher.Match(partitions[key])
		if err != nil {
			log.Printf("Matching failed for partition %s: %v", key, err)
			continue
		}
		closed = append(closed, result.Closed...)
		orphans += len(result.Orphaned)
	}
	return closed, orphans, malformed
}

func printDistribution(closed []domain.ClosedPosition) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight|tabwriter.Debug)
	fmt.Fprintln(w, "Range\tCount\tTotal PnL%\tAvg PnL%\t")
	for _, bucket := range analytics.Distribution(closed) {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t\n", bucket.Label, bucket.Count, bucket.TotalPnL, bucket.AveragePnL)
	}
	w.Flush()
}

// findExecutionFiles finds execution export CSVs in the specified directory.
func findExecutionFiles(dir, prefix string) ([]string, error) {
	var files []string

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) && strings.HasSuffix(entry.Name(), ".csv") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}
