// Package csvfile is the local-mode warehouse backend. Each entity lives in
// one CSV file under the data directory, with the same load/save semantics as
// the postgres backend: missing files read as empty, saves stamp every row,
// and game-keyed entities replace-then-append instead of duplicating.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hoopsight/pointcast/internal/platform/logging"
)

const (
	dateLayout  = "2006-01-02"
	stampLayout = time.RFC3339Nano
)

// readTable returns the data records of a CSV file, header excluded. A
// missing file is an empty table; read failures degrade to empty with a log.
func readTable(ctx context.Context, logger *logging.Logger, path string) [][]string {
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.WarnContext(ctx, "open table file failed, continuing with empty set", "path", path, "error", err)
		}
		return nil
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		logger.WarnContext(ctx, "read table file failed, continuing with empty set", "path", path, "error", err)
		return nil
	}
	if len(records) <= 1 {
		return nil
	}
	return records[1:]
}

// writeTable replaces a CSV file atomically via a temp file in the same
// directory.
func writeTable(path string, header []string, records [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp table file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	writer := csv.NewWriter(tmp)
	if err := writer.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write table header: %w", err)
	}
	if err := writer.WriteAll(records); err != nil {
		tmp.Close()
		return fmt.Errorf("write table records: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush table records: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp table file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace table file: %w", err)
	}
	return nil
}

// dropGameIDs filters out existing records whose game id (in column idCol)
// appears in the incoming set. This is the local-mode half of
// delete-then-append.
func dropGameIDs(records [][]string, idCol int, ids map[string]struct{}) [][]string {
	out := records[:0:0]
	for _, record := range records {
		if idCol < len(record) {
			if _, ok := ids[record[idCol]]; ok {
				continue
			}
		}
		out = append(out, record)
	}
	return out
}

func gameIDSet[T any](rows []T, gameID func(T) string) map[string]struct{} {
	out := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		out[gameID(row)] = struct{}{}
	}
	return out
}

func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func parseInt64(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return v
}

func parseDate(s string) time.Time {
	v, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return v
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}

func formatInt64(v int64) string {
	return strconv.FormatInt(v, 10)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatBool(v bool) string {
	return strconv.FormatBool(v)
}

func formatDate(v time.Time) string {
	return v.Format(dateLayout)
}

// stamp is the modification_date written with every row of one save call.
func stamp() string {
	return time.Now().UTC().Format(stampLayout)
}
