package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	qb "github.com/hoopsight/pointcast/internal/platform/querybuilder"
)

const pqUndefinedTable = "42P01"

// isUndefinedTable reports whether err means the target table does not exist
// yet. Loads treat that as an empty table; deletes skip it silently.
func isUndefinedTable(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUndefinedTable
}

// deleteByGameIDs removes rows whose game_id is in ids so the caller can
// re-append them. A missing table is not an error; the table appears on the
// first insert run and there is nothing to delete.
func deleteByGameIDs(ctx context.Context, tx *sqlx.Tx, table string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}

	query, args, err := qb.DeleteFrom(table).Where(qb.In("game_id", values)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete %s query: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUndefinedTable(err) {
			return nil
		}
		return fmt.Errorf("delete existing %s rows: %w", table, err)
	}
	return nil
}

// truncateTable clears a table ahead of a full reload. Missing tables are
// skipped for the same reason as deleteByGameIDs.
func truncateTable(ctx context.Context, tx *sqlx.Tx, table string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		if isUndefinedTable(err) {
			return nil
		}
		return fmt.Errorf("truncate %s: %w", table, err)
	}
	return nil
}

// uniqueGameIDs collects the distinct game ids of an incoming batch,
// preserving first-seen order.
func uniqueGameIDs[T any](rows []T, gameID func(T) string) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		id := gameID(row)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// stampTime is the modification_date applied to every row of one save call.
func stampTime() time.Time {
	return time.Now().UTC()
}

// sanitizeIdent reduces a caller-supplied label ("2024-25") to a safe SQL
// identifier fragment.
func sanitizeIdent(label string) string {
	var out strings.Builder
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			out.WriteRune(r)
		case r == '-' || r == ' ':
			out.WriteRune('_')
		}
	}
	return out.String()
}
