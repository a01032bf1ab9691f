package nbastats

import (
	"fmt"
	"strconv"
	"strings"
)

// resultSetEnvelope is the tabular wire format of the stats endpoints: named
// result sets carrying a header row and untyped value rows.
type resultSetEnvelope struct {
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

func (e resultSetEnvelope) find(name string) (resultSet, bool) {
	for _, set := range e.ResultSets {
		if strings.EqualFold(set.Name, name) {
			return set, true
		}
	}
	return resultSet{}, false
}

// rowReader resolves row values by header name, tolerating absent columns and
// the mixed number/string typing of the feed.
type rowReader struct {
	index map[string]int
	row   []any
}

func (s resultSet) reader(row []any) rowReader {
	index := make(map[string]int, len(s.Headers))
	for i, header := range s.Headers {
		index[strings.ToUpper(header)] = i
	}
	return rowReader{index: index, row: row}
}

func (r rowReader) value(column string) any {
	i, ok := r.index[strings.ToUpper(column)]
	if !ok || i >= len(r.row) {
		return nil
	}
	return r.row[i]
}

func (r rowReader) str(column string) string {
	switch v := r.value(column).(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

func (r rowReader) int64(column string) int64 {
	switch v := r.value(column).(type) {
	case float64:
		return int64(v)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func (r rowReader) boolFlag(column string) bool {
	switch v := r.value(column).(type) {
	case float64:
		return v != 0
	case string:
		trimmed := strings.TrimSpace(v)
		return trimmed == "1" || strings.EqualFold(trimmed, "true") || strings.EqualFold(trimmed, "y")
	case bool:
		return v
	default:
		return false
	}
}
