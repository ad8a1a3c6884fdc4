package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Keyed is a row that can name itself for downstream sinks.
type Keyed interface {
	RowKey() string
}

// OutputRow is the serialized form of a normalized row destined for a sink.
type OutputRow struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// SerializeGroups encodes every row of every group. Keys are prefixed with the
// region ID so a partitioner keeps a region's rows together.
func SerializeGroups[R Keyed](dataset string, groups Groups[R], generatedAt time.Time) ([]OutputRow, error) {
	out := make([]OutputRow, 0, groups.RowCount())
	for _, grp := range groups {
		for _, row := range grp.Rows {
			data, err := json.Marshal(row)
			if err != nil {
				return nil, fmt.Errorf("serialize row %s: %w", row.RowKey(), err)
			}
			out = append(out, OutputRow{
				Key:   []byte(grp.ID + "|" + row.RowKey()),
				Value: data,
				Headers: map[string]string{
					"dataset":      dataset,
					"region_id":    grp.ID,
					"generated_at": generatedAt.Format(time.RFC3339),
				},
			})
		}
	}
	return out, nil
}
