package aggregate

import (
	"fmt"

	"github.com/ppiankov/peptidemine/internal/model"
	"github.com/ppiankov/peptidemine/internal/table"
)

// RowsFromTable reads metadata rows using the configured column names.
// The sequence and mechanism columns are required; source id and class are optional.
func RowsFromTable(t *table.Table, cols model.ColumnConfig) ([]model.MetadataRow, error) {
	if err := t.Require(cols.Sequence, cols.Mechanism); err != nil {
		return nil, fmt.Errorf("metadata table: %w", err)
	}

	rows := make([]model.MetadataRow, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		rows = append(rows, model.MetadataRow{
			Sequence:  t.Get(i, cols.Sequence),
			Mechanism: t.Get(i, cols.Mechanism),
			SourceID:  t.Get(i, cols.SourceID),
			Class:     t.Get(i, cols.Class),
		})
	}
	return rows, nil
}

// FromMentions lifts extracted mentions into metadata rows keyed by sequence.
// Mechanism and class are looked up in annotations (sequence -> row) when present.
func FromMentions(mentions []model.RawMention, annotations map[string]model.MetadataRow) []model.MetadataRow {
	rows := make([]model.MetadataRow, 0, len(mentions))
	for _, m := range mentions {
		row := model.MetadataRow{
			Sequence: m.MatchedSequence,
			SourceID: m.SourceID,
		}
		if a, ok := annotations[m.MatchedSequence]; ok {
			row.Mechanism = a.Mechanism
			row.Class = a.Class
		}
		rows = append(rows, row)
	}
	return rows
}
