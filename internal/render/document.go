package render

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dbsmedya/gapreport/internal/gap"
	"github.com/dbsmedya/gapreport/internal/table"
)

// Document is the structured form of a table used by the JSON and YAML
// formats. Column kinds and classifications are explicit.
type Document struct {
	Benchmark string           `json:"benchmark" yaml:"benchmark"`
	Penalty   int64            `json:"penalty" yaml:"penalty"`
	Columns   []ColumnDocument `json:"columns" yaml:"columns"`
	Rows      []RowDocument    `json:"rows" yaml:"rows"`
	Anomalies []AnomalyRecord  `json:"anomalies" yaml:"anomalies"`
}

// ColumnDocument describes one column.
type ColumnDocument struct {
	Name string `json:"name" yaml:"name"`
	Kind string `json:"kind" yaml:"kind"`
	Run  string `json:"run,omitempty" yaml:"run,omitempty"`
}

// RowDocument is one row. Fields holds the baseline values by column name.
type RowDocument struct {
	Kind      string            `json:"kind" yaml:"kind"`
	ID        string            `json:"id" yaml:"id"`
	BestKnown int64             `json:"best_known" yaml:"best_known"`
	Fields    map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
	Results   []ResultDocument  `json:"results" yaml:"results"`
}

// ResultDocument is the value/gap pair of one run.
type ResultDocument struct {
	Run            string  `json:"run" yaml:"run"`
	Value          float64 `json:"value" yaml:"value"`
	Available      bool    `json:"available" yaml:"available"`
	Gap            float64 `json:"gap" yaml:"gap"`
	Classification string  `json:"classification,omitempty" yaml:"classification,omitempty"`
}

// AnomalyRecord is a result better than the best-known value.
type AnomalyRecord struct {
	Instance  string  `json:"instance" yaml:"instance"`
	Run       string  `json:"run" yaml:"run"`
	Value     float64 `json:"value" yaml:"value"`
	BestKnown int64   `json:"best_known" yaml:"best_known"`
	Gap       float64 `json:"gap" yaml:"gap"`
}

// NewDocument converts a table into its structured form.
func NewDocument(t *table.Table) Document {
	doc := Document{
		Benchmark: t.Benchmark,
		Penalty:   gap.Penalty,
		Columns:   make([]ColumnDocument, len(t.Schema.Columns)),
		Rows:      make([]RowDocument, len(t.Rows)),
		Anomalies: make([]AnomalyRecord, len(t.Anomalies)),
	}

	for i, c := range t.Schema.Columns {
		cd := ColumnDocument{Name: c.Name, Kind: c.Kind.String()}
		if c.Kind == table.ValueColumn || c.Kind == table.GapColumn {
			cd.Run = t.Schema.Runs[c.Run].Name
		}
		doc.Columns[i] = cd
	}

	for i, row := range t.Rows {
		rd := RowDocument{
			Kind:      row.Kind.String(),
			ID:        row.ID,
			BestKnown: row.BestKnown,
			Results:   make([]ResultDocument, len(row.Cells)),
		}
		for _, c := range t.Schema.Columns {
			if c.Kind != table.FieldColumn || c.Field == t.Schema.IDField {
				continue
			}
			if c.Field < len(row.Fields) && row.Fields[c.Field] != "" {
				if rd.Fields == nil {
					rd.Fields = make(map[string]string)
				}
				rd.Fields[c.Name] = row.Fields[c.Field]
			}
		}
		for j, cell := range row.Cells {
			res := ResultDocument{
				Run:       t.Schema.Runs[j].Name,
				Value:     cell.Value,
				Available: cell.Available,
				Gap:       cell.Gap,
			}
			if cell.Classified {
				res.Classification = cell.Class.String()
			}
			rd.Results[j] = res
		}
		doc.Rows[i] = rd
	}

	for i, a := range t.Anomalies {
		doc.Anomalies[i] = AnomalyRecord{
			Instance:  a.Instance,
			Run:       a.Run,
			Value:     a.Value,
			BestKnown: a.BestKnown,
			Gap:       a.Gap,
		}
	}
	return doc
}

// JSONRenderer writes the table as a JSON document.
type JSONRenderer struct {
	Indent string
}

// Render implements Renderer.
func (r *JSONRenderer) Render(w io.Writer, t *table.Table) error {
	enc := json.NewEncoder(w)
	if r.Indent != "" {
		enc.SetIndent("", r.Indent)
	}
	return enc.Encode(NewDocument(t))
}

// YAMLRenderer writes the table as a YAML document.
type YAMLRenderer struct{}

// Render implements Renderer.
func (r *YAMLRenderer) Render(w io.Writer, t *table.Table) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(t)); err != nil {
		return err
	}
	return enc.Close()
}
