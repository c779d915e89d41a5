// Package baseline loads the per-instance best-known solution values a
// benchmark is compared against.
package baseline

import (
	"github.com/elliotchance/orderedmap/v2"
)

// Record is one benchmark instance as described by the baseline file.
// Records are immutable once loaded.
type Record struct {
	ID        string
	Format    string
	BestKnown int64
	Line      int // 1-based line in the baseline file

	fields *orderedmap.OrderedMap[string, string]
}

// Field returns the raw value of a baseline column for this instance.
func (r Record) Field(column string) (string, bool) {
	if r.fields == nil {
		return "", false
	}
	return r.fields.Get(column)
}

// Fields returns the raw values of all baseline columns in file order.
func (r Record) Fields() []string {
	if r.fields == nil {
		return nil
	}
	values := make([]string, 0, r.fields.Len())
	for el := r.fields.Front(); el != nil; el = el.Next() {
		values = append(values, el.Value)
	}
	return values
}

// Options names the baseline columns with a special meaning.
// The format column is optional; the others must be present.
type Options struct {
	IDColumn        string
	FormatColumn    string
	BestKnownColumn string
}

// Baseline is the ordered set of instance records of one benchmark.
type Baseline struct {
	Path    string
	Columns []string
	Records []Record
	Options Options
}

// Len returns the number of instances.
func (b *Baseline) Len() int {
	return len(b.Records)
}

// TotalBestKnown returns the sum of all best-known values.
func (b *Baseline) TotalBestKnown() int64 {
	var total int64
	for _, r := range b.Records {
		total += r.BestKnown
	}
	return total
}
