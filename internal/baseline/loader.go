package baseline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/gapreport/internal/gap"
)

const utf8BOM = "\ufeff"

// Load reads a baseline CSV file.
func Load(path string, opts Options) (*Baseline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open baseline: %w", err)
	}
	defer f.Close()

	b, err := parse(f, path, opts)
	if err != nil {
		return nil, err
	}
	b.Path = path
	return b, nil
}

// Parse reads baseline CSV data. The first record is the header; each
// following record describes one instance, in report order.
func Parse(r io.Reader, opts Options) (*Baseline, error) {
	return parse(r, "", opts)
}

func parse(r io.Reader, path string, opts Options) (*Baseline, error) {
	malformed := func(line int, column, value, reason string) error {
		return &MalformedBaselineError{Path: path, Line: line, Column: column, Value: value, Reason: reason}
	}

	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, malformed(0, "", "", "missing header row")
	}
	if err != nil {
		return nil, csvError(path, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	seenColumns := make(map[string]bool, len(header))
	for _, name := range header {
		if seenColumns[name] {
			return nil, malformed(1, name, "", "duplicate column")
		}
		seenColumns[name] = true
	}
	for _, required := range []string{opts.IDColumn, opts.BestKnownColumn} {
		if !seenColumns[required] {
			return nil, malformed(1, required, "", "required column not found")
		}
	}
	hasFormat := opts.FormatColumn != "" && seenColumns[opts.FormatColumn]

	b := &Baseline{
		Columns: header,
		Options: opts,
	}
	seenIDs := make(map[string]int)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(path, err)
		}
		line, _ := reader.FieldPos(0)

		fields := orderedmap.NewOrderedMap[string, string]()
		for i, name := range header {
			fields.Set(name, row[i])
		}

		id, _ := fields.Get(opts.IDColumn)
		if strings.TrimSpace(id) == "" {
			return nil, malformed(line, opts.IDColumn, "", "empty instance identifier")
		}
		if first, dup := seenIDs[id]; dup {
			return nil, malformed(line, opts.IDColumn, id, fmt.Sprintf("duplicate instance identifier (first seen on line %d)", first))
		}
		seenIDs[id] = line

		raw, _ := fields.Get(opts.BestKnownColumn)
		bestKnown, err := parseBestKnown(raw)
		if err != nil {
			return nil, malformed(line, opts.BestKnownColumn, raw, err.Error())
		}

		rec := Record{
			ID:        id,
			BestKnown: bestKnown,
			Line:      line,
			fields:    fields,
		}
		if hasFormat {
			rec.Format, _ = fields.Get(opts.FormatColumn)
		}
		b.Records = append(b.Records, rec)
	}

	return b, nil
}

func parseBestKnown(raw string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, errors.New("best known value is not an integer")
	}
	if v < 0 {
		return 0, errors.New("best known value is negative")
	}
	if v >= gap.Penalty {
		return 0, fmt.Errorf("best known value is not below the unavailable sentinel %d", gap.Penalty)
	}
	return v, nil
}

func csvError(path string, err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return &MalformedBaselineError{Path: path, Line: perr.Line, Reason: perr.Err.Error()}
	}
	return fmt.Errorf("failed to read baseline: %w", err)
}
