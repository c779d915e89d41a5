// Package artifact locates and reads the per-instance result files a solver
// run leaves in its output directory.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dbsmedya/gapreport/internal/gap"
)

// OutputSuffix is appended to an instance identifier to name its result file.
const OutputSuffix = "_output.json"

// Kind is the outcome of resolving one artifact.
type Kind int

const (
	// Found means a usable cost was read.
	Found Kind = iota
	// Missing means the artifact does not exist.
	Missing
	// Unreadable means the artifact exists but could not be read.
	Unreadable
	// Malformed means the artifact is not valid JSON of the expected shape,
	// or holds a negative cost.
	Malformed
	// NoCost means the Output.Solution.Cost field is absent.
	NoCost
)

func (k Kind) String() string {
	switch k {
	case Found:
		return "found"
	case Missing:
		return "missing"
	case Unreadable:
		return "unreadable"
	case Malformed:
		return "malformed"
	case NoCost:
		return "no_cost"
	default:
		return "unknown"
	}
}

// Resolution is the result of resolving one (run, instance) artifact.
// Only a Found resolution carries a cost; Err explains any other kind.
type Resolution struct {
	Kind Kind
	Cost float64
	Path string
	Err  error
}

// Achieved converts the resolution into the value used for gap computation.
// Anything but Found becomes gap.Unavailable.
func (r Resolution) Achieved() gap.Achieved {
	if r.Kind != Found {
		return gap.Unavailable
	}
	return gap.Value(r.Cost)
}

// Resolver resolves the achieved cost of one instance in one run.
// Implementations never fail: problems are reported through Resolution.Kind.
type Resolver interface {
	Resolve(run Run, instanceID string) Resolution
}

// FileResolver reads <run dir>/<instance id>_output.json.
type FileResolver struct{}

// NewFileResolver creates a resolver reading artifacts from run directories.
func NewFileResolver() *FileResolver {
	return &FileResolver{}
}

// Path returns the artifact path of an instance inside a run directory.
// Identifiers may contain '/' to address nested instance directories.
func Path(runDir, instanceID string) string {
	return filepath.Join(runDir, filepath.FromSlash(instanceID)+OutputSuffix)
}

// Resolve implements Resolver.
func (FileResolver) Resolve(run Run, instanceID string) Resolution {
	path := Path(run.Dir, instanceID)
	if !filepath.IsLocal(filepath.FromSlash(instanceID) + OutputSuffix) {
		return Resolution{
			Kind: Unreadable,
			Path: path,
			Err:  fmt.Errorf("instance identifier %q escapes the run directory", instanceID),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		kind := Unreadable
		if errors.Is(err, fs.ErrNotExist) {
			kind = Missing
		}
		return Resolution{Kind: kind, Path: path, Err: err}
	}

	res := Decode(data)
	res.Path = path
	return res
}

// outputDocument is the part of a solver output file the report reads.
type outputDocument struct {
	Output *struct {
		Solution *struct {
			Cost *float64 `json:"Cost"`
		} `json:"Solution"`
	} `json:"Output"`
}

// Decode extracts Output.Solution.Cost from the contents of an artifact.
func Decode(data []byte) Resolution {
	var doc outputDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Resolution{Kind: Malformed, Err: fmt.Errorf("decoding output: %w", err)}
	}
	if doc.Output == nil {
		return Resolution{Kind: NoCost, Err: errors.New("missing field Output")}
	}
	if doc.Output.Solution == nil {
		return Resolution{Kind: NoCost, Err: errors.New("missing field Output.Solution")}
	}
	if doc.Output.Solution.Cost == nil {
		return Resolution{Kind: NoCost, Err: errors.New("missing field Output.Solution.Cost")}
	}
	cost := *doc.Output.Solution.Cost
	if err := checkCost(cost); err != nil {
		return Resolution{Kind: Malformed, Err: err}
	}
	return Resolution{Kind: Found, Cost: cost}
}

// ParseEmbedded reads a reference result stored directly in a baseline
// column. An empty cell is Missing; anything that is not a non-negative
// number is Malformed.
func ParseEmbedded(raw string) Resolution {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Resolution{Kind: Missing, Err: errors.New("empty cell")}
	}
	cost, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Resolution{Kind: Malformed, Err: fmt.Errorf("parsing %q: %w", raw, err)}
	}
	if err := checkCost(cost); err != nil {
		return Resolution{Kind: Malformed, Err: fmt.Errorf("parsing %q: %w", raw, err)}
	}
	return Resolution{Kind: Found, Cost: cost}
}

// checkCost accepts finite, non-negative costs below the penalty sentinel.
func checkCost(cost float64) error {
	switch {
	case math.IsNaN(cost) || math.IsInf(cost, 0):
		return fmt.Errorf("invalid cost %v", cost)
	case cost < 0:
		return fmt.Errorf("negative cost %v", cost)
	case cost >= gap.Penalty:
		return fmt.Errorf("cost %v is not below the penalty value %d", cost, gap.Penalty)
	}
	return nil
}
