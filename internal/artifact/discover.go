package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Run identifies one algorithm/configuration output directory of a benchmark.
type Run struct {
	Name string
	Dir  string
}

// Discover lists the run directories below a benchmark directory in lexical
// order. Symlinks to directories count as runs and hidden entries are skipped.
// When only is non-empty, just those runs are kept, still in discovery order;
// naming a run that does not exist is an error.
func Discover(benchmarkDir string, only []string) ([]Run, error) {
	entries, err := os.ReadDir(benchmarkDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs of %s: %w", benchmarkDir, err)
	}

	var runs []Run
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		dir := filepath.Join(benchmarkDir, name)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		runs = append(runs, Run{Name: name, Dir: dir})
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Name < runs[j].Name })

	if len(only) == 0 {
		return runs, nil
	}

	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		wanted[name] = true
	}
	filtered := make([]Run, 0, len(only))
	for _, r := range runs {
		if wanted[r.Name] {
			filtered = append(filtered, r)
			delete(wanted, r.Name)
		}
	}
	if len(wanted) > 0 {
		missing := make([]string, 0, len(wanted))
		for name := range wanted {
			missing = append(missing, name)
		}
		sort.Strings(missing)
		return nil, fmt.Errorf("runs not found in %s: %s", benchmarkDir, strings.Join(missing, ", "))
	}
	return filtered, nil
}

// ListBenchmarks returns the benchmark directories below a results directory.
func ListBenchmarks(resultsDir string) ([]string, error) {
	runs, err := Discover(resultsDir, nil)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(runs))
	for i, r := range runs {
		names[i] = r.Name
	}
	return names, nil
}
