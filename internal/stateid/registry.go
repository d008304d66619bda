// Package stateid maps state names to their numeric FIPS codes.
package stateid

import (
	"context"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/statespend/internal/dataset"
	"github.com/sells-group/statespend/internal/model"
)

// Header names of the reference table.
const (
	NameColumn = "STATE_NAME"
	CodeColumn = "STATE"
)

// Registry is an immutable bijection between state names and FIPS codes.
// Build one with Load and share the pointer; it is safe for concurrent reads.
type Registry struct {
	byName map[string]int
	byCode map[int]string
}

// LoadFile reads the reference table at path.
func LoadFile(ctx context.Context, path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "stateid: open %s", path)
	}
	defer func() { _ = f.Close() }()
	return Load(ctx, f)
}

// Load builds a registry from a CSV with STATE_NAME and STATE columns. A name
// or code that appears twice is a data-integrity error.
func Load(ctx context.Context, r io.Reader) (*Registry, error) {
	header, rows, err := dataset.ReadCSV(ctx, r, dataset.CSVOptions{TrimSpace: true})
	if err != nil {
		return nil, eris.Wrap(err, "stateid: read reference table")
	}

	nameIdx, codeIdx := -1, -1
	for i, h := range header {
		switch strings.ToUpper(strings.TrimPrefix(h, "\ufeff")) {
		case NameColumn:
			nameIdx = i
		case CodeColumn:
			codeIdx = i
		}
	}
	if nameIdx < 0 || codeIdx < 0 {
		return nil, eris.Errorf("stateid: reference table needs %s and %s columns, got %v", NameColumn, CodeColumn, header)
	}

	entries := make(map[string]int, len(rows))
	for _, rec := range rows {
		if nameIdx >= len(rec.Fields) || codeIdx >= len(rec.Fields) {
			return nil, eris.Errorf("stateid: line %d: short row", rec.Line)
		}
		name := rec.Fields[nameIdx]
		code, err := strconv.Atoi(NormalizeCode(rec.Fields[codeIdx]))
		if err != nil {
			return nil, eris.Wrapf(err, "stateid: line %d: code for %q", rec.Line, name)
		}
		if _, dup := entries[name]; dup {
			return nil, eris.Wrapf(model.ErrDataIntegrity, "stateid: line %d: duplicate state name %q", rec.Line, name)
		}
		entries[name] = code
	}
	return New(entries)
}

// New builds a registry from an in-memory name to code table.
func New(entries map[string]int) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]int, len(entries)),
		byCode: make(map[int]string, len(entries)),
	}
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		code := entries[name]
		if other, dup := r.byCode[code]; dup {
			return nil, eris.Wrapf(model.ErrDataIntegrity, "stateid: code %d assigned to both %q and %q", code, other, name)
		}
		r.byName[name] = code
		r.byCode[code] = name
	}
	return r, nil
}

// Expect checks that the table holds exactly n states; n <= 0 accepts any
// size.
func (r *Registry) Expect(n int) error {
	if n > 0 && r.Len() != n {
		return eris.Wrapf(model.ErrDataIntegrity, "stateid: reference table has %d states, expected %d", r.Len(), n)
	}
	return nil
}

// Lookup returns the code for a state name.
func (r *Registry) Lookup(name string) (int, error) {
	code, ok := r.byName[name]
	if !ok {
		return 0, eris.Wrapf(model.ErrLookup, "stateid: unknown state %q", name)
	}
	return code, nil
}

// Name returns the state name for a code.
func (r *Registry) Name(code int) (string, error) {
	name, ok := r.byCode[code]
	if !ok {
		return "", eris.Wrapf(model.ErrLookup, "stateid: unknown code %d", code)
	}
	return name, nil
}

// Has reports whether code belongs to a registered state.
func (r *Registry) Has(code int) bool {
	_, ok := r.byCode[code]
	return ok
}

// Len returns the number of registered states.
func (r *Registry) Len() int { return len(r.byName) }

// Codes returns every registered code in ascending order.
func (r *Registry) Codes() []int {
	codes := make([]int, 0, len(r.byCode))
	for c := range r.byCode {
		codes = append(codes, c)
	}
	sort.Ints(codes)
	return codes
}

// Names returns every registered name ordered by code.
func (r *Registry) Names() []string {
	codes := r.Codes()
	names := make([]string, len(codes))
	for i, c := range codes {
		names[i] = r.byCode[c]
	}
	return names
}
