package asset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/psantana5/encoder-quality/internal/logging"
)

// Library discovers asset lists under one or more assets directories (joined
// with the OS path list separator). Discovery runs once; all accessors share
// the outcome.
type Library struct {
	dirs string
	log  *logging.Logger

	once    sync.Once
	lists   []*List
	loadErr error
}

// NewLibrary returns a library over dirs. Lists are loaded lazily on first
// access.
func NewLibrary(dirs string, log *logging.Logger) *Library {
	if log == nil {
		log = logging.NewLogger(logging.INFO, false)
	}
	return &Library{dirs: dirs, log: log}
}

// Lists returns every discovered asset list, in walk order. A list that fails
// to parse is skipped with a warning; duplicate list names and an empty
// library are hard errors.
func (l *Library) Lists() ([]*List, error) {
	l.once.Do(l.load)
	return l.lists, l.loadErr
}

func (l *Library) load() {
	seen := make(map[string]string)

	for _, dir := range strings.Split(l.dirs, string(os.PathListSeparator)) {
		if dir == "" {
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// A missing assets dir just contributes nothing
				return nil
			}
			if d.IsDir() || filepath.Ext(path) != ".json" {
				return nil
			}

			list, err := LoadList(path)
			if err != nil {
				l.log.Warn("Error loading asset list", map[string]interface{}{
					"file":  path,
					"error": err.Error(),
				})
				return nil
			}
			if prev, dup := seen[list.Name]; dup {
				return fmt.Errorf("repeated asset list %q in %s and %s", list.Name, prev, path)
			}
			seen[list.Name] = path
			l.lists = append(l.lists, list)
			return nil
		})
		if err != nil {
			l.loadErr = err
			return
		}
	}

	if len(l.lists) == 0 {
		l.loadErr = fmt.Errorf("no asset lists found in %q", l.dirs)
	}
}

// Match resolves requested list names case-insensitively. An empty request
// matches every list.
func (l *Library) Match(names []string) ([]*List, error) {
	lists, err := l.Lists()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return lists, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[strings.ToLower(name)] = false
	}

	var matched []*List
	for _, list := range lists {
		key := strings.ToLower(list.Name)
		if _, ok := wanted[key]; ok {
			wanted[key] = true
			matched = append(matched, list)
		}
	}

	var missing []string
	for name, found := range wanted {
		if !found {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("no asset lists found for: %s", strings.Join(missing, ", "))
	}
	return matched, nil
}

// BuildSet flattens lists into the entries a run will test, applying the
// include and skip filters by asset name. The returned set name is the list
// names joined with "-" and becomes the suite's output subdirectory.
func BuildSet(lists []*List, include, skip []string) (string, []Entry, error) {
	var entries []Entry
	names := make([]string, 0, len(lists))
	for _, list := range lists {
		names = append(names, list.Name)
		for _, a := range list.Assets {
			entries = append(entries, Entry{ListName: list.Name, Asset: a})
		}
	}

	if len(include) > 0 {
		keep := make(map[string]bool, len(include))
		for _, name := range include {
			keep[name] = true
		}
		entries = filterEntries(entries, func(e Entry) bool { return keep[e.Asset.Name] })
	}
	if len(skip) > 0 {
		drop := make(map[string]bool, len(skip))
		for _, name := range skip {
			drop[name] = true
		}
		entries = filterEntries(entries, func(e Entry) bool { return !drop[e.Asset.Name] })
	}

	if len(entries) == 0 {
		return "", nil, fmt.Errorf("no assets left to test")
	}
	return strings.Join(names, "-"), entries, nil
}

func filterEntries(entries []Entry, keep func(Entry) bool) []Entry {
	var out []Entry
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
