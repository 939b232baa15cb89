// Package asset manages the test vectors the harness encodes: JSON asset
// lists, the library that discovers them, and checksum-verified downloads of
// their source files.
package asset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Asset is one test vector inside an asset list.
type Asset struct {
	Name     string `json:"name"`
	Source   string `json:"source"`
	Checksum string `json:"checksum"`
	Filename string `json:"filename"`
}

func (a Asset) String() string {
	return a.Filename
}

// Entry pairs an asset with the name of the list it came from; the list name
// doubles as the subdirectory holding the asset under the resources dir.
type Entry struct {
	ListName string
	Asset    Asset
}

// InputPath resolves the on-disk location of the entry's source file.
func (e Entry) InputPath(resourcesDir string) string {
	return filepath.Join(resourcesDir, e.ListName, e.Asset.Filename)
}

// List is a named group of assets loaded from a JSON file.
type List struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Assets      []Asset `json:"assets"`

	path string
}

// LoadList reads an asset list from a JSON file, keeping the assets in file
// order.
func LoadList(path string) (*List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset list: %w", err)
	}

	var list List
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse asset list: %w", err)
	}
	if list.Name == "" {
		return nil, fmt.Errorf("asset list %s has no name", path)
	}
	list.path = path
	return &list, nil
}

// Path returns the file the list was loaded from.
func (l *List) Path() string {
	return l.path
}

func (l *List) String() string {
	return fmt.Sprintf("%s: %s (%d assets)", l.Name, l.Description, len(l.Assets))
}
