package parsers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nydauron/skatescore/grid"
)

// Parser reads every table of a document into grids. name is used to label
// the grids.
type Parser func(r io.Reader, name string) ([]*grid.Grid, error)

var byExtension = map[string]Parser{
	".xlsx": ParseXLSX,
	".xlsm": ParseXLSX,
	".csv":  ParseCSV,
	".html": ParseHTML,
	".htm":  ParseHTML,
}

// Supported reports whether a reader exists for the file's extension.
func Supported(path string) bool {
	_, ok := byExtension[strings.ToLower(filepath.Ext(path))]
	return ok
}

func ForFile(path string) (Parser, error) {
	p, ok := byExtension[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
	return p, nil
}

// ParseFile opens path and reads it with the parser for its extension.
func ParseFile(path string) ([]*grid.Grid, error) {
	p, err := ForFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	grids, err := p(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return grids, nil
}
