// Package source defines where person tables come from.
//
// A [Source] yields raw rows; parsing and validation happen downstream in
// package family. [File] reads a CSV file from disk, and the mongo
// subpackage reads documents from a MongoDB collection.
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matzehuels/familytree/pkg/family"
	ftio "github.com/matzehuels/familytree/pkg/io"
)

// Source produces person rows in roster order.
type Source interface {
	Rows(ctx context.Context) ([]family.Row, error)
}

// File reads rows from a CSV file.
type File struct {
	Path string
}

// Rows reads and decodes the file.
func (f File) Rows(ctx context.Context) ([]family.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ext := strings.ToLower(filepath.Ext(f.Path)); ext != ".csv" && ext != "" {
		return nil, fmt.Errorf("%s: unsupported file type %q", f.Path, ext)
	}
	return ftio.ImportCSV(f.Path)
}
