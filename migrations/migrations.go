// Package migrations embeds the postgres schema for the document store.
package migrations

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.sql
var files embed.FS

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

// Migration is one versioned schema change.
type Migration struct {
	Name string
	Up   string
	Down string
}

// List returns every migration in name order.
func List() ([]Migration, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, err
	}

	var out []Migration
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), upSuffix) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), upSuffix)
		up, err := fs.ReadFile(files, e.Name())
		if err != nil {
			return nil, err
		}
		// down files are optional
		down, _ := fs.ReadFile(files, name+downSuffix)
		out = append(out, Migration{Name: name, Up: string(up), Down: string(down)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
