// Package schemas provides embedded SQL migration files, one directory per
// SQL dialect.
package schemas

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

// Migrations contains all SQL migration files.
//
//go:embed migrations/*/*.sql
var Migrations embed.FS

// Statements returns the migrations of dialect in file name order.
func Statements(dialect string) ([]string, error) {
	dir := "migrations/" + dialect
	entries, err := fs.ReadDir(Migrations, dir)
	if err != nil {
		return nil, fmt.Errorf("fs.ReadDir(%s) > %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	statements := make([]string, 0, len(names))
	for _, name := range names {
		contents, err := Migrations.ReadFile(dir + "/" + name)
		if err != nil {
			return nil, fmt.Errorf("Migrations.ReadFile(%s) > %w", name, err)
		}
		statements = append(statements, string(contents))
	}
	return statements, nil
}
