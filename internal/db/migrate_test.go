package db

import (
	"sort"
	"strings"
	"testing"
)

func TestMigrationFiles_SortedSQL(t *testing.T) {
	files, err := migrationFiles()
	if err != nil {
		t.Fatalf("listing migrations: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no embedded migrations found")
	}
	if !sort.StringsAreSorted(files) {
		t.Errorf("migrations must apply in filename order: %v", files)
	}
	for _, name := range files {
		if !strings.HasSuffix(name, ".sql") {
			t.Errorf("non-sql file in migration list: %s", name)
		}
	}
	if files[0] != "001_create_listings.sql" {
		t.Errorf("listings table must migrate first, got %s", files[0])
	}
}
