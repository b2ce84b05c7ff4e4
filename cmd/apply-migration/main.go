// Applies a SQL file (scripts/schema.sql by default) statement by statement.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"abst-data/internal/config"
	"abst-data/internal/database"
)

func main() {
	file := "scripts/schema.sql"
	if len(os.Args) > 1 {
		file = os.Args[1]
	}

	sqlContent, err := os.ReadFile(file)
	if err != nil {
		log.Fatalf("Failed to read migration file: %v", err)
	}

	cfg := config.Load()
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Cannot connect to database: %v", err)
	}
	defer db.Close()

	applied := 0
	for _, stmt := range strings.Split(string(sqlContent), ";") {
		stmt = stripSQLComments(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("Statement %d failed: %v\n%s", applied+1, err, stmt)
		}
		applied++
	}

	fmt.Printf("Applied %d statements from %s\n", applied, file)
}

// stripSQLComments drops "--" comment lines so a commented header does not
// swallow the statement below it.
func stripSQLComments(stmt string) string {
	var kept []string
	for _, line := range strings.Split(stmt, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
