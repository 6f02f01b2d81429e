// Command populate-sample-data fills an empty database with demo accounts,
// companies, job postings and applications. It is not idempotent: running it
// twice fails on the unique usernames.
package main

import (
	"log"
	"os"

	"github.com/micdr93/yardly/internal/database"
)

func main() {
	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := database.PopulateSampleData(db.DB, os.Stdout); err != nil {
		log.Fatalf("Failed to populate sample data: %v", err)
	}
}
