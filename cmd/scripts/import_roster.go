package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/ktuacm/clubportal-backend/internal/repositories/mongodb"
	"github.com/ktuacm/clubportal-backend/internal/utils"
	mongoclient "github.com/ktuacm/clubportal-backend/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bulk-imports an eligibility roster CSV into a draft election:
//
//	go run ./cmd/scripts <electionID> <roster.csv>
//
// The CSV carries five ordered columns: student number, full name,
// department, phone, email. A header row is optional.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI environment variable is required")
	}
	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "clubportal"
	}

	if len(os.Args) < 3 {
		log.Fatal("Usage: import_roster <electionID> <roster.csv>")
	}
	electionID, err := primitive.ObjectIDFromHex(os.Args[1])
	if err != nil {
		log.Fatalf("Invalid election ID: %v", err)
	}
	rosterPath := os.Args[2]

	client, err := mongoclient.NewClient(mongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())
	db := client.Database(dbName)

	file, err := os.Open(rosterPath)
	if err != nil {
		log.Fatalf("Failed to open roster file: %v", err)
	}
	defer file.Close()

	voters, result, err := utils.ParseRoster(file, electionID)
	if err != nil {
		log.Fatalf("Failed to parse roster: %v", err)
	}

	voterRepo := mongodb.NewVoterRepository(db)
	if err := voterRepo.CreateMany(context.Background(), voters); err != nil {
		log.Fatalf("Failed to store roster: %v", err)
	}

	log.Printf("Roster imported: %d of %d rows", result.Imported, result.TotalRows)
	for _, e := range result.Errors {
		log.Printf("  %s", e)
	}
}
