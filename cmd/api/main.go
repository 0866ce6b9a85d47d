package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"

	"github.com/ktuacm/clubportal-backend/api/routes"
	"github.com/ktuacm/clubportal-backend/internal/config"
	"github.com/ktuacm/clubportal-backend/internal/handlers"
	"github.com/ktuacm/clubportal-backend/internal/repositories"
	"github.com/ktuacm/clubportal-backend/internal/repositories/cache"
	mongorepo "github.com/ktuacm/clubportal-backend/internal/repositories/mongodb"
	"github.com/ktuacm/clubportal-backend/internal/services"
	"github.com/ktuacm/clubportal-backend/pkg/mailer"
	mongodb "github.com/ktuacm/clubportal-backend/pkg/mongodb"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err = mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	var electionRepo repositories.ElectionRepository = mongorepo.NewElectionRepository(db)
	var candidateRepo repositories.CandidateRepository = mongorepo.NewCandidateRepository(db)
	var voterRepo repositories.VoterRepository = mongorepo.NewVoterRepository(db)
	var ballotRepo repositories.BallotRepository = mongorepo.NewBallotRepository(db)
	var adminRepo repositories.AdminUserRepository = mongorepo.NewAdminUserRepository(db)
	var challenges repositories.ChallengeStore = cache.NewChallengeStore(time.Duration(cfg.Verification.CodeTTL) * time.Second)

	// Outbound mail
	codeMailer, err := mailer.NewMailer(cfg)
	if err != nil {
		log.Fatalf("Failed to set up mailer: %v", err)
	}

	// Services
	electionService := services.NewElectionService(electionRepo, candidateRepo, voterRepo)
	verificationService := services.NewVerificationService(electionService, voterRepo, challenges, codeMailer, cfg.Verification.CodeLength, time.Duration(cfg.Verification.CodeTTL)*time.Second)
	votingService := services.NewVotingService(electionService, candidateRepo, voterRepo, ballotRepo, challenges)
	tabulationService := services.NewTabulationService(electionRepo, candidateRepo, ballotRepo)
	authService := services.NewAuthService(adminRepo, cfg)

	// Handlers
	handlerDeps := routes.HandlerDependencies{
		AuthHandler:     handlers.NewAuthHandler(authService),
		VoteHandler:     handlers.NewVoteHandler(electionService, verificationService, votingService, tabulationService),
		ElectionHandler: handlers.NewElectionHandler(electionService, tabulationService),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}
