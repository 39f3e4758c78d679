// Command seed_initial_data loads demo accounts and assessments from a JSON file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"ai-governance/cmd/seed_initial_data/internal/seedmodels"
	"ai-governance/internal/app"
	"ai-governance/internal/config"
	"ai-governance/internal/database"
	"ai-governance/internal/domain"
	"ai-governance/internal/logger"

	"go.uber.org/zap"
)

const defaultSeedFilePath = "configs/seed_data/demo_accounts.json"

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		// Logger is not up yet.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	seedFilePath := defaultSeedFilePath
	if len(os.Args) > 1 {
		seedFilePath = os.Args[1]
	}

	log.Info("Starting demo data seeding process...")
	db, err := database.NewDB(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if err := database.RunMigrations(ctx, db); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	accounts, err := loadSeedFile(seedFilePath)
	if err != nil {
		log.Fatal("Failed to load seed data", zap.String("path", seedFilePath), zap.Error(err))
	}
	log.Info("Loaded seed data", zap.Int("accounts", len(accounts)))

	svc, err := app.NewServices(cfg, db, nil)
	if err != nil {
		log.Fatal("Failed to create services", zap.Error(err))
	}

	for _, account := range accounts {
		if err := seedAccount(ctx, svc, log, account); err != nil {
			log.Error("Error seeding account", zap.String("email", account.Email), zap.Error(err))
		}
	}
	log.Info("Demo data seeding process completed.")
}

func loadSeedFile(path string) ([]seedmodels.SeedAccount, error) {
	byteValue, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var accounts []seedmodels.SeedAccount
	if err := json.Unmarshal(byteValue, &accounts); err != nil {
		return nil, fmt.Errorf("unmarshal seed data: %w", err)
	}
	return accounts, nil
}

// seedAccount creates the account and its assessments. An account that
// already exists is skipped so the command can be re-run.
func seedAccount(ctx context.Context, svc *app.Services, log *zap.Logger, account seedmodels.SeedAccount) error {
	user, err := svc.Auth.Signup(ctx, account.Email, account.Password, account.FullName)
	if errors.Is(err, domain.ErrEmailTaken) {
		log.Info("Account exists, skipping.", zap.String("email", account.Email))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	log.Info("Created account.", zap.String("id", user.ID), zap.String("email", user.Email))

	for _, sa := range account.Assessments {
		a, err := svc.Assessment.CreateAssessment(ctx, user.ID, sa.Title, sa.Description)
		if err != nil {
			return fmt.Errorf("failed to create assessment %q: %w", sa.Title, err)
		}
		for raw := range sa.Answers {
			if _, err := domain.ParseCategory(raw); err != nil {
				return fmt.Errorf("assessment %q: %w", sa.Title, err)
			}
		}
		// Submit in catalog order so the status history is deterministic.
		for _, category := range domain.AllCategories() {
			answers, ok := sa.Answers[string(category)]
			if !ok {
				continue
			}
			result, err := svc.Assessment.SubmitAnswers(ctx, user.ID, a.ID, category, answers)
			if err != nil {
				return fmt.Errorf("failed to submit %s for %q: %w", category, sa.Title, err)
			}
			log.Info("Submitted answers.", zap.String("assessment", a.ID), zap.String("category", string(category)), zap.Int("score", result.Score))
		}
	}
	return nil
}
