package cli

import (
	"context"
	"fmt"
	"log"

	"adaptive-quiz-service/internal/config"
	pginfra "adaptive-quiz-service/internal/infra/postgres"
	"github.com/spf13/cobra"
)

// NewSeedCmd loads the sample question pool into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the question pool with sample content",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	db := openBunDB(cfg.Postgres.URL)
	defer db.Close()

	seeder := pginfra.NewSeeder(db)
	if err := seeder.Seed(ctx, SampleQuestions()); err != nil {
		return err
	}
	count, err := seeder.Count(ctx)
	if err != nil {
		return err
	}
	log.Printf("question pool seeded, %d questions total", count)
	return nil
}
