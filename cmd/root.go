package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"reserveit/internal/data/repository"
	"reserveit/pkg/database"
	"reserveit/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reserveit",
		Short:         "Slot reservation service for a fixed catalog of bookable resources",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newReconcileCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// deps is what every subcommand needs before doing work
type deps struct {
	config *utils.Config
	logger *zap.Logger
	db     database.PgxIface
	repos  *repository.Repository
}

func bootstrap(ctx context.Context) (*deps, error) {
	config, err := utils.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		return nil, err
	}
	logger.Info("Database connected successfully")

	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		logger.Error("Failed to apply migrations", zap.Error(err))
		return nil, err
	}

	return &deps{
		config: config,
		logger: logger,
		db:     db,
		repos:  repository.NewRepository(db, logger),
	}, nil
}

func (rt *deps) close() {
	rt.db.Close()
	_ = rt.logger.Sync()
}
