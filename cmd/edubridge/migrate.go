package main

import (
	"github.com/RigelNana/edubridge/database"
	"github.com/spf13/cobra"
)

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, closeLog, err := bootstrap()
	if err != nil {
		return err
	}
	defer closeLog()

	db, err := database.InitDB(&cfg.Database, logger)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := database.AutoMigrate(db.WithContext(cmd.Context())); err != nil {
		return err
	}
	logger.Info("database schema is up to date")
	return nil
}
