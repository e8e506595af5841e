package main

import (
	"fmt"

	"github.com/mushroomhunter/backend/migration"
	"github.com/mushroomhunter/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()

	for _, version := range cctx.StringSlice("version") {
		migrator, ok := migration.Migrators[version]
		if !ok {
			return fmt.Errorf("unknown migration version %s", version)
		}

		if err := s.runMigration(version, migrator); err != nil {
			return err
		}
	}

	return nil
}

func (s *srv) runMigration(version string, migrator migration.Migrator) error {
	txCtx := xcontext.BeginTx(s.ctx)
	defer xcontext.RollbackTx(txCtx)

	if err := migrator(txCtx); err != nil {
		return fmt.Errorf("migration %s failed: %w", version, err)
	}

	if err := xcontext.CommitTx(txCtx); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Migration %s is done", version)
	return nil
}
