package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	submissionmigrations "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/strategy-ledger/config"
	"github.com/Black-And-White-Club/strategy-ledger/db/bundb"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func main() {
	var db *bun.DB

	cliApp := &cli.App{
		Name:  "ledger-db",
		Usage: "manage the provenance and leaderboard schema",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.ReadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.Postgres.DSN == "" {
				return fmt.Errorf("postgres.dsn (DATABASE_URL) is required")
			}
			db = bundb.BunDB(sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN))))
			return nil
		},
		After: func(*cli.Context) error {
			if db == nil {
				return nil
			}
			return db.Close()
		},
		Commands: []*cli.Command{
			schemaCommand(func() *migrate.Migrator {
				return migrate.NewMigrator(db, submissionmigrations.Migrations)
			}),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// schemaCommand takes a constructor because the database is only opened in Before.
func schemaCommand(migrator func() *migrate.Migrator) *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "apply, revert or inspect submission migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create the bun_migrations bookkeeping tables",
				Action: func(c *cli.Context) error {
					return migrator().Init(c.Context)
				},
			},
			{
				Name:  "up",
				Usage: "apply pending migrations",
				Action: func(c *cli.Context) error {
					m := migrator()
					if err := m.Lock(c.Context); err != nil {
						return err
					}
					defer m.Unlock(c.Context) //nolint:errcheck

					group, err := m.Migrate(c.Context)
					if err != nil {
						return err
					}
					if group.IsZero() {
						fmt.Println("schema is up to date")
						return nil
					}
					fmt.Printf("applied %s\n", group)
					return nil
				},
			},
			{
				Name:  "down",
				Usage: "revert the most recent migration group",
				Action: func(c *cli.Context) error {
					m := migrator()
					if err := m.Lock(c.Context); err != nil {
						return err
					}
					defer m.Unlock(c.Context) //nolint:errcheck

					group, err := m.Rollback(c.Context)
					if err != nil {
						return err
					}
					if group.IsZero() {
						fmt.Println("nothing to revert")
						return nil
					}
					fmt.Printf("reverted %s\n", group)
					return nil
				},
			},
			{
				Name:      "new",
				Usage:     "scaffold an up/down SQL migration pair",
				ArgsUsage: "<words...>",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("migration name is required")
					}
					files, err := migrator().CreateSQLMigrations(c.Context, strings.Join(c.Args().Slice(), "_"))
					if err != nil {
						return err
					}
					for _, f := range files {
						fmt.Println(f.Path)
					}
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "list applied and pending migrations",
				Action: func(c *cli.Context) error {
					ms, err := migrator().MigrationsWithStatus(c.Context)
					if err != nil {
						return err
					}
					fmt.Printf("applied: %s\n", ms.Applied())
					fmt.Printf("pending: %s\n", ms.Unapplied())
					return nil
				},
			},
		},
	}
}
