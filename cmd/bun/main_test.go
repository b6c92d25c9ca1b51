package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func TestSchemaCommandSubcommands(t *testing.T) {
	cmd := schemaCommand(func() *migrate.Migrator { return nil })

	var names []string
	for _, sub := range cmd.Subcommands {
		names = append(names, sub.Name)
	}
	assert.Equal(t, []string{"init", "up", "down", "new", "status"}, names)
}

func TestSchemaNewRequiresName(t *testing.T) {
	built := false
	app := &cli.App{
		Commands: []*cli.Command{
			schemaCommand(func() *migrate.Migrator {
				built = true
				return nil
			}),
		},
	}

	err := app.Run([]string{"ledger-db", "schema", "new"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration name is required")
	assert.False(t, built)
}
