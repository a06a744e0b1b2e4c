package main

import (
	"context"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/storage/database"
)

var migrateFunc = database.Migrate // mockable

func (cli *commandLine) migrate(ctx context.Context) error {
	return migrateFunc(ctx, cli.db, cli.conf)
}
