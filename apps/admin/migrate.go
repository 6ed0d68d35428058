package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/visualminds/core"
	"github.com/trezcool/visualminds/storage/database"
)

var gooseRunFunc = database.RunMigrations // mockable

func (cli *commandLine) migrate(ctx context.Context, args []string) error {
	if cli.conf.Storage.Driver != core.StoragePostgres {
		return errors.Errorf("migrations only apply to the %s storage (current: %s)", core.StoragePostgres, cli.conf.Storage.Driver)
	}
	return gooseRunFunc(ctx, cli.conf.Storage, args[0], args[1:]...)
}
