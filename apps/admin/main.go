package main

import (
	"context"
	"fmt"
	"os"

	"github.com/trezcool/visualminds/core"
	"github.com/trezcool/visualminds/core/portal"
	logsvc "github.com/trezcool/visualminds/services/logger"
	kvstore "github.com/trezcool/visualminds/storage/kv"
)

func main() {
	conf := core.NewConfig()
	zl := logsvc.NewZap(conf).Named("ADMIN")
	logger := logsvc.NewRollbarLogger(zl, conf)
	logger.Enable(!conf.Debug)

	cli := commandLine{conf: conf, in: os.Stdin, out: os.Stdout}

	// migrations run before the store touches the database
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		exit(cli.run(os.Args), logger)
		return
	}

	ctx := context.Background()
	kv, err := kvstore.Open(ctx, conf.Storage)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up %s storage: %v", conf.Storage.Driver, err), err)
	}
	cli.store = portal.NewStore(ctx, kv, nil, logger, portal.WithKey(conf.Storage.Key))

	err = cli.run(os.Args)
	if cErr := cli.store.Close(); cErr != nil {
		logger.Warn("closing storage: "+cErr.Error(), cErr)
	}
	exit(err, logger)
}

func exit(err error, logger core.Logger) {
	if err != nil && err != errHelp {
		logger.Error(err.Error(), err)
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
