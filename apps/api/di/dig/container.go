package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"
	"go.uber.org/zap"

	echoapi "github.com/trezcool/visualminds/apps/api/echo"
	"github.com/trezcool/visualminds/core"
	"github.com/trezcool/visualminds/core/portal"
	logsvc "github.com/trezcool/visualminds/services/logger"
	consoletutor "github.com/trezcool/visualminds/services/tutor/console"
	geminitutor "github.com/trezcool/visualminds/services/tutor/gemini"
	kvstore "github.com/trezcool/visualminds/storage/kv"
)

type StoreLoggerParam struct {
	dig.In
	Logger core.Logger `name:"storeLogger"`
}

func newLogger(zl *zap.Logger, conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(zl.Named("API"), conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStoreLogger(zl *zap.Logger, conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(zl.Named("STORE"), conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newKVStore(conf *core.Config, loggerParam StoreLoggerParam) core.KVStore {
	kv, err := kvstore.Open(context.Background(), conf.Storage)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up %s storage: %v", conf.Storage.Driver, err), err)
	}
	return kv
}

func newTutor(conf *core.Config, logger core.Logger) core.Tutor {
	if conf.Tutor.APIKey == "" && conf.Debug {
		logger.Info("no tutor API key configured, using the console tutor")
		return consoletutor.New(os.Stdout)
	}
	svc, err := geminitutor.New(context.Background(), conf.Tutor, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up tutor: %v", err), err)
	}
	return svc
}

func newValidator() (*validator.Validate, ut.Translator) {
	return portal.NewValidator()
}

func newStore(
	conf *core.Config,
	kv core.KVStore,
	tutor core.Tutor,
	loggerParam StoreLoggerParam,
	validate *validator.Validate,
	translator ut.Translator,
) *portal.Store {
	return portal.NewStore(
		context.Background(),
		kv,
		tutor,
		loggerParam.Logger,
		portal.WithKey(conf.Storage.Key),
		portal.WithValidator(validate, translator),
	)
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(logsvc.NewZap))
	must(c.Provide(newLogger))
	must(c.Provide(newStoreLogger, dig.Name("storeLogger")))
	must(c.Provide(newKVStore))
	must(c.Provide(newTutor))
	must(c.Provide(newValidator))
	must(c.Provide(newStore))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
