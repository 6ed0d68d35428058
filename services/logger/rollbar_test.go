package logsvc

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/rollbar/rollbar-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/trezcool/visualminds/core"
	"github.com/trezcool/visualminds/core/user"
)

func newTestLogger(t *testing.T) (*RollbarLogger, *observer.ObservedLogs) {
	t.Helper()
	obs, logs := observer.New(zap.DebugLevel)
	logger := NewRollbarLogger(zap.New(obs), &testConf)
	logger.Enable(false)
	return logger, logs
}

var testConf = core.Config{Env: "TEST", Build: "test"}

func TestRollbarLogger_prepare(t *testing.T) {
	logger, _ := newTestLogger(t)
	err := errors.New("boom")
	usr := user.User{ID: "u1", Name: "Ada", Email: "ada@test.com"}
	other := user.User{ID: "u2"}

	got := logger.prepare("msg", []interface{}{err, usr, other, map[string]interface{}{"k": 1}})
	assert.Equal(t, []interface{}{"msg", err, map[string]interface{}{"k": 1}}, got)
}

func TestRollbarLogger_console(t *testing.T) {
	rollbar.SetEnabled(false)
	logger, logs := newTestLogger(t)

	logger.Info("student registered", user.User{ID: "u1"})
	logger.Error("saving data", errors.New("disk full"), map[string]interface{}{"key": "k"})

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "student registered", entries[0].Message)
		assert.Equal(t, "u1", entries[0].ContextMap()["user"])

		assert.Equal(t, zap.ErrorLevel, entries[1].Level)
		assert.Equal(t, "disk full", entries[1].ContextMap()["error"])
		assert.Equal(t, "k", entries[1].ContextMap()["key"])
	}
}

type syncCore struct {
	zapcore.Core
	syncs int
	err   error
}

func (c *syncCore) Sync() error {
	c.syncs++
	return c.err
}

func TestRollbarLogger_Sync(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "flushed"},
		{name: "console error", err: errors.New("bad file descriptor"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rollbar.SetEnabled(false)
			sc := &syncCore{Core: zapcore.NewNopCore(), err: tt.err}
			logger := NewRollbarLogger(zap.New(sc), &testConf)

			err := logger.Sync()
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, 1, sc.syncs)
		})
	}
}
