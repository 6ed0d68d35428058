package dig_container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/visualminds/apps/api/echo"
	"github.com/trezcool/visualminds/core"
	"github.com/trezcool/visualminds/core/portal"
)

func TestNew(t *testing.T) {
	t.Setenv("ENV", "TEST")
	t.Setenv("TEST_STORAGE_DRIVER", core.StorageMemory)
	t.Setenv("TEST_TUTOR_APIKEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	c := New()
	err := c.Invoke(func(conf *core.Config, store *portal.Store, server *echoapi.Server, tutor core.Tutor) {
		assert.Equal(t, core.StorageMemory, conf.Storage.Driver)
		assert.Equal(t, portal.StageLoggedOut, store.Session().Stage())
		assert.Len(t, store.Users(), 1)
		assert.NotNil(t, server)
		assert.Equal(t, core.TutorFallback, tutor.Ask(context.Background(), "", ""))
	})
	require.NoError(t, err)
}
