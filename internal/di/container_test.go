package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookverseapp/bookverse/internal/config"
	"github.com/bookverseapp/bookverse/internal/dashboard"
	"github.com/bookverseapp/bookverse/internal/di/providers"
	"github.com/bookverseapp/bookverse/internal/notify"
	"github.com/bookverseapp/bookverse/internal/store"
)

func testFlags(t *testing.T) config.Flags {
	return config.Flags{
		EnvFile:  filepath.Join(t.TempDir(), "missing.env"),
		LogLevel: "error",
		LogFile:  filepath.Join(t.TempDir(), "bookverse.log"),
	}
}

func TestContainer_DashboardAgainstFakeAPI(t *testing.T) {
	flags := testFlags(t)

	// The fake API comes from its own container, as the fake-api command does.
	serverScope := NewContainer(flags, providers.SinkStderr)
	fake := do.MustInvoke[*providers.FakeAPIHandle](serverScope)
	ts := httptest.NewServer(fake.API)
	t.Cleanup(ts.Close)

	flags.APIURL = ts.URL + "/api"
	injector := NewContainer(flags, providers.SinkFile)

	ctrl := do.MustInvoke[*providers.ControllerHandle](injector)
	require.NoError(t, ctrl.Load(context.Background()))

	v := ctrl.View()
	assert.Equal(t, dashboard.PhaseReady, v.Phase)
	assert.Len(t, v.Books, 6)
	assert.Len(t, v.Genres, 4)

	// Singletons are shared between consumers.
	assert.Same(t, ctrl.Notifier(), do.MustInvoke[*notify.Notifier](injector))
	assert.Len(t, do.MustInvoke[*store.Store](injector).State().Books.Items, 6)

	require.NoError(t, Shutdown(injector))
	require.NoError(t, Shutdown(serverScope))
	assert.FileExists(t, flags.LogFile)
}

func TestContainer_InvalidConfig(t *testing.T) {
	flags := testFlags(t)
	flags.APIURL = "not a url"

	injector := NewContainer(flags, providers.SinkStderr)
	defer Shutdown(injector) //nolint:errcheck // Test cleanup

	_, err := do.Invoke[*config.Config](injector)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid API base URL")
}

func TestContainer_FakeAPISettings(t *testing.T) {
	injector := NewContainer(testFlags(t), providers.SinkStderr)
	do.ProvideValue(injector, providers.FakeAPISettings{Wrapped: true})

	fake := do.MustInvoke[*providers.FakeAPIHandle](injector)
	assert.Equal(t, ":5000", fake.Addr)

	rec := httptest.NewRecorder()
	fake.API.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/genres", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data"`)

	require.NoError(t, Shutdown(injector))
}
