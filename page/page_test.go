package page

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koachconsulting/logopng/blob"
	"github.com/koachconsulting/logopng/logging"
)

func TestDefaultPage(t *testing.T) {
	env, err := LoadDefault("")
	require.NoError(t, err)

	assert.NotNil(t, env.Document().ElementByID("downloadPng"))
	src := env.QuerySource("logo-svg")
	require.NotNil(t, src)
	w, h := src.BoundingBox()
	assert.Equal(t, 480.0, w)
	assert.Equal(t, 120.0, h)
}

func TestQuerySourceMissingIsNil(t *testing.T) {
	env, err := Load(strings.NewReader("<p>empty</p>"), "")
	require.NoError(t, err)
	assert.True(t, env.QuerySource("logo-svg") == nil, "must be an untyped nil")
}

func TestNonSVGSourceIsReported(t *testing.T) {
	var buf bytes.Buffer
	logging.SetLoggerForTest(zerolog.New(&buf))

	env, err := Load(strings.NewReader(`<div class="logo-svg">logo</div><svg class="mark"></svg>`), "")
	require.NoError(t, err)

	require.NotNil(t, env.QuerySource("logo-svg"))
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"element":"div"`)

	buf.Reset()
	require.NotNil(t, env.QuerySource("mark"))
	assert.Empty(t, buf.String())
}

func TestCloneIsDetached(t *testing.T) {
	env, err := Load(strings.NewReader(`<svg class="logo-svg" width="3" height="4"></svg>`), "")
	require.NoError(t, err)

	clone := env.QuerySource("logo-svg").Clone()
	clone.SetAttribute("width", "30")
	markup, err := clone.Serialize()
	require.NoError(t, err)
	assert.Contains(t, markup, `width="30"`)

	orig, err := env.QuerySource("logo-svg").Serialize()
	require.NoError(t, err)
	assert.Contains(t, orig, `width="3"`)
}

func TestClickRunsListenersInOrder(t *testing.T) {
	env, err := Load(strings.NewReader(`<button id="b">b</button>`), "")
	require.NoError(t, err)

	var calls []string
	assert.True(t, env.OnClick("b", func() { calls = append(calls, "first") }))
	assert.True(t, env.OnClick("b", func() { calls = append(calls, "second") }))
	assert.False(t, env.OnClick("missing", func() { calls = append(calls, "never") }))

	assert.True(t, env.Click("b"))
	assert.False(t, env.Click("missing"))
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestDownloadSavesToDir(t *testing.T) {
	dir := t.TempDir()
	env, err := Load(strings.NewReader("<p></p>"), dir)
	require.NoError(t, err)

	url, err := env.CreateObjectURL(blob.New([]byte("png bytes"), blob.TypePNG))
	require.NoError(t, err)
	require.NoError(t, env.Download(url, "../escape/logo.png"))
	env.RevokeObjectURL(url)

	data, err := os.ReadFile(filepath.Join(dir, "logo.png"))
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(data))

	downloads := env.Downloads()
	require.Len(t, downloads, 1)
	assert.Equal(t, blob.TypePNG, downloads[0].Type)
	assert.Equal(t, "../escape/logo.png", downloads[0].Filename)
	assert.Zero(t, env.Registry().Live())
}

func TestDownloadRevokedURL(t *testing.T) {
	env, err := Load(strings.NewReader("<p></p>"), "")
	require.NoError(t, err)

	url, err := env.CreateObjectURL(blob.New([]byte("x"), blob.TypePNG))
	require.NoError(t, err)
	env.RevokeObjectURL(url)

	err = env.Download(url, "logo.png")
	assert.True(t, errors.Is(err, blob.ErrUnknownURL))
	assert.Empty(t, env.Downloads())
}

func TestAlertsAreRecorded(t *testing.T) {
	env, err := Load(strings.NewReader("<p></p>"), "")
	require.NoError(t, err)

	env.Alert("one")
	env.Alert("two")
	assert.Equal(t, []string{"one", "two"}, env.Alerts())
}
