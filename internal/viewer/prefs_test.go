package viewer

import (
	"os"
	"path/filepath"
	"testing"

	"autoragdoll/internal/camera"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	c := camera.New(rl.Vector3{X: 1, Y: 2, Z: 3}, 7)
	c.Yaw, c.Pitch = 45, -10

	require.NoError(t, CapturePrefs(c, 800, 600, "rig.yaml").Save(path))

	prefs, err := LoadPrefs(path)
	require.NoError(t, err)
	require.NotNil(t, prefs)
	assert.Equal(t, int32(800), prefs.WindowWidth)
	assert.Equal(t, "rig.yaml", prefs.InputPath)

	restored := camera.New(rl.Vector3{}, 1)
	prefs.Apply(restored)
	assert.Equal(t, c.Target, restored.Target)
	assert.Equal(t, float32(7), restored.Distance)
	assert.Equal(t, float32(45), restored.Yaw)
	assert.Equal(t, float32(-10), restored.Pitch)
}

func TestLoadPrefsMissing(t *testing.T) {
	prefs, err := LoadPrefs(filepath.Join(t.TempDir(), "none.json"))
	assert.NoError(t, err)
	assert.Nil(t, prefs)
}

func TestLoadPrefsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err := LoadPrefs(path)
	assert.Error(t, err)
}

func TestApplyKeepsDistanceWhenUnset(t *testing.T) {
	c := camera.New(rl.Vector3{}, 4)
	(&Prefs{CameraYaw: 30}).Apply(c)
	assert.Equal(t, float32(4), c.Distance)
	assert.Equal(t, float32(30), c.Yaw)

	var none *Prefs
	none.Apply(c)
	assert.Equal(t, float32(30), c.Yaw)
}
