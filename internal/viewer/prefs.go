package viewer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"autoragdoll/internal/camera"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// PrefsFile is where the viewer keeps its state between sessions.
const PrefsFile = ".ragdollview_prefs.json"

// Prefs holds persistent viewer preferences saved between sessions
type Prefs struct {
	WindowWidth    int32      `json:"windowWidth"`
	WindowHeight   int32      `json:"windowHeight"`
	CameraTarget   rl.Vector3 `json:"cameraTarget"`
	CameraDistance float32    `json:"cameraDistance"`
	CameraYaw      float32    `json:"cameraYaw"`
	CameraPitch    float32    `json:"cameraPitch"`
	InputPath      string     `json:"inputPath,omitempty"`
}

// LoadPrefs reads preferences from path. A missing file yields nil, nil.
func LoadPrefs(path string) (*Prefs, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read prefs: %w", err)
	}

	var prefs Prefs
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("parse prefs %s: %w", path, err)
	}
	return &prefs, nil
}

func (p *Prefs) Save(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// CapturePrefs snapshots the camera and window size.
func CapturePrefs(c *camera.OrbitCamera, width, height int32, input string) *Prefs {
	return &Prefs{
		WindowWidth:    width,
		WindowHeight:   height,
		CameraTarget:   c.Target,
		CameraDistance: c.Distance,
		CameraYaw:      c.Yaw,
		CameraPitch:    c.Pitch,
		InputPath:      input,
	}
}

// Apply restores the camera. Zero values leave the current setting.
func (p *Prefs) Apply(c *camera.OrbitCamera) {
	if p == nil {
		return
	}
	c.Target = p.CameraTarget
	if p.CameraDistance > 0 {
		c.Distance = p.CameraDistance
	}
	c.Yaw = p.CameraYaw
	c.Pitch = p.CameraPitch
}
