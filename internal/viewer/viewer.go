// Package viewer shows a generated ragdoll in a raylib window: segments,
// bones and joints as wireframes, plus a panel toggling each ragdoll.
package viewer

import (
	"fmt"

	"autoragdoll/internal/camera"
	"autoragdoll/internal/engine"
	"autoragdoll/internal/ragdoll"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"
)

const panelWidth = 280

type Viewer struct {
	Title  string
	Width  int32
	Height int32
	Log    zerolog.Logger

	// Build loads the input and runs the command. It is called on start, on
	// the Rebuild button and for every value on Changes.
	Build   func() (*ragdoll.Context, error)
	Changes <-chan string

	// PrefsPath enables saving the camera and window on exit. Prefs, when
	// set, is restored on start.
	PrefsPath string
	Prefs     *Prefs
	Input     string

	ctx      *ragdoll.Context
	camera   *camera.OrbitCamera
	err      error
	selected *engine.GameObject
	framed   bool
}

func New(title string, build func() (*ragdoll.Context, error), log zerolog.Logger) *Viewer {
	return &Viewer{
		Title:  title,
		Width:  1280,
		Height: 720,
		Log:    log,
		Build:  build,
		camera: camera.New(rl.Vector3{}, 5),
	}
}

func (v *Viewer) rebuild() {
	ctx, err := v.Build()
	if err != nil {
		v.err = err
		v.Log.Error().Err(err).Msg("rebuild failed")
		return
	}
	v.ctx, v.err, v.selected = ctx, nil, nil
	if len(ctx.Physics.Bodies) > 0 && !v.framed {
		v.framed = true
		box := ctx.Physics.WorldBounds()
		v.camera.Frame(box.Min, box.Max)
	}
	v.Log.Info().Int("ragdolls", len(ctx.Ragdolls)).Msg("scene built")
}

// Run opens the window and blocks until it is closed.
func (v *Viewer) Run() {
	if v.Prefs != nil {
		if v.Prefs.WindowWidth > 0 && v.Prefs.WindowHeight > 0 {
			v.Width, v.Height = v.Prefs.WindowWidth, v.Prefs.WindowHeight
		}
		v.Prefs.Apply(v.camera)
		v.framed = true
	}

	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(v.Width, v.Height, v.Title)
	defer rl.CloseWindow()
	defer v.savePrefs()
	rl.SetTargetFPS(60)
	initStyle()

	v.rebuild()
	for !rl.WindowShouldClose() {
		v.pollChanges()
		deltaTime := rl.GetFrameTime()

		if rl.GetMousePosition().X > panelWidth {
			v.camera.Update(deltaTime)
			if rl.IsMouseButtonPressed(rl.MouseRightButton) {
				v.pick()
			}
		}
		if v.ctx != nil {
			v.ctx.Scene.Update(deltaTime)
		}

		rl.BeginDrawing()
		rl.ClearBackground(colorBgDark)

		rl.BeginMode3D(v.camera.GetRaylibCamera())
		drawGrid()
		if v.ctx != nil {
			for _, l := range SceneLines(v.ctx.Scene) {
				rl.DrawLine3D(l.Start, l.End, l.Color)
			}
		}
		rl.EndMode3D()

		v.drawPanel()
		rl.EndDrawing()
	}
}

func (v *Viewer) savePrefs() {
	if v.PrefsPath == "" {
		return
	}
	prefs := CapturePrefs(v.camera, int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()), v.Input)
	if err := prefs.Save(v.PrefsPath); err != nil {
		v.Log.Warn().Err(err).Msg("failed to save viewer prefs")
	}
}

// pick selects the segment under the mouse cursor.
func (v *Viewer) pick() {
	if v.ctx == nil {
		return
	}
	ray := rl.GetScreenToWorldRay(rl.GetMousePosition(), v.camera.GetRaylibCamera())
	hit, ok := v.ctx.Physics.Raycast(ray.Position, ray.Direction, 1000)
	if !ok {
		v.selected = nil
		return
	}
	v.selected = hit.GameObject
	v.Log.Debug().Str("segment", hit.GameObject.Name).Float32("distance", hit.Distance).Msg("picked")
}

func (v *Viewer) pollChanges() {
	if v.Changes == nil {
		return
	}
	select {
	case path, ok := <-v.Changes:
		if !ok {
			v.Changes = nil
			return
		}
		v.Log.Info().Str("file", path).Msg("input changed")
		v.rebuild()
	default:
	}
}

// drawGrid draws the XY ground plane.
func drawGrid() {
	const half = 5
	for i := -half; i <= half; i++ {
		f := float32(i)
		rl.DrawLine3D(rl.Vector3{X: f, Y: -half}, rl.Vector3{X: f, Y: half}, colorBgActive)
		rl.DrawLine3D(rl.Vector3{X: -half, Y: f}, rl.Vector3{X: half, Y: f}, colorBgActive)
	}
}

func (v *Viewer) drawPanel() {
	height := float32(rl.GetScreenHeight())
	rl.DrawRectangle(0, 0, panelWidth, int32(height), colorBgPanel)

	y := float32(12)
	rl.DrawText("Ragdolls", 12, int32(y), 20, colorTextPrimary)
	y += 32

	if v.err != nil {
		gui.Label(rl.NewRectangle(12, y, panelWidth-24, 20), "Build failed")
		y += 22
		rl.DrawText(truncate(v.err.Error(), 40), 12, int32(y), 10, colorDisabled)
		y += 20
	}

	if v.ctx != nil {
		for _, r := range v.ctx.Ragdolls {
			label := fmt.Sprintf("%s (%s)", r.Armature.Name, r.Mode)
			enabled := gui.CheckBox(rl.NewRectangle(12, y, 18, 18), label, r.Enabled())
			if enabled != r.Enabled() {
				r.SetEnabled(enabled)
				v.Log.Info().Str("armature", r.Armature.Name).Bool("enabled", enabled).Msg("ragdoll toggled")
			}
			y += 24
			rl.DrawText(fmt.Sprintf("%d segments, %d joints", len(r.Segments), len(r.Joints)), 36, int32(y), 10, colorTextMuted)
			y += 20
		}

		if rep := v.ctx.LastReport(); rep.Message != "" {
			color := colorTextSecondary
			if rep.Level == ragdoll.ReportError {
				color = colorDisabled
			}
			rl.DrawText(truncate(rep.Message, 40), 12, int32(y), 10, color)
			y += 20
		}
	}

	y += 8
	if gui.Button(rl.NewRectangle(12, y, 120, 28), "Undo") && v.ctx != nil {
		v.selected = nil
		if !v.ctx.Undo() {
			v.Log.Info().Msg("nothing to undo")
		}
	}
	if gui.Button(rl.NewRectangle(144, y, 120, 28), "Rebuild") {
		v.framed = false
		v.rebuild()
	}

	rl.DrawText("LMB orbit  MMB pan  RMB pick  wheel zoom", 12, int32(height)-24, 10, colorTextMuted)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
