package components

import "autoragdoll/internal/engine"

// EmptyDisplay is how a data-less object is drawn.
type EmptyDisplay string

const (
	EmptyArrows      EmptyDisplay = "ARROWS"
	EmptySingleArrow EmptyDisplay = "SINGLE_ARROW"
	EmptyPlainAxes   EmptyDisplay = "PLAIN_AXES"
)

// Empty is display metadata for objects without geometry (joints, anchors).
type Empty struct {
	engine.BaseComponent
	Display EmptyDisplay
	Size    float32
}

func NewEmpty(display EmptyDisplay, size float32) *Empty {
	return &Empty{Display: display, Size: size}
}

func (e *Empty) TypeName() string { return "Empty" }

func (e *Empty) Serialize() map[string]any {
	return map[string]any{
		"type":    "Empty",
		"display": string(e.Display),
		"size":    e.Size,
	}
}
