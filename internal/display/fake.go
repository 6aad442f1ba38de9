package display

// Frame is one rendering recorded by FakeRenderer.
type Frame struct {
	Line1 string
	Line2 string
}

// FakeRenderer records renderings for test assertions.
type FakeRenderer struct {
	Frames []Frame

	// RenderError, if set, will be returned by Render.
	RenderError error

	Closed bool
}

// NewFakeRenderer creates an empty FakeRenderer.
func NewFakeRenderer() *FakeRenderer {
	return &FakeRenderer{}
}

// Render records the two lines.
func (f *FakeRenderer) Render(line1, line2 string) error {
	if f.RenderError != nil {
		return f.RenderError
	}
	f.Frames = append(f.Frames, Frame{Line1: line1, Line2: line2})
	return nil
}

// Close marks the renderer as closed.
func (f *FakeRenderer) Close() error {
	f.Closed = true
	return nil
}
