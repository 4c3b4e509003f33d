package render

// NoopRenderer passes input through unchanged. Use it when the input file is
// already a text rendering.
type NoopRenderer struct{}

// NewNoop creates a pass-through renderer.
func NewNoop() *NoopRenderer {
	return &NoopRenderer{}
}

// Render returns the input unchanged.
func (r *NoopRenderer) Render(text string) (string, error) {
	return text, nil
}

// Name returns the renderer type.
func (r *NoopRenderer) Name() string {
	return "noop"
}
