package render

// RenderOptions describe per-request data that renderers can use to
// customise their output without touching the form itself.
type RenderOptions struct {
	// Values pre-populates rendered controls, keyed by field id. A value
	// is a string, or a selection list for checkbox groups.
	Values map[string]any
	// Errors surfaces validation feedback keyed by field id. Each field
	// carries at most one message: validation stops at the first failing
	// rule.
	Errors map[string]string
	// Step limits output to the fields of one step. Zero renders every
	// step in sequence.
	Step int
	// Theme carries the resolved presentation tokens. Renderers that
	// cannot use them (the terminal filler) ignore the field.
	Theme *ThemeConfig
}
