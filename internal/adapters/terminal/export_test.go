// export_test.go exports private functions for white-box testing.
package terminal

// SetWidth fixes the terminal width used to cut status lines.
func (r *Renderer) SetWidth(cols int) {
	r.width = func() int { return cols }
}
