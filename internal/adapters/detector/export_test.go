// export_test.go exports private functions for white-box testing.
package detector

// NewWith creates a Detector with a fixed terminal answer and environment lookup.
func NewWith(isTerminal bool, getenv func(string) string) *Detector {
	return &Detector{
		isTerminal: func() bool { return isTerminal },
		getenv:     getenv,
	}
}
