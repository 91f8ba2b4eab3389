// export_test.go exports private functions for white-box testing.
package fs

// SetRename replaces the no-clobber rename used by the Renamer.
func (r *Renamer) SetRename(fn func(src, dst string) error) {
	r.rename = fn
}

var (
	CopyAcross      = copyAcross
	Extension       = extension
	RenameNoReplace = renameNoReplace
)
