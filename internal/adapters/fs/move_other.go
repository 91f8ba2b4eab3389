//go:build !linux

package fs

// renameNoReplace renames src to dst, failing with an error that matches
// fs.ErrExist when dst already exists.
func renameNoReplace(src, dst string) error {
	return linkNoReplace(src, dst)
}
