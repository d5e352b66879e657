// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package codeblock

// FileSet is an ordered mapping from filename to file body. Names keep the
// position of their first appearance; adding an existing name replaces its
// body in place.
type FileSet struct {
	names  []string
	bodies map[string]string
}

// NewFileSet returns an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{bodies: make(map[string]string)}
}

// Add inserts or replaces the body for name.
func (fs *FileSet) Add(name, body string) {
	if _, exists := fs.bodies[name]; !exists {
		fs.names = append(fs.names, name)
	}
	fs.bodies[name] = body
}

// Len returns the number of files.
func (fs *FileSet) Len() int {
	return len(fs.names)
}

// Names returns filenames in discovery order.
func (fs *FileSet) Names() []string {
	out := make([]string, len(fs.names))
	copy(out, fs.names)
	return out
}

// Body returns the body for name and whether it exists.
func (fs *FileSet) Body(name string) (string, bool) {
	body, ok := fs.bodies[name]
	return body, ok
}
