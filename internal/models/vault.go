package models

// Folder is one node in the vault structure tree. Paths are relative to the
// vault root with forward slashes; the root node has an empty path and the
// name "Root".
type Folder struct {
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	Files   []File    `json:"files"`
	Folders []*Folder `json:"folders"`
}

// File is a markdown file entry inside a Folder node.
type File struct {
	Name string `json:"name"`
	Path string `json:"path"`
}
