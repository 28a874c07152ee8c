package logseq

import "path"

// Asset is a file in the graph's assets folder.
type Asset struct {
	// Path locates the file on disk.
	Path string
}

// Name returns the asset identifier as authored in page links.
func (a Asset) Name() string {
	return PathAssets + "/" + path.Base(a.Path)
}
