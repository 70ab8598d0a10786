package shelfview

import (
	"io/fs"

	vanilla "github.com/goliatone/go-shelfview/pkg/renderers/vanilla"
)

// RuntimeAssetsFS exposes the stylesheet and page script the HTML front-end
// links to, so Go applications can serve them without a build step.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(shelfview.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
