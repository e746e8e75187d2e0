// Package catalog lists the product images the bot attaches to welcome
// messages for unknown senders.
package catalog

import (
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Lister provides the catalog image URLs, in sending order.
type Lister interface {
	ImageURLs() []string
}

// imageExtensions are the file types served as catalog images.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// DirLister lists images from a local directory, mapping each file onto a
// public base URL. The directory is rescanned on every call so newly dropped
// images show up without a restart.
type DirLister struct {
	dir     string
	baseURL string
}

// NewDirLister creates a lister over dir, publishing files under baseURL.
func NewDirLister(dir, baseURL string) *DirLister {
	return &DirLister{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Dir returns the scanned directory, for the HTTP layer to serve from.
func (l *DirLister) Dir() string {
	return l.dir
}

// ImageURLs returns one URL per image file, sorted by file name. A missing
// or unreadable directory yields an empty listing, not an error: the welcome
// message simply goes out without images.
func (l *DirLister) ImageURLs() []string {
	if l.dir == "" || l.baseURL == "" {
		return nil
	}
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		slog.Warn("Catalog image directory not readable", "dir", l.dir, "error", err)
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	urls := make([]string, 0, len(names))
	for _, name := range names {
		urls = append(urls, l.baseURL+"/"+url.PathEscape(name))
	}
	return urls
}

// StaticLister serves a fixed URL list; used in tests and for deployments
// that host images elsewhere.
type StaticLister []string

func (l StaticLister) ImageURLs() []string {
	return l
}
