package web

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html static
var EmbeddedFS embed.FS

// ListEmbeddedFiles returns a list of all embedded files for debugging
func ListEmbeddedFiles() ([]string, error) {
	var files []string
	err := fs.WalkDir(EmbeddedFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// staticFS returns the configured static directory, or the embedded copy
func (s *WebServer) staticFS() (fs.FS, error) {
	if dir := s.Config.Web.StaticDir; dir != "" {
		return os.DirFS(s.Config.Resolve(dir)), nil
	}
	return fs.Sub(EmbeddedFS, "static")
}

// StaticHandler returns a Gin handler serving files from fsys for a
// route registered as "<prefix>/*filepath"
func StaticHandler(fsys fs.FS, debug bool) gin.HandlerFunc {
	// Create an HTTP filesystem handler
	fileServer := http.FileServer(http.FS(fsys))

	return func(c *gin.Context) {
		path := c.Param("filepath")
		if path == "" || strings.HasSuffix(path, "/") {
			// no directory listings
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		// Update the request URL path for the file server
		c.Request.URL.Path = path

		if debug {
			c.Header("Cache-Control", "no-cache")
		} else {
			c.Header("Cache-Control", "public, max-age=3600") // browser caches an hour
		}

		// Serve the file
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
