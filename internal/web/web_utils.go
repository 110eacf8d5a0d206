// Package web provides the HTTP server and web interface for go-eventmap
package web

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-while/go-eventmap/internal/config"
)

// TemplateData represents common template data
type TemplateData struct {
	Title       template.HTML
	CurrentTime string
	AppVersion  string
	Debug       bool
}

// ErrorPageData represents data for the error page
type ErrorPageData struct {
	TemplateData
	Error      string
	Detail     string
	StatusCode int
}

// getBaseTemplateData creates a TemplateData struct with common information
func (s *WebServer) getBaseTemplateData(c *gin.Context, title string) TemplateData {
	return TemplateData{
		Title:       template.HTML(title),
		CurrentTime: time.Now().Format("2006-01-02 15:04:05"),
		AppVersion:  config.AppVersion,
		Debug:       s.Config.Web.Debug,
	}
}

// loadTemplate parses base.html plus the page template. With a template
// dir configured the files are re-read on every call so edits show up
// without a restart.
func (s *WebServer) loadTemplate(page string) (*template.Template, error) {
	if dir := s.Config.Web.TemplateDir; dir != "" {
		dir = s.Config.Resolve(dir)
		return template.ParseFiles(filepath.Join(dir, "base.html"), filepath.Join(dir, page))
	}
	return template.ParseFS(EmbeddedFS, "templates/base.html", "templates/"+page)
}

// renderTemplate renders a page template with base template data
func (s *WebServer) renderTemplate(c *gin.Context, statusCode int, page string, data interface{}) error {
	tmpl, err := s.loadTemplate(page)
	if err != nil {
		return err
	}
	// render into a buffer so a failing template does not leave half a page behind
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return err
	}
	c.Data(statusCode, "text/html; charset=utf-8", buf.Bytes())
	return nil
}

// renderError renders an error page
func (s *WebServer) renderError(c *gin.Context, statusCode int, message string, errstring string) {
	log.Printf("[ERROR]:internal/web: Error %d: %s - %s", statusCode, message, errstring)

	errorData := ErrorPageData{
		TemplateData: s.getBaseTemplateData(c, errorStatus(statusCode)),
		Error:        message,
		StatusCode:   statusCode,
	}
	if s.Config.Web.Debug {
		errorData.Detail = errstring
	}

	defer c.Abort()
	if err := s.renderTemplate(c, statusCode, "error.html", errorData); err != nil {
		log.Printf("Error rendering error template: %v", err)
		if s.Config.Web.Debug {
			c.String(statusCode, "Error: %s - %s", message, errstring)
		} else {
			c.String(statusCode, "Error: %s", message)
		}
	}
}

// errorStatus maps a status code to the text shown on error pages
func errorStatus(statusCode int) string {
	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	return "Error"
}
