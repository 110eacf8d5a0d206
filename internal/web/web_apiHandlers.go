package web

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-while/go-eventmap/internal/events"
)

// getEvents returns the events document exactly as stored on disk.
// The file is read and parsed on every request.
func (s *WebServer) getEvents(c *gin.Context) {
	doc, err := s.Events.Load(c.Request.Context())
	if err != nil {
		s.eventsError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", doc.JSON())
}

// eventsError answers a failed load with 500 and a JSON error body.
// The underlying error is only exposed in debug mode.
func (s *WebServer) eventsError(c *gin.Context, err error) {
	var message, reason string
	switch {
	case errors.Is(err, events.ErrNotFound):
		message, reason = events.ErrNotFound.Error(), "not_found"
	case errors.Is(err, events.ErrUnreadable):
		message, reason = events.ErrUnreadable.Error(), "unreadable"
	case errors.Is(err, events.ErrMalformed):
		message, reason = events.ErrMalformed.Error(), "malformed"
	default:
		message, reason = "events document unavailable", "other"
	}
	s.Metrics.LoadFailure(reason)
	log.Printf("[EVENTS]: load %s failed: %v", s.Events.Path(), err)

	body := gin.H{"error": message}
	if s.Config.Web.Debug {
		body["detail"] = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}
