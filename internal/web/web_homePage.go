package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// homePage renders the event map. The page itself carries no event data,
// the client fetches /events.
func (s *WebServer) homePage(c *gin.Context) {
	data := s.getBaseTemplateData(c, "Event Map")

	if err := s.renderTemplate(c, http.StatusOK, "index.html", data); err != nil {
		s.renderError(c, http.StatusInternalServerError, "Template error", err.Error())
		return
	}
}
