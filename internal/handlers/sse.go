package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-backend/internal/realtime"
)

type SSEHandler struct {
	hub *realtime.Hub
}

func NewSSEHandler(hub *realtime.Hub) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// Stream opens an SSE connection subscribed to the channels named in the
// comma-separated "channels" query parameter.
func (sh *SSEHandler) Stream(c *gin.Context) {
	client := sh.hub.NewClient(currentUserID(c))
	defer sh.hub.CloseClient(client)

	for _, ch := range strings.Split(c.Query("channels"), ",") {
		sh.hub.AddChannel(client, ch)
	}

	sh.hub.ServeHTTP(c.Writer, c.Request, client)
}
