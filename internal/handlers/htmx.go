package handlers

import "github.com/gin-gonic/gin"

// Mutation events emitted via the HX-Trigger header so an HTMX frontend can
// refresh the affected fragments without parsing response bodies.
const (
	EventProjectCreated = "projectCreated"
	EventProjectUpdated = "projectUpdated"
	EventProjectDeleted = "projectDeleted"
	EventTaskCreated    = "taskCreated"
	EventTaskUpdated    = "taskUpdated"
	EventTaskDeleted    = "taskDeleted"
	EventTaskToggled    = "taskToggled"
)

func triggerEvent(c *gin.Context, event string) {
	c.Header("HX-Trigger", event)
}
