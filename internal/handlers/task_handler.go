package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eden-api/internal/auth"
	"eden-api/internal/conditions"
	"eden-api/internal/services"
)

// TaskHandler handles task listing, condition checks and completion
type TaskHandler struct {
	taskService *services.TaskService
	linkVisits  *conditions.LinkVisitStore
}

// NewTaskHandler creates a new TaskHandler. linkVisits may be nil when redis
// is not configured.
func NewTaskHandler(taskService *services.TaskService, linkVisits *conditions.LinkVisitStore) *TaskHandler {
	return &TaskHandler{taskService: taskService, linkVisits: linkVisits}
}

// List returns the tasks visible to the user.
// GET /api/tasks
func (h *TaskHandler) List(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tasks, err := h.taskService.ListVisibleTasks(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// Check reports whether the task's condition currently holds for the user.
// GET /api/tasks/:id/check
func (h *TaskHandler) Check(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	satisfied, err := h.taskService.CheckCondition(c.Request.Context(), userID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"satisfied": satisfied})
}

// Complete verifies the condition and settles the task reward.
// POST /api/tasks/:id/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	userTask, err := h.taskService.CompleteTask(c.Request.Context(), userID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_task": userTask})
}

// Visit records that the user followed a tracked task link.
// POST /api/tasks/:id/visit
func (h *TaskHandler) Visit(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if h.linkVisits == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "link tracking not configured"})
		return
	}

	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.linkVisits.MarkVisited(c.Request.Context(), userID, req.URL); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recorded": true})
}

func taskIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return 0, false
	}
	return uint(id), true
}
