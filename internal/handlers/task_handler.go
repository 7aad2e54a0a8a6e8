package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"task-marketplace-api/internal/lifecycle"
	"task-marketplace-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Reward      float64 `json:"reward"`
	Deadline    string  `json:"deadline" binding:"required"`
	TaskType    string  `json:"taskType"`
}

// UpdateTaskRequest represents the request payload for updating a task
type UpdateTaskRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Location    *string  `json:"location"`
	Reward      *float64 `json:"reward"`
	Deadline    *string  `json:"deadline"`
}

func parseDateFlexible(dateStr string) (time.Time, bool) {
	if dateStr == "" {
		return time.Time{}, false
	}
	layouts := []string{
		time.RFC3339,       // full RFC3339
		"2006-01-02T15:04", // datetime-local input
		"2006-01-02",       // ISO date
		"2 Jan 2006",       // e.g., 30 Oct 2025
		"02 Jan 2006",      // zero-padded day
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

/*
*
ListTasks handles GET /api/tasks
Returns the tasks created by the authenticated user.
Query params: page (default 1), limit (default 20), sort (asc|desc on created_at, default desc).
*/
func (h *Handler) ListTasks(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	sortParam := strings.ToLower(c.DefaultQuery("sort", "desc"))

	tasks, err := h.Lifecycle.ListCreatedTasks(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	// the service lists newest first
	if sortParam == "asc" {
		for i, j := 0, len(tasks)-1; i < j; i, j = i+1, j-1 {
			tasks[i], tasks[j] = tasks[j], tasks[i]
		}
	}

	total := len(tasks)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	pageTasks := tasks[start:end]

	c.JSON(http.StatusOK, gin.H{
		"tasks": pageTasks,
		"count": len(pageTasks), // number of items in this page
		"total": total,
		"page":  page,
		"limit": limit,
		"sort":  sortParam,
	})
}

// ListAppliedTasks handles GET /api/tasks/applied
func (h *Handler) ListAppliedTasks(c *gin.Context) {
	tasks, err := h.Lifecycle.ListAppliedTasks(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
}

// GetTask handles GET /api/tasks/:id
func (h *Handler) GetTask(c *gin.Context) {
	task, err := h.Lifecycle.GetTask(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTask handles POST /api/tasks
func (h *Handler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request. Title and deadline are required.")
		return
	}
	deadline, ok := parseDateFlexible(req.Deadline)
	if !ok {
		badRequest(c, "Invalid deadline")
		return
	}

	task, err := h.Lifecycle.CreateTask(c.Request.Context(), middleware.UserID(c), lifecycle.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Reward:      req.Reward,
		Deadline:    deadline,
		TaskType:    req.TaskType,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// UpdateTask handles PUT /api/tasks/:id
func (h *Handler) UpdateTask(c *gin.Context) {
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	in := lifecycle.EditTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Reward:      req.Reward,
	}
	if req.Deadline != nil {
		deadline, ok := parseDateFlexible(*req.Deadline)
		if !ok {
			badRequest(c, "Invalid deadline")
			return
		}
		in.Deadline = &deadline
	}

	task, err := h.Lifecycle.EditTask(c.Request.Context(), middleware.UserID(c), c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// CancelTask handles POST /api/tasks/:id/cancel
func (h *Handler) CancelTask(c *gin.Context) {
	task, err := h.Lifecycle.CancelTask(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}
