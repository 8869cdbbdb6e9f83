package resource

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nardos-Amakele/TutorSite/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Add godoc
// @Summary      Share a study resource
// @Tags         resources
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateResourceRequest  true  "Resource data"
// @Success      201      {object}  Resource
// @Failure      400      {object}  gin.H
// @Router       /teacher/resources [post]
func (h *Handler) Add(c *gin.Context) {
	teacherID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.Add(c.Request.Context(), teacherID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to share resource"})
		return
	}
	c.JSON(http.StatusCreated, res)
}

// List godoc
// @Summary      List shared resources
// @Tags         resources
// @Security     BearerAuth
// @Produce      json
// @Param        subject     query     string  false  "Subject substring"
// @Param        teacher_id  query     int     false  "Sharing teacher"
// @Success      200         {array}   ResourceWithTeacher
// @Router       /resources [get]
func (h *Handler) List(c *gin.Context) {
	filter := Filter{Subject: c.Query("subject")}
	if v := c.Query("teacher_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "teacher_id must be an integer"})
			return
		}
		filter.TeacherID = id
	}

	resources, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list resources"})
		return
	}
	c.JSON(http.StatusOK, resources)
}

// Delete godoc
// @Summary      Remove a resource
// @Description  Teachers remove their own resources, admins remove any.
// @Tags         resources
// @Security     BearerAuth
// @Produce      json
// @Param        resourceID  path      int  true  "Resource ID"
// @Success      200         {object}  gin.H
// @Failure      403         {object}  gin.H
// @Failure      404         {object}  gin.H
// @Router       /resources/{resourceID} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	role, _ := auth.GetRole(c)

	id, err := strconv.Atoi(c.Param("resourceID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID, role); err != nil {
		switch {
		case errors.Is(err, ErrResourceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to remove this resource"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove resource"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Resource removed"})
}
