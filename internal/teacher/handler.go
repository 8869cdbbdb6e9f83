package teacher

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nardos-Amakele/TutorSite/internal/auth"
	"github.com/Nardos-Amakele/TutorSite/internal/user"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register godoc
// @Summary      Register teacher
// @Description  Creates a teacher account with its tutor profile and returns tokens.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "Registration data"
// @Success      201      {object}  map[string]interface{}
// @Failure      400      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Router       /auth/register/teacher [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, accessToken, refreshToken, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already taken, try another email or login"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"teacher":       t,
	})
}

// List godoc
// @Summary      List teachers
// @Tags         teachers
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Teacher
// @Failure      500  {object}  gin.H
// @Router       /teachers [get]
func (h *Handler) List(c *gin.Context) {
	teachers, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list teachers"})
		return
	}
	c.JSON(http.StatusOK, teachers)
}

// Search godoc
// @Summary      Search teachers
// @Description  Filters teachers by subject, name, qualification and verified flag.
// @Tags         teachers
// @Security     BearerAuth
// @Produce      json
// @Param        subject        query     string  false  "Subject substring"
// @Param        name           query     string  false  "Name substring"
// @Param        qualification  query     string  false  "Qualification substring"
// @Param        verified       query     bool    false  "Verified only"
// @Success      200  {array}   Teacher
// @Router       /teachers/search [get]
func (h *Handler) Search(c *gin.Context) {
	filter := SearchFilter{
		Subject:       c.Query("subject"),
		Name:          c.Query("name"),
		Qualification: c.Query("qualification"),
	}
	if v := c.Query("verified"); v != "" {
		verified, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "verified must be true or false"})
			return
		}
		filter.Verified = &verified
	}

	teachers, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search teachers"})
		return
	}
	c.JSON(http.StatusOK, teachers)
}

// GetByID godoc
// @Summary      Get teacher by id
// @Tags         teachers
// @Security     BearerAuth
// @Produce      json
// @Param        teacherID  path      int  true  "Teacher ID"
// @Success      200  {object}  Teacher
// @Failure      404  {object}  gin.H
// @Router       /teachers/{teacherID} [get]
func (h *Handler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("teacherID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid teacher ID"})
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTeacherNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Teacher not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get teacher"})
		return
	}
	c.JSON(http.StatusOK, t)
}

// GetProfile godoc
// @Summary      Get own teacher profile
// @Tags         teacher
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Teacher
// @Failure      404  {object}  gin.H
// @Router       /teacher/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	teacherID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), teacherID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Teacher not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

// UpdateProfile godoc
// @Summary      Update own teacher profile
// @Tags         teacher
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      UpdateProfileRequest  true  "Fields to update"
// @Success      200      {object}  Teacher
// @Failure      400      {object}  gin.H
// @Router       /teacher/profile [patch]
func (h *Handler) UpdateProfile(c *gin.Context) {
	teacherID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.service.UpdateProfile(c.Request.Context(), teacherID, req)
	if err != nil {
		if errors.Is(err, ErrTeacherNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Teacher not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, t)
}

// AddSubjects godoc
// @Summary      Add subjects taught
// @Tags         teacher
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      AddSubjectsRequest  true  "Subjects to add"
// @Success      200      {object}  Teacher
// @Failure      400      {object}  gin.H
// @Router       /teacher/subjects [post]
func (h *Handler) AddSubjects(c *gin.Context) {
	teacherID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req AddSubjectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.service.AddSubjects(c.Request.Context(), teacherID, req.Subjects)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add subjects"})
		return
	}
	c.JSON(http.StatusOK, t)
}

// RemoveSubject godoc
// @Summary      Remove a subject taught
// @Tags         teacher
// @Security     BearerAuth
// @Produce      json
// @Param        subject  path      string  true  "Subject to remove"
// @Success      200      {object}  Teacher
// @Router       /teacher/subjects/{subject} [delete]
func (h *Handler) RemoveSubject(c *gin.Context) {
	teacherID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subject := c.Param("subject")
	if subject == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subject is required"})
		return
	}

	t, err := h.service.RemoveSubject(c.Request.Context(), teacherID, subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove subject"})
		return
	}
	c.JSON(http.StatusOK, t)
}

// AddAvailability godoc
// @Summary      Declare a weekly availability window
// @Description  Adding an identical window twice is a no-op.
// @Tags         teacher
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      SlotRequest  true  "Weekly window"
// @Success      200      {array}   AvailabilitySlot
// @Failure      400      {object}  gin.H
// @Router       /teacher/availability [post]
func (h *Handler) AddAvailability(c *gin.Context) {
	teacherID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slots, err := h.service.AddAvailability(c.Request.Context(), teacherID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDay), errors.Is(err, ErrInvalidTimeRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrTeacherNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Teacher not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add availability"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": slots})
}

// RemoveAvailability godoc
// @Summary      Remove a weekly availability window
// @Tags         teacher
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      SlotRequest  true  "Weekly window"
// @Success      200      {array}   AvailabilitySlot
// @Failure      400      {object}  gin.H
// @Router       /teacher/availability [delete]
func (h *Handler) RemoveAvailability(c *gin.Context) {
	teacherID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slots, err := h.service.RemoveAvailability(c.Request.Context(), teacherID, req)
	if err != nil {
		if errors.Is(err, ErrInvalidDay) || errors.Is(err, ErrInvalidTimeRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove availability"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": slots})
}

// GetAvailability godoc
// @Summary      Get own declared availability
// @Tags         teacher
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  AvailabilitySlot
// @Router       /teacher/availability [get]
func (h *Handler) GetAvailability(c *gin.Context) {
	teacherID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	slots, err := h.service.GetAvailability(c.Request.Context(), teacherID)
	if err != nil {
		if errors.Is(err, ErrTeacherNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Teacher not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get availability"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": slots})
}
