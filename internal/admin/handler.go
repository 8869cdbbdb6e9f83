package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nardos-Amakele/TutorSite/internal/booking"
	"github.com/Nardos-Amakele/TutorSite/internal/logger"
	"github.com/Nardos-Amakele/TutorSite/internal/teacher"
	"github.com/Nardos-Amakele/TutorSite/internal/user"
)

type Handler struct {
	stats    Repository
	users    user.Repository
	teachers teacher.Service
	bookings booking.Service
}

func NewHandler(stats Repository, users user.Repository, teachers teacher.Service, bookings booking.Service) *Handler {
	return &Handler{
		stats:    stats,
		users:    users,
		teachers: teachers,
		bookings: bookings,
	}
}

// Stats godoc
// @Summary      Platform statistics
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Stats
// @Router       /admin/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.stats.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListTeachers godoc
// @Summary      List or search teachers
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        subject   query     string  false  "Subject substring"
// @Param        name      query     string  false  "Name substring"
// @Param        verified  query     bool    false  "Verified filter"
// @Param        banned    query     bool    false  "Banned filter"
// @Success      200  {array}  teacher.Teacher
// @Router       /admin/teachers [get]
func (h *Handler) ListTeachers(c *gin.Context) {
	filter := teacher.SearchFilter{
		Subject:       c.Query("subject"),
		Name:          c.Query("name"),
		Qualification: c.Query("qualification"),
	}
	var ok bool
	if filter.Verified, ok = boolQuery(c, "verified"); !ok {
		return
	}
	if filter.Banned, ok = boolQuery(c, "banned"); !ok {
		return
	}

	teachers, err := h.teachers.Search(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list teachers"})
		return
	}
	c.JSON(http.StatusOK, teachers)
}

// ListStudents godoc
// @Summary      List or search students
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        name    query     string  false  "Name substring"
// @Param        email   query     string  false  "Email substring"
// @Param        banned  query     bool    false  "Banned filter"
// @Success      200  {array}  user.User
// @Router       /admin/students [get]
func (h *Handler) ListStudents(c *gin.Context) {
	banned, ok := boolQuery(c, "banned")
	if !ok {
		return
	}

	students, err := h.users.SearchByRole(c.Request.Context(), user.RoleStudent,
		c.Query("name"), c.Query("email"), banned)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list students"})
		return
	}
	c.JSON(http.StatusOK, students)
}

// SetBanned godoc
// @Summary      Ban or unban an account
// @Description  The role path segment guards against banning an id of the wrong kind.
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        role    path      string            true  "student or teacher"
// @Param        userID  path      int               true  "User ID"
// @Param        request body      SetBannedRequest  true  "Ban flag"
// @Success      200     {object}  user.User
// @Failure      404     {object}  gin.H
// @Router       /admin/users/{role}/{userID}/ban [patch]
func (h *Handler) SetBanned(c *gin.Context) {
	role := c.Param("role")
	if role != user.RoleStudent && role != user.RoleTeacher {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be student or teacher"})
		return
	}

	userID, err := strconv.Atoi(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req SetBannedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.users.SetBanned(c.Request.Context(), userID, role, *req.Banned)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	logger.Info("account ban changed", "user_id", userID, "role", role, "banned", *req.Banned)
	c.JSON(http.StatusOK, u)
}

// SetVerified godoc
// @Summary      Verify or unverify a teacher
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        teacherID  path      int                 true  "Teacher ID"
// @Param        request    body      SetVerifiedRequest  true  "Verified flag"
// @Success      200        {object}  teacher.Teacher
// @Failure      404        {object}  gin.H
// @Router       /admin/teachers/{teacherID}/verify [patch]
func (h *Handler) SetVerified(c *gin.Context) {
	teacherID, err := strconv.Atoi(c.Param("teacherID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid teacher ID"})
		return
	}

	var req SetVerifiedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.teachers.SetVerified(c.Request.Context(), teacherID, *req.Verified)
	if err != nil {
		if errors.Is(err, teacher.ErrTeacherNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Teacher not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update teacher"})
		return
	}
	c.JSON(http.StatusOK, t)
}

// ListBookings godoc
// @Summary      View all bookings
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        teacher_id  query     int     false  "Teacher filter"
// @Param        student_id  query     int     false  "Student filter"
// @Param        status      query     string  false  "Status filter"
// @Param        date        query     string  false  "Date filter (YYYY-MM-DD)"
// @Success      200  {array}  booking.BookingWithNames
// @Router       /admin/bookings [get]
func (h *Handler) ListBookings(c *gin.Context) {
	filter := booking.AdminFilter{
		Status: c.Query("status"),
		Date:   c.Query("date"),
	}
	if v := c.Query("teacher_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "teacher_id must be an integer"})
			return
		}
		filter.TeacherID = id
	}
	if v := c.Query("student_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "student_id must be an integer"})
			return
		}
		filter.StudentID = id
	}

	bookings, err := h.bookings.ListAll(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bookings"})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// CancelBooking godoc
// @Summary      Cancel any booking
// @Description  Moderation cancel, not restricted to the booking's participants.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200  {object}  booking.Booking
// @Failure      404  {object}  gin.H
// @Failure      409  {object}  gin.H
// @Router       /admin/bookings/{bookingID}/cancel [patch]
func (h *Handler) CancelBooking(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	b, err := h.bookings.CancelAsAdmin(c.Request.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, booking.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "Booking is not in a state that allows cancelling"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel booking"})
		}
		return
	}

	logger.Info("booking cancelled by admin", "booking_id", bookingID)
	c.JSON(http.StatusOK, b)
}

// boolQuery parses an optional boolean query parameter. On a malformed
// value it writes the 400 itself and reports !ok.
func boolQuery(c *gin.Context, name string) (*bool, bool) {
	v := c.Query(name)
	if v == "" {
		return nil, true
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be true or false"})
		return nil, false
	}
	return &parsed, true
}
