package booking

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nardos-Amakele/TutorSite/internal/auth"
	"github.com/Nardos-Amakele/TutorSite/internal/teacher"
	"github.com/Nardos-Amakele/TutorSite/internal/user"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Book godoc
// @Summary      Book a teacher
// @Description  Creates a pending booking if the requested window does not overlap an active one.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      BookTeacherRequest  true  "Booking request"
// @Success      201      {object}  Booking
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Router       /bookings [post]
func (h *Handler) Book(c *gin.Context) {
	studentID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req BookTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.BookTeacher(c.Request.Context(), studentID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSlotTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Time slot is already booked"})
		case errors.Is(err, teacher.ErrTeacherNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Teacher not found"})
		case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrPastDate),
			errors.Is(err, ErrInvalidTimeRange), errors.Is(err, ErrSubjectNotTaught),
			errors.Is(err, ErrOutsideAvailability):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		}
		return
	}

	c.JSON(http.StatusCreated, b)
}

// List godoc
// @Summary      List own bookings
// @Description  Teachers see bookings on their calendar, students see bookings they made.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status"
// @Success      200     {array}   BookingWithNames
// @Router       /bookings [get]
func (h *Handler) List(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	role, _ := auth.GetRole(c)
	status := c.Query("status")

	var (
		bookings []BookingWithNames
		err      error
	)
	if role == user.RoleTeacher {
		bookings, err = h.service.ListForTeacher(c.Request.Context(), userID, status)
	} else {
		bookings, err = h.service.ListForStudent(c.Request.Context(), userID, status)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bookings"})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// Confirm godoc
// @Summary      Confirm a pending booking
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  Booking
// @Failure      403        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Failure      409        {object}  gin.H
// @Router       /bookings/{bookingID}/confirm [patch]
func (h *Handler) Confirm(c *gin.Context) {
	h.changeStatus(c, h.service.Confirm)
}

// Decline godoc
// @Summary      Decline a pending booking
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  Booking
// @Router       /bookings/{bookingID}/decline [patch]
func (h *Handler) Decline(c *gin.Context) {
	h.changeStatus(c, h.service.Decline)
}

// Cancel godoc
// @Summary      Cancel a pending or confirmed booking
// @Description  Cancelling frees the interval for new bookings.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  Booking
// @Router       /bookings/{bookingID}/cancel [patch]
func (h *Handler) Cancel(c *gin.Context) {
	h.changeStatus(c, h.service.Cancel)
}

// Complete godoc
// @Summary      Mark a confirmed booking as completed
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  Booking
// @Router       /bookings/{bookingID}/complete [patch]
func (h *Handler) Complete(c *gin.Context) {
	h.changeStatus(c, h.service.Complete)
}

func (h *Handler) changeStatus(c *gin.Context, fn func(ctx context.Context, bookingID, userID int) (*Booking, error)) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	b, err := fn(c.Request.Context(), bookingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, ErrNotParticipant):
			c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to modify this booking"})
		case errors.Is(err, ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "Booking is not in a state that allows this change"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update booking"})
		}
		return
	}

	c.JSON(http.StatusOK, b)
}

// Slots godoc
// @Summary      Resolve open slots for a teacher
// @Description  Subtracts active bookings from the teacher's declared availability. Without a date the whole weekly schedule is resolved.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        teacherID  path      int     true   "Teacher ID"
// @Param        date       query     string  false  "Date (YYYY-MM-DD)"
// @Success      200        {array}   OpenSlot
// @Failure      400        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Router       /teachers/{teacherID}/slots [get]
func (h *Handler) Slots(c *gin.Context) {
	teacherID, err := strconv.Atoi(c.Param("teacherID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid teacher ID"})
		return
	}

	date := c.Query("date")
	slots, err := h.service.GetAvailableSlots(c.Request.Context(), teacherID, date)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDate):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, teacher.ErrTeacherNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Teacher not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve slots"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": date, "slots": slots})
}
