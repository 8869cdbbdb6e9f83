package admin

// Stats is the platform overview shown on the admin dashboard.
type Stats struct {
	TotalStudents    int `db:"total_students" json:"total_students"`
	TotalTeachers    int `db:"total_teachers" json:"total_teachers"`
	VerifiedTeachers int `db:"verified_teachers" json:"verified_teachers"`
	BannedUsers      int `db:"banned_users" json:"banned_users"`
	TotalBookings    int `db:"total_bookings" json:"total_bookings"`
	ActiveBookings   int `db:"active_bookings" json:"active_bookings"`
	TotalResources   int `db:"total_resources" json:"total_resources"`
}

type SetBannedRequest struct {
	Banned *bool `json:"banned" binding:"required"`
}

type SetVerifiedRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}
