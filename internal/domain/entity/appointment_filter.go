package entity

// AppointmentFilter is a domain-level filter for querying appointments.
// Used by repository layer to avoid coupling with delivery DTOs.
type AppointmentFilter struct {
	StartDate  string // Format: YYYY-MM-DD, inclusive
	EndDate    string // Format: YYYY-MM-DD, inclusive
	DoctorName string
	Department string
	Status     AppointmentStatus
}
