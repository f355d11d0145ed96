package model

// DashboardStats aggregates the headline numbers shown on the home page.
type DashboardStats struct {
	TotalStudents        int   `json:"total_students"`
	ActiveStudents       int   `json:"active_students"`
	TotalTeachers        int   `json:"total_teachers"`
	TotalCourses         int   `json:"total_courses"`
	UpcomingClasses      int   `json:"upcoming_classes"`
	MonthlyRevenueCents  int64 `json:"monthly_revenue_cents"`
	PendingPaymentsCents int64 `json:"pending_payments_cents"`
}
