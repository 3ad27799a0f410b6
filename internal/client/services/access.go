package services

import (
	"slices"

	"github.com/dmitrijs2005/carekeeper/internal/client/models"
)

// LoginRoute is the only route open to anonymous users.
const LoginRoute = "login"

var roleRoutes = map[models.Role][]string{
	models.RolePatient: {
		"dashboard", "appointments", "book-appointment", "medical-records",
		"prescriptions", "lab-results", "messages", "billing", "profile",
	},
	models.RoleDoctor: {
		"dashboard", "patients", "appointments", "schedule", "medical-records",
		"prescriptions", "lab-results", "analytics", "messages", "profile",
	},
}

var rolePermissions = map[models.Role][]string{
	models.RolePatient: {
		"view_own_records", "book_appointment", "cancel_appointment",
		"view_prescriptions", "view_lab_results", "message_doctor",
		"view_billing", "update_profile",
	},
	models.RoleDoctor: {
		"view_patient_records", "edit_patient_records", "manage_appointments",
		"manage_schedule", "write_prescriptions", "order_lab_tests",
		"access_analytics", "message_patient", "update_profile",
	},
}

// RoutesFor returns a copy of the role's route allow-list.
func RoutesFor(role models.Role) []string {
	return slices.Clone(roleRoutes[role])
}

// PermissionsFor returns a copy of the role's permissions; never nil.
func PermissionsFor(role models.Role) []string {
	p := rolePermissions[role]
	if p == nil {
		return []string{}
	}
	return slices.Clone(p)
}
