package user

type Permission string

const (
	// Attendance
	PermissionAttendanceView    Permission = "attendance.view"
	PermissionAttendanceMark    Permission = "attendance.mark"
	PermissionAttendanceConfirm Permission = "attendance.confirm"

	// Payroll
	PermissionPaymentView   Permission = "payment.view"
	PermissionPaymentRecord Permission = "payment.record"
	PermissionPenaltyView   Permission = "penalty.view"
	PermissionPenaltyRecord Permission = "penalty.record"

	// Reports
	PermissionReportsView Permission = "reports.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionAttendanceView,
		PermissionAttendanceMark,
		PermissionAttendanceConfirm,
		PermissionPaymentView,
		PermissionPaymentRecord,
		PermissionPenaltyView,
		PermissionPenaltyRecord,
		PermissionReportsView,
	},
	RoleSupervisor: {
		PermissionAttendanceView,
		PermissionAttendanceMark,
		PermissionAttendanceConfirm,
		PermissionPenaltyView,
	},
	RoleAccountant: {
		PermissionAttendanceView,
		PermissionPaymentView,
		PermissionPaymentRecord,
		PermissionPenaltyView,
		PermissionPenaltyRecord,
		PermissionReportsView,
	},
	RoleSiteEngineer: {
		PermissionAttendanceView,
		PermissionAttendanceMark,
	},
	RoleViewer: {
		PermissionAttendanceView,
		PermissionPaymentView,
		PermissionPenaltyView,
		PermissionReportsView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
