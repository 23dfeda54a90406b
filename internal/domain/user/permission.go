package user

type Permission string

const (
	// Leave Management
	PermissionLeaveApprove Permission = "leave.approve"

	// Attendance Management
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceCreate  Permission = "attendance.create"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceManage  Permission = "attendance.manage"
	// PermissionAttendanceBackfill allows creating placeholders for past missing days
	PermissionAttendanceBackfill Permission = "attendance.backfill"

	// Overtime Management
	PermissionOvertimeViewAll Permission = "overtime.view_all"
	PermissionOvertimeManage  Permission = "overtime.manage"
	// PermissionOvertimeCancelExtraHours allows removing the overtime linked to a refused leave
	PermissionOvertimeCancelExtraHours Permission = "overtime.cancel_extra_hours"

	// Reports
	PermissionReportsView Permission = "reports.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		// Owner has all permissions
		PermissionLeaveApprove,
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionAttendanceBackfill,
		PermissionOvertimeViewAll,
		PermissionOvertimeManage,
		PermissionOvertimeCancelExtraHours,
		PermissionReportsView,
	},
	RoleManager: {
		// Manager can approve and correct team data
		PermissionLeaveApprove,
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionOvertimeViewAll,
		PermissionReportsView,
	},
	RoleEmployee: {
		// Employee has basic access
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
	},
	RolePending: {
		// Pending role has no permissions
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
