package constant

// RBAC objects.
const (
	PermObjAccount  = "account"
	PermObjActivity = "activity"
	PermObjRegion   = "region"
)

// RBAC actions.
const (
	PermActRead   = "read"
	PermActWrite  = "write"
	PermActDelete = "delete"
	PermActExport = "export"
)
