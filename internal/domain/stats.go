package domain

// RoleCount is one bucket of the per-role user breakdown.
type RoleCount struct {
	Role  Role `json:"role"`
	Count int  `json:"count"`
}

// UserStats is the aggregate user breakdown shown on the dashboard.
type UserStats struct {
	Total    int         `json:"total"`
	Active   int         `json:"active"`
	Inactive int         `json:"inactive"`
	ByRole   []RoleCount `json:"byRole"`
}

// ProjectStats is the aggregate project breakdown shown on the dashboard.
type ProjectStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Archived int `json:"archived"`
	Deleted  int `json:"deleted"`
}
