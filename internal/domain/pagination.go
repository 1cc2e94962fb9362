package domain

// Pagination describes the window a paginated listing came from. Counters are
// only as fresh as the last full list fetch; local splices do not touch them.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	Limit       int  `json:"limit"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// UserPage is one page of identities.
type UserPage struct {
	Items      []Identity `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// ProjectPage is one page of projects.
type ProjectPage struct {
	Items      []Project  `json:"items"`
	Pagination Pagination `json:"pagination"`
}
