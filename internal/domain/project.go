package domain

import (
	"encoding/json"
	"time"
)

// ProjectStatus is the lifecycle state of a project. Deletion is a status
// transition, never physical removal.
type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "ACTIVE"
	ProjectArchived ProjectStatus = "ARCHIVED"
	ProjectDeleted  ProjectStatus = "DELETED"
)

// Valid reports whether the status is one the API recognises.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectArchived, ProjectDeleted:
		return true
	}
	return false
}

// Project is a managed project. IsDeleted mirrors Status == DELETED (soft delete).
type Project struct {
	ID          string        `json:"_id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	IsDeleted   bool          `json:"isDeleted"`
	CreatedBy   CreatedBy     `json:"createdBy"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// CreatedBy is either a bare identity id or a populated identity, depending on
// whether the API expanded the reference.
type CreatedBy struct {
	ID       string
	Identity *Identity
}

func (c *CreatedBy) UnmarshalJSON(b []byte) error {
	var id string
	if err := json.Unmarshal(b, &id); err == nil {
		c.ID = id
		c.Identity = nil
		return nil
	}
	var ident Identity
	if err := json.Unmarshal(b, &ident); err != nil {
		return err
	}
	c.ID = ident.ID
	c.Identity = &ident
	return nil
}

func (c CreatedBy) MarshalJSON() ([]byte, error) {
	if c.Identity != nil {
		return json.Marshal(c.Identity)
	}
	return json.Marshal(c.ID)
}
