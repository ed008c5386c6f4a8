package adoptions

import (
	"fmt"
	"strings"
)

const (
	DefaultPageSize = 15
	DefaultSortBy   = "createdAt"
	DefaultSortDir  = "DESC"
)

// ListParams cubre list y filter de /api/adoption-requests.
type ListParams struct {
	Page    int    `json:"page"`
	Size    int    `json:"size"`
	SortBy  string `json:"sortBy"`
	SortDir string `json:"sortDir"`

	Status        Status `json:"status,omitempty"`
	DogID         string `json:"dogId,omitempty"`
	RequesterName string `json:"requesterName,omitempty"`
}

func (p ListParams) Normalize() ListParams {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	p.SortBy = strings.TrimSpace(p.SortBy)
	if p.SortBy == "" {
		p.SortBy = DefaultSortBy
	}
	p.SortDir = strings.ToUpper(strings.TrimSpace(p.SortDir))
	if p.SortDir != "ASC" {
		p.SortDir = DefaultSortDir
	}
	p.Status = Status(strings.ToUpper(strings.TrimSpace(string(p.Status))))
	p.DogID = strings.TrimSpace(p.DogID)
	p.RequesterName = strings.TrimSpace(p.RequesterName)
	return p
}

func (p ListParams) Filtered() bool {
	return p.Status != "" || p.DogID != "" || p.RequesterName != ""
}

func (p ListParams) Key() string {
	n := p.Normalize()
	return fmt.Sprintf("%d|%d|%s|%s|%s|%s|%q",
		n.Page, n.Size, n.SortBy, n.SortDir, n.Status, n.DogID, n.RequesterName)
}

func (p ListParams) Validate() error {
	n := p.Normalize()
	if n.Status != "" && !n.Status.Valid() {
		return fmt.Errorf("%w: status", ErrInvalidInput)
	}
	return nil
}
