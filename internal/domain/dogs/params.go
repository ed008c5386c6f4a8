package dogs

import (
	"fmt"
	"strings"
)

const (
	DefaultPageSize = 12
	DefaultSortBy   = "createdAt"
	DefaultSortDir  = "DESC"
)

// ListParams cubre list y filter. Con algún filtro se usa /api/dogs/filter.
type ListParams struct {
	Page    int    `json:"page"`
	Size    int    `json:"size"`
	SortBy  string `json:"sortBy"`
	SortDir string `json:"sortDir"`

	Status  Status `json:"status,omitempty"`
	Name    string `json:"name,omitempty"`
	Gender  Gender `json:"gender,omitempty"`
	DogSize Size   `json:"dogSize,omitempty"`
}

// Normalize aplica defaults y limpia strings.
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
	p.Gender = Gender(strings.ToUpper(strings.TrimSpace(string(p.Gender))))
	p.DogSize = Size(strings.ToUpper(strings.TrimSpace(string(p.DogSize))))
	p.Name = strings.TrimSpace(p.Name)
	return p
}

func (p ListParams) Filtered() bool {
	return p.Status != "" || p.Name != "" || p.Gender != "" || p.DogSize != ""
}

// Key es la clave de dependencia del listado (tupla normalizada).
func (p ListParams) Key() string {
	n := p.Normalize()
	return fmt.Sprintf("%d|%d|%s|%s|%s|%q|%s|%s",
		n.Page, n.Size, n.SortBy, n.SortDir, n.Status, n.Name, n.Gender, n.DogSize)
}

// Validate rechaza enums desconocidos (los vacíos son "sin filtro").
func (p ListParams) Validate() error {
	n := p.Normalize()
	if n.Status != "" && !n.Status.Valid() {
		return fmt.Errorf("%w: status", ErrInvalidInput)
	}
	if n.Gender != "" && !n.Gender.Valid() {
		return fmt.Errorf("%w: gender", ErrInvalidInput)
	}
	if n.DogSize != "" && !n.DogSize.Valid() {
		return fmt.Errorf("%w: size", ErrInvalidInput)
	}
	return nil
}
