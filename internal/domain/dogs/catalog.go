package dogs

import (
	"fmt"
	"strings"
)

type AgeRange string

const (
	AgePuppy  AgeRange = "puppy"
	AgeYoung  AgeRange = "young"
	AgeAdult  AgeRange = "adult"
	AgeSenior AgeRange = "senior"
)

func (a AgeRange) Valid() bool {
	switch a {
	case AgePuppy, AgeYoung, AgeAdult, AgeSenior:
		return true
	}
	return false
}

// AgeRangeOf: puppy <= 1, young 2-3, adult 4-7, senior >= 8.
func AgeRangeOf(age int) AgeRange {
	switch {
	case age <= 1:
		return AgePuppy
	case age <= 3:
		return AgeYoung
	case age <= 7:
		return AgeAdult
	default:
		return AgeSenior
	}
}

// CatalogQuery son los filtros públicos. El status siempre es AVAILABLE.
type CatalogQuery struct {
	Gender   Gender
	Size     Size
	AgeRange AgeRange
	Page     int
}

func (q CatalogQuery) normalize() CatalogQuery {
	q.Gender = Gender(strings.ToUpper(strings.TrimSpace(string(q.Gender))))
	q.Size = Size(strings.ToUpper(strings.TrimSpace(string(q.Size))))
	q.AgeRange = AgeRange(strings.ToLower(strings.TrimSpace(string(q.AgeRange))))
	if q.Page < 0 {
		q.Page = 0
	}
	return q
}

func (q CatalogQuery) Validate() error {
	n := q.normalize()
	if n.Gender != "" && !n.Gender.Valid() {
		return fmt.Errorf("%w: gender", ErrInvalidInput)
	}
	if n.Size != "" && !n.Size.Valid() {
		return fmt.Errorf("%w: size", ErrInvalidInput)
	}
	if n.AgeRange != "" && !n.AgeRange.Valid() {
		return fmt.Errorf("%w: ageRange", ErrInvalidInput)
	}
	return nil
}

// Params: gender y size van al filtro del backend; la edad se filtra local.
func (q CatalogQuery) Params() ListParams {
	n := q.normalize()
	return ListParams{
		Page:    n.Page,
		Size:    DefaultPageSize,
		Status:  StatusAvailable,
		Gender:  n.Gender,
		DogSize: n.Size,
	}.Normalize()
}

func (q CatalogQuery) matches(d Dog) bool {
	n := q.normalize()
	if n.Gender != "" && d.Gender != n.Gender {
		return false
	}
	if n.Size != "" && d.Size != n.Size {
		return false
	}
	if n.AgeRange != "" && AgeRangeOf(d.Age) != n.AgeRange {
		return false
	}
	return true
}

// CatalogDog es la tarjeta pública de un perro.
type CatalogDog struct {
	Dog
	AgeRange AgeRange `json:"ageRange"`
	PhotoSrc string   `json:"photoSrc,omitempty"`
	CanAdopt bool     `json:"canAdopt"`
}

func ToCatalogDog(d Dog) CatalogDog {
	return CatalogDog{
		Dog:      d,
		AgeRange: AgeRangeOf(d.Age),
		PhotoSrc: FileURL(d.Photo()),
		CanAdopt: d.Status == StatusAvailable,
	}
}

type CatalogPage struct {
	Items         []CatalogDog `json:"items"`
	Page          int          `json:"page"`
	TotalPages    int          `json:"totalPages"`
	TotalElements int64        `json:"totalElements"`
}
