package adoptions

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrSubmitInProgress  = errors.New("submit already in progress")
	ErrFormSubmitted     = errors.New("application already submitted")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrDogUnavailable    = errors.New("dog is not available for adoption")
)

type Status string

const (
	StatusInProcess Status = "IN_PROCESS"
	StatusApproved  Status = "APPROVED"
	StatusDenied    Status = "DENIED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusInProcess, StatusApproved, StatusDenied:
		return true
	}
	return false
}

var AllStatuses = []Status{StatusInProcess, StatusApproved, StatusDenied}

// BadgeLabel: "In process" para IN_PROCESS, el status en minúsculas para el resto.
func BadgeLabel(s Status) string {
	if s == StatusInProcess {
		return "In process"
	}
	return strings.ToLower(string(s))
}

type HousingType string

const (
	HousingHouse     HousingType = "HOUSE"
	HousingApartment HousingType = "APARTMENT"
	HousingOther     HousingType = "OTHER"
)

func (h HousingType) Valid() bool {
	switch h {
	case HousingHouse, HousingApartment, HousingOther:
		return true
	}
	return false
}

// AdoptionRequest es el AdoptionRequestResponse del backend.
type AdoptionRequest struct {
	ID                 string      `json:"id"`
	RequesterFirstName string      `json:"requesterFirstName"`
	RequesterLastName  string      `json:"requesterLastName"`
	RequesterEmail     string      `json:"requesterEmail"`
	HousingType        HousingType `json:"housingType"`
	HouseholdSize      int         `json:"householdSize"`
	Motivation         string      `json:"motivation"`
	DaytimeLocation    string      `json:"daytimeLocation,omitempty"`
	DogID              string      `json:"dogId"`
	DogName            string      `json:"dogName"`
	Status             Status      `json:"status"`
	CreatedAt          *time.Time  `json:"createdAt,omitempty"`
	UpdatedAt          *time.Time  `json:"updatedAt,omitempty"`
}

// Badge se agrega a las respuestas del dashboard.
func (r AdoptionRequest) Badge() string { return BadgeLabel(r.Status) }

// Payload es el AdoptionRequestRequest (POST público).
type Payload struct {
	RequesterFirstName string      `json:"requesterFirstName"`
	RequesterLastName  string      `json:"requesterLastName"`
	RequesterEmail     string      `json:"requesterEmail"`
	HousingType        HousingType `json:"housingType"`
	HouseholdSize      int         `json:"householdSize"`
	Motivation         string      `json:"motivation"`
	DaytimeLocation    string      `json:"daytimeLocation,omitempty"`
	DogID              string      `json:"dogId"`
}
