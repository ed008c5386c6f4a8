package adoptions

import (
	"fmt"
	"strings"

	"shire-of-paws/internal/platform/validation"
)

// Draft son los valores crudos del formulario de adopción.
type Draft struct {
	RequesterFirstName string `json:"requesterFirstName"`
	RequesterLastName  string `json:"requesterLastName"`
	RequesterEmail     string `json:"requesterEmail"`
	HousingType        string `json:"housingType"`
	HouseholdSize      string `json:"householdSize"`
	Motivation         string `json:"motivation"`
	DaytimeLocation    string `json:"daytimeLocation"`
}

func (d *Draft) Set(field, value string) error {
	switch field {
	case "requesterFirstName":
		d.RequesterFirstName = value
	case "requesterLastName":
		d.RequesterLastName = value
	case "requesterEmail":
		d.RequesterEmail = value
	case "housingType":
		d.HousingType = value
	case "householdSize":
		d.HouseholdSize = value
	case "motivation":
		d.Motivation = value
	case "daytimeLocation":
		d.DaytimeLocation = value
	default:
		return fmt.Errorf("%w: unknown field %q", ErrInvalidInput, field)
	}
	return nil
}

type requestRules struct {
	RequesterFirstName string `json:"requesterFirstName" validate:"required"`
	RequesterLastName  string `json:"requesterLastName" validate:"required"`
	RequesterEmail     string `json:"requesterEmail" validate:"required,emailshape"`
	HousingType        string `json:"housingType" validate:"required,oneof=HOUSE APARTMENT OTHER"`
	HouseholdSize      *int   `json:"householdSize" validate:"required,min=1,max=20"`
	Motivation         string `json:"motivation" validate:"required,min=50"`
	DaytimeLocation    string `json:"daytimeLocation" validate:"omitempty,min=30"`
}

var requestMessages = validation.Messages{
	"requesterFirstName": {"*": "First name is required"},
	"requesterLastName":  {"*": "Last name is required"},
	"requesterEmail":     {"required": "Email is required", "*": "Email is invalid"},
	"housingType":        {"required": "Please select your housing type", "*": "Housing type is invalid"},
	"householdSize": {
		"required": "Household size is required",
		"min":      "Household size must be at least 1",
		"max":      "Household size must be at most 20",
	},
	"motivation":      {"required": "Please tell us why you want to adopt", "*": "Please provide at least 50 characters"},
	"daytimeLocation": {"*": "Please provide at least 30 characters"},
}

const msgHouseholdNumber = "Household size must be a number"

// Validate es puro; los textos se validan ya recortados.
func Validate(v *validation.Validator, d Draft) validation.FieldErrors {
	size, sizeOK := validation.ParseInt(d.HouseholdSize)

	errs := v.Check(requestRules{
		RequesterFirstName: strings.TrimSpace(d.RequesterFirstName),
		RequesterLastName:  strings.TrimSpace(d.RequesterLastName),
		RequesterEmail:     strings.TrimSpace(d.RequesterEmail),
		HousingType:        strings.TrimSpace(d.HousingType),
		HouseholdSize:      size,
		Motivation:         strings.TrimSpace(d.Motivation),
		DaytimeLocation:    strings.TrimSpace(d.DaytimeLocation),
	}, requestMessages)

	if !sizeOK {
		errs["householdSize"] = msgHouseholdNumber
	}
	return errs
}

// BuildPayload convierte householdSize a entero; el draft ya está validado.
func BuildPayload(d Draft, dogID string) Payload {
	size, _ := validation.ParseInt(d.HouseholdSize)
	n := 0
	if size != nil {
		n = *size
	}
	return Payload{
		RequesterFirstName: strings.TrimSpace(d.RequesterFirstName),
		RequesterLastName:  strings.TrimSpace(d.RequesterLastName),
		RequesterEmail:     strings.TrimSpace(d.RequesterEmail),
		HousingType:        HousingType(strings.TrimSpace(d.HousingType)),
		HouseholdSize:      n,
		Motivation:         strings.TrimSpace(d.Motivation),
		DaytimeLocation:    strings.TrimSpace(d.DaytimeLocation),
		DogID:              strings.TrimSpace(dogID),
	}
}
