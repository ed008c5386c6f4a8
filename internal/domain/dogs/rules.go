package dogs

import (
	"fmt"
	"strconv"
	"strings"

	"shire-of-paws/internal/platform/validation"
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Draft son los valores crudos del formulario de perfil.
type Draft struct {
	Name   string `json:"name"`
	Story  string `json:"story"`
	Gender string `json:"gender"`
	Age    string `json:"age"`
	Size   string `json:"size"`
	Status string `json:"status"`
}

// NewDraft: formulario vacío, status por defecto AVAILABLE.
func NewDraft() Draft {
	return Draft{Status: string(StatusAvailable)}
}

func DraftFromDog(d Dog) Draft {
	story := ""
	if d.Story != nil {
		story = *d.Story
	}
	return Draft{
		Name:   d.Name,
		Story:  story,
		Gender: string(d.Gender),
		Age:    strconv.Itoa(d.Age),
		Size:   string(d.Size),
		Status: string(d.Status),
	}
}

// Set cambia un campo por su nombre JSON.
func (d *Draft) Set(field, value string) error {
	switch field {
	case "name":
		d.Name = value
	case "story":
		d.Story = value
	case "gender":
		d.Gender = value
	case "age":
		d.Age = value
	case "size":
		d.Size = value
	case "status":
		d.Status = value
	default:
		return fmt.Errorf("%w: unknown field %q", ErrInvalidInput, field)
	}
	return nil
}

// PhotoState describe qué foto tendría el perfil si se envía ahora.
type PhotoState struct {
	Staged   bool
	Existing string
}

type profileRules struct {
	Name   string `json:"name" validate:"required,min=2"`
	Gender string `json:"gender" validate:"required,oneof=MALE FEMALE UNKNOWN"`
	Age    *int   `json:"age" validate:"required,min=0,max=30"`
	Size   string `json:"size" validate:"required,oneof=SMALL MEDIUM LARGE EXTRA_LARGE"`
	Status string `json:"status" validate:"required,oneof=AVAILABLE IN_PROCESS ADOPTED"`
}

var profileMessages = validation.Messages{
	"name":   {"required": "Name is required", "min": "Name must be at least 2 characters"},
	"gender": {"required": "Gender is required", "*": "Gender is invalid"},
	"age":    {"required": "Age is required", "*": "Age must be between 0 and 30"},
	"size":   {"required": "Size is required", "*": "Size is invalid"},
	"status": {"required": "Status is required", "*": "Status is invalid"},
}

const (
	msgAgeRange      = "Age must be between 0 and 30"
	msgPhotoRequired = "Please upload a photo"
	msgPhotoType     = "Please select a valid image file"
)

// Validate es puro: mismo draft => mismos errores.
func Validate(v *validation.Validator, d Draft, mode Mode, photo PhotoState) validation.FieldErrors {
	age, ageOK := validation.ParseInt(d.Age)

	errs := v.Check(profileRules{
		Name:   strings.TrimSpace(d.Name),
		Gender: strings.TrimSpace(d.Gender),
		Age:    age,
		Size:   strings.TrimSpace(d.Size),
		Status: strings.TrimSpace(d.Status),
	}, profileMessages)

	if !ageOK {
		errs["age"] = msgAgeRange
	}

	if mode == ModeCreate && !photo.Staged && strings.TrimSpace(photo.Existing) == "" {
		errs["photo"] = msgPhotoRequired
	}
	return errs
}

// CheckFile valida un archivo elegido antes de dejarlo listo para subir.
// "" => aceptado.
func CheckFile(contentType string, size, maxBytes int64) string {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return msgPhotoType
	}
	if maxBytes > 0 && size > maxBytes {
		return "Image size must be less than " + formatMB(maxBytes) + "MB"
	}
	return ""
}

func formatMB(n int64) string {
	return strconv.FormatFloat(float64(n)/(1<<20), 'f', -1, 64)
}

// BuildPayload normaliza el draft ya validado.
func BuildPayload(d Draft, photoRef string) Payload {
	age, _ := strconv.Atoi(strings.TrimSpace(d.Age))

	var story *string
	if s := strings.TrimSpace(d.Story); s != "" {
		story = &s
	}
	var photo *string
	if p := strings.TrimSpace(photoRef); p != "" {
		photo = &p
	}

	return Payload{
		Name:     strings.TrimSpace(d.Name),
		Story:    story,
		Gender:   Gender(strings.TrimSpace(d.Gender)),
		Age:      age,
		Size:     Size(strings.TrimSpace(d.Size)),
		PhotoURL: photo,
		Status:   Status(strings.TrimSpace(d.Status)),
	}
}
