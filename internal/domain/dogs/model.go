package dogs

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrSubmitInProgress = errors.New("submit already in progress")
	ErrFormClosed       = errors.New("form already submitted")
	ErrUploadFailed     = errors.New("image upload failed")
	ErrSaveFailed       = errors.New("dog profile save failed")
)

type Gender string

const (
	GenderMale    Gender = "MALE"
	GenderFemale  Gender = "FEMALE"
	GenderUnknown Gender = "UNKNOWN"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderUnknown:
		return true
	}
	return false
}

type Size string

const (
	SizeSmall      Size = "SMALL"
	SizeMedium     Size = "MEDIUM"
	SizeLarge      Size = "LARGE"
	SizeExtraLarge Size = "EXTRA_LARGE"
)

func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge, SizeExtraLarge:
		return true
	}
	return false
}

type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusInProcess Status = "IN_PROCESS"
	StatusAdopted   Status = "ADOPTED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusInProcess, StatusAdopted:
		return true
	}
	return false
}

// AllStatuses en el orden en que se muestran en el dashboard.
var AllStatuses = []Status{StatusAvailable, StatusInProcess, StatusAdopted}

// Dog es el DogResponse del backend.
type Dog struct {
	ID                    string     `json:"id"`
	Name                  string     `json:"name"`
	Story                 *string    `json:"story"`
	Gender                Gender     `json:"gender"`
	Age                   int        `json:"age"`
	Size                  Size       `json:"size"`
	PhotoURL              *string    `json:"photoUrl"`
	Status                Status     `json:"status"`
	AdoptionRequestsCount int        `json:"adoptionRequestsCount"`
	CreatedAt             *time.Time `json:"createdAt,omitempty"`
	UpdatedAt             *time.Time `json:"updatedAt,omitempty"`
}

// Photo devuelve el nombre de archivo o "".
func (d Dog) Photo() string {
	if d.PhotoURL == nil {
		return ""
	}
	return strings.TrimSpace(*d.PhotoURL)
}

// Payload es el DogRequest que se manda en POST/PUT.
type Payload struct {
	Name     string  `json:"name"`
	Story    *string `json:"story"`
	Gender   Gender  `json:"gender"`
	Age      int     `json:"age"`
	Size     Size    `json:"size"`
	PhotoURL *string `json:"photoUrl"`
	Status   Status  `json:"status"`
}

// Stats son los contadores de la home.
type Stats struct {
	Rescued   int64 `json:"rescued"`
	Adopted   int64 `json:"adopted"`
	Available int64 `json:"available"`
}

// StoredFile es la respuesta de /api/files/upload.
type StoredFile struct {
	FileName        string `json:"fileName"`
	FileDownloadURI string `json:"fileDownloadUri"`
	FileType        string `json:"fileType"`
	Size            int64  `json:"size"`
}

// FileURL es la ruta pública (proxy del BFF) para un archivo del backend.
func FileURL(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return "/files/" + name
}
