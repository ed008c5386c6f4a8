package dashboard

import (
	"errors"
	"time"

	"shire-of-paws/internal/domain/adoptions"
	"shire-of-paws/internal/domain/dogs"
	"shire-of-paws/internal/domain/listing"
	"shire-of-paws/internal/ports/auth"
)

var (
	ErrConfirmationNotFound = errors.New("confirmation not found")
	ErrNotVisible           = errors.New("item is not in the current view")
)

type Action string

const (
	ActionTransition Action = "transition"
	ActionDeleteDog  Action = "delete_dog"
)

// Owner es la sesión dueña de un tablero.
type Owner interface {
	ID() string
	auth.Bearer
}

// Confirmation es un diálogo abierto: nada cambia en el backend hasta Confirm.
type Confirmation struct {
	ID        string           `json:"id"`
	Action    Action           `json:"action"`
	TargetID  string           `json:"targetId"`
	Label     string           `json:"label"`
	From      adoptions.Status `json:"from,omitempty"`
	To        adoptions.Status `json:"to,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// Outcome es el resultado de un Confirm exitoso, con las vistas ya refrescadas.
type Outcome struct {
	Confirmation Confirmation                             `json:"confirmation"`
	Requests     *listing.State[adoptions.AdoptionRequest] `json:"requests,omitempty"`
	Dogs         *listing.State[dogs.Dog]                  `json:"dogs,omitempty"`
	Detail       *adoptions.AdoptionRequest                `json:"detail,omitempty"`
}

// Summary son los contadores por estado del dashboard.
type Summary struct {
	Dogs     map[dogs.Status]int64      `json:"dogs"`
	Requests map[adoptions.Status]int64 `json:"requests"`
}
