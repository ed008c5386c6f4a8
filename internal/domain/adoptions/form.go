package adoptions

import (
	"context"
	"maps"
	"sync"

	"shire-of-paws/internal/platform/httpclient"
	"shire-of-paws/internal/platform/validation"
)

const msgSubmitFailed = "Failed to submit application. Please try again."

// ApplicationForm es una instancia del formulario público de adopción.
// Tras un envío exitoso queda en estado terminal.
type ApplicationForm struct {
	mu sync.Mutex

	dogID   string
	dogName string
	values  Draft
	errors  validation.FieldErrors

	submitting bool
	submitted  *AdoptionRequest
}

func NewApplicationForm(dogID, dogName string) *ApplicationForm {
	return &ApplicationForm{
		dogID:   dogID,
		dogName: dogName,
		errors:  validation.FieldErrors{},
	}
}

type FormView struct {
	ID         string                 `json:"id,omitempty"`
	DogID      string                 `json:"dogId"`
	DogName    string                 `json:"dogName"`
	Values     Draft                  `json:"values"`
	Errors     validation.FieldErrors `json:"errors"`
	Submitting bool                   `json:"submitting"`
	Submitted  bool                   `json:"submitted"`
	Request    *AdoptionRequest       `json:"request,omitempty"`
}

func (f *ApplicationForm) View() FormView {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := FormView{
		DogID:      f.dogID,
		DogName:    f.dogName,
		Values:     f.values,
		Errors:     maps.Clone(f.errors),
		Submitting: f.submitting,
		Submitted:  f.submitted != nil,
	}
	if f.submitted != nil {
		r := *f.submitted
		v.Request = &r
	}
	return v
}

func (f *ApplicationForm) Change(field, value string) error {
	return f.Apply(map[string]string{field: value})
}

// Apply cambia varios campos; todos o ninguno. Cada campo cambiado pierde su error.
func (f *ApplicationForm) Apply(changes map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitted != nil {
		return ErrFormSubmitted
	}
	next := f.values
	for field, value := range changes {
		if err := next.Set(field, value); err != nil {
			return err
		}
	}
	f.values = next
	for field := range changes {
		delete(f.errors, field)
	}
	return nil
}

// Submit valida y crea la solicitud. Un error del backend queda en errors.submit
// y el formulario sigue editable.
func (f *ApplicationForm) Submit(ctx context.Context, repo Repository, v *validation.Validator) (AdoptionRequest, error) {
	f.mu.Lock()
	if f.submitted != nil {
		f.mu.Unlock()
		return AdoptionRequest{}, ErrFormSubmitted
	}
	if f.submitting {
		f.mu.Unlock()
		return AdoptionRequest{}, ErrSubmitInProgress
	}

	errs := Validate(v, f.values)
	f.errors = errs
	if len(errs) > 0 {
		f.mu.Unlock()
		return AdoptionRequest{}, &validation.Error{Fields: maps.Clone(errs)}
	}
	payload := BuildPayload(f.values, f.dogID)
	f.submitting = true
	f.mu.Unlock()

	created, err := repo.Create(ctx, payload)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		f.errors = validation.FieldErrors{"submit": SubmitMessage(err)}
		return AdoptionRequest{}, err
	}
	f.submitted = &created
	return created, nil
}

func SubmitMessage(err error) string {
	return httpclient.MessageOf(err, msgSubmitFailed)
}
