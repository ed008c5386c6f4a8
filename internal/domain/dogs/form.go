package dogs

import (
	"context"
	"maps"
	"strings"
	"sync"

	"shire-of-paws/internal/platform/validation"
	"shire-of-paws/internal/ports/auth"
)

// ProfileForm es una instancia viva del formulario de perfil (crear o editar).
type ProfileForm struct {
	mu sync.Mutex

	mode          Mode
	dogID         string
	values        Draft
	errors        validation.FieldErrors
	staged        *Upload
	existingPhoto string
	maxImageBytes int64

	submitting bool
	uploading  bool
	closed     bool
}

func NewCreateForm(maxImageBytes int64) *ProfileForm {
	return &ProfileForm{
		mode:          ModeCreate,
		values:        NewDraft(),
		errors:        validation.FieldErrors{},
		maxImageBytes: maxImageBytes,
	}
}

func NewEditForm(d Dog, maxImageBytes int64) *ProfileForm {
	return &ProfileForm{
		mode:          ModeEdit,
		dogID:         d.ID,
		values:        DraftFromDog(d),
		errors:        validation.FieldErrors{},
		existingPhoto: d.Photo(),
		maxImageBytes: maxImageBytes,
	}
}

type StagedFileView struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type FormView struct {
	ID             string                 `json:"id,omitempty"`
	Mode           Mode                   `json:"mode"`
	DogID          string                 `json:"dogId,omitempty"`
	Values         Draft                  `json:"values"`
	Errors         validation.FieldErrors `json:"errors"`
	ExistingPhoto  string                 `json:"existingPhoto,omitempty"`
	PhotoPreview   string                 `json:"photoPreview,omitempty"`
	StagedFile     *StagedFileView        `json:"stagedFile,omitempty"`
	Submitting     bool                   `json:"submitting"`
	UploadingImage bool                   `json:"uploadingImage"`
	Submitted      bool                   `json:"submitted"`
}

func (f *ProfileForm) View() FormView {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := FormView{
		Mode:           f.mode,
		DogID:          f.dogID,
		Values:         f.values,
		Errors:         maps.Clone(f.errors),
		ExistingPhoto:  f.existingPhoto,
		PhotoPreview:   FileURL(f.existingPhoto),
		Submitting:     f.submitting,
		UploadingImage: f.uploading,
		Submitted:      f.closed,
	}
	if f.staged != nil {
		v.StagedFile = &StagedFileView{
			FileName:    f.staged.FileName,
			ContentType: f.staged.ContentType,
			Size:        f.staged.Size(),
		}
	}
	return v
}

// Change cambia un campo y borra su error al instante (sin revalidar).
func (f *ProfileForm) Change(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrFormClosed
	}
	if err := f.values.Set(field, value); err != nil {
		return err
	}
	delete(f.errors, field)
	return nil
}

// Apply aplica varios cambios (PATCH). Si un campo es desconocido no se aplica nada.
func (f *ProfileForm) Apply(changes map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrFormClosed
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

// SelectFile deja el archivo listo para subir si pasa los chequeos.
// Un archivo rechazado no reemplaza al que ya estuviera elegido.
func (f *ProfileForm) SelectFile(u Upload) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return false
	}
	if msg := CheckFile(u.ContentType, u.Size(), f.maxImageBytes); msg != "" {
		f.errors["photo"] = msg
		return false
	}
	u.FileName = strings.TrimSpace(u.FileName)
	f.staged = &u
	delete(f.errors, "photo")
	return true
}

// ClearFile descarta el archivo elegido (la foto existente se conserva).
func (f *ProfileForm) ClearFile() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.staged = nil
}

func (f *ProfileForm) setUploading(v bool) {
	f.mu.Lock()
	f.uploading = v
	f.mu.Unlock()
}

// Submit valida y, si pasa, ejecuta el envío. Un segundo Submit en vuelo
// devuelve ErrSubmitInProgress. Tras un envío exitoso el formulario queda cerrado.
func (f *ProfileForm) Submit(ctx context.Context, b auth.Bearer, s *Submitter) (Dog, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return Dog{}, ErrFormClosed
	}
	if f.submitting {
		f.mu.Unlock()
		return Dog{}, ErrSubmitInProgress
	}

	in := SubmitInput{
		Mode:          f.mode,
		DogID:         f.dogID,
		Draft:         f.values,
		File:          f.staged,
		ExistingPhoto: f.existingPhoto,
	}
	errs := s.Validate(in)
	f.errors = errs
	if len(errs) > 0 {
		f.mu.Unlock()
		return Dog{}, &validation.Error{Fields: maps.Clone(errs)}
	}
	f.submitting = true
	f.mu.Unlock()

	dog, err := s.Execute(ctx, b, in, f.setUploading)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	f.uploading = false

	if err != nil {
		f.errors = validation.FieldErrors{"submit": SubmitMessage(err)}
		return Dog{}, err
	}

	f.closed = true
	f.staged = nil
	f.existingPhoto = dog.Photo()
	return dog, nil
}
