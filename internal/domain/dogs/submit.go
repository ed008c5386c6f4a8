package dogs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"shire-of-paws/internal/platform/httpclient"
	"shire-of-paws/internal/platform/logger"
	"shire-of-paws/internal/platform/validation"
	"shire-of-paws/internal/ports/auth"
)

const (
	msgUploadFailed = "Failed to upload image. Please try again."
	msgSaveFailed   = "Failed to save dog profile. Please try again."
)

// Upload es un archivo elegido en el formulario, aún no subido.
type Upload struct {
	FileName    string
	ContentType string
	Content     []byte
}

func (u Upload) Size() int64 { return int64(len(u.Content)) }

func (u Upload) Reader() io.Reader { return bytes.NewReader(u.Content) }

type SubmitInput struct {
	Mode          Mode
	DogID         string // solo ModeEdit
	Draft         Draft
	File          *Upload
	ExistingPhoto string
}

func (in SubmitInput) photoState() PhotoState {
	return PhotoState{Staged: in.File != nil, Existing: in.ExistingPhoto}
}

// Submitter ordena el envío del perfil: validar, subir foto, guardar.
type Submitter struct {
	dogs  Repository
	files FileStore
	v     *validation.Validator
	log   logger.Logger
}

func NewSubmitter(dogs Repository, files FileStore, v *validation.Validator, log logger.Logger) *Submitter {
	if v == nil {
		v = validation.New()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Submitter{dogs: dogs, files: files, v: v, log: log}
}

// Validate corre las reglas del perfil sin tocar la red.
func (s *Submitter) Validate(in SubmitInput) validation.FieldErrors {
	return Validate(s.v, in.Draft, in.Mode, in.photoState())
}

// Submit = Validate + Execute.
func (s *Submitter) Submit(ctx context.Context, b auth.Bearer, in SubmitInput, onUploading func(bool)) (Dog, error) {
	if errs := s.Validate(in); len(errs) > 0 {
		return Dog{}, &validation.Error{Fields: errs}
	}
	return s.Execute(ctx, b, in, onUploading)
}

// Execute asume el input ya validado.
// La subida siempre precede al guardado; si la subida falla no se guarda.
func (s *Submitter) Execute(ctx context.Context, b auth.Bearer, in SubmitInput, onUploading func(bool)) (Dog, error) {
	if in.Mode == ModeEdit && strings.TrimSpace(in.DogID) == "" {
		return Dog{}, ErrInvalidInput
	}
	if onUploading == nil {
		onUploading = func(bool) {}
	}

	uploaded := ""
	if in.File != nil {
		onUploading(true)
		stored, err := s.files.Upload(ctx, b, *in.File)
		onUploading(false)
		if err != nil {
			return Dog{}, fmt.Errorf("%w: %w", ErrUploadFailed, err)
		}
		uploaded = strings.TrimSpace(stored.FileName)
		if uploaded == "" {
			return Dog{}, fmt.Errorf("%w: backend returned empty file name", ErrUploadFailed)
		}
	}

	photo := in.ExistingPhoto
	if uploaded != "" {
		photo = uploaded
	}
	payload := BuildPayload(in.Draft, photo)

	var (
		dog Dog
		err error
	)
	switch in.Mode {
	case ModeEdit:
		dog, err = s.dogs.Update(ctx, b, in.DogID, payload)
	default:
		dog, err = s.dogs.Create(ctx, b, payload)
	}
	if err != nil {
		if uploaded != "" {
			s.discardUpload(ctx, b, uploaded)
		}
		return Dog{}, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	return dog, nil
}

// discardUpload borra la foto recién subida si el perfil no se guardó.
func (s *Submitter) discardUpload(ctx context.Context, b auth.Bearer, name string) {
	ctx = context.WithoutCancel(ctx)
	if err := s.files.DeleteFile(ctx, b, name); err != nil {
		s.log.Warn("orphan upload not deleted", map[string]any{
			"file":  name,
			"error": err.Error(),
		})
	}
}

// SubmitMessage traduce el error de Execute al mensaje que ve el admin.
func SubmitMessage(err error) string {
	if errors.Is(err, ErrUploadFailed) {
		return httpclient.MessageOf(err, msgUploadFailed)
	}
	return httpclient.MessageOf(err, msgSaveFailed)
}
