package dogs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"shire-of-paws/internal/platform/httpclient"
	"shire-of-paws/internal/platform/validation"
	"shire-of-paws/internal/ports/auth"
)

func TestSubmit_InvalidDraftMakesNoNetworkCall(t *testing.T) {
	be := newFakeBackend()
	s := NewSubmitter(be, be, nil, nil)

	_, err := s.Submit(context.Background(), auth.Anonymous, SubmitInput{Mode: ModeCreate, Draft: Draft{}}, nil)
	require.ErrorIs(t, err, validation.ErrInvalid)
	fields, ok := validation.FieldsOf(err)
	require.True(t, ok)
	require.Equal(t, "Please upload a photo", fields["photo"])
	require.Empty(t, be.Calls())
}

func TestSubmit_UploadPrecedesCreate(t *testing.T) {
	be := newFakeBackend()
	s := NewSubmitter(be, be, nil, nil)

	var flags []bool
	up := pngUpload("rex.png", 10)
	dog, err := s.Submit(context.Background(), auth.Anonymous, SubmitInput{
		Mode:  ModeCreate,
		Draft: validDraft(),
		File:  &up,
	}, func(v bool) { flags = append(flags, v) })

	require.NoError(t, err)
	require.Equal(t, []string{"upload", "create"}, be.Calls())
	require.Equal(t, []bool{true, false}, flags)
	require.Equal(t, "stored-rex.png", dog.Photo())
}

func TestSubmit_FailedUploadAbortsSave(t *testing.T) {
	be := newFakeBackend()
	be.uploadErr = errors.New("connection reset")
	s := NewSubmitter(be, be, nil, nil)

	up := pngUpload("rex.png", 10)
	_, err := s.Submit(context.Background(), auth.Anonymous, SubmitInput{Mode: ModeCreate, Draft: validDraft(), File: &up}, nil)

	require.ErrorIs(t, err, ErrUploadFailed)
	require.Equal(t, []string{"upload"}, be.Calls())
	require.Equal(t, "Failed to upload image. Please try again.", SubmitMessage(err))
}

func TestSubmit_FailedSaveDeletesFreshUpload(t *testing.T) {
	be := newFakeBackend()
	be.saveErr = &httpclient.HTTPError{StatusCode: 400, Message: "Name already taken"}
	s := NewSubmitter(be, be, nil, nil)

	up := pngUpload("rex.png", 10)
	_, err := s.Submit(context.Background(), auth.Anonymous, SubmitInput{Mode: ModeCreate, Draft: validDraft(), File: &up}, nil)

	require.ErrorIs(t, err, ErrSaveFailed)
	require.Equal(t, []string{"upload", "create", "delete-file:stored-rex.png"}, be.Calls())
	require.Equal(t, "Name already taken", SubmitMessage(err))
}

func TestSubmit_EditKeepsExistingPhoto(t *testing.T) {
	be := newFakeBackend()
	be.add(Dog{ID: "d1", Name: "Old"})
	s := NewSubmitter(be, be, nil, nil)

	dog, err := s.Submit(context.Background(), auth.Anonymous, SubmitInput{
		Mode:          ModeEdit,
		DogID:         "d1",
		Draft:         validDraft(),
		ExistingPhoto: "old.jpg",
	}, nil)

	require.NoError(t, err)
	require.Equal(t, []string{"update:d1"}, be.Calls())
	require.Equal(t, "old.jpg", dog.Photo())
	require.Equal(t, "Rex", dog.Name)
}

func TestSubmit_GenericSaveFailureMessage(t *testing.T) {
	be := newFakeBackend()
	be.saveErr = errors.New("timeout")
	s := NewSubmitter(be, be, nil, nil)

	_, err := s.Submit(context.Background(), auth.Anonymous, SubmitInput{Mode: ModeCreate, Draft: validDraft(), ExistingPhoto: "x.jpg"}, nil)
	require.Equal(t, "Failed to save dog profile. Please try again.", SubmitMessage(err))
	// sin subida nueva no se borra nada
	require.Equal(t, []string{"create"}, be.Calls())
}
