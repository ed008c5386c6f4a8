package dogs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shire-of-paws/internal/ports/auth"
)

func TestForm_ChangeClearsOnlyThatFieldError(t *testing.T) {
	be := newFakeBackend()
	f := NewCreateForm(DefaultMaxImageBytes)

	_, err := f.Submit(context.Background(), auth.Anonymous, NewSubmitter(be, be, nil, nil))
	require.Error(t, err)
	require.Contains(t, f.View().Errors, "name")
	require.Contains(t, f.View().Errors, "gender")

	require.NoError(t, f.Change("name", "R"))
	v := f.View()
	require.NotContains(t, v.Errors, "name")
	require.Contains(t, v.Errors, "gender")
	// no revalida: "R" es corto pero no hay error hasta el próximo submit
	require.Equal(t, "R", v.Values.Name)
}

func TestForm_ApplyIsAtomic(t *testing.T) {
	f := NewCreateForm(DefaultMaxImageBytes)

	err := f.Apply(map[string]string{"name": "Rex", "color": "brown"})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, "", f.View().Values.Name)
}

func TestForm_RejectedFileKeepsPrevious(t *testing.T) {
	f := NewCreateForm(1 << 20)

	require.True(t, f.SelectFile(pngUpload("a.png", 10)))
	require.False(t, f.SelectFile(Upload{FileName: "doc.pdf", ContentType: "application/pdf", Content: []byte("x")}))

	v := f.View()
	require.Equal(t, "Please select a valid image file", v.Errors["photo"])
	require.Equal(t, "a.png", v.StagedFile.FileName)

	require.False(t, f.SelectFile(pngUpload("big.png", 2<<20)))
	require.Equal(t, "Image size must be less than 1MB", f.View().Errors["photo"])

	require.True(t, f.SelectFile(pngUpload("b.png", 10)))
	require.NotContains(t, f.View().Errors, "photo")
}

func TestForm_SecondSubmitWhileInFlightRejected(t *testing.T) {
	be := newFakeBackend()
	be.block = make(chan struct{})
	s := NewSubmitter(be, be, nil, nil)

	f := NewCreateForm(DefaultMaxImageBytes)
	require.NoError(t, f.Apply(map[string]string{"name": "Rex", "gender": "MALE", "age": "2", "size": "SMALL"}))
	require.True(t, f.SelectFile(pngUpload("rex.png", 10)))

	done := make(chan error, 1)
	go func() {
		_, err := f.Submit(context.Background(), auth.Anonymous, s)
		done <- err
	}()

	require.Eventually(t, func() bool { return f.View().Submitting }, time.Second, 5*time.Millisecond)
	_, err := f.Submit(context.Background(), auth.Anonymous, s)
	require.ErrorIs(t, err, ErrSubmitInProgress)

	close(be.block)
	require.NoError(t, <-done)

	v := f.View()
	require.True(t, v.Submitted)
	require.False(t, v.Submitting)
	require.False(t, v.UploadingImage)
	require.Equal(t, []string{"upload", "create"}, be.Calls())

	_, err = f.Submit(context.Background(), auth.Anonymous, s)
	require.ErrorIs(t, err, ErrFormClosed)
	require.ErrorIs(t, f.Change("name", "Max"), ErrFormClosed)
}

func TestForm_FailedSubmitStaysEditable(t *testing.T) {
	be := newFakeBackend()
	be.saveErr = context.DeadlineExceeded
	s := NewSubmitter(be, be, nil, nil)

	f := NewEditForm(Dog{ID: "d1", Name: "Rex", Gender: GenderMale, Age: 3, Size: SizeSmall, Status: StatusAvailable, PhotoURL: ptr("rex.jpg")}, DefaultMaxImageBytes)
	_, err := f.Submit(context.Background(), auth.Anonymous, s)
	require.Error(t, err)

	v := f.View()
	require.Equal(t, "Failed to save dog profile. Please try again.", v.Errors["submit"])
	require.False(t, v.Submitted)
	require.Equal(t, "/files/rex.jpg", v.PhotoPreview)
	require.NoError(t, f.Change("name", "Rexy"))
}
