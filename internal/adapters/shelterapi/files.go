package shelterapi

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"shire-of-paws/internal/domain/dogs"
	"shire-of-paws/internal/platform/httpclient"
	"shire-of-paws/internal/ports/auth"
)

const filesPath = "/api/files"

// Files implementa dogs.FileStore.
type Files struct{ c *Client }

func (c *Client) Files() *Files { return &Files{c: c} }

var _ dogs.FileStore = (*Files)(nil)

func (f *Files) Upload(ctx context.Context, b auth.Bearer, u dogs.Upload) (dogs.StoredFile, error) {
	ctx = httpclient.WithOperation(ctx, "files.upload")
	var out dogs.StoredFile
	err := f.c.http.DoMultipart(ctx, filesPath+"/upload", headers(b), httpclient.FilePart{
		Field:       "file",
		FileName:    u.FileName,
		ContentType: u.ContentType,
		Content:     u.Reader(),
	}, &out)
	return out, f.c.check(b, err)
}

func (f *Files) DeleteFile(ctx context.Context, b auth.Bearer, name string) error {
	err := f.c.call(ctx, b, "files.delete", http.MethodDelete, filesPath+"/"+url.PathEscape(name), nil, nil)
	return notFound(err, dogs.ErrNotFound)
}

// Open devuelve el body en streaming; el caller lo cierra.
func (f *Files) Open(ctx context.Context, name string) (io.ReadCloser, string, error) {
	ctx = httpclient.WithOperation(ctx, "files.download")
	resp, err := f.c.http.Open(ctx, http.MethodGet, filesPath+"/download/"+url.PathEscape(name), nil)
	if err != nil {
		return nil, "", notFound(err, dogs.ErrNotFound)
	}
	ct := strings.TrimSpace(resp.Header.Get("Content-Type"))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return resp.Body, ct, nil
}
