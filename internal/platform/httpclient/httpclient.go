package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultTimeout = 10 * time.Second

	tracerName = "shire-of-paws/httpclient"
)

// ObserveFunc recibe una muestra por request terminado (status 0 = error de transporte).
type ObserveFunc func(op, method string, status int, d time.Duration)

// Client envuelve *http.Client con helpers comunes para adapters.
type Client struct {
	HTTP    *http.Client
	BaseURL string // opcional; si se define, DoJSON puede recibir paths relativos

	// Opcionales. Tracer nil => otel.Tracer global.
	Tracer  trace.Tracer
	Observe ObserveFunc
}

// New crea un Client con timeout razonable.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		HTTP: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewWithBaseURL crea un Client con BaseURL + timeout.
func NewWithBaseURL(baseURL string, timeout time.Duration) (*Client, error) {
	c := New(timeout)
	if strings.TrimSpace(baseURL) == "" {
		return c, nil
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	c.BaseURL = strings.TrimRight(baseURL, "/")
	return c, nil
}

// NewWithTransport permite inyectar un Transport (p.ej. para tests).
func NewWithTransport(timeout time.Duration, tr http.RoundTripper) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if tr == nil {
		tr = http.DefaultTransport
	}
	return &Client{
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: tr,
		},
	}
}

// HTTPError representa una respuesta no-2xx.
// Message es el campo "message" del body JSON del backend, si vino.
type HTTPError struct {
	StatusCode int
	Body       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

// MessageOf devuelve el mensaje del backend si existe, si no fallback.
func MessageOf(err error, fallback string) string {
	var he *HTTPError
	if errors.As(err, &he) && strings.TrimSpace(he.Message) != "" {
		return he.Message
	}
	return fallback
}

// StatusOf devuelve el status HTTP de err, o 0 si no es HTTPError.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

// IsUnauthorized: 401 o 403 del backend.
func IsUnauthorized(err error) bool {
	s := StatusOf(err)
	return s == http.StatusUnauthorized || s == http.StatusForbidden
}

type opKey struct{}

// WithOperation nombra la operación para spans y métricas (p.ej. "dogs.get").
// Evita usar el path como label (ids => cardinalidad).
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, opKey{}, op)
}

func operation(ctx context.Context, method string) string {
	if op, ok := ctx.Value(opKey{}).(string); ok && op != "" {
		return op
	}
	return strings.ToLower(method)
}

// DoJSON hace un request JSON.
// - method: GET/POST/etc
// - pathOrURL: puede ser URL absoluta o path relativo si BaseURL está seteado
// - headers: headers extra (opcional)
// - in: body a enviar (opcional). Si nil => no body.
// - out: donde decodificar JSON (opcional). Si nil => ignora body.
// Retorna error si status no es 2xx.
func (c *Client) DoJSON(
	ctx context.Context,
	method string,
	pathOrURL string,
	headers map[string]string,
	in any,
	out any,
) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: marshal json: %w", err)
		}
		body = bytes.NewReader(b)
	}

	h := make(map[string]string, len(headers)+1)
	if in != nil {
		h["Content-Type"] = "application/json"
	}
	for k, v := range headers {
		h[k] = v
	}

	resp, err := c.send(ctx, method, pathOrURL, h, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeBody(resp, out)
}

// FilePart es el archivo a subir en un multipart.
type FilePart struct {
	Field       string // default "file"
	FileName    string
	ContentType string
	Content     io.Reader
}

// DoMultipart sube un archivo como multipart/form-data y decodifica la respuesta JSON.
func (c *Client) DoMultipart(
	ctx context.Context,
	pathOrURL string,
	headers map[string]string,
	part FilePart,
	out any,
) error {
	if part.Content == nil {
		return errors.New("httpclient: multipart without content")
	}
	field := part.Field
	if field == "" {
		field = "file"
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	ph := make(textproto.MIMEHeader)
	ph.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, part.FileName))
	if part.ContentType != "" {
		ph.Set("Content-Type", part.ContentType)
	} else {
		ph.Set("Content-Type", "application/octet-stream")
	}

	pw, err := mw.CreatePart(ph)
	if err != nil {
		return fmt.Errorf("httpclient: multipart part: %w", err)
	}
	if _, err := io.Copy(pw, part.Content); err != nil {
		return fmt.Errorf("httpclient: multipart copy: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("httpclient: multipart close: %w", err)
	}

	h := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		h[k] = v
	}
	h["Content-Type"] = mw.FormDataContentType()

	resp, err := c.send(ctx, http.MethodPost, pathOrURL, h, &buf)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeBody(resp, out)
}

// Open hace el request y devuelve la respuesta 2xx sin leer el body (streaming).
// El caller cierra resp.Body.
func (c *Client) Open(
	ctx context.Context,
	method string,
	pathOrURL string,
	headers map[string]string,
) (*http.Response, error) {
	return c.send(ctx, method, pathOrURL, headers, nil)
}

// send arma el request, lo instrumenta y convierte no-2xx en *HTTPError.
func (c *Client) send(
	ctx context.Context,
	method string,
	pathOrURL string,
	headers map[string]string,
	body io.Reader,
) (*http.Response, error) {
	if c == nil || c.HTTP == nil {
		return nil, errors.New("httpclient: nil client")
	}

	fullURL, err := c.resolveURL(pathOrURL)
	if err != nil {
		return nil, err
	}

	op := operation(ctx, method)
	ctx, span := c.tracer().Start(ctx, "backend "+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("backend.operation", op),
	)

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "new request")
		return nil, fmt.Errorf("httpclient: new request: %w", err)
	}
	span.SetAttributes(attribute.String("url.path", req.URL.Path))

	// Defaults
	req.Header.Set("Accept", "application/json")

	// Extra headers
	for k, v := range headers {
		if strings.TrimSpace(k) == "" {
			continue
		}
		req.Header.Set(k, v)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.observe(op, method, 0, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		return nil, fmt.Errorf("httpclient: do request: %w", err)
	}
	c.observe(op, method, resp.StatusCode, time.Since(start))
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		raw, _ := readAtMost(resp.Body, 1<<20) // 1MB max
		he := &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
			Message:    backendMessage(raw),
		}
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		return nil, he
	}

	return resp, nil
}

func (c *Client) tracer() trace.Tracer {
	if c.Tracer != nil {
		return c.Tracer
	}
	return otel.Tracer(tracerName)
}

func (c *Client) observe(op, method string, status int, d time.Duration) {
	if c.Observe != nil {
		c.Observe(op, method, status, d)
	}
}

func decodeBody(resp *http.Response, out any) error {
	// Leer body (limitado) para decode
	raw, err := readAtMost(resp.Body, 1<<20)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: unmarshal json: %w", err)
	}
	return nil
}

// backendMessage extrae {"message": "..."} si el body es JSON.
func backendMessage(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}

func (c *Client) resolveURL(pathOrURL string) (string, error) {
	pathOrURL = strings.TrimSpace(pathOrURL)
	if pathOrURL == "" {
		return "", errors.New("httpclient: empty url")
	}

	// Si ya es URL absoluta, úsala tal cual.
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL, nil
	}

	// Si no es absoluta, requiere BaseURL.
	if strings.TrimSpace(c.BaseURL) == "" {
		return "", errors.New("httpclient: relative path requires BaseURL")
	}

	if !strings.HasPrefix(pathOrURL, "/") {
		pathOrURL = "/" + pathOrURL
	}
	return c.BaseURL + pathOrURL, nil
}

func readAtMost(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		max = 1 << 20
	}
	lr := io.LimitReader(r, max)
	return io.ReadAll(lr)
}
