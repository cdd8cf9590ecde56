package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"invitation-canvas-editor/internal/domain"
	"invitation-canvas-editor/internal/scene"
	"invitation-canvas-editor/internal/storage"
)

// Backend is the document store the controller loads from and saves to.
type Backend interface {
	Get(ctx context.Context, c domain.Collection, identifier string) (*domain.Record, error)
	Create(ctx context.Context, c domain.Collection, rec domain.Record) (*Created, error)
	Update(ctx context.Context, c domain.Collection, id string, patch domain.RecordPatch) error
}

// Created is the answer to a create. RequestedSlug is set when the server changed the slug.
type Created struct {
	domain.Record
	RequestedSlug string `json:"requested_slug,omitempty"`
}

type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// WithToken sets the bearer token sent on every request.
func (s *HTTPClient) WithToken(token string) *HTTPClient {
	s.token = token
	return s
}

func (s *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &StatusError{Status: resp.StatusCode, Body: string(b)}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (s *HTTPClient) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	return s.do(ctx, method, path, body, "application/json", out)
}

func docPath(c domain.Collection, identifier string) string {
	return fmt.Sprintf("/api/%s/%s", c, url.PathEscape(identifier))
}

func (s *HTTPClient) Get(ctx context.Context, c domain.Collection, identifier string) (*domain.Record, error) {
	var rec domain.Record
	err := s.doJSON(ctx, http.MethodGet, docPath(c, identifier), nil, &rec)
	if st, ok := err.(*StatusError); ok && st.Status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *HTTPClient) Create(ctx context.Context, c domain.Collection, rec domain.Record) (*Created, error) {
	var created Created
	err := s.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/%s", c), rec, &created)
	if st, ok := err.(*StatusError); ok && st.Status == http.StatusConflict {
		return nil, fmt.Errorf("%w: %s", ErrSlugTaken, rec.Slug)
	}
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *HTTPClient) Update(ctx context.Context, c domain.Collection, id string, patch domain.RecordPatch) error {
	err := s.doJSON(ctx, http.MethodPatch, docPath(c, id), patch, nil)
	if st, ok := err.(*StatusError); ok {
		switch st.Status {
		case http.StatusConflict:
			slug := ""
			if patch.Slug != nil {
				slug = *patch.Slug
			}
			return fmt.Errorf("%w: %s", ErrSlugTaken, slug)
		case http.StatusNotFound:
			return ErrNotFound
		}
	}
	return err
}

func (s *HTTPClient) List(ctx context.Context, c domain.Collection, query url.Values) ([]domain.Record, error) {
	var page struct {
		Data []domain.Record `json:"data"`
	}
	path := fmt.Sprintf("/api/%s", c)
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	if err := s.doJSON(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

func (s *HTTPClient) Delete(ctx context.Context, c domain.Collection, id string) error {
	return s.doJSON(ctx, http.MethodDelete, docPath(c, id), nil, nil)
}

func (s *HTTPClient) FireTrigger(ctx context.Context, c domain.Collection, id string, t scene.Trigger) (*scene.Trigger, error) {
	var fired scene.Trigger
	if err := s.doJSON(ctx, http.MethodPost, docPath(c, id)+"/trigger", t, &fired); err != nil {
		return nil, err
	}
	return &fired, nil
}

// Upload sends r as the multipart "file" field.
func (s *HTTPClient) Upload(ctx context.Context, filename string, r io.Reader) (*storage.Object, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var obj storage.Object
	if err := s.do(ctx, http.MethodPost, "/api/upload", &body, mw.FormDataContentType(), &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login exchanges credentials for a token and keeps it for later requests.
func (s *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	payload := map[string]string{"email": email, "password": password}
	if err := s.doJSON(ctx, http.MethodPost, "/login", payload, &resp); err != nil {
		return "", err
	}
	s.token = resp.AccessToken
	return resp.AccessToken, nil
}
