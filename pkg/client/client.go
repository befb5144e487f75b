// Package client wraps HTTP calls to the PDF annotator API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient creates a Client from a base URL (e.g. http://localhost:5000) and
// a bearer token; token may be empty for signup/login.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Minute, // generous for large uploads
		},
	}
}

// User mirrors the identity payload the server returns.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type PDFSummary struct {
	UUID         string    `json:"uuid"`
	OriginalName string    `json:"originalName"`
	CreatedAt    time.Time `json:"createdAt"`
}

type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Position struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type Highlight struct {
	ID              string      `json:"id"`
	PDFUuid         string      `json:"pdfUuid"`
	UserID          string      `json:"userId"`
	PageNumber      int         `json:"pageNumber"`
	HighlightedText string      `json:"highlightedText"`
	BoundingBox     BoundingBox `json:"boundingBox"`
	Position        Position    `json:"position"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// APIError is returned when the server sends a non-2xx status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (c *Client) newRequest(method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.Token != "" {
		// The server accepts the raw token with no scheme prefix.
		req.Header.Set("Authorization", c.Token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &errResp) == nil && errResp.Message != "" {
			return &APIError{Status: resp.StatusCode, Message: errResp.Message}
		}
		return &APIError{Status: resp.StatusCode, Message: string(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *Client) postJSON(path string, payload, out interface{}) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := c.newRequest(http.MethodPost, path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// --- auth ---

type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (c *Client) Signup(email, password string) (string, *User, error) {
	var resp authResponse
	err := c.postJSON("/auth/signup", map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return "", nil, err
	}
	return resp.Token, &resp.User, nil
}

func (c *Client) Login(email, password string) (string, *User, error) {
	var resp authResponse
	err := c.postJSON("/auth/login", map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return "", nil, err
	}
	return resp.Token, &resp.User, nil
}

// Verify asks the server to resolve the configured token to its user.
func (c *Client) Verify() (*User, error) {
	req, err := c.newRequest(http.MethodGet, "/auth/verify", nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// --- pdf ---

type UploadResult struct {
	UUID     string `json:"uuid"`
	Filename string `json:"filename"`
}

// UploadPDF streams one document as the multipart "pdf" field.
func (c *Client) UploadPDF(filename string, content io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="pdf"; filename=%q`, filename))
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(http.MethodPost, "/pdf/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result UploadResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListPDFs() ([]PDFSummary, error) {
	req, err := c.newRequest(http.MethodGet, "/pdf/list", nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		PDFs []PDFSummary `json:"pdfs"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.PDFs, nil
}

// DownloadPDF writes the document bytes to w.
func (c *Client) DownloadPDF(uuid string, w io.Writer) error {
	req, err := c.newRequest(http.MethodGet, "/pdf/"+uuid, nil)
	if err != nil {
		return err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		var errResp struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &errResp) == nil && errResp.Message != "" {
			return &APIError{Status: resp.StatusCode, Message: errResp.Message}
		}
		return &APIError{Status: resp.StatusCode, Message: string(data)}
	}

	_, err = io.Copy(w, resp.Body)
	return err
}

func (c *Client) DeletePDF(uuid string) error {
	req, err := c.newRequest(http.MethodDelete, "/pdf/"+uuid, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// --- highlights ---

type CreateHighlightRequest struct {
	PDFUuid         string       `json:"pdfUuid"`
	PageNumber      int          `json:"pageNumber"`
	HighlightedText string       `json:"highlightedText"`
	BoundingBox     *BoundingBox `json:"boundingBox,omitempty"`
	Position        *Position    `json:"position,omitempty"`
}

func (c *Client) CreateHighlight(req CreateHighlightRequest) (*Highlight, error) {
	var resp struct {
		Highlight Highlight `json:"highlight"`
	}
	if err := c.postJSON("/highlight/", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Highlight, nil
}

func (c *Client) ListHighlights(pdfUuid string) ([]Highlight, error) {
	req, err := c.newRequest(http.MethodGet, "/highlight/"+pdfUuid, nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Highlights []Highlight `json:"highlights"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.Highlights, nil
}

func (c *Client) ListPageHighlights(pdfUuid string, page int) ([]Highlight, error) {
	req, err := c.newRequest(http.MethodGet, fmt.Sprintf("/highlight/%s/page/%d", pdfUuid, page), nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Highlights []Highlight `json:"highlights"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.Highlights, nil
}

func (c *Client) UpdateHighlight(id, text string) (*Highlight, error) {
	encoded, err := json.Marshal(map[string]string{"highlightedText": text})
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(http.MethodPut, "/highlight/"+id, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp struct {
		Highlight Highlight `json:"highlight"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp.Highlight, nil
}

func (c *Client) DeleteHighlight(id string) error {
	req, err := c.newRequest(http.MethodDelete, "/highlight/"+id, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// DeleteDocumentHighlights removes every highlight of a document and returns
// how many the server deleted.
func (c *Client) DeleteDocumentHighlights(pdfUuid string) (int64, error) {
	req, err := c.newRequest(http.MethodDelete, "/highlight/pdf/"+pdfUuid, nil)
	if err != nil {
		return 0, err
	}
	var resp struct {
		DeletedCount int64 `json:"deletedCount"`
	}
	if err := c.do(req, &resp); err != nil {
		return 0, err
	}
	return resp.DeletedCount, nil
}
