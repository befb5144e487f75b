package handlers

import (
	"net/http"
	"testing"

	"github.com/viveksanandiya/pdf-annotator/internal/models"
)

// TestAnnotationWorkflow walks the full lifecycle through the HTTP surface:
// account creation, document upload, annotation, revision, and teardown.
func TestAnnotationWorkflow(t *testing.T) {
	env := setupTestEnv(t)

	// Sign up and use the issued token for everything that follows.
	resp := performJSONRequest(t, env.app, http.MethodPost, "/auth/signup", map[string]any{
		"email":    "reader@example.com",
		"password": "secret1",
	}, nil)
	body := decodeJSONMap(t, resp)
	assertStatus(t, resp, http.StatusCreated)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("expected signup token, got %+v", body)
	}

	pdfID := uploadTestPDF(t, env, token, "thesis.pdf")

	// Annotate two pages.
	var highlightID string
	for _, payload := range []map[string]any{
		{"pdfUuid": pdfID, "pageNumber": 1, "highlightedText": "introduction claim"},
		{"pdfUuid": pdfID, "pageNumber": 4, "highlightedText": "key result"},
	} {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/highlight/", payload, authHeaders(token))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusCreated)
		highlight, _ := body["highlight"].(map[string]any)
		highlightID, _ = highlight["id"].(string)
	}

	// Reopening the document brings back every annotation in page order.
	resp = performRequest(t, env.app, http.MethodGet, "/highlight/"+pdfID, nil, authHeaders(token))
	body = decodeJSONMap(t, resp)
	assertStatus(t, resp, http.StatusOK)
	if count, _ := body["count"].(float64); int(count) != 2 {
		t.Fatalf("expected 2 highlights, got %v", body["count"])
	}

	// Revise the latest annotation.
	resp = performJSONRequest(t, env.app, http.MethodPut, "/highlight/"+highlightID, map[string]any{
		"highlightedText": "key result, revised",
	}, authHeaders(token))
	assertStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = performRequest(t, env.app, http.MethodGet, "/highlight/"+pdfID+"/page/4", nil, authHeaders(token))
	body = decodeJSONMap(t, resp)
	assertStatus(t, resp, http.StatusOK)
	highlights, _ := body["highlights"].([]any)
	if len(highlights) != 1 {
		t.Fatalf("expected 1 highlight on page 4, got %d", len(highlights))
	}
	revised, _ := highlights[0].(map[string]any)
	if revised["highlightedText"] != "key result, revised" {
		t.Fatalf("revision not visible: %v", revised["highlightedText"])
	}

	// Deleting the document takes its annotations with it.
	resp = performRequest(t, env.app, http.MethodDelete, "/pdf/"+pdfID, nil, authHeaders(token))
	assertStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	var remaining int64
	env.db.Model(&models.Highlight{}).Where("pdf_uuid = ?", pdfID).Count(&remaining)
	if remaining != 0 {
		t.Fatalf("expected annotations removed with the document, %d left", remaining)
	}

	// The token is still good; the library is just empty.
	resp = performRequest(t, env.app, http.MethodGet, "/pdf/list", nil, authHeaders(token))
	body = decodeJSONMap(t, resp)
	assertStatus(t, resp, http.StatusOK)
	if count, _ := body["count"].(float64); int(count) != 0 {
		t.Fatalf("expected empty library, got %v", body["count"])
	}
}
