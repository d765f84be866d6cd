package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julienlaffont/cvbooster/internal/db"
)

func uploadFile(t *testing.T, s *Server, token, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/cv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.routes().ServeHTTP(w, req)
	return w
}

func TestUploadCV_TXT(t *testing.T) {
	s, _, _ := newTestServer(t)
	_, token := registerUser(t, s, "marie@example.com")

	w := uploadFile(t, s, token, "mon_cv.txt", []byte("Marie Dupont\nAnalyste"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var doc db.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, db.KindCV, doc.Kind)
	assert.Equal(t, "mon_cv", doc.Title)
	assert.Equal(t, "Marie Dupont\nAnalyste", doc.Content)
}

func TestUploadCV_UnsupportedExtension(t *testing.T) {
	s, _, _ := newTestServer(t)
	_, token := registerUser(t, s, "marie@example.com")

	w := uploadFile(t, s, token, "cv.pdf", []byte("%PDF-1.4"))
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestUploadCV_EmptyFile(t *testing.T) {
	s, _, _ := newTestServer(t)
	_, token := registerUser(t, s, "marie@example.com")

	w := uploadFile(t, s, token, "cv.txt", []byte("   \n  "))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadCV_MissingFileField(t *testing.T) {
	s, _, _ := newTestServer(t)
	_, token := registerUser(t, s, "marie@example.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("other", "value"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/cv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.routes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadCV_RequiresAuth(t *testing.T) {
	s, _, _ := newTestServer(t)

	w := uploadFile(t, s, "bad-token", "cv.txt", []byte("contenu"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
