package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julienlaffont/cvbooster/internal/db"
	"github.com/julienlaffont/cvbooster/internal/types"
)

func wizardRequest() types.GenerateCVRequest {
	position := "Analyste"
	return types.GenerateCVRequest{
		FullName: "Marie Dupont",
		Email:    "marie@example.com",
		Position: &position,
		Experiences: []types.WizardExperience{
			{Company: "BNP", Role: "Analyste"},
		},
	}
}

func TestGenerateCV(t *testing.T) {
	s, _, gen := newTestServer(t)
	_, token := registerUser(t, s, "marie@example.com")

	w := doJSON(t, s, http.MethodPost, "/api/cvs/generate", token, wizardRequest())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var doc db.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, db.KindCV, doc.Kind)
	assert.Equal(t, "CV Analyste - Marie Dupont", doc.Title)
	assert.Equal(t, gen.cvText, doc.Content)
	require.NotNil(t, doc.Position)
	assert.Equal(t, "Analyste", *doc.Position)
}

func TestGenerateCV_MissingExperiences(t *testing.T) {
	s, _, _ := newTestServer(t)
	_, token := registerUser(t, s, "marie@example.com")

	req := wizardRequest()
	req.Experiences = nil
	w := doJSON(t, s, http.MethodPost, "/api/cvs/generate", token, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateCV_ModelFailure500(t *testing.T) {
	s, _, gen := newTestServer(t)
	_, token := registerUser(t, s, "marie@example.com")

	gen.err = fmt.Errorf("model unavailable")
	w := doJSON(t, s, http.MethodPost, "/api/cvs/generate", token, wizardRequest())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// The upstream detail stays in the logs
	assert.NotContains(t, w.Body.String(), "model unavailable")
}

func TestGenerateCoverLetter(t *testing.T) {
	s, _, gen := newTestServer(t)
	_, token := registerUser(t, s, "marie@example.com")

	w := doJSON(t, s, http.MethodPost, "/api/cover-letters/generate", token, types.GenerateCoverLetterRequest{
		FullName: "Marie Dupont", Company: "Acme", Position: "Analyste",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var doc db.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, db.KindCoverLetter, doc.Kind)
	assert.Equal(t, "Lettre Acme - Analyste", doc.Title)
	assert.Equal(t, gen.letterText, doc.Content)
}

func TestAnalyzeCV(t *testing.T) {
	s, _, gen := newTestServer(t)
	_, token := registerUser(t, s, "marie@example.com")

	doc := createCV(t, s, token, "Mon CV", "Expérience chez BNP")

	w := doJSON(t, s, http.MethodPost, "/api/cvs/"+doc.ID.String()+"/analyze", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		DocumentID string `json:"document_id"`
		Feedback   string `json:"feedback"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, doc.ID.String(), resp.DocumentID)
	assert.Equal(t, gen.analysis, resp.Feedback)
}

func TestAnalyzeCV_NotOwned404(t *testing.T) {
	s, _, _ := newTestServer(t)
	_, ownerToken := registerUser(t, s, "owner@example.com")
	_, otherToken := registerUser(t, s, "other@example.com")

	doc := createCV(t, s, ownerToken, "Mon CV", "contenu")

	w := doJSON(t, s, http.MethodPost, "/api/cvs/"+doc.ID.String()+"/analyze", otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
