package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/julienlaffont/cvbooster/internal/types"
)

func strPtr(s string) *string { return &s }

func TestBuildCVPrompt(t *testing.T) {
	req := &types.GenerateCVRequest{
		FullName: "Marie Dupont",
		Email:    "marie@example.com",
		Phone:    "+33 6 12 34 56 78",
		Sector:   strPtr("Finance"),
		Position: strPtr("Analyste"),
		Summary:  "Analyste avec 5 ans d'expérience.",
		Experiences: []types.WizardExperience{
			{Company: "BNP", Role: "Analyste", StartDate: "2019", EndDate: "2024", Description: "Reporting mensuel."},
		},
		Education: []types.WizardEducation{
			{School: "HEC", Degree: "Master", Field: "Finance", EndYear: "2019"},
		},
		Skills: []string{"Excel", "SQL"},
	}

	prompt := buildCVPrompt(req)

	assert.Contains(t, prompt, "Marie Dupont")
	assert.Contains(t, prompt, "marie@example.com")
	assert.Contains(t, prompt, "Target sector: Finance")
	assert.Contains(t, prompt, "Target position: Analyste")
	assert.Contains(t, prompt, "Analyste at BNP (2019 - 2024)")
	assert.Contains(t, prompt, "Reporting mensuel.")
	assert.Contains(t, prompt, "HEC, Master in Finance (2019)")
	assert.Contains(t, prompt, "Skills: Excel, SQL")
}

func TestBuildCVPrompt_OmitsEmptyFields(t *testing.T) {
	req := &types.GenerateCVRequest{
		FullName: "Jean Martin",
		Email:    "jean@example.com",
		Experiences: []types.WizardExperience{
			{Company: "Acme", Role: "Dev"},
		},
	}

	prompt := buildCVPrompt(req)

	assert.NotContains(t, prompt, "Phone:")
	assert.NotContains(t, prompt, "Target sector:")
	assert.NotContains(t, prompt, "Education:")
	assert.NotContains(t, prompt, "Skills:")
	assert.Contains(t, prompt, "Dev at Acme")
	assert.NotContains(t, prompt, "Dev at Acme (")
}

func TestBuildCoverLetterPrompt(t *testing.T) {
	req := &types.GenerateCoverLetterRequest{
		FullName:       "Marie Dupont",
		Company:        "Acme",
		Position:       "Backend Engineer",
		JobDescription: "Go services at scale.",
		CVContent:      "Marie Dupont\nExperience...",
	}

	prompt := buildCoverLetterPrompt(req)

	assert.Contains(t, prompt, "Marie Dupont applying to Acme as Backend Engineer")
	assert.Contains(t, prompt, "Job description:\nGo services at scale.")
	assert.Contains(t, prompt, "Candidate CV for reference:")
}

func TestBuildAnalyzePrompt(t *testing.T) {
	prompt := buildAnalyzePrompt("CV body here", strPtr("Tech"), strPtr("SRE"))
	assert.Contains(t, prompt, "for a SRE position in the Tech sector")
	assert.Contains(t, prompt, "CV body here")

	bare := buildAnalyzePrompt("CV body here", nil, nil)
	assert.Contains(t, bare, "Review the following CV.")
}

func TestNewOpenAIGenerator_RequiresKey(t *testing.T) {
	_, err := NewOpenAIGenerator("", "")
	assert.Error(t, err)
}
