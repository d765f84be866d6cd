package ai

import (
	"fmt"
	"strings"

	"github.com/julienlaffont/cvbooster/internal/types"
)

const cvSystemPrompt = `You are an expert CV writer. You produce complete,
professional CVs in plain text only: no markdown, no tables, no images.
Use short bullet lines starting with "- " for achievements. Write in the
language of the candidate's input.`

const coverLetterSystemPrompt = `You are an expert cover-letter writer. You
produce a complete, professional cover letter in plain text only: no
markdown, no placeholders left unfilled. Write in the language of the
candidate's input.`

const coachSystemPrompt = `You are a career coach helping a candidate improve
their CV, cover letters and job search. Answer concretely and concisely in
the language the candidate writes in.`

const analyzeSystemPrompt = `You are a recruiting expert reviewing a CV for
applicant-tracking-system compatibility and overall impact. Return concrete,
prioritized feedback as short bullet lines starting with "- ".`

func buildCVPrompt(req *types.GenerateCVRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a complete CV for the following candidate.\n\n")
	fmt.Fprintf(&b, "Name: %s\n", req.FullName)
	fmt.Fprintf(&b, "Email: %s\n", req.Email)
	if req.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", req.Phone)
	}
	if req.Sector != nil && *req.Sector != "" {
		fmt.Fprintf(&b, "Target sector: %s\n", *req.Sector)
	}
	if req.Position != nil && *req.Position != "" {
		fmt.Fprintf(&b, "Target position: %s\n", *req.Position)
	}
	if req.Summary != "" {
		fmt.Fprintf(&b, "\nProfessional summary:\n%s\n", req.Summary)
	}

	b.WriteString("\nWork experience:\n")
	for _, e := range req.Experiences {
		fmt.Fprintf(&b, "- %s at %s", e.Role, e.Company)
		if e.StartDate != "" || e.EndDate != "" {
			fmt.Fprintf(&b, " (%s - %s)", e.StartDate, e.EndDate)
		}
		b.WriteString("\n")
		if e.Description != "" {
			fmt.Fprintf(&b, "  %s\n", e.Description)
		}
	}

	if len(req.Education) > 0 {
		b.WriteString("\nEducation:\n")
		for _, e := range req.Education {
			fmt.Fprintf(&b, "- %s", e.School)
			if e.Degree != "" {
				fmt.Fprintf(&b, ", %s", e.Degree)
			}
			if e.Field != "" {
				fmt.Fprintf(&b, " in %s", e.Field)
			}
			if e.EndYear != "" {
				fmt.Fprintf(&b, " (%s)", e.EndYear)
			}
			b.WriteString("\n")
		}
	}

	if len(req.Skills) > 0 {
		fmt.Fprintf(&b, "\nSkills: %s\n", strings.Join(req.Skills, ", "))
	}

	b.WriteString("\nReturn only the CV text, starting with the candidate's name.")
	return b.String()
}

func buildCoverLetterPrompt(req *types.GenerateCoverLetterRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a cover letter for %s applying to %s as %s.\n",
		req.FullName, req.Company, req.Position)
	if req.Sector != nil && *req.Sector != "" {
		fmt.Fprintf(&b, "Sector: %s\n", *req.Sector)
	}
	if req.JobDescription != "" {
		fmt.Fprintf(&b, "\nJob description:\n%s\n", req.JobDescription)
	}
	if req.CVContent != "" {
		fmt.Fprintf(&b, "\nCandidate CV for reference:\n%s\n", req.CVContent)
	}

	b.WriteString("\nReturn only the letter text.")
	return b.String()
}

func buildAnalyzePrompt(content string, sector, position *string) string {
	var b strings.Builder

	b.WriteString("Review the following CV")
	if position != nil && *position != "" {
		fmt.Fprintf(&b, " for a %s position", *position)
	}
	if sector != nil && *sector != "" {
		fmt.Fprintf(&b, " in the %s sector", *sector)
	}
	b.WriteString(".\n\n")
	b.WriteString(content)
	b.WriteString("\n\nReturn the feedback bullets only.")
	return b.String()
}
