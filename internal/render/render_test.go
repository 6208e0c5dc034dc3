package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvforge/internal/resume"
)

func sampleContent() resume.Content {
	c := resume.New()
	c.PersonalInfo = resume.PersonalInfo{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@x.io",
		Phone:     "+1 555 0100",
		LinkedIn:  "https://linkedin.com/in/jane",
		Summary:   "Builds <b>reliable</b> systems & teams.",
	}
	c.Experience = []resume.Experience{
		{ID: "e1", Company: "Acme", Position: "Engineer", StartDate: "2020-03-01", EndDate: "2022-06-30", Location: "Berlin"},
		{ID: "e2", Company: "Globex", Position: "Lead", StartDate: "2022-07", Current: true, EndDate: "2023-01"},
	}
	c.Skills = []resume.Skill{
		{ID: "s1", Name: "Go", Level: resume.LevelOf(resume.SkillExpert), Category: "Languages"},
		{ID: "s2", Name: "Kubernetes"},
		{ID: "s3", Name: "Rust", Category: "Languages"},
	}
	c.Languages = []resume.Language{{ID: "l1", Name: "German", Proficiency: resume.ProficiencyFluent}}
	return c
}

func TestVariantFor(t *testing.T) {
	assert.Equal(t, VariantModern, VariantFor("1"))
	assert.Equal(t, VariantCreative, VariantFor("2"))
	assert.Equal(t, VariantMinimal, VariantFor("4"))
	assert.Equal(t, VariantModern, VariantFor(""))
	assert.Equal(t, VariantModern, VariantFor("999"))
}

func TestRender_OmitsEmptySectionsAndKeepsOrder(t *testing.T) {
	doc := Render(sampleContent(), "1")

	kinds := make([]SectionKind, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		kinds = append(kinds, s.Kind)
	}
	assert.Equal(t, []SectionKind{SectionExperience, SectionSkills, SectionLanguages}, kinds)

	exp := doc.Sections[0]
	require.Len(t, exp.Entries, 2)
	assert.Equal(t, "Engineer", exp.Entries[0].Title)
	assert.Equal(t, "Mar 2020 - Jun 2022", exp.Entries[0].Period)
	assert.Equal(t, []string{"Berlin"}, exp.Entries[0].Details)
	// current wins over a stale end date
	assert.Equal(t, "Jul 2022 - Present", exp.Entries[1].Period)
}

func TestRender_GroupsSkillsByCategory(t *testing.T) {
	doc := Render(sampleContent(), "1")
	skills := doc.Sections[1]

	require.Len(t, skills.Groups, 2)
	assert.Equal(t, Group{Name: "Languages", Items: []string{"Go (Expert)", "Rust"}}, skills.Groups[0])
	assert.Equal(t, Group{Name: "Other", Items: []string{"Kubernetes"}}, skills.Groups[1])
}

func TestRender_HeaderContactsAndSanitising(t *testing.T) {
	doc := Render(sampleContent(), "1")

	assert.Equal(t, "Jane Doe", doc.Header.FullName)
	assert.Equal(t, "Builds reliable systems & teams.", doc.Header.Summary)

	kinds := []string{}
	for _, c := range doc.Header.Contacts {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []string{"email", "phone", "linkedin"}, kinds)
	assert.Equal(t, "https://linkedin.com/in/jane", doc.Header.Contacts[2].Link)
	assert.Empty(t, doc.Header.Contacts[0].Link)

	creative := Render(sampleContent(), "2")
	assert.Equal(t, VariantCreative, creative.Variant)
	assert.Len(t, creative.Header.Contacts, 2)
}

func TestRender_EmptyContent(t *testing.T) {
	doc := Render(resume.New(), "")
	assert.Equal(t, VariantModern, doc.Variant)
	assert.Empty(t, doc.Sections)
	assert.Empty(t, doc.Header.Contacts)
}

func TestRender_ProjectsAndCertifications(t *testing.T) {
	c := resume.New()
	c.Projects = []resume.Project{
		{ID: "p1", Name: "cvforge", URL: "https://github.com/x/cvforge", Technologies: []string{"Go", ""}, EndDate: "2024-02"},
		{ID: "p2", Name: "side", StartDate: "2021-01", EndDate: "2021-05"},
	}
	c.Certifications = []resume.Certification{
		{ID: "c1", Name: "CKA", Issuer: "CNCF", Date: "2023-05-10", ExpiryDate: "2026-05-10", CredentialID: "LF-123"},
	}
	doc := Render(c, "4")
	require.Len(t, doc.Sections, 2)

	p := doc.Sections[0].Entries
	assert.Equal(t, "Feb 2024", p[0].Period)
	assert.Equal(t, []string{"Go"}, p[0].Tags)
	assert.Equal(t, "https://github.com/x/cvforge", p[0].Link)
	assert.Equal(t, "Jan 2021 - May 2021", p[1].Period)

	cert := doc.Sections[1].Entries[0]
	assert.Equal(t, "May 2023", cert.Period)
	assert.Equal(t, "Expires: May 2026", cert.Note)
	assert.Equal(t, []string{"Credential ID: LF-123"}, cert.Details)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Jan 2024", FormatDate("2024-01-15"))
	assert.Equal(t, "Sep 2019", FormatDate("2019-09"))
	assert.Equal(t, "Summer 2019", FormatDate("Summer 2019"))
	assert.Equal(t, "", FormatDate("  "))
}

func TestWriteHTML_EscapesUserText(t *testing.T) {
	c := sampleContent()
	c.Experience[0].Description = `<script>alert("x")</script>Shipped things`

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, Render(c, "2")))
	out := buf.String()

	assert.Contains(t, out, `class="cv cv-creative"`)
	assert.Contains(t, out, "<title>Jane Doe CV</title>")
	assert.Contains(t, out, "Professional Experience")
	assert.Contains(t, out, "Shipped things")
	assert.NotContains(t, out, "<script>alert")
	assert.Contains(t, out, "systems &amp; teams")
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
}

func TestRender_SkipsBlankEntriesFromUnfinishedDrafts(t *testing.T) {
	c := resume.New()
	c.PersonalInfo.FirstName = "Half"
	c.Experience = []resume.Experience{
		resume.NewExperience(),
		{ID: "e1", Company: "Acme", Position: "Engineer"},
	}
	c.Education = []resume.Education{resume.NewEducation()}
	c.Skills = []resume.Skill{resume.NewSkill()}
	c.Projects = []resume.Project{resume.NewProject()}
	c.Certifications = []resume.Certification{resume.NewCertification()}
	c.Languages = []resume.Language{resume.NewLanguage()}

	doc := Render(c, "")
	require.Len(t, doc.Sections, 1)
	exp := doc.Sections[0]
	require.Len(t, exp.Entries, 1)
	assert.Equal(t, "Engineer", exp.Entries[0].Title)
	// no dates, no period
	assert.Empty(t, exp.Entries[0].Period)

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, doc))
	assert.NotContains(t, buf.String(), "Present")
}

func TestSpan(t *testing.T) {
	assert.Equal(t, "", span("", "", false))
	assert.Equal(t, "", span(" ", "", true))
	assert.Equal(t, "Present", span("", "2020-01", true))
	assert.Equal(t, "Jan 2020", span("", "2020-01", false))
	assert.Equal(t, "Jan 2020 - Present", span("2020-01", "", false))
}
