package builder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvforge/internal/client"
	"cvforge/internal/resume"
)

type call struct {
	method string
	id     string
	create client.CreateCVRequest
	update client.UpdateCVRequest
}

type fakeSaver struct {
	calls     []call
	createErr error
	updateErr error
}

func (f *fakeSaver) Create(_ context.Context, req client.CreateCVRequest) (*client.CV, error) {
	f.calls = append(f.calls, call{method: "create", create: req})
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &client.CV{ID: "doc-1", Title: req.Title, Content: req.Content, IsDraft: true}, nil
}

func (f *fakeSaver) Update(_ context.Context, id string, req client.UpdateCVRequest) (*client.CV, error) {
	f.calls = append(f.calls, call{method: "update", id: id, update: req})
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &client.CV{ID: id}, nil
}

func TestSections(t *testing.T) {
	sections := Sections()
	require.Len(t, sections, 7)
	assert.Equal(t, "Personal Info", sections[0].Title())
	assert.Equal(t, "Languages", sections[6].Title())
	assert.False(t, Section(7).Valid())
}

func TestNavigation(t *testing.T) {
	s := NewSession("1")
	assert.Equal(t, SectionPersonalInfo, s.Step)

	s.Previous()
	assert.Equal(t, SectionPersonalInfo, s.Step)

	for i := 0; i < 10; i++ {
		s.Next()
	}
	assert.Equal(t, SectionLanguages, s.Step)
	assert.InDelta(t, 100.0, s.Progress(), 0.001)

	require.NoError(t, s.GoTo(SectionSkills))
	assert.Equal(t, SectionSkills, s.Step)
	assert.Error(t, s.GoTo(Section(-1)))
	assert.Equal(t, SectionSkills, s.Step)
}

func TestEnteringEmptySectionSeedsOneBlankEntry(t *testing.T) {
	s := NewSession("")
	s.Next()
	require.Len(t, s.Content.Experience, 1)
	assert.NotEmpty(t, s.Content.Experience[0].ID)

	// re-entering does not add another one
	s.Previous()
	s.Next()
	assert.Len(t, s.Content.Experience, 1)

	require.NoError(t, s.GoTo(SectionLanguages))
	require.Len(t, s.Content.Languages, 1)
	assert.Equal(t, resume.ProficiencyConversational, s.Content.Languages[0].Proficiency)
}

func TestReducersDoNotMutateInput(t *testing.T) {
	before := resume.New()
	before.Skills = []resume.Skill{{ID: "a", Name: "Go"}, {ID: "b", Name: "SQL"}}

	added := AddSkill(resume.Skill{ID: "c", Name: "Rust"})(before)
	updated := UpdateSkill(0, resume.Skill{ID: "a", Name: "Golang"})(before)
	removed := RemoveSkill(0)(before)

	assert.Equal(t, []resume.Skill{{ID: "a", Name: "Go"}, {ID: "b", Name: "SQL"}}, before.Skills)
	assert.Len(t, added.Skills, 3)
	assert.Equal(t, "Golang", updated.Skills[0].Name)
	assert.Equal(t, []resume.Skill{{ID: "b", Name: "SQL"}}, removed.Skills)

	assert.Equal(t, before.Skills, RemoveSkill(5)(before).Skills)
	assert.Equal(t, before.Skills, UpdateSkill(-1, resume.Skill{})(before).Skills)
}

func TestListReducersCoverEverySection(t *testing.T) {
	c := resume.New()
	c = SetPersonalInfo(resume.PersonalInfo{FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.io"})(c)
	c = AddExperience(resume.Experience{ID: "e"})(c)
	c = AddEducation(resume.Education{ID: "ed"})(c)
	c = AddProject(resume.Project{ID: "p"})(c)
	c = AddCertification(resume.Certification{ID: "c"})(c)
	c = AddLanguage(resume.Language{ID: "l"})(c)
	c = UpdateExperience(0, resume.Experience{ID: "e", Company: "Analytical Engines"})(c)
	c = UpdateEducation(0, resume.Education{ID: "ed", Degree: "Maths"})(c)
	c = UpdateProject(0, resume.Project{ID: "p", Name: "Notes"})(c)
	c = UpdateCertification(0, resume.Certification{ID: "c", Name: "Cert"})(c)
	c = UpdateLanguage(0, resume.Language{ID: "l", Name: "French"})(c)

	assert.Equal(t, "Analytical Engines", c.Experience[0].Company)
	assert.Equal(t, "Maths", c.Education[0].Degree)
	assert.Equal(t, "Notes", c.Projects[0].Name)
	assert.Equal(t, "Cert", c.Certifications[0].Name)
	assert.Equal(t, "French", c.Languages[0].Name)

	c = RemoveExperience(0)(c)
	c = RemoveEducation(0)(c)
	c = RemoveProject(0)(c)
	c = RemoveCertification(0)(c)
	c = RemoveLanguage(0)(c)
	assert.Empty(t, c.Experience)
	assert.Empty(t, c.Education)
	assert.Empty(t, c.Projects)
	assert.Empty(t, c.Certifications)
	assert.Empty(t, c.Languages)

	items := []resume.Experience{{ID: "x"}}
	c = SetExperience(items)(c)
	items[0].ID = "mutated"
	assert.Equal(t, "x", c.Experience[0].ID)

	c = SetEducation(nil)(c)
	c = SetSkills([]resume.Skill{{ID: "s"}})(c)
	c = SetProjects(nil)(c)
	c = SetCertifications(nil)(c)
	c = SetLanguages(nil)(c)
	assert.NotNil(t, c.Education)
	assert.Len(t, c.Skills, 1)
}

func TestSaveCreatesThenUpdates(t *testing.T) {
	saver := &fakeSaver{}
	s := NewSession("2")
	s.Apply(SetPersonalInfo(resume.PersonalInfo{FirstName: "Jane", LastName: "Doe", Email: "jane@x.io"}))
	assert.Equal(t, StatusUnsaved, s.Status)

	require.NoError(t, s.Save(context.Background(), saver, false))
	assert.Equal(t, "doc-1", s.DocumentID)
	assert.Equal(t, StatusSavedDraft, s.Status)
	require.Len(t, saver.calls, 1)
	assert.Equal(t, "create", saver.calls[0].method)
	assert.Equal(t, "Jane Doe CV", saver.calls[0].create.Title)
	require.NotNil(t, saver.calls[0].create.TemplateID)
	assert.Equal(t, "2", *saver.calls[0].create.TemplateID)

	require.NoError(t, s.Save(context.Background(), saver, true))
	assert.Equal(t, StatusSavedFinal, s.Status)
	require.Len(t, saver.calls, 2)
	upd := saver.calls[1]
	assert.Equal(t, "update", upd.method)
	assert.Equal(t, "doc-1", upd.id)
	require.NotNil(t, upd.update.IsDraft)
	assert.False(t, *upd.update.IsDraft)
	require.NotNil(t, upd.update.Content)
	assert.Equal(t, "Jane", upd.update.Content.PersonalInfo.FirstName)
}

func TestSaveFinalOnNewSessionCreatesThenClearsDraft(t *testing.T) {
	saver := &fakeSaver{}
	s := NewSession("")

	require.NoError(t, s.Save(context.Background(), saver, true))
	require.Len(t, saver.calls, 2)
	assert.Equal(t, "create", saver.calls[0].method)
	assert.Nil(t, saver.calls[0].create.TemplateID)
	assert.Equal(t, "update", saver.calls[1].method)
	assert.False(t, *saver.calls[1].update.IsDraft)
	assert.Equal(t, StatusSavedFinal, s.Status)
}

func TestSaveFailureKeepsWorkingCopy(t *testing.T) {
	boom := errors.New("network down")
	saver := &fakeSaver{createErr: boom}
	s := NewSession("1")
	s.Apply(SetPersonalInfo(resume.PersonalInfo{FirstName: "Keep", LastName: "Me"}))

	err := s.Save(context.Background(), saver, false)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, StatusSaveFailed, s.Status)
	assert.ErrorIs(t, s.LastError, boom)
	assert.Equal(t, "Keep", s.Content.PersonalInfo.FirstName)
	assert.Empty(t, s.DocumentID)
	assert.Len(t, saver.calls, 1, "failed saves are not retried")

	// the next explicit save succeeds and clears the error
	saver.createErr = nil
	require.NoError(t, s.Save(context.Background(), saver, false))
	assert.Nil(t, s.LastError)
	assert.Equal(t, StatusSavedDraft, s.Status)
}

func TestSaveFinalFailureAfterCreateKeepsID(t *testing.T) {
	saver := &fakeSaver{updateErr: client.ErrNotFound}
	s := NewSession("")

	err := s.Save(context.Background(), saver, true)
	require.ErrorIs(t, err, client.ErrNotFound)
	assert.Equal(t, "doc-1", s.DocumentID)
	assert.Equal(t, StatusSaveFailed, s.Status)
}

func TestSaveWithoutTemplateClearsStoredTemplate(t *testing.T) {
	saver := &fakeSaver{}
	tpl := "2"
	s := Open(client.CV{ID: "doc-3", TemplateID: &tpl, IsDraft: true})
	s.SelectTemplate("")

	require.NoError(t, s.Save(context.Background(), saver, false))
	require.Len(t, saver.calls, 1)
	upd := saver.calls[0].update
	assert.Nil(t, upd.TemplateID)
	assert.True(t, upd.ClearTemplate)

	s.SelectTemplate("4")
	require.NoError(t, s.Save(context.Background(), saver, false))
	upd = saver.calls[1].update
	require.NotNil(t, upd.TemplateID)
	assert.Equal(t, "4", *upd.TemplateID)
	assert.False(t, upd.ClearTemplate)
}

func TestOpenExistingDocument(t *testing.T) {
	tpl := "4"
	s := Open(client.CV{ID: "doc-9", TemplateID: &tpl, IsDraft: true, Content: resume.Content{}})
	assert.Equal(t, "doc-9", s.DocumentID)
	assert.Equal(t, "4", s.TemplateID)
	assert.Equal(t, StatusSavedDraft, s.Status)
	assert.NotNil(t, s.Content.Skills)

	s.SelectTemplate("2")
	assert.Equal(t, StatusUnsaved, s.Status)
}
