// Package builder models one interactive CV editing session: the step cursor,
// the working copy of the content and the save lifecycle.
package builder

import (
	"context"
	"fmt"

	"cvforge/internal/client"
	"cvforge/internal/resume"
)

// Status 描述工作副本与服务端的同步状态。
type Status string

const (
	StatusUnsaved    Status = "unsaved"
	StatusSaving     Status = "saving"
	StatusSavedDraft Status = "saved_draft"
	StatusSavedFinal Status = "saved_final"
	StatusSaveFailed Status = "save_failed"
)

// Saver persists documents; *client.Client satisfies it.
type Saver interface {
	Create(ctx context.Context, req client.CreateCVRequest) (*client.CV, error)
	Update(ctx context.Context, id string, req client.UpdateCVRequest) (*client.CV, error)
}

// Session is not safe for concurrent use; one session belongs to one editor.
type Session struct {
	DocumentID string
	TemplateID string
	Content    resume.Content
	Step       Section
	Status     Status
	LastError  error
}

// NewSession starts editing a brand new document.
func NewSession(templateID string) *Session {
	return &Session{
		TemplateID: templateID,
		Content:    resume.New(),
		Step:       SectionPersonalInfo,
		Status:     StatusUnsaved,
	}
}

// Open resumes editing a stored document.
func Open(cv client.CV) *Session {
	s := &Session{
		DocumentID: cv.ID,
		Content:    resume.Normalize(cv.Content),
		Step:       SectionPersonalInfo,
		Status:     StatusSavedFinal,
	}
	if cv.IsDraft {
		s.Status = StatusSavedDraft
	}
	if cv.TemplateID != nil {
		s.TemplateID = *cv.TemplateID
	}
	return s
}

// Title derives the document title from the personal info.
func (s *Session) Title() string {
	return fmt.Sprintf("%s %s CV", s.Content.PersonalInfo.FirstName, s.Content.PersonalInfo.LastName)
}

// Progress returns the completion percentage of the step cursor.
func (s *Session) Progress() float64 {
	return float64(int(s.Step)+1) / float64(SectionCount) * 100
}

// Apply replaces the working copy with r's result.
func (s *Session) Apply(r Reducer) {
	s.Content = r(s.Content)
	s.Status = StatusUnsaved
}

// SelectTemplate 切换模板，不影响内容。
func (s *Session) SelectTemplate(id string) {
	if s.TemplateID == id {
		return
	}
	s.TemplateID = id
	s.Status = StatusUnsaved
}

// Next advances one step; it is a no-op on the last step.
func (s *Session) Next() {
	if int(s.Step) < SectionCount-1 {
		s.enter(s.Step + 1)
	}
}

// Previous goes back one step; it is a no-op on the first step.
func (s *Session) Previous() {
	if s.Step > SectionPersonalInfo {
		s.enter(s.Step - 1)
	}
}

// GoTo jumps to any section.
func (s *Session) GoTo(section Section) error {
	if !section.Valid() {
		return fmt.Errorf("unknown section %d", int(section))
	}
	s.enter(section)
	return nil
}

// enter moves the cursor. An empty repeatable section gets one blank entry to edit.
func (s *Session) enter(section Section) {
	s.Step = section
	if seed := seedFor(section, s.Content); seed != nil {
		s.Content = seed(s.Content)
	}
}

func seedFor(section Section, c resume.Content) Reducer {
	switch section {
	case SectionExperience:
		if len(c.Experience) == 0 {
			return AddExperience(resume.NewExperience())
		}
	case SectionEducation:
		if len(c.Education) == 0 {
			return AddEducation(resume.NewEducation())
		}
	case SectionSkills:
		if len(c.Skills) == 0 {
			return AddSkill(resume.NewSkill())
		}
	case SectionProjects:
		if len(c.Projects) == 0 {
			return AddProject(resume.NewProject())
		}
	case SectionCertifications:
		if len(c.Certifications) == 0 {
			return AddCertification(resume.NewCertification())
		}
	case SectionLanguages:
		if len(c.Languages) == 0 {
			return AddLanguage(resume.NewLanguage())
		}
	}
	return nil
}

// Save persists the working copy: create when no document exists yet, otherwise update.
// final=false saves a draft; final=true clears the draft flag. A failed save keeps the
// working copy and any id already assigned, records the error and is never retried.
func (s *Session) Save(ctx context.Context, saver Saver, final bool) error {
	s.Status = StatusSaving
	s.LastError = nil

	var templateID *string
	if s.TemplateID != "" {
		id := s.TemplateID
		templateID = &id
	}
	title := s.Title()
	content := s.Content

	if s.DocumentID == "" {
		created, err := saver.Create(ctx, client.CreateCVRequest{
			Title:      title,
			Content:    content,
			TemplateID: templateID,
		})
		if err != nil {
			return s.fail(err)
		}
		s.DocumentID = created.ID
		if final {
			// 新建接口总是保存为草稿，定稿需要再发一次更新。
			isDraft := false
			if _, err := saver.Update(ctx, s.DocumentID, client.UpdateCVRequest{IsDraft: &isDraft}); err != nil {
				return s.fail(err)
			}
		}
	} else {
		isDraft := !final
		// 未选模板时显式清除服务端已保存的模板。
		if _, err := saver.Update(ctx, s.DocumentID, client.UpdateCVRequest{
			Title:         &title,
			Content:       &content,
			TemplateID:    templateID,
			IsDraft:       &isDraft,
			ClearTemplate: templateID == nil,
		}); err != nil {
			return s.fail(err)
		}
	}

	if final {
		s.Status = StatusSavedFinal
	} else {
		s.Status = StatusSavedDraft
	}
	return nil
}

func (s *Session) fail(err error) error {
	s.Status = StatusSaveFailed
	s.LastError = err
	return fmt.Errorf("save cv: %w", err)
}
