package builder

import "fmt"

// Section is one step of the builder, in display order.
type Section int

const (
	SectionPersonalInfo Section = iota
	SectionExperience
	SectionEducation
	SectionSkills
	SectionProjects
	SectionCertifications
	SectionLanguages
)

var sectionInfo = [...]struct {
	title       string
	description string
}{
	SectionPersonalInfo:   {"Personal Info", "Basic information and contact details"},
	SectionExperience:     {"Experience", "Work history and achievements"},
	SectionEducation:      {"Education", "Educational background"},
	SectionSkills:         {"Skills", "Technical and soft skills"},
	SectionProjects:       {"Projects", "Notable projects and work"},
	SectionCertifications: {"Certifications", "Certificates and achievements"},
	SectionLanguages:      {"Languages", "Language proficiencies"},
}

// SectionCount 是构建器的步骤总数。
const SectionCount = len(sectionInfo)

// Sections returns every section in order.
func Sections() []Section {
	out := make([]Section, SectionCount)
	for i := range out {
		out[i] = Section(i)
	}
	return out
}

func (s Section) Valid() bool { return s >= 0 && int(s) < SectionCount }

func (s Section) Title() string {
	if !s.Valid() {
		return fmt.Sprintf("Section(%d)", int(s))
	}
	return sectionInfo[s].title
}

func (s Section) Description() string {
	if !s.Valid() {
		return ""
	}
	return sectionInfo[s].description
}

func (s Section) String() string { return s.Title() }
