// Package render turns CV content into a presentation model and HTML page.
// Rendering is pure: the same content and template id always yield the same Document.
package render

import (
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"cvforge/internal/resume"
)

// Variant 是模板的视觉风格。
type Variant string

const (
	VariantModern   Variant = "modern"
	VariantCreative Variant = "creative"
	VariantMinimal  Variant = "minimal"
)

// VariantFor maps a template id onto a layout. Unknown and empty ids use the modern layout.
func VariantFor(templateID string) Variant {
	switch strings.TrimSpace(templateID) {
	case "2":
		return VariantCreative
	case "4":
		return VariantMinimal
	default:
		return VariantModern
	}
}

type SectionKind string

const (
	SectionExperience     SectionKind = "experience"
	SectionEducation      SectionKind = "education"
	SectionSkills         SectionKind = "skills"
	SectionProjects       SectionKind = "projects"
	SectionCertifications SectionKind = "certifications"
	SectionLanguages      SectionKind = "languages"
)

// Document is the rendered presentation of one CV.
type Document struct {
	Variant  Variant
	Header   Header
	Sections []Section
}

type Header struct {
	FullName string
	Contacts []Contact
	Summary  string
}

// Contact is one item of the header contact line; Link is set for web addresses.
type Contact struct {
	Kind  string
	Value string
	Link  string
}

type Section struct {
	Kind    SectionKind
	Title   string
	Entries []Entry
	Groups  []Group
}

// Entry 表示经历、教育、项目、证书或语言中的一条。
type Entry struct {
	Title       string
	Subtitle    string
	Details     []string
	Period      string
	Note        string
	Description string
	Link        string
	Tags        []string
	Badge       string
}

// Group 是按类别聚合的技能。
type Group struct {
	Name  string
	Items []string
}

const (
	present       = "Present"
	otherCategory = "Other"
	dateLayout    = "Jan 2006"
)

var textPolicy = bluemonday.StrictPolicy()

// Render builds the presentation model. Empty sections and absent optional fields are omitted.
func Render(c resume.Content, templateID string) Document {
	variant := VariantFor(templateID)
	doc := Document{
		Variant: variant,
		Header:  renderHeader(c.PersonalInfo, variant),
	}

	if s, ok := experienceSection(c.Experience); ok {
		doc.Sections = append(doc.Sections, s)
	}
	if s, ok := educationSection(c.Education); ok {
		doc.Sections = append(doc.Sections, s)
	}
	if s, ok := skillsSection(c.Skills); ok {
		doc.Sections = append(doc.Sections, s)
	}
	if s, ok := projectsSection(c.Projects); ok {
		doc.Sections = append(doc.Sections, s)
	}
	if s, ok := certificationsSection(c.Certifications); ok {
		doc.Sections = append(doc.Sections, s)
	}
	if s, ok := languagesSection(c.Languages); ok {
		doc.Sections = append(doc.Sections, s)
	}
	return doc
}

func renderHeader(p resume.PersonalInfo, variant Variant) Header {
	h := Header{
		FullName: strings.TrimSpace(clean(p.FirstName) + " " + clean(p.LastName)),
		Summary:  clean(p.Summary),
	}
	add := func(kind, value string, link bool) {
		value = clean(value)
		if value == "" {
			return
		}
		contact := Contact{Kind: kind, Value: value}
		if link && isWebAddress(value) {
			contact.Link = value
		}
		h.Contacts = append(h.Contacts, contact)
	}
	add("email", p.Email, false)
	add("phone", p.Phone, false)
	add("location", p.Location, false)
	add("website", p.Website, true)
	// 创意模板的头部只展示四项联系方式。
	if variant != VariantCreative {
		add("linkedin", p.LinkedIn, true)
	}
	return h
}

func experienceSection(items []resume.Experience) (Section, bool) {
	if len(items) == 0 {
		return Section{}, false
	}
	s := Section{Kind: SectionExperience, Title: "Professional Experience"}
	for _, e := range items {
		if blank(e.Position, e.Company) {
			continue
		}
		entry := Entry{
			Title:       clean(e.Position),
			Subtitle:    clean(e.Company),
			Period:      span(e.StartDate, e.EndDate, e.Current),
			Description: clean(e.Description),
		}
		if loc := clean(e.Location); loc != "" {
			entry.Details = append(entry.Details, loc)
		}
		s.Entries = append(s.Entries, entry)
	}
	return s, len(s.Entries) > 0
}

func educationSection(items []resume.Education) (Section, bool) {
	if len(items) == 0 {
		return Section{}, false
	}
	s := Section{Kind: SectionEducation, Title: "Education"}
	for _, e := range items {
		if blank(e.Degree, e.Institution) {
			continue
		}
		entry := Entry{
			Title:       clean(e.Degree),
			Subtitle:    clean(e.Institution),
			Period:      span(e.StartDate, e.EndDate, e.Current),
			Description: clean(e.Description),
		}
		if field := clean(e.Field); field != "" {
			entry.Details = append(entry.Details, field)
		}
		if gpa := clean(e.GPA); gpa != "" {
			entry.Details = append(entry.Details, "GPA: "+gpa)
		}
		s.Entries = append(s.Entries, entry)
	}
	return s, len(s.Entries) > 0
}

// skillsSection groups skills by category in order of first appearance.
func skillsSection(items []resume.Skill) (Section, bool) {
	if len(items) == 0 {
		return Section{}, false
	}
	s := Section{Kind: SectionSkills, Title: "Skills"}
	index := map[string]int{}
	for _, sk := range items {
		category := clean(sk.Category)
		if category == "" {
			category = otherCategory
		}
		label := clean(sk.Name)
		if label == "" {
			continue
		}
		if sk.Level != nil && *sk.Level != "" {
			label += " (" + clean(*sk.Level) + ")"
		}
		i, ok := index[category]
		if !ok {
			i = len(s.Groups)
			index[category] = i
			s.Groups = append(s.Groups, Group{Name: category})
		}
		s.Groups[i].Items = append(s.Groups[i].Items, label)
	}
	return s, len(s.Groups) > 0
}

func projectsSection(items []resume.Project) (Section, bool) {
	if len(items) == 0 {
		return Section{}, false
	}
	s := Section{Kind: SectionProjects, Title: "Projects"}
	for _, p := range items {
		if blank(p.Name) {
			continue
		}
		entry := Entry{
			Title:       clean(p.Name),
			Description: clean(p.Description),
		}
		if u := clean(p.URL); isWebAddress(u) {
			entry.Link = u
		}
		for _, tech := range p.Technologies {
			if tech = clean(tech); tech != "" {
				entry.Tags = append(entry.Tags, tech)
			}
		}
		start, end := FormatDate(p.StartDate), FormatDate(p.EndDate)
		switch {
		case start != "" && end != "":
			entry.Period = start + " - " + end
		case start != "":
			entry.Period = start
		default:
			entry.Period = end
		}
		s.Entries = append(s.Entries, entry)
	}
	return s, len(s.Entries) > 0
}

func certificationsSection(items []resume.Certification) (Section, bool) {
	if len(items) == 0 {
		return Section{}, false
	}
	s := Section{Kind: SectionCertifications, Title: "Certifications"}
	for _, c := range items {
		if blank(c.Name, c.Issuer) {
			continue
		}
		entry := Entry{
			Title:    clean(c.Name),
			Subtitle: clean(c.Issuer),
			Period:   FormatDate(c.Date),
		}
		if id := clean(c.CredentialID); id != "" {
			entry.Details = append(entry.Details, "Credential ID: "+id)
		}
		if exp := FormatDate(c.ExpiryDate); exp != "" {
			entry.Note = "Expires: " + exp
		}
		if u := clean(c.URL); isWebAddress(u) {
			entry.Link = u
		}
		s.Entries = append(s.Entries, entry)
	}
	return s, len(s.Entries) > 0
}

func languagesSection(items []resume.Language) (Section, bool) {
	if len(items) == 0 {
		return Section{}, false
	}
	s := Section{Kind: SectionLanguages, Title: "Languages"}
	for _, l := range items {
		if blank(l.Name) {
			continue
		}
		s.Entries = append(s.Entries, Entry{Title: clean(l.Name), Badge: clean(l.Proficiency)})
	}
	return s, len(s.Entries) > 0
}

// span formats "start - end"; the end is Present when current or missing.
// An entry with neither date has no period at all.
func span(start, end string, current bool) string {
	if FormatDate(start) == "" && FormatDate(end) == "" {
		return ""
	}
	to := present
	if !current && strings.TrimSpace(end) != "" {
		to = FormatDate(end)
	}
	from := FormatDate(start)
	if from == "" {
		return to
	}
	return from + " - " + to
}

var dateInputs = []string{"2006-01-02", "2006-01", time.RFC3339}

// FormatDate renders a stored date as "Jan 2006". Unparseable values are returned unchanged.
func FormatDate(value string) string {
	value = clean(value)
	if value == "" {
		return ""
	}
	for _, layout := range dateInputs {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(dateLayout)
		}
	}
	return value
}

// clean 去除用户输入中的标记，只保留纯文本。
func clean(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// blank reports whether every heading field is empty once markup is removed.
func blank(fields ...string) bool {
	for _, f := range fields {
		if clean(f) != "" {
			return false
		}
	}
	return true
}

func isWebAddress(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
