package resume

// Content 表示存储在 cvs.content(JSONB) 中的结构化简历数据。
type Content struct {
	PersonalInfo   PersonalInfo    `json:"personalInfo"`
	Experience     []Experience    `json:"experience" validate:"dive"`
	Education      []Education     `json:"education" validate:"dive"`
	Skills         []Skill         `json:"skills" validate:"dive"`
	Projects       []Project       `json:"projects" validate:"dive"`
	Certifications []Certification `json:"certifications" validate:"dive"`
	Languages      []Language      `json:"languages" validate:"dive"`
}

// PersonalInfo 是简历的基本信息与联系方式。
type PersonalInfo struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`
	Website   string `json:"website,omitempty" validate:"omitempty,url"`
	LinkedIn  string `json:"linkedin,omitempty" validate:"omitempty,url"`
	Summary   string `json:"summary,omitempty"`
}

// Experience 是一段工作经历。Current 为 true 时 EndDate 理应为空，但 schema 不强制。
type Experience struct {
	ID          string `json:"id"`
	Company     string `json:"company" validate:"required"`
	Position    string `json:"position" validate:"required"`
	StartDate   string `json:"startDate" validate:"required"`
	EndDate     string `json:"endDate,omitempty"`
	Current     bool   `json:"current"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

// Education 是一段教育经历。
type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution" validate:"required"`
	Degree      string `json:"degree" validate:"required"`
	Field       string `json:"field,omitempty"`
	StartDate   string `json:"startDate" validate:"required"`
	EndDate     string `json:"endDate,omitempty"`
	Current     bool   `json:"current"`
	GPA         string `json:"gpa,omitempty"`
	Description string `json:"description,omitempty"`
}

// Skill levels.
const (
	SkillBeginner     = "Beginner"
	SkillIntermediate = "Intermediate"
	SkillAdvanced     = "Advanced"
	SkillExpert       = "Expert"
)

// Skill.Level 可以缺省，但出现时必须是四个等级之一（空字符串同样被拒绝）。
type Skill struct {
	ID       string  `json:"id"`
	Name     string  `json:"name" validate:"required"`
	Level    *string `json:"level,omitempty" validate:"omitempty,oneof=Beginner Intermediate Advanced Expert"`
	Category string  `json:"category,omitempty"`
}

// LevelOf returns a pointer suitable for Skill.Level.
func LevelOf(level string) *string { return &level }

type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	URL          string   `json:"url,omitempty" validate:"omitempty,url"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
}

type Certification struct {
	ID           string `json:"id"`
	Name         string `json:"name" validate:"required"`
	Issuer       string `json:"issuer" validate:"required"`
	Date         string `json:"date" validate:"required"`
	ExpiryDate   string `json:"expiryDate,omitempty"`
	CredentialID string `json:"credentialId,omitempty"`
	URL          string `json:"url,omitempty" validate:"omitempty,url"`
}

// Language proficiencies.
const (
	ProficiencyBasic          = "Basic"
	ProficiencyConversational = "Conversational"
	ProficiencyFluent         = "Fluent"
	ProficiencyNative         = "Native"
)

type Language struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required"`
	Proficiency string `json:"proficiency" validate:"required,oneof=Basic Conversational Fluent Native"`
}
