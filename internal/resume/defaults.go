package resume

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// New 返回新建简历时使用的空白内容：个人信息留空，各列表为空数组。
func New() Content {
	return Normalize(Content{})
}

// Normalize 将缺失的列表补成空数组，保证序列化结果始终包含全部七个部分。
func Normalize(c Content) Content {
	if c.Experience == nil {
		c.Experience = []Experience{}
	}
	if c.Education == nil {
		c.Education = []Education{}
	}
	if c.Skills == nil {
		c.Skills = []Skill{}
	}
	if c.Projects == nil {
		c.Projects = []Project{}
	}
	if c.Certifications == nil {
		c.Certifications = []Certification{}
	}
	if c.Languages == nil {
		c.Languages = []Language{}
	}
	return c
}

// sectionKeys 是除 personalInfo 外的六个列表字段。
var sectionKeys = []string{"experience", "education", "skills", "projects", "certifications", "languages"}

// FillMissingSections returns raw with absent or null list sections set to [].
// Every other value, including empty optional strings and empty arrays, is kept as sent.
func FillMissingSections(raw []byte) ([]byte, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode content object: %w", err)
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	for _, key := range sectionKeys {
		if v, ok := fields[key]; !ok || string(v) == "null" {
			fields[key] = json.RawMessage("[]")
		}
	}
	out, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode content object: %w", err)
	}
	return out, nil
}

// Blank entries used when an empty list section is opened in the builder.

func NewExperience() Experience {
	return Experience{ID: uuid.NewString()}
}

func NewEducation() Education {
	return Education{ID: uuid.NewString()}
}

func NewSkill() Skill {
	return Skill{ID: uuid.NewString()}
}

func NewProject() Project {
	return Project{ID: uuid.NewString(), Technologies: []string{}}
}

func NewCertification() Certification {
	return Certification{ID: uuid.NewString()}
}

func NewLanguage() Language {
	return Language{ID: uuid.NewString(), Proficiency: ProficiencyConversational}
}
