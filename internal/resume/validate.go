package resume

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	contentValidator *validator.Validate
	indexPattern     = regexp.MustCompile(`\[\d+\]`)
)

func init() {
	contentValidator = validator.New(validator.WithRequiredStructEnabled())
	contentValidator.RegisterTagNameFunc(jsonFieldName)
}

// Violation 描述单个字段的校验失败，Path 使用 JSON 字段名，例如 experience[0].company。
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError 汇总一次校验中的全部字段错误，供编辑界面逐字段展示。
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Path+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether a violation was recorded for path.
func (e *ValidationError) Has(path string) bool {
	for _, v := range e.Violations {
		if v.Path == path {
			return true
		}
	}
	return false
}

// Decode parses a candidate content payload. Malformed JSON is reported as a violation
// so callers can surface it the same way as field errors.
func Decode(raw []byte) (Content, error) {
	var c Content
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return c, &ValidationError{Violations: []Violation{{Path: "content", Message: "Content is required"}}}
	}

	if err := json.Unmarshal(trimmed, &c); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return c, &ValidationError{Violations: []Violation{{
				Path:    typeErr.Field,
				Message: fmt.Sprintf("Expected %s, received %s", typeErr.Type.Kind(), typeErr.Value),
			}}}
		}
		return c, &ValidationError{Violations: []Violation{{Path: "content", Message: "Content must be a JSON object"}}}
	}
	return c, nil
}

// Validate checks c against the document schema. It returns nil or a *ValidationError.
func Validate(c Content) error {
	err := contentValidator.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate content: %w", err)
	}

	out := &ValidationError{Violations: make([]Violation, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		path := trimRoot(fe.Namespace())
		out.Violations = append(out.Violations, Violation{
			Path:    path,
			Message: messageFor(path, fe),
		})
	}
	return out
}

// DecodeAndValidate is the boundary used before anything is written to storage.
// The returned content is normalized.
func DecodeAndValidate(raw []byte) (Content, error) {
	c, err := Decode(raw)
	if err != nil {
		return Content{}, err
	}
	c = Normalize(c)
	if err := Validate(c); err != nil {
		return Content{}, err
	}
	return c, nil
}

// CurrentWithEndDate lists entries flagged as current that still carry an end date.
// The editing form prevents this but stored data is not required to be consistent,
// so the result is advisory only.
func CurrentWithEndDate(c Content) []Violation {
	var out []Violation
	for i, e := range c.Experience {
		if e.Current && strings.TrimSpace(e.EndDate) != "" {
			out = append(out, Violation{
				Path:    fmt.Sprintf("experience[%d].endDate", i),
				Message: "Current position should not have an end date",
			})
		}
	}
	for i, e := range c.Education {
		if e.Current && strings.TrimSpace(e.EndDate) != "" {
			out = append(out, Violation{
				Path:    fmt.Sprintf("education[%d].endDate", i),
				Message: "Current education should not have an end date",
			})
		}
	}
	return out
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// trimRoot drops the leading struct name validator puts in front of every namespace.
func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

var requiredMessages = map[string]string{
	"personalInfo.firstName": "First name is required",
	"personalInfo.lastName":  "Last name is required",
	"experience.company":     "Company is required",
	"experience.position":    "Position is required",
	"experience.startDate":   "Start date is required",
	"education.institution":  "Institution is required",
	"education.degree":       "Degree is required",
	"education.startDate":    "Start date is required",
	"skills.name":            "Skill name is required",
	"projects.name":          "Project name is required",
	"certifications.name":    "Certification name is required",
	"certifications.issuer":  "Issuer is required",
	"certifications.date":    "Date is required",
	"languages.name":         "Language name is required",
	"languages.proficiency":  "Proficiency is required",
}

func messageFor(path string, fe validator.FieldError) string {
	key := indexPattern.ReplaceAllString(path, "")
	switch fe.Tag() {
	case "email":
		return "Invalid email address"
	case "url":
		return "Invalid url"
	case "oneof":
		return "Invalid enum value. Expected " + strings.Join(strings.Fields(fe.Param()), " | ")
	case "required":
		if key == "personalInfo.email" {
			return "Invalid email address"
		}
		if msg, ok := requiredMessages[key]; ok {
			return msg
		}
		return "Required"
	default:
		return "Invalid value"
	}
}
