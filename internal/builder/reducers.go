package builder

import "cvforge/internal/resume"

// Reducer derives new content from the previous content. Reducers never mutate their input.
type Reducer func(resume.Content) resume.Content

func SetPersonalInfo(p resume.PersonalInfo) Reducer {
	return func(c resume.Content) resume.Content {
		c.PersonalInfo = p
		return c
	}
}

func SetExperience(items []resume.Experience) Reducer {
	return func(c resume.Content) resume.Content { c.Experience = cloneList(items); return c }
}

func AddExperience(item resume.Experience) Reducer {
	return func(c resume.Content) resume.Content { c.Experience = appendItem(c.Experience, item); return c }
}

func UpdateExperience(index int, item resume.Experience) Reducer {
	return func(c resume.Content) resume.Content { c.Experience = replaceAt(c.Experience, index, item); return c }
}

func RemoveExperience(index int) Reducer {
	return func(c resume.Content) resume.Content { c.Experience = removeAt(c.Experience, index); return c }
}

func SetEducation(items []resume.Education) Reducer {
	return func(c resume.Content) resume.Content { c.Education = cloneList(items); return c }
}

func AddEducation(item resume.Education) Reducer {
	return func(c resume.Content) resume.Content { c.Education = appendItem(c.Education, item); return c }
}

func UpdateEducation(index int, item resume.Education) Reducer {
	return func(c resume.Content) resume.Content { c.Education = replaceAt(c.Education, index, item); return c }
}

func RemoveEducation(index int) Reducer {
	return func(c resume.Content) resume.Content { c.Education = removeAt(c.Education, index); return c }
}

func SetSkills(items []resume.Skill) Reducer {
	return func(c resume.Content) resume.Content { c.Skills = cloneList(items); return c }
}

func AddSkill(item resume.Skill) Reducer {
	return func(c resume.Content) resume.Content { c.Skills = appendItem(c.Skills, item); return c }
}

func UpdateSkill(index int, item resume.Skill) Reducer {
	return func(c resume.Content) resume.Content { c.Skills = replaceAt(c.Skills, index, item); return c }
}

func RemoveSkill(index int) Reducer {
	return func(c resume.Content) resume.Content { c.Skills = removeAt(c.Skills, index); return c }
}

func SetProjects(items []resume.Project) Reducer {
	return func(c resume.Content) resume.Content { c.Projects = cloneList(items); return c }
}

func AddProject(item resume.Project) Reducer {
	return func(c resume.Content) resume.Content { c.Projects = appendItem(c.Projects, item); return c }
}

func UpdateProject(index int, item resume.Project) Reducer {
	return func(c resume.Content) resume.Content { c.Projects = replaceAt(c.Projects, index, item); return c }
}

func RemoveProject(index int) Reducer {
	return func(c resume.Content) resume.Content { c.Projects = removeAt(c.Projects, index); return c }
}

func SetCertifications(items []resume.Certification) Reducer {
	return func(c resume.Content) resume.Content { c.Certifications = cloneList(items); return c }
}

func AddCertification(item resume.Certification) Reducer {
	return func(c resume.Content) resume.Content { c.Certifications = appendItem(c.Certifications, item); return c }
}

func UpdateCertification(index int, item resume.Certification) Reducer {
	return func(c resume.Content) resume.Content {
		c.Certifications = replaceAt(c.Certifications, index, item)
		return c
	}
}

func RemoveCertification(index int) Reducer {
	return func(c resume.Content) resume.Content { c.Certifications = removeAt(c.Certifications, index); return c }
}

func SetLanguages(items []resume.Language) Reducer {
	return func(c resume.Content) resume.Content { c.Languages = cloneList(items); return c }
}

func AddLanguage(item resume.Language) Reducer {
	return func(c resume.Content) resume.Content { c.Languages = appendItem(c.Languages, item); return c }
}

func UpdateLanguage(index int, item resume.Language) Reducer {
	return func(c resume.Content) resume.Content { c.Languages = replaceAt(c.Languages, index, item); return c }
}

func RemoveLanguage(index int) Reducer {
	return func(c resume.Content) resume.Content { c.Languages = removeAt(c.Languages, index); return c }
}

// 以下辅助函数总是分配新切片，保证旧内容不被修改。

func cloneList[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

func appendItem[T any](items []T, item T) []T {
	out := make([]T, len(items), len(items)+1)
	copy(out, items)
	return append(out, item)
}

// replaceAt ignores out-of-range indexes.
func replaceAt[T any](items []T, index int, item T) []T {
	out := cloneList(items)
	if index >= 0 && index < len(out) {
		out[index] = item
	}
	return out
}

func removeAt[T any](items []T, index int) []T {
	if index < 0 || index >= len(items) {
		return cloneList(items)
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:index]...)
	return append(out, items[index+1:]...)
}
