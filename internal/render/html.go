package render

import (
	"fmt"
	"html/template"
	"io"
)

// WriteHTML writes a standalone, print friendly page for doc.
func WriteHTML(w io.Writer, doc Document) error {
	if err := pageTemplate.Execute(w, doc); err != nil {
		return fmt.Errorf("execute cv template: %w", err)
	}
	return nil
}

var pageTemplate = template.Must(template.New("cv").Parse(pageTemplateString))

// pageTemplateString 对三种风格共用同一结构，差异只体现在 CSS 上。
const pageTemplateString = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{if .Header.FullName}}{{.Header.FullName}}{{else}}Untitled{{end}} CV</title>
    <style>
        body { margin: 0; background: #f3f4f6; font-family: "Helvetica Neue", Arial, sans-serif; color: #111827; }
        .cv { max-width: 56rem; margin: 2rem auto; background: #fff; padding: 2rem; box-shadow: 0 1px 3px rgba(0,0,0,.15); }
        h1 { font-size: 2.25rem; margin: 0 0 .5rem; }
        h2 { font-size: 1.5rem; border-bottom: 2px solid #e5e7eb; padding-bottom: .5rem; margin: 2rem 0 1rem; }
        h3 { font-size: 1.125rem; margin: 0; }
        .contacts { display: flex; flex-wrap: wrap; gap: 1rem; font-size: .875rem; color: #4b5563; padding: 0; list-style: none; }
        .summary { background: #f9fafb; padding: 1rem; border-radius: .5rem; line-height: 1.6; }
        .entry { display: flex; justify-content: space-between; margin-bottom: 1.25rem; break-inside: avoid; }
        .entry .main { flex: 1; }
        .subtitle { font-weight: 500; color: #374151; margin: .125rem 0; }
        .detail, .period, .note { font-size: .875rem; color: #4b5563; margin: .125rem 0; }
        .period { text-align: right; white-space: nowrap; padding-left: 1rem; }
        .description { font-size: .875rem; line-height: 1.6; white-space: pre-line; color: #374151; }
        .tag, .badge { display: inline-block; font-size: .75rem; border: 1px solid #d1d5db; border-radius: 9999px; padding: .125rem .5rem; margin: .125rem; }
        .groups { display: grid; grid-template-columns: repeat(2, 1fr); gap: 1rem; }
        .languages { display: grid; grid-template-columns: repeat(3, 1fr); gap: 1rem; }
        .cv-creative .frame { border-left: 4px solid #3b82f6; padding-left: 1.5rem; }
        .cv-creative h1 { font-weight: 300; font-size: 3rem; }
        .cv-creative .summary { font-style: italic; border-left: 4px solid #3b82f6; background: linear-gradient(to right, #eff6ff, #faf5ff); }
        .cv-minimal { box-shadow: none; }
        .cv-minimal h2 { border-bottom: 1px solid #111827; font-size: 1.125rem; text-transform: uppercase; letter-spacing: .08em; }
        .cv-minimal .summary { background: none; padding: 0; }
        @media print {
            body { background: #fff; }
            .cv { margin: 0; box-shadow: none; padding: 1.5rem; }
        }
    </style>
</head>
<body>
<div class="cv cv-{{.Variant}}">
<div class="frame">
    <header>
        <h1>{{.Header.FullName}}</h1>
        {{- if .Header.Contacts}}
        <ul class="contacts">
            {{- range .Header.Contacts}}
            <li class="contact-{{.Kind}}">{{if .Link}}<a href="{{.Link}}">{{.Value}}</a>{{else}}{{.Value}}{{end}}</li>
            {{- end}}
        </ul>
        {{- end}}
        {{- if .Header.Summary}}
        <div class="summary"><p>{{.Header.Summary}}</p></div>
        {{- end}}
    </header>
    {{- range .Sections}}
    <section class="section-{{.Kind}}">
        <h2>{{.Title}}</h2>
        {{- if .Groups}}
        <div class="groups">
            {{- range .Groups}}
            <div class="group">
                <h3>{{.Name}}</h3>
                {{- range .Items}}<span class="tag">{{.}}</span>{{end}}
            </div>
            {{- end}}
        </div>
        {{- else if eq .Kind "languages"}}
        <div class="languages">
            {{- range .Entries}}
            <div><strong>{{.Title}}</strong> <span class="badge">{{.Badge}}</span></div>
            {{- end}}
        </div>
        {{- else}}
        {{- range .Entries}}
        <div class="entry">
            <div class="main">
                <h3>{{.Title}}{{if .Link}} <a href="{{.Link}}" rel="noopener noreferrer">&#8599;</a>{{end}}</h3>
                {{- if .Subtitle}}<p class="subtitle">{{.Subtitle}}</p>{{end}}
                {{- range .Details}}<p class="detail">{{.}}</p>{{end}}
                {{- if .Tags}}<div>{{range .Tags}}<span class="tag">{{.}}</span>{{end}}</div>{{end}}
                {{- if .Description}}<div class="description">{{.Description}}</div>{{end}}
            </div>
            {{- if or .Period .Note}}
            <div class="period">{{.Period}}{{if .Note}}<p class="note">{{.Note}}</p>{{end}}</div>
            {{- end}}
        </div>
        {{- end}}
        {{- end}}
    </section>
    {{- end}}
</div>
</div>
</body>
</html>
`
