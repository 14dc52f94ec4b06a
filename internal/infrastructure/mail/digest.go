package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/dustin/go-humanize"
	appnotification "github.com/ideation/backend/internal/application/notification"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const digestTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
<p>Hi {{ .Name }},</p>
<p>Here is what happened in {{ .AppName }} since your last recap: {{ .Summary }}.</p>
<ul>
{{- range .Items }}
<li><a href="{{ .Link }}">{{ .Message }}</a> <span style="color: #777;">{{ formatTime .CreatedAt }} ({{ ago .CreatedAt $.Now }})</span></li>
{{- end }}
</ul>
<p style="color: #777; font-size: 12px;">You can turn these emails off on your profile page.</p>
</body>
</html>
`

var _ appnotification.DigestRenderer = (*DigestRenderer)(nil)

// DigestRenderer renders the recap digest email
type DigestRenderer struct {
	appName  string
	location *time.Location
	tmpl     *template.Template
}

// NewDigestRenderer creates a new DigestRenderer. Times are shown in loc;
// nil means UTC.
func NewDigestRenderer(appName string, loc *time.Location) *DigestRenderer {
	if loc == nil {
		loc = time.UTC
	}
	r := &DigestRenderer{appName: appName, location: loc}
	r.tmpl = template.Must(template.New("digest").Funcs(template.FuncMap{
		"formatTime": func(t time.Time) string {
			return t.In(r.location).Format("Mon Jan 2, 15:04 MST")
		},
		"ago": func(t, now time.Time) string {
			return humanize.RelTime(t, now, "ago", "from now")
		},
	}).Parse(digestTemplate))
	return r
}

type digestView struct {
	AppName string
	Name    string
	Summary string
	Now     time.Time
	Items   []appnotification.DigestItem
}

// Render returns the subject and HTML body for one recipient
func (r *DigestRenderer) Render(data appnotification.DigestData) (string, string, error) {
	generated := data.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	count := humanize.Comma(int64(len(data.Items)))
	summary := count + " new notification"
	if len(data.Items) != 1 {
		summary += "s"
	}

	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, digestView{
		AppName: r.appName,
		Name:    cases.Title(language.English).String(data.RecipientName),
		Summary: summary,
		Now:     generated,
		Items:   data.Items,
	})
	if err != nil {
		return "", "", fmt.Errorf("render digest: %w", err)
	}

	subject := fmt.Sprintf("%s recap: %s", r.appName, summary)
	return subject, buf.String(), nil
}
