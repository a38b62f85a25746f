package infofile

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"
)

// CreateParams carries everything the INFO.yaml skeleton needs.
type CreateParams struct {
	GerritURL   string // host, e.g. gerrit.example.org
	Project     string // full gerrit project name, e.g. project/subname
	TSCApproval string
	Committers  []Committer // seeded committers; empty renders a blank block
	Date        string      // defaults to today
}

// Derived naming: underscores anchor YAML references, dashes name LDAP
// groups, the umbrella comes from the gerrit hostname.
func (p CreateParams) underscored() string {
	s := strings.ReplaceAll(p.Project, "/", "_")
	return strings.ReplaceAll(s, "-", "_")
}

func (p CreateParams) dashed() string {
	return strings.ReplaceAll(p.underscored(), "_", "-")
}

func (p CreateParams) umbrella() string {
	parts := strings.Split(p.GerritURL, ".")
	if len(parts) < 2 {
		return p.GerritURL
	}
	u := parts[1]
	// Historical short names.
	switch u {
	case "o-ran-sc":
		return "oran"
	case "opendaylight":
		return "odl"
	}
	return u
}

func (p CreateParams) umbrellaTLD() string {
	if idx := strings.Index(p.GerritURL, "."); idx >= 0 {
		return p.GerritURL[idx+1:]
	}
	return p.GerritURL
}

// LdapGroup returns the committer group the project convention implies.
func (p CreateParams) LdapGroup() string {
	return fmt.Sprintf("%s-gerrit-%s-committers", p.umbrella(), p.dashed())
}

const infoTemplate = `---
project: '{{ .Underscored }}'
project_creation_date: '{{ .Date }}'
project_category: ''
lifecycle_state: 'Incubation'
project_lead: &{{ .Umbrella }}_{{ .Underscored }}_ptl
    name: ''
    email: ''
    id: ''
    company: ''
    timezone: ''
primary_contact: *{{ .Umbrella }}_{{ .Underscored }}_ptl
issue_tracking:
    type: 'jira'
    url: 'https://jira.{{ .TLD }}/projects/'
    key: '{{ .Underscored }}'
mailing_list:
    type: 'groups.io'
    url: 'technical-discuss@lists.{{ .TLD }}'
    tag: '[]'
realtime_discussion:
    type: 'irc'
    server: 'freenode.net'
    channel: '#{{ .Umbrella }}'
meetings:
    - type: 'gotomeeting+irc'
      agenda: 'https://wiki.{{ .TLD }}/display/'
      url: ''
      server: 'freenode.net'
      channel: '#{{ .Umbrella }}'
      repeats: ''
      time: ''
repositories:
    - {{ .Project }}
committers:
    - <<: *{{ .Umbrella }}_{{ .Underscored }}_ptl
{{- if .Committers }}
{{- range .Committers }}
    - name: '{{ .Name }}'
      email: '{{ .Email }}'
      company: '{{ .Company }}'
      id: '{{ .ID }}'
{{- end }}
{{- else }}
    - name: ''
      email: ''
      company: ''
      id: ''
{{- end }}
tsc:
    # yamllint disable rule:line-length
    approval: '{{ .TSCApproval }}'
    changes:
        - type: ''
          name: ''
          link: ''
`

// RenderNew writes a fresh INFO.yaml skeleton.
func RenderNew(w io.Writer, p CreateParams) error {
	date := p.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	approval := p.TSCApproval
	if approval == "" {
		approval = "missing"
	}

	tmpl, err := template.New("info").Parse(infoTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse info template: %w", err)
	}
	return tmpl.Execute(w, struct {
		Underscored string
		Umbrella    string
		TLD         string
		Date        string
		Project     string
		TSCApproval string
		Committers  []Committer
	}{
		Underscored: p.underscored(),
		Umbrella:    p.umbrella(),
		TLD:         p.umbrellaTLD(),
		Date:        date,
		Project:     p.Project,
		TSCApproval: approval,
		Committers:  p.Committers,
	})
}
