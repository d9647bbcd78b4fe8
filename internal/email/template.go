package email

import (
	"bytes"
	"fmt"
	"html/template"
)

const subjectLeadCompleted = "New lead from your assessment"
const subjectLeadPartial = "A visitor left their details on your assessment"

var leadNotificationTmpl = template.Must(template.New("lead").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
  <h2>{{if .Completed}}New completed assessment{{else}}New partial lead{{end}}</h2>
  <p>Hi {{.OwnerName}},</p>
  <p>
    <strong>{{.LeadName}}</strong> ({{.LeadEmail}}{{if .LeadPhone}}, {{.LeadPhone}}{{end}})
    {{if .Completed}}just completed{{else}}started but did not finish{{end}}
    <strong>{{.AssessmentTitle}}</strong>.
  </p>
  {{if .Score}}<p>Overall score: <strong>{{.Score}}</strong>/100</p>{{end}}
  <p>Log in to your dashboard to follow up.</p>
</body>
</html>
`))

func renderLeadNotification(data LeadNotificationData) (subject, body string, err error) {
	var buf bytes.Buffer
	if err := leadNotificationTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render lead notification: %w", err)
	}
	subject = subjectLeadPartial
	if data.Completed {
		subject = subjectLeadCompleted
	}
	return subject, buf.String(), nil
}
