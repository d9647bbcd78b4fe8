package email

import (
	"strings"
	"testing"
)

func TestRenderLeadNotificationCompleted(t *testing.T) {
	score := 82
	subject, body, err := renderLeadNotification(LeadNotificationData{
		OwnerName:       "Morgan Vale",
		LeadName:        "Jamie Doe",
		LeadEmail:       "jamie@example.com",
		LeadPhone:       "+14155552671",
		AssessmentTitle: "Leadership Readiness",
		Score:           &score,
		Completed:       true,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if subject != subjectLeadCompleted {
		t.Errorf("subject = %q, want %q", subject, subjectLeadCompleted)
	}
	for _, want := range []string{"Jamie Doe", "jamie@example.com", "+14155552671", "Leadership Readiness", "82"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestRenderLeadNotificationPartialOmitsScore(t *testing.T) {
	subject, body, err := renderLeadNotification(LeadNotificationData{
		OwnerName:       "Morgan Vale",
		LeadName:        "Jamie Doe",
		LeadEmail:       "jamie@example.com",
		AssessmentTitle: "Leadership Readiness",
		Completed:       false,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if subject != subjectLeadPartial {
		t.Errorf("subject = %q, want %q", subject, subjectLeadPartial)
	}
	if strings.Contains(body, "Overall score") {
		t.Error("partial lead body must not render a score line")
	}
	if !strings.Contains(body, "did not finish") {
		t.Error("partial lead body must say the assessment was not finished")
	}
}
