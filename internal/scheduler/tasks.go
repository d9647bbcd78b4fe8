// Package scheduler enqueues and processes background tasks via asynq.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskLeadNotification = "leads.notify"

// LeadNotificationPayload is self-contained so the worker needs no extra
// queries to build the email.
type LeadNotificationPayload struct {
	LeadID          string `json:"leadId"`
	OwnerEmail      string `json:"ownerEmail"`
	OwnerName       string `json:"ownerName"`
	LeadName        string `json:"leadName"`
	LeadEmail       string `json:"leadEmail"`
	LeadPhone       string `json:"leadPhone,omitempty"`
	AssessmentTitle string `json:"assessmentTitle"`
	Score           *int   `json:"score,omitempty"`
	Completed       bool   `json:"completed"`
}

func NewLeadNotificationTask(payload LeadNotificationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadNotification, data), nil
}

func ParseLeadNotificationPayload(task *asynq.Task) (LeadNotificationPayload, error) {
	var payload LeadNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadNotificationPayload{}, err
	}
	return payload, nil
}
