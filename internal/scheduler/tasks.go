// Package scheduler holds the asynq task definitions and the worker that
// processes them: geocode backfill for stores with missing or fallback
// coordinates, and the periodic expiry report.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskGeocodeBackfill = "listings.geocode.backfill"

const TaskExpiryReport = "listings.expiry.report"

type GeocodeBackfillPayload struct {
	BatchSize int `json:"batchSize"`
}

type ExpiryReportPayload struct {
	WindowHours int `json:"windowHours"`
}

func NewGeocodeBackfillTask(payload GeocodeBackfillPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskGeocodeBackfill, data), nil
}

func ParseGeocodeBackfillPayload(task *asynq.Task) (GeocodeBackfillPayload, error) {
	var payload GeocodeBackfillPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return GeocodeBackfillPayload{}, err
	}
	return payload, nil
}

func NewExpiryReportTask(payload ExpiryReportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskExpiryReport, data), nil
}

func ParseExpiryReportPayload(task *asynq.Task) (ExpiryReportPayload, error) {
	var payload ExpiryReportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ExpiryReportPayload{}, err
	}
	return payload, nil
}
