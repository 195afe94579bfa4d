package drafting

import "github.com/tailored-agentic-units/drafter/activity"

// Controller event types.
const (
	EventRequestStart     activity.EventType = "drafting.request.start"
	EventRequestSucceeded activity.EventType = "drafting.request.succeeded"
	EventRequestFailed    activity.EventType = "drafting.request.failed"
)
