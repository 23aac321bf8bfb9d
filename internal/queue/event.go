// Package queue defines message payloads exchanged over the message broker.
package queue

// SeatingRun summarizes one gender's slice of an assignment run.
type SeatingRun struct {
	Gender     string `json:"gender"`
	Assigned   int    `json:"assigned"`
	Unassigned int    `json:"unassigned"`
}

// SeatingAssignedEvent is published after an auto-assignment run has been
// persisted. It carries enough for downstream consumers to audit or notify
// without querying the primary database. An Unassigned count above zero is
// the signal the office must act on: those students have no seat.
type SeatingAssignedEvent struct {
	CourseID   uint64       `json:"course_id"`
	CourseName string       `json:"course_name"`
	OperatorID uint64       `json:"operator_id"`
	Runs       []SeatingRun `json:"runs"`
	AssignedAt string       `json:"assigned_at"`
}

// GateCheckInEvent is published when a student is marked arrived at the gate.
type GateCheckInEvent struct {
	ParticipantID string `json:"participant_id"`
	FullName      string `json:"full_name"`
	CourseID      uint64 `json:"course_id"`
	ArrivedAt     string `json:"arrived_at"`
}
