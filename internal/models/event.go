// internal/models/event.go
package models

// ActionKind tags the pending action encoded into an inline button.
type ActionKind string

const (
	ActionRules   ActionKind = "rules"
	ActionApprove ActionKind = "approve"
	ActionReject  ActionKind = "reject"
)

// PendingAction is the decision context carried by an inline button. It is
// serialized to the opaque callback token at the messaging boundary only;
// internal APIs always pass it in structured form.
type PendingAction struct {
	Kind ActionKind

	// Rules acknowledgment choice.
	Accepted bool

	// Review decision target.
	ApplicantID int64
	Nickname    string
}

// EventType classifies inbound messaging events.
type EventType string

const (
	EventCommand EventType = "command"
	EventText    EventType = "text"
	EventChoice  EventType = "choice"
)

// Event is a single inbound unit of work from the messaging channel.
type Event struct {
	Type   EventType
	FromID int64
	ChatID int64

	// Text carries the message body for EventText and the bare command name
	// ("start", "cancel") for EventCommand.
	Text string

	// Action and Ref are set for EventChoice: the decoded button payload and
	// the handle of the message the button belongs to.
	Action PendingAction
	Ref    MessageRef
}
