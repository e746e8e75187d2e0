// Package models defines the core data structures for the order bot.
//
// It includes the inbound message, parsed order and admin-command types, and
// the outbound reply type, which are shared across modules.
package models

import "errors"

// MessageKind distinguishes text messages from everything else the platform
// may deliver (audio, stickers, reactions, ...).
type MessageKind string

const (
	// MessageKindText is a plain text message carrying a body.
	MessageKindText MessageKind = "text"
	// MessageKindOther is any non-text message; the bot replies with guidance.
	MessageKindOther MessageKind = "other"
)

// InboundMessage is one message extracted from a webhook delivery. It is
// built once from the decoded payload and discarded after a single
// processing pass.
type InboundMessage struct {
	// ID is the platform message identifier. May be empty; empty IDs are
	// never treated as duplicates.
	ID string
	// From is the phone-like sender identifier, e.g. "5491155732845".
	From string
	Kind MessageKind
	Body string
}

// Intent is the classification of an inbound text body.
type Intent string

const (
	IntentEmpty        Intent = "empty"
	IntentAdminCommand Intent = "admin_command"
	IntentGreeting     Intent = "greeting"
	IntentCodedOrder   Intent = "coded_order"
	IntentFreeText     Intent = "free_text_order"
)

// OrderItem is one (code, quantity) pair extracted from order text. Order of
// appearance is preserved and repeated codes yield repeated items; merging is
// left to the backend.
type OrderItem struct {
	Code     string `json:"codigo"`
	Quantity int    `json:"cantidad"`
}

// AdminVerb is an operator command verb acting on an order.
type AdminVerb string

const (
	AdminVerbConfirm AdminVerb = "confirm"
	AdminVerbDeliver AdminVerb = "deliver"
	AdminVerbCancel  AdminVerb = "cancel"
	AdminVerbReopen  AdminVerb = "reopen"
	AdminVerbSummary AdminVerb = "summary"
)

// RequiresReason reports whether the verb must carry a justification before
// the backend state change is attempted.
func (v AdminVerb) RequiresReason() bool {
	return v == AdminVerbCancel || v == AdminVerbReopen
}

// Destructive reports whether the verb changes order state on the backend.
func (v AdminVerb) Destructive() bool {
	switch v {
	case AdminVerbConfirm, AdminVerbDeliver, AdminVerbCancel, AdminVerbReopen:
		return true
	default:
		return false
	}
}

// AdminCommand is a parsed operator command. Reason is empty when absent.
type AdminCommand struct {
	Verb    AdminVerb
	OrderID int
	Reason  string
}

// Reply is one outbound send produced by the orchestrator. A reply is a text
// send when ImageURL is empty, otherwise an image send with optional caption.
type Reply struct {
	To       string
	Text     string
	ImageURL string
	Caption  string
}

// TextReply builds a plain text reply.
func TextReply(to, text string) Reply {
	return Reply{To: to, Text: text}
}

// ImageReply builds an image reply.
func ImageReply(to, url, caption string) Reply {
	return Reply{To: to, ImageURL: url, Caption: caption}
}

// Product is one catalog entry returned by the backend product search.
type Product struct {
	Code         string `json:"codigo"`
	Name         string `json:"nombre"`
	Presentation string `json:"presentacion,omitempty"`
}

// ClientInfo is the backend's view of a registered client.
type ClientInfo struct {
	Name  string `json:"nombre"`
	Phone string `json:"telefono,omitempty"`
}

// Error variables for validation at the messaging boundary.
var (
	ErrEmptyRecipient = errors.New("recipient cannot be empty")
	ErrEmptyBody      = errors.New("message body cannot be empty")
	ErrEmptyImageURL  = errors.New("image URL cannot be empty")
)
