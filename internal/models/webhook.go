package models

// Webhook payload types for the WhatsApp Cloud API callback. Only the fields
// the bot consumes are declared; everything else in the delivery is ignored.

// WebhookPayload is the top-level JSON document of one webhook delivery.
type WebhookPayload struct {
	Entry []WebhookEntry `json:"entry"`
}

// WebhookEntry groups the changes of one subscribed object.
type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

// WebhookChange carries one changed value, which may contain messages.
type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

// WebhookValue holds the inbound messages of a change, if any.
type WebhookValue struct {
	Messages []WebhookMessage `json:"messages"`
}

// WebhookMessage is one raw platform message inside a delivery.
type WebhookMessage struct {
	ID   string       `json:"id"`
	From string       `json:"from"`
	Type string       `json:"type"`
	Text *WebhookText `json:"text,omitempty"`
}

// WebhookText is the body of a text-type message.
type WebhookText struct {
	Body string `json:"body"`
}

// InboundMessages flattens a delivery into the messages the pipeline can
// process. Messages without a sender are dropped; absence of any other field
// degrades to an ignorable message rather than an error.
func (p WebhookPayload) InboundMessages() []InboundMessage {
	var msgs []InboundMessage
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			for _, m := range change.Value.Messages {
				if m.From == "" {
					continue
				}
				im := InboundMessage{ID: m.ID, From: m.From, Kind: MessageKindOther}
				if m.Type == "text" && m.Text != nil {
					im.Kind = MessageKindText
					im.Body = m.Text.Body
				}
				msgs = append(msgs, im)
			}
		}
	}
	return msgs
}
