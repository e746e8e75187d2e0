// Package messaging abstracts the outbound WhatsApp send channel.
package messaging

import (
	"context"
	"fmt"

	"github.com/nortsur/orderbot/internal/cloudapi"
	"github.com/nortsur/orderbot/internal/twiliowhatsapp"
	"github.com/nortsur/orderbot/internal/whatsapp"
)

// Sender is the send capability the orchestrator depends on. Failures are
// transport errors; callers log and swallow them, they never propagate into
// the webhook's own response.
type Sender interface {
	// SendText sends a plain text message to a recipient.
	SendText(ctx context.Context, to, body string) error

	// SendImage sends an image by public URL with an optional caption.
	SendImage(ctx context.Context, to, url, caption string) error
}

// Supported channel names for NewSender.
const (
	ChannelCloudAPI  = "cloudapi"
	ChannelTwilio    = "twilio"
	ChannelWhatsmeow = "whatsmeow"
)

// NewSender builds the configured send channel. The empty channel name means
// the Cloud API default. Whatsmeow options only apply to that channel.
func NewSender(channel string, waOpts ...whatsapp.Option) (Sender, error) {
	switch channel {
	case "", ChannelCloudAPI:
		return cloudapi.NewClient()
	case ChannelTwilio:
		return twiliowhatsapp.NewClient()
	case ChannelWhatsmeow:
		return whatsapp.NewClient(waOpts...)
	default:
		return nil, fmt.Errorf("unknown messaging channel %q", channel)
	}
}
