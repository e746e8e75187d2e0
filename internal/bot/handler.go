// Package bot sequences the inbound message pipeline: duplicate filtering,
// classification, parsing, backend calls and the resulting replies.
package bot

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/nortsur/orderbot/internal/catalog"
	"github.com/nortsur/orderbot/internal/messaging"
	"github.com/nortsur/orderbot/internal/models"
	"github.com/nortsur/orderbot/internal/nortsur"
	"github.com/nortsur/orderbot/internal/parse"
	"github.com/nortsur/orderbot/internal/store"
)

// digitRun finds the quantity hint in a resolved free-text order.
var digitRun = regexp.MustCompile(`[0-9]+`)

// Opts holds the optional handler configuration.
type Opts struct {
	CatalogWebURL    string
	CatalogSocialURL string
}

// Option defines a configuration option for the handler.
type Option func(*Opts)

// WithCatalogWebURL sets the web catalog link used in "nothing matched"
// replies.
func WithCatalogWebURL(u string) Option {
	return func(o *Opts) { o.CatalogWebURL = u }
}

// WithCatalogSocialURL sets the social catalog link used in "nothing
// matched" replies.
func WithCatalogSocialURL(u string) Option {
	return func(o *Opts) { o.CatalogSocialURL = u }
}

// Handler is the dialogue orchestrator. It owns the greeted-sender state,
// consults the parsers and backend, and emits replies through the sender.
// Each inbound message is handled independently; the only cross-message
// state is the duplicate filter and the greeted flag per sender.
type Handler struct {
	backend nortsur.Backend
	sender  messaging.Sender
	recent  *store.RecentIDs
	greeted *store.Greeted
	images  catalog.Lister
	cfg     Opts
}

// NewHandler creates a dialogue handler with its injected collaborators.
func NewHandler(backend nortsur.Backend, sender messaging.Sender, recent *store.RecentIDs, greeted *store.Greeted, images catalog.Lister, opts ...Option) *Handler {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Handler{
		backend: backend,
		sender:  sender,
		recent:  recent,
		greeted: greeted,
		images:  images,
		cfg:     cfg,
	}
}

// Handle processes one inbound message end to end. It never returns an
// error: every failure path degrades to a guidance or failure reply, so one
// sender's problem cannot block other concurrent deliveries.
func (h *Handler) Handle(ctx context.Context, msg models.InboundMessage) {
	if h.recent.Seen(msg.ID) {
		slog.Info("Handler skipping duplicate delivery", "message_id", msg.ID, "from", msg.From)
		return
	}

	if msg.Kind != models.MessageKindText || strings.TrimSpace(msg.Body) == "" {
		slog.Debug("Handler received unreadable message", "from", msg.From, "kind", msg.Kind)
		h.sendText(ctx, msg.From, msgNonText)
		h.greeted.Mark(msg.From)
		return
	}

	intent := parse.Classify(msg.Body)
	slog.Debug("Handler classified message", "from", msg.From, "intent", intent)

	switch intent {
	case models.IntentAdminCommand:
		h.handleAdmin(ctx, msg)
	case models.IntentGreeting:
		h.handleGreeting(ctx, msg)
	case models.IntentCodedOrder:
		h.handleCodedOrder(ctx, msg)
	default:
		h.handleFreeText(ctx, msg)
	}
}

// handleAdmin runs an operator command. Destructive verbs hit the backend
// state change first; a failure there becomes a warning line, never an
// abort. Every admin command ends with the current order summary.
func (h *Handler) handleAdmin(ctx context.Context, msg models.InboundMessage) {
	cmd, ok := parse.Admin(msg.Body)
	if !ok {
		// Classification said admin, so this cannot normally happen.
		h.sendText(ctx, msg.From, msgFormatGuidance)
		return
	}

	var warning string
	switch {
	case cmd.Verb.RequiresReason() && cmd.Reason == "":
		// Missing reason: explain the usage, but still inform the
		// operator with the summary below.
		h.sendText(ctx, msg.From, reasonUsage(cmd))
	case cmd.Verb.Destructive():
		result, err := h.backend.ChangeOrderState(ctx, cmd.OrderID, cmd.Verb, cmd.Reason)
		switch {
		case err != nil:
			slog.Error("Handler state change failed", "order_id", cmd.OrderID, "verb", cmd.Verb, "error", err)
			warning = msgStateChangeWarning + "\n"
		case !result.OK:
			slog.Warn("Handler state change rejected", "order_id", cmd.OrderID, "verb", cmd.Verb, "detail", result.Error)
			warning = msgStateChangeWarning
			if result.Error != "" {
				warning += " " + result.Error
			}
			warning += "\n"
		}
	}

	summary, err := h.backend.GetOrderSummary(ctx, cmd.OrderID)
	if err != nil {
		slog.Error("Handler summary fetch failed", "order_id", cmd.OrderID, "error", err)
		h.sendText(ctx, msg.From, warning+msgSummaryUnavailable)
		return
	}
	h.sendText(ctx, msg.From, warning+summary)
}

// handleGreeting welcomes the sender. Known clients get a personalized
// greeting; unknown ones get the generic welcome followed by the catalog
// images, text strictly first.
func (h *Handler) handleGreeting(ctx context.Context, msg models.InboundMessage) {
	info, err := h.backend.FindClientByPhone(ctx, msg.From)
	if err != nil {
		// A lookup failure reads as "client unknown": greeting must not
		// turn into a failure reply.
		slog.Error("Handler client lookup failed", "from", msg.From, "error", err)
		info = nil
	}

	if info != nil && info.Name != "" {
		h.sendText(ctx, msg.From, personalWelcome(info.Name))
		h.greeted.Mark(msg.From)
		return
	}

	h.sendText(ctx, msg.From, msgGenericWelcome)
	h.greeted.Mark(msg.From)
	for _, url := range h.images.ImageURLs() {
		h.sendImage(ctx, msg.From, url, "")
	}
}

// handleCodedOrder parses codes from the full body and places the order.
func (h *Handler) handleCodedOrder(ctx context.Context, msg models.InboundMessage) {
	items := parse.Items(msg.Body)
	if len(items) == 0 {
		h.sendText(ctx, msg.From, msgFormatGuidance)
		return
	}
	h.placeOrder(ctx, msg.From, items)
}

// handleFreeText resolves a free-text product search. One match places an
// order; several ask the sender to pick a code; none points at the catalog.
func (h *Handler) handleFreeText(ctx context.Context, msg models.InboundMessage) {
	products, err := h.backend.SearchProducts(ctx, msg.Body)
	if err != nil {
		slog.Error("Handler product search failed", "from", msg.From, "error", err)
		h.sendText(ctx, msg.From, msgGenericFailure)
		return
	}

	switch len(products) {
	case 0:
		h.sendText(ctx, msg.From, noMatches(h.cfg.CatalogWebURL, h.cfg.CatalogSocialURL))
	case 1:
		quantity := 1
		if run := digitRun.FindString(msg.Body); run != "" {
			if n, err := strconv.Atoi(run); err == nil {
				quantity = n
			}
		}
		h.placeOrder(ctx, msg.From, []models.OrderItem{{Code: products[0].Code, Quantity: quantity}})
	default:
		h.sendText(ctx, msg.From, candidateList(products))
	}
}

// placeOrder relays a non-empty item list to the backend and replies with
// the backend's own text when it supplies one.
func (h *Handler) placeOrder(ctx context.Context, from string, items []models.OrderItem) {
	note := "Pedido vía WhatsApp desde " + from
	result, err := h.backend.CreateOrder(ctx, from, note, items)
	if err != nil {
		slog.Error("Handler order creation failed", "from", from, "items", len(items), "error", err)
		h.sendText(ctx, from, msgGenericFailure)
		return
	}
	if !result.OK {
		if result.Message != "" {
			h.sendText(ctx, from, result.Message)
		} else {
			h.sendText(ctx, from, msgGenericFailure)
		}
		return
	}

	confirmation := result.Message
	if confirmation == "" {
		confirmation = msgOrderConfirmed
	}
	slog.Info("Handler order placed", "from", from, "items", len(items))
	h.sendText(ctx, from, confirmation)
}

// sendText delivers a text reply, logging and swallowing transport errors.
func (h *Handler) sendText(ctx context.Context, to, body string) {
	if to == "" {
		return
	}
	if err := h.sender.SendText(ctx, to, body); err != nil {
		slog.Error("Handler failed to send text", "to", to, "error", err)
	}
}

// sendImage delivers an image reply, logging and swallowing transport errors.
func (h *Handler) sendImage(ctx context.Context, to, url, caption string) {
	if err := h.sender.SendImage(ctx, to, url, caption); err != nil {
		slog.Error("Handler failed to send image", "to", to, "url", url, "error", err)
	}
}
