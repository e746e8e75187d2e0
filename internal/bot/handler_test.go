package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nortsur/orderbot/internal/catalog"
	"github.com/nortsur/orderbot/internal/messaging"
	"github.com/nortsur/orderbot/internal/models"
	"github.com/nortsur/orderbot/internal/nortsur"
	"github.com/nortsur/orderbot/internal/store"
)

const sender = "5491155732845"

func newTestHandler(t *testing.T, backend *nortsur.MockBackend, images catalog.Lister, opts ...Option) (*Handler, *messaging.MockSender) {
	t.Helper()
	recent, err := store.NewRecentIDs(100)
	if err != nil {
		t.Fatal(err)
	}
	greeted, err := store.NewGreeted(100)
	if err != nil {
		t.Fatal(err)
	}
	if images == nil {
		images = catalog.StaticLister(nil)
	}
	sent := messaging.NewMockSender()
	return NewHandler(backend, sent, recent, greeted, images, opts...), sent
}

func textMsg(id, body string) models.InboundMessage {
	return models.InboundMessage{ID: id, From: sender, Kind: models.MessageKindText, Body: body}
}

func TestHandle_DuplicateDeliveryIsSilent(t *testing.T) {
	backend := nortsur.NewMockBackend()
	h, sent := newTestHandler(t, backend, nil)

	msg := textMsg("wamid.1", "CB001 x1")
	h.Handle(context.Background(), msg)
	h.Handle(context.Background(), msg)

	if len(sent.Sends) != 1 {
		t.Fatalf("replaying a delivery must yield one set of sends, got %d", len(sent.Sends))
	}
	if len(backend.CreatedOrders) != 1 {
		t.Fatalf("replaying a delivery must create one order, got %d", len(backend.CreatedOrders))
	}
}

func TestHandle_NonTextGetsGuidanceAndMarksGreeted(t *testing.T) {
	backend := nortsur.NewMockBackend()
	h, sent := newTestHandler(t, backend, nil)

	h.Handle(context.Background(), models.InboundMessage{ID: "wamid.2", From: sender, Kind: models.MessageKindOther})

	if len(sent.Sends) != 1 || sent.Sends[0].Text != msgNonText {
		t.Fatalf("expected one guidance text, got %+v", sent.Sends)
	}
	if !h.greeted.Contains(sender) {
		t.Error("sender should be marked greeted")
	}
}

func TestHandle_GreetingUnknownClientSendsWelcomeThenImages(t *testing.T) {
	backend := nortsur.NewMockBackend() // Client is nil: lookup finds nobody
	images := catalog.StaticLister{"https://bot.example/a.jpg", "https://bot.example/b.jpg"}
	h, sent := newTestHandler(t, backend, images)

	h.Handle(context.Background(), textMsg("wamid.3", "hola"))

	if len(sent.Sends) != 3 {
		t.Fatalf("expected welcome + 2 images, got %d sends", len(sent.Sends))
	}
	if sent.Sends[0].ImageURL != "" || sent.Sends[0].Text != msgGenericWelcome {
		t.Errorf("first send must be the generic welcome text, got %+v", sent.Sends[0])
	}
	if sent.Sends[1].ImageURL != "https://bot.example/a.jpg" || sent.Sends[2].ImageURL != "https://bot.example/b.jpg" {
		t.Errorf("images must follow in listing order, got %+v", sent.Sends[1:])
	}
	if !h.greeted.Contains(sender) {
		t.Error("sender should be marked greeted")
	}
}

func TestHandle_GreetingKnownClientIsPersonalized(t *testing.T) {
	backend := nortsur.NewMockBackend()
	backend.Client = &models.ClientInfo{Name: "Marta"}
	images := catalog.StaticLister{"https://bot.example/a.jpg"}
	h, sent := newTestHandler(t, backend, images)

	h.Handle(context.Background(), textMsg("wamid.4", "Hola!"))

	if len(sent.Sends) != 1 {
		t.Fatalf("known client gets exactly one text, got %d sends", len(sent.Sends))
	}
	if !strings.Contains(sent.Sends[0].Text, "Marta") {
		t.Errorf("welcome should name the client, got %q", sent.Sends[0].Text)
	}
}

func TestHandle_GreetingLookupFailureStillWelcomes(t *testing.T) {
	backend := nortsur.NewMockBackend()
	backend.ClientErr = errors.New("backend down")
	h, sent := newTestHandler(t, backend, nil)

	h.Handle(context.Background(), textMsg("wamid.5", "buenas"))

	if len(sent.Sends) != 1 || sent.Sends[0].Text != msgGenericWelcome {
		t.Fatalf("lookup failure must degrade to the generic welcome, got %+v", sent.Sends)
	}
}

func TestHandle_CodedOrderRelaysBackendConfirmation(t *testing.T) {
	backend := nortsur.NewMockBackend()
	backend.OrderResult = nortsur.OrderResult{OK: true, Message: "Pedido #12 registrado"}
	h, sent := newTestHandler(t, backend, nil)

	h.Handle(context.Background(), textMsg("wamid.6", "CB004 x2, PN004 x1"))

	if len(backend.CreatedOrders) != 1 {
		t.Fatalf("expected one order, got %d", len(backend.CreatedOrders))
	}
	order := backend.CreatedOrders[0]
	if order.Sender != sender {
		t.Errorf("order sender = %q", order.Sender)
	}
	if order.Note != "Pedido vía WhatsApp desde "+sender {
		t.Errorf("order note = %q", order.Note)
	}
	want := []models.OrderItem{{Code: "CB004", Quantity: 2}, {Code: "PN004", Quantity: 1}}
	if len(order.Items) != 2 || order.Items[0] != want[0] || order.Items[1] != want[1] {
		t.Errorf("order items = %+v, want %+v", order.Items, want)
	}
	if len(sent.Sends) != 1 || sent.Sends[0].Text != "Pedido #12 registrado" {
		t.Errorf("backend confirmation must be relayed verbatim, got %+v", sent.Sends)
	}
}

func TestHandle_OrderBackendNotOKPrefersBackendMessage(t *testing.T) {
	backend := nortsur.NewMockBackend()
	backend.OrderResult = nortsur.OrderResult{OK: false, Message: "Stock insuficiente de CB004"}
	h, sent := newTestHandler(t, backend, nil)

	h.Handle(context.Background(), textMsg("wamid.7", "CB004 x99"))

	if len(sent.Sends) != 1 || sent.Sends[0].Text != "Stock insuficiente de CB004" {
		t.Errorf("backend-supplied message must win, got %+v", sent.Sends)
	}
}

func TestHandle_OrderBackendErrorSendsGenericFailure(t *testing.T) {
	backend := nortsur.NewMockBackend()
	backend.OrderErr = nortsur.ErrNoEndpoint
	h, sent := newTestHandler(t, backend, nil)

	h.Handle(context.Background(), textMsg("wamid.8", "CB001 x1"))

	if len(sent.Sends) != 1 || sent.Sends[0].Text != msgGenericFailure {
		t.Errorf("expected generic failure text, got %+v", sent.Sends)
	}
}

func TestHandle_FreeTextNoMatches(t *testing.T) {
	backend := nortsur.NewMockBackend()
	h, sent := newTestHandler(t, backend, nil,
		WithCatalogWebURL("https://nortsur.example/catalogo"),
		WithCatalogSocialURL("https://instagram.com/nortsur"))

	h.Handle(context.Background(), textMsg("wamid.9", "algo rarisimo"))

	if len(sent.Sends) != 1 {
		t.Fatalf("expected one reply, got %d", len(sent.Sends))
	}
	reply := sent.Sends[0].Text
	if !strings.Contains(reply, "https://nortsur.example/catalogo") || !strings.Contains(reply, "https://instagram.com/nortsur") {
		t.Errorf("no-match reply must name the catalog links, got %q", reply)
	}
	if len(backend.CreatedOrders) != 0 {
		t.Error("no order may be placed without a match")
	}
}

func TestHandle_FreeTextMultipleMatchesAsksForCode(t *testing.T) {
	backend := nortsur.NewMockBackend()
	backend.Products = []models.Product{
		{Code: "MY001", Name: "Mayonesa", Presentation: "500ml"},
		{Code: "MY002", Name: "Mayonesa", Presentation: "1l"},
	}
	h, sent := newTestHandler(t, backend, nil)

	h.Handle(context.Background(), textMsg("wamid.10", "mayonesa"))

	if len(sent.Sends) != 1 {
		t.Fatalf("expected one reply, got %d", len(sent.Sends))
	}
	reply := sent.Sends[0].Text
	if !strings.Contains(reply, "MY001") || !strings.Contains(reply, "MY002") || !strings.Contains(reply, "(500ml)") {
		t.Errorf("candidate list incomplete: %q", reply)
	}
	if len(backend.CreatedOrders) != 0 {
		t.Error("no order may be placed with several candidates")
	}
}

func TestHandle_FreeTextSingleMatchOrdersWithDigitRunQuantity(t *testing.T) {
	backend := nortsur.NewMockBackend()
	backend.Products = []models.Product{{Code: "MY001", Name: "Mayonesa"}}
	backend.OrderResult = nortsur.OrderResult{OK: true, Message: "Pedido #3 registrado"}
	h, sent := newTestHandler(t, backend, nil)

	h.Handle(context.Background(), textMsg("wamid.11", "mayonesa x2"))

	if len(backend.CreatedOrders) != 1 {
		t.Fatalf("expected one order, got %d", len(backend.CreatedOrders))
	}
	items := backend.CreatedOrders[0].Items
	if len(items) != 1 || items[0].Code != "MY001" || items[0].Quantity != 2 {
		t.Errorf("order items = %+v", items)
	}
	if sent.Sends[0].Text != "Pedido #3 registrado" {
		t.Errorf("confirmation = %q", sent.Sends[0].Text)
	}
}

func TestHandle_FreeTextSingleMatchDefaultsQuantityToOne(t *testing.T) {
	backend := nortsur.NewMockBackend()
	backend.Products = []models.Product{{Code: "QS001", Name: "Queso"}}
	h, _ := newTestHandler(t, backend, nil)

	h.Handle(context.Background(), textMsg("wamid.12", "queso"))

	items := backend.CreatedOrders[0].Items
	if items[0].Quantity != 1 {
		t.Errorf("quantity = %d, want 1", items[0].Quantity)
	}
}

func TestHandle_AdminSummaryFetchesAndReplies(t *testing.T) {
	backend := nortsur.NewMockBackend()
	backend.Summary = "Pedido #7: 2x CB004 (pendiente)"
	h, sent := newTestHandler(t, backend, nil)

	h.Handle(context.Background(), textMsg("wamid.13", "resumen 7"))

	if len(backend.StateChanges) != 0 {
		t.Error("summary must not change order state")
	}
	if len(sent.Sends) != 1 || sent.Sends[0].Text != "Pedido #7: 2x CB004 (pendiente)" {
		t.Errorf("expected summary reply, got %+v", sent.Sends)
	}
}

func TestHandle_AdminCancelWithReasonChangesStateThenSummarizes(t *testing.T) {
	backend := nortsur.NewMockBackend()
	backend.Summary = "Pedido #7: cancelado"
	h, sent := newTestHandler(t, backend, nil)

	h.Handle(context.Background(), textMsg("wamid.14", "cancelar 7 cliente se arrepintió"))

	if len(backend.StateChanges) != 1 {
		t.Fatalf("expected one state change, got %d", len(backend.StateChanges))
	}
	change := backend.StateChanges[0]
	if change.OrderID != 7 || change.Verb != models.AdminVerbCancel || change.Reason != "cliente se arrepintió" {
		t.Errorf("state change = %+v", change)
	}
	if len(sent.Sends) != 1 || sent.Sends[0].Text != "Pedido #7: cancelado" {
		t.Errorf("expected summary reply, got %+v", sent.Sends)
	}
}

func TestHandle_AdminCancelWithoutReasonSendsUsageAndSummary(t *testing.T) {
	backend := nortsur.NewMockBackend()
	backend.Summary = "Pedido #7: pendiente"
	h, sent := newTestHandler(t, backend, nil)

	h.Handle(context.Background(), textMsg("wamid.15", "cancelar 7"))

	if len(backend.StateChanges) != 0 {
		t.Error("missing reason must not change order state")
	}
	if len(sent.Sends) != 2 {
		t.Fatalf("expected usage text then summary, got %d sends", len(sent.Sends))
	}
	if !strings.Contains(sent.Sends[0].Text, "motivo") {
		t.Errorf("first send should explain the missing reason, got %q", sent.Sends[0].Text)
	}
	if sent.Sends[1].Text != "Pedido #7: pendiente" {
		t.Errorf("second send should be the summary, got %q", sent.Sends[1].Text)
	}
}

func TestHandle_AdminStateChangeFailurePrependsWarning(t *testing.T) {
	backend := nortsur.NewMockBackend()
	backend.StateErr = errors.New("backend down")
	backend.Summary = "Pedido #7: pendiente"
	h, sent := newTestHandler(t, backend, nil)

	h.Handle(context.Background(), textMsg("wamid.16", "confirmar 7"))

	if len(sent.Sends) != 1 {
		t.Fatalf("expected one combined reply, got %d", len(sent.Sends))
	}
	reply := sent.Sends[0].Text
	if !strings.HasPrefix(reply, msgStateChangeWarning) || !strings.Contains(reply, "Pedido #7: pendiente") {
		t.Errorf("reply must prepend the warning to the summary, got %q", reply)
	}
}

func TestHandle_AdminStateChangeRejectionCarriesDetail(t *testing.T) {
	backend := nortsur.NewMockBackend()
	backend.StateResult = nortsur.StateResult{OK: false, Error: "ya entregado"}
	backend.Summary = "Pedido #7: entregado"
	h, sent := newTestHandler(t, backend, nil)

	h.Handle(context.Background(), textMsg("wamid.17", "cancelar 7 repetido"))

	reply := sent.Sends[0].Text
	if !strings.Contains(reply, "ya entregado") {
		t.Errorf("rejection detail should surface in the warning, got %q", reply)
	}
}

func TestHandle_AdminSummaryFailure(t *testing.T) {
	backend := nortsur.NewMockBackend()
	backend.SummaryErr = errors.New("backend down")
	h, sent := newTestHandler(t, backend, nil)

	h.Handle(context.Background(), textMsg("wamid.18", "resumen 7"))

	if len(sent.Sends) != 1 || sent.Sends[0].Text != msgSummaryUnavailable {
		t.Errorf("expected summary-unavailable reply, got %+v", sent.Sends)
	}
}

func TestHandle_SendFailureIsSwallowed(t *testing.T) {
	backend := nortsur.NewMockBackend()
	h, sent := newTestHandler(t, backend, nil)
	sent.TextErr = errors.New("transport down")

	// Must not panic or propagate anything.
	h.Handle(context.Background(), textMsg("wamid.19", "CB001 x1"))
}
