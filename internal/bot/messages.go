package bot

import (
	"fmt"
	"strings"

	"github.com/nortsur/orderbot/internal/models"
)

// Reply texts. Spanish, matching the tone customers already know from the
// human-operated channel.
const (
	// msgFormatGuidance is sent when order text could not be understood.
	msgFormatGuidance = "No pude entender el pedido 😕\n\n" +
		"Usá este formato, por ejemplo:\n" +
		"CB001 x1\n" +
		"CB004 x2, PN004 x1"

	// msgGenericFailure is the catch-all for backend problems.
	msgGenericFailure = "Hubo un problema al registrar tu pedido 😕\n" +
		"Por favor, intentá de nuevo en unos minutos o avisá al vendedor."

	// msgNonText is sent for messages the bot cannot read (audio, images...).
	msgNonText = "Por ahora solo puedo leer mensajes de texto 🙏\n" +
		"Escribime tu pedido con códigos, por ejemplo:\n" +
		"CB001 x1"

	// msgGenericWelcome greets senders the backend does not know yet.
	msgGenericWelcome = "¡Hola! 👋 Bienvenido/a a Nortsur.\n" +
		"Te dejo nuestro catálogo en imágenes.\n" +
		"Para pedir, escribime los códigos, por ejemplo:\n" +
		"CB001 x1\n" +
		"CB004 x2, PN004 x1"

	// msgOrderConfirmed is the fallback confirmation when the backend
	// reports success without a message of its own.
	msgOrderConfirmed = "¡Pedido registrado! ✅"

	// msgSummaryUnavailable replaces the order summary when the backend
	// cannot produce one.
	msgSummaryUnavailable = "No pude traer el resumen del pedido 😕\n" +
		"Intentá de nuevo en unos minutos."

	// msgStateChangeWarning is prepended to the summary when a lifecycle
	// change failed.
	msgStateChangeWarning = "⚠️ No pude aplicar el cambio de estado."
)

// personalWelcome greets a client the backend recognized.
func personalWelcome(name string) string {
	return fmt.Sprintf("¡Hola %s! 👋 Qué bueno verte de nuevo.\n"+
		"Escribime tu pedido con códigos, por ejemplo:\n"+
		"CB001 x1\n"+
		"CB004 x2, PN004 x1", name)
}

// noMatches tells the sender nothing in the catalog matched, pointing at the
// catalog links when configured.
func noMatches(webURL, socialURL string) string {
	var b strings.Builder
	b.WriteString("No encontré productos para tu búsqueda 😕")
	if webURL != "" {
		b.WriteString("\nPodés ver el catálogo completo en:\n🌐 ")
		b.WriteString(webURL)
	}
	if socialURL != "" {
		b.WriteString("\n📷 ")
		b.WriteString(socialURL)
	}
	return b.String()
}

// candidateList enumerates the products a free-text search matched and asks
// the sender to answer with a code.
func candidateList(products []models.Product) string {
	var b strings.Builder
	b.WriteString("Encontré varios productos 👀\n")
	b.WriteString("Respondeme con el código del que querés:\n")
	for i, p := range products {
		b.WriteString(fmt.Sprintf("\n%d. %s — %s", i+1, p.Code, p.Name))
		if p.Presentation != "" {
			b.WriteString(" (" + p.Presentation + ")")
		}
	}
	return b.String()
}

// reasonUsage explains the required reason for cancel/reopen commands.
func reasonUsage(cmd models.AdminCommand) string {
	verb := "cancelar"
	if cmd.Verb == models.AdminVerbReopen {
		verb = "reabrir"
	}
	return fmt.Sprintf("Falta el motivo 🙏\nUsá: %s %d <motivo>", verb, cmd.OrderID)
}
