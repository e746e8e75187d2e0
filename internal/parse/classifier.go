// Package parse interprets inbound message text: intent classification,
// order-item extraction and admin command parsing.
//
// Classification is deliberately coarse keyword/regex matching. The input
// vocabulary is small and well known (product codes are a fixed short format
// from the backend catalog), so cheap predictable heuristics beat anything
// smarter here.
package parse

import (
	"regexp"
	"strings"

	"github.com/nortsur/orderbot/internal/models"
)

// greetingKeywords trigger the welcome flow when present as a substring of
// the lower-cased body.
var greetingKeywords = []string{
	"hola", "buenas", "buen dia", "buen día",
	"menu", "menú", "productos", "catálogo", "catalogo",
	"ayuda", "hi", "hello",
}

// codeToken matches a product code: two uppercase letters followed by
// exactly three digits, e.g. "CB001".
var codeToken = regexp.MustCompile(`^[A-Z]{2}[0-9]{3}$`)

// tokenSeparators splits order text into candidate code tokens.
var tokenSeparators = regexp.MustCompile(`[,\s]+`)

// Classify decides the intent of a message body. The decision order matters:
// admin commands are checked before greetings so "resumen 7" never reads as
// small talk, and code detection runs before falling back to free text.
func Classify(body string) models.Intent {
	if strings.TrimSpace(body) == "" {
		return models.IntentEmpty
	}
	if _, ok := Admin(body); ok {
		return models.IntentAdminCommand
	}
	lower := strings.ToLower(body)
	for _, kw := range greetingKeywords {
		if strings.Contains(lower, kw) {
			return models.IntentGreeting
		}
	}
	for _, tok := range tokenSeparators.Split(strings.ToUpper(body), -1) {
		if codeToken.MatchString(tok) {
			return models.IntentCodedOrder
		}
	}
	return models.IntentFreeText
}
