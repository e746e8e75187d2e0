package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nortsur/orderbot/internal/models"
)

// adminGrammar recognizes operator commands: a Spanish verb, an order ID and
// an optional free-form reason. Whole-string anchored and case-insensitive;
// (?s) lets the reason span lines.
var adminGrammar = regexp.MustCompile(`(?is)^\s*(confirmar|entregar|cancelar|reabrir|resumen)\s+(\d+)(?:\s+(.*))?\s*$`)

// adminVerbs maps the Spanish command verbs onto their lifecycle actions.
var adminVerbs = map[string]models.AdminVerb{
	"confirmar": models.AdminVerbConfirm,
	"entregar":  models.AdminVerbDeliver,
	"cancelar":  models.AdminVerbCancel,
	"reabrir":   models.AdminVerbReopen,
	"resumen":   models.AdminVerbSummary,
}

// Admin parses an operator command. ok is false for any input not matching
// the full grammar, letting the classifier fall through to the next
// category.
func Admin(text string) (models.AdminCommand, bool) {
	m := adminGrammar.FindStringSubmatch(text)
	if m == nil {
		return models.AdminCommand{}, false
	}
	verb, known := adminVerbs[strings.ToLower(m[1])]
	if !known {
		return models.AdminCommand{}, false
	}
	orderID, err := strconv.Atoi(m[2])
	if err != nil {
		// Digits that overflow int are not a usable order ID.
		return models.AdminCommand{}, false
	}
	return models.AdminCommand{
		Verb:    verb,
		OrderID: orderID,
		Reason:  strings.TrimSpace(m[3]),
	}, true
}
