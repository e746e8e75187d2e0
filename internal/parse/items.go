package parse

import (
	"strconv"
	"strings"

	"github.com/nortsur/orderbot/internal/models"
)

// Items extracts (code, quantity) pairs from order text such as
// "CB004 x2, PN004 x1" or the same entries across lines. Entries are split
// by line breaks and commas, in that order, preserving appearance order.
//
// The first token of an entry is the code; no format validation happens
// here. Code-shape filtering already happened in classification, and this
// parser is reused for the quantity step of a resolved free-text match.
func Items(text string) []models.OrderItem {
	var entries []string
	for _, line := range strings.Split(text, "\n") {
		for _, part := range strings.Split(line, ",") {
			if p := strings.TrimSpace(part); p != "" {
				entries = append(entries, p)
			}
		}
	}

	items := make([]models.OrderItem, 0, len(entries))
	for _, entry := range entries {
		tokens := strings.Fields(entry)
		if len(tokens) == 0 {
			continue
		}
		item := models.OrderItem{Code: strings.ToUpper(tokens[0]), Quantity: 1}
		for _, tok := range tokens[1:] {
			// "x2", "2x" and plain "2" all clean to "2". A bare "x"
			// cleans to the empty string, which does not count as a
			// quantity; the scan moves on.
			clean := strings.ReplaceAll(strings.ToLower(tok), "x", "")
			if clean == "" || !allDigits(clean) {
				continue
			}
			if n, err := strconv.Atoi(clean); err == nil {
				item.Quantity = n
			}
			break
		}
		items = append(items, item)
	}
	return items
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
