package parse

import (
	"testing"

	"github.com/nortsur/orderbot/internal/models"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		body string
		want models.Intent
	}{
		{"empty", "", models.IntentEmpty},
		{"whitespace only", "  \n\t ", models.IntentEmpty},
		{"greeting", "Hola!", models.IntentGreeting},
		{"greeting keyword inside sentence", "quisiera ver el catálogo", models.IntentGreeting},
		{"greeting english", "hello there", models.IntentGreeting},
		{"coded order", "CB001 x2", models.IntentCodedOrder},
		{"coded order lowercase input", "cb001 x2", models.IntentCodedOrder},
		{"coded order multi line", "CB004 x2\nPN004 x1", models.IntentCodedOrder},
		{"free text order", "mayonesa 500ml x2", models.IntentFreeText},
		{"admin summary", "resumen 7", models.IntentAdminCommand},
		{"admin cancel with reason", "cancelar 7 cliente se arrepintió", models.IntentAdminCommand},
		{"unknown verb falls through to free text", "foo 7", models.IntentFreeText},
		{"code-like token with too many digits", "CB0001 x1", models.IntentFreeText},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.body); got != tc.want {
				t.Errorf("Classify(%q) = %v, want %v", tc.body, got, tc.want)
			}
		})
	}
}
