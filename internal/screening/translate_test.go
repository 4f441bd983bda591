package screening

import (
	"strings"
	"testing"
)

func TestTranslate_SeverityThresholds(t *testing.T) {
	for anxiety := 0; anxiety <= 5; anxiety++ {
		for depression := 0; depression <= 5; depression++ {
			crit := Translate(anxiety, depression, "", "Indiferente")
			hasAnx := strings.Contains(crit.Focus, "Ansiedade")
			hasDep := strings.Contains(crit.Focus, "Depressão")
			if hasAnx != (anxiety >= 4) {
				t.Fatalf("anxiety=%d: focus %q, Ansiedade presence wrong", anxiety, crit.Focus)
			}
			if hasDep != (depression >= 4) {
				t.Fatalf("depression=%d: focus %q, Depressão presence wrong", depression, crit.Focus)
			}
		}
	}
}

func TestTranslate_LinePrefersTCC(t *testing.T) {
	// Both anxiety and depression at max: the anxiety/stress rule wins.
	crit := Translate(5, 5, "", "")
	if crit.Line != "TCC" {
		t.Fatalf("expected TCC, got %q", crit.Line)
	}

	crit = Translate(0, 0, "Estresse", "")
	if crit.Line != "TCC" {
		t.Fatalf("expected TCC for Estresse focus, got %q", crit.Line)
	}

	crit = Translate(0, 5, "", "")
	if crit.Line != "Psicanálise" {
		t.Fatalf("expected Psicanálise, got %q", crit.Line)
	}

	crit = Translate(0, 0, "Luto", "")
	if crit.Line != "Psicanálise" {
		t.Fatalf("expected Psicanálise for Luto focus, got %q", crit.Line)
	}

	crit = Translate(1, 1, "Carreira", "")
	if crit.Line != "" {
		t.Fatalf("expected no line recommendation, got %q", crit.Line)
	}
}

func TestTranslate_DedupesFocus(t *testing.T) {
	crit := Translate(5, 0, "Ansiedade", "F")
	if crit.Focus != "Ansiedade" {
		t.Fatalf("expected deduplicated focus, got %q", crit.Focus)
	}
	if crit.Gender != "F" {
		t.Fatalf("expected gender F, got %q", crit.Gender)
	}
}

func TestTranslate_AccumulatesFocus(t *testing.T) {
	crit := Translate(4, 4, "Carreira", "")
	for _, want := range []string{"Carreira", "Ansiedade", "Depressão"} {
		if !strings.Contains(crit.Focus, want) {
			t.Fatalf("focus %q missing %q", crit.Focus, want)
		}
	}
}
