package pricing

import "testing"

func TestCatalogShape(t *testing.T) {
	all := Stages()
	if len(all) != 8 {
		t.Fatalf("expected 8 breakdown stages, got %d", len(all))
	}

	free := 0
	for _, s := range all {
		if s.Free {
			free++
		}
	}
	if free != 2 {
		t.Fatalf("expected 2 free stages, got %d", free)
	}

	if len(Questions()) != 6 {
		t.Fatalf("expected 6 paid questions, got %d", len(Questions()))
	}
}

func TestEveryQuestionMapsToAStage(t *testing.T) {
	for _, q := range Questions() {
		s, ok := StageByID(q.Stage)
		if !ok {
			t.Errorf("question %s references unknown stage %s", q.ID, q.Stage)
			continue
		}
		if s.Free {
			t.Errorf("question %s maps to free stage %s", q.ID, s.ID)
		}
	}
}

func TestRequiredMultipliersHavePositiveFactors(t *testing.T) {
	for _, q := range Questions() {
		if q.RequiresMultiplier && len(q.Multipliers) == 0 {
			t.Errorf("question %s requires a multiplier but defines none", q.ID)
		}
		for _, m := range q.Multipliers {
			if m.Factor <= 0 {
				t.Errorf("question %s multiplier %s has non-positive factor %v", q.ID, m.ID, m.Factor)
			}
		}
	}
}

func TestStageLabelBilingual(t *testing.T) {
	s, ok := StageByID("company-size")
	if !ok {
		t.Fatal("company-size stage missing")
	}
	if s.Label("en") != "Company Size Assessment" {
		t.Fatalf("unexpected en label %q", s.Label("en"))
	}
	if s.Label("es") != "Evaluación de Tamaño de Empresa" {
		t.Fatalf("unexpected es label %q", s.Label("es"))
	}
	if s.Label("fr") != s.Name {
		t.Fatalf("unknown language should fall back to the default name")
	}
}
