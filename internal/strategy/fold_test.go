package strategy

import "testing"

func TestFold(t *testing.T) {
	cases := map[string]string{
		"Avaliação":   "avaliacao",
		"LEILÃO":      "leilao",
		"Matrícula":   "matricula",
		"sem acentos": "sem acentos",
	}
	for in, want := range cases {
		if got := fold(in); got != want {
			t.Errorf("fold(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestContainsFolded(t *testing.T) {
	if !containsFolded("Primeira PRAÇA do leilão", "praça") {
		t.Error("accented keyword not found in accented text")
	}
	if !containsFolded("primeira praca do leilao", "praça") {
		t.Error("accented keyword not found in stripped text")
	}
	if containsFolded("nada relacionado", "praça") {
		t.Error("false positive")
	}
}
