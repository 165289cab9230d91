package repo

import "testing"

func TestParseFilhosDefensivo(t *testing.T) {
	cases := []struct {
		name string
		raw  *string
		want int
	}{
		{"nil", nil, 0},
		{"vazio", strPtr(""), 0},
		{"malformado", strPtr("{nope"), 0},
		{"null", strPtr("null"), 0},
		{"lista", strPtr(`["Ana","João"]`), 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseFilhos(tc.raw)
			if got == nil {
				t.Fatal("esperava lista não nula")
			}
			if len(got) != tc.want {
				t.Fatalf("esperava %d itens, obteve %d", tc.want, len(got))
			}
		})
	}
}

func TestParseSacramentosDefensivo(t *testing.T) {
	cases := []struct {
		name string
		raw  *string
		want int
	}{
		{"nil", nil, 0},
		{"malformado", strPtr("[1,2"), 0},
		{"null", strPtr("null"), 0},
		{"mapa", strPtr(`{"batismo":true,"crisma":false}`), 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseSacramentos(tc.raw)
			if got == nil {
				t.Fatal("esperava mapa não nulo")
			}
			if len(got) != tc.want {
				t.Fatalf("esperava %d chaves, obteve %d", tc.want, len(got))
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	filhos := EncodeFilhos(nil)
	if filhos != "[]" {
		t.Fatalf("esperava [], obteve %s", filhos)
	}
	sacramentos := EncodeSacramentos(map[string]bool{"eucaristia": true})
	parsed := ParseSacramentos(&sacramentos)
	if !parsed["eucaristia"] {
		t.Fatal("round trip perdeu a chave eucaristia")
	}
}

func strPtr(s string) *string { return &s }
