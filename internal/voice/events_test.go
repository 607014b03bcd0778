package voice

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestExtractText(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"plain string", `"hola, tienes pijamas"`, "hola, tienes pijamas"},
		{"utterance array", `[{"role":"user","content":"hola"},{"role":"user","content":"tienes pijamas"}]`, "hola tienes pijamas"},
		{"empty array", `[]`, ""},
		{"malformed", `{"nope":1}`, ""},
		{"absent", ``, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractText(json.RawMessage(tc.raw)); got != tc.want {
				t.Fatalf("extractText(%s) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestSplitForSpeech(t *testing.T) {
	got := splitForSpeech("Claro, tenemos el Pijama Seda. Cuesta $50.00.")
	want := []string{"Claro,", "tenemos el Pijama Seda.", "Cuesta $50.", "00."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitForSpeech = %q, want %q", got, want)
	}

	got = splitForSpeech("¿Hola? ¿Sigues ahí?")
	want = []string{"¿Hola?", "¿Sigues ahí?"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitForSpeech = %q, want %q", got, want)
	}

	if got := splitForSpeech("   "); got != nil {
		t.Fatalf("blank reply must yield no chunks, got %q", got)
	}
}

func TestFillerFor(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"quiero ver batas", "Claro... "},
		{"¿Podrías mostrarme el catálogo?", "Claro... "},
		{"¿cuánto cuesta el pijama?", "Permíteme verificarlo... "},
		{"¿tienen stock de la bata?", "Permíteme verificarlo... "},
		{"háblame de la marca", "Entiendo... "},
	}
	for _, tc := range cases {
		if got := fillerFor(tc.in); got != tc.want {
			t.Fatalf("fillerFor(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
