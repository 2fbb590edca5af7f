package i18n

import "testing"

func TestTranslator_DefaultAndPortuguese(t *testing.T) {
	// default is en
	if msg := T("required", nil); msg == "required" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("pt")
	if msg := T("required", nil); msg != "campo obrigatório ausente" {
		t.Fatalf("expected portuguese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestTranslator_CustomAndUnknownCode(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("unknown codes should echo the code, got %q", msg)
	}
	SetTranslator(upper{})
	if msg := T("too_long", nil); msg != "X:too_long" {
		t.Fatalf("custom translator not used: %q", msg)
	}
	SetTranslator(nil)
	if msg := T("too_long", nil); msg != "too long" {
		t.Fatalf("nil translator should restore default, got %q", msg)
	}
}
