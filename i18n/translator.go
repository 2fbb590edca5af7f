package i18n

import "sync"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "min" or "max").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "pt":
		switch code {
		case "invalid_type":
			return "tipo inválido"
		case "required":
			return "campo obrigatório ausente"
		case "too_short":
			return "curto demais"
		case "too_long":
			return "longo demais"
		case "too_small":
			return "valor abaixo do mínimo"
		case "too_big":
			return "valor acima do máximo"
		case "invalid_enum":
			return "valor fora da lista permitida"
		case "invalid_format":
			return "formato inválido"
		case "pattern":
			return "não corresponde ao padrão"
		case "business_rule":
			return "regra de negócio violada"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "required":
			return "required field missing"
		case "too_short":
			return "too short"
		case "too_long":
			return "too long"
		case "too_small":
			return "value below minimum"
		case "too_big":
			return "value above maximum"
		case "invalid_enum":
			return "value not in allowed set"
		case "invalid_format":
			return "invalid format"
		case "pattern":
			return "does not match pattern"
		case "business_rule":
			return "business rule violated"
		}
	}
	return code
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"pt").
func SetLanguage(lang string) {
	if lang != "pt" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
