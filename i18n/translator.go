package i18n

import "sync"

// Translator retrieves localized labels for error codes.
// data provides optional metadata to embed in the label (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_argument_count":
			return "引数の数が不正です"
		case "invalid_argument":
			return "引数が不正です"
		case "wrong_shape":
			return "ノードの形が不正です"
		case "non_object_element":
			return "オブジェクト以外の要素があります"
		case "validation_failed":
			return "検証に失敗しました"
		case "parse_error":
			return "解析エラー"
		case "io_error":
			return "入出力エラー"
		}
	default: // "en"
		switch code {
		case "invalid_argument_count":
			return "invalid argument count"
		case "invalid_argument":
			return "invalid argument"
		case "wrong_shape":
			return "wrong shape"
		case "non_object_element":
			return "non object element"
		case "validation_failed":
			return "validation failed"
		case "parse_error":
			return "parse error"
		case "io_error":
			return "i/o error"
		}
	}
	if s, ok := data["fallback"]; ok && s != "" {
		return s
	}
	return code
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). A nil Translator restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a label for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
