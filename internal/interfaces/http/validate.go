package http

import (
	"strings"

	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	es_translations "github.com/go-playground/validator/v10/translations/es"
)

// Validador compartido con mensajes en español. Se inicializa una sola vez en
// Router y es de solo lectura después; nunca se toca desde los handlers.
var (
	validate   *validator.Validate
	translator ut.Translator
)

func initValidator() {
	if validate != nil {
		return
	}
	validate = validator.New(validator.WithRequiredStructEnabled())
	esLocale := es.New()
	uni := ut.New(esLocale, esLocale)
	translator, _ = uni.GetTranslator("es")
	_ = es_translations.RegisterDefaultTranslations(validate, translator)
}

// validateStruct valida un DTO y devuelve los mensajes traducidos unidos, o "".
func validateStruct(in any) string {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		ok := false
		if verrs, ok = err.(validator.ValidationErrors); !ok {
			return err.Error()
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fe.Translate(translator))
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
