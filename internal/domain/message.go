package domain

import "errors"

// User-facing messages shown by every surface (HTTP, CLI, TUI).
const (
	MessageRateLimited  = "Alto tráfego na IA. Aguarde alguns segundos e tente novamente."
	MessageNoResults    = "Nenhum perfil encontrado. Tente termos mais abrangentes."
	MessageInvalidQuery = "Digite uma profissão ou palavra-chave."
	MessageGeneric      = "Não conseguimos encontrar perfis no momento."
)

// UserMessage maps an error to the text shown to the user.
// Rate limiting wins over "no results" when both apply.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case IsRateLimited(err):
		return MessageRateLimited
	case errors.Is(err, ErrNoResults):
		return MessageNoResults
	case errors.Is(err, ErrInvalidQuery):
		return MessageInvalidQuery
	default:
		return MessageGeneric
	}
}
