package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailNotConfirmed  ErrCode = "EMAIL_NOT_CONFIRMED"
	ErrAlreadyRegistered  ErrCode = "ALREADY_REGISTERED"
	ErrWeakPassword       ErrCode = "WEAK_PASSWORD"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrConfirmInvalid     ErrCode = "CONFIRM_TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrRouteDenied       ErrCode = "ROUTE_DENIED"
	ErrProfileFetch      ErrCode = "PROFILE_FETCH_FAILED"
	ErrProfileIncomplete ErrCode = "PROFILE_INCOMPLETE"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"

	// ─── Scheduling ────────────────────────────────────────────────────
	ErrScheduleConflict ErrCode = "SCHEDULE_CONFLICT"

	// ─── Financial ─────────────────────────────────────────────────────
	ErrPaymentSettled ErrCode = "PAYMENT_ALREADY_SETTLED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email ou senha incorretos."
	case ErrEmailNotConfirmed:
		return "Email não confirmado. Verifique sua caixa de entrada."
	case ErrAlreadyRegistered:
		return "Este email já está cadastrado."
	case ErrWeakPassword:
		return "A senha deve ter pelo menos 6 caracteres."
	case ErrTokenRequired:
		return "Token de autenticação é obrigatório."
	case ErrTokenInvalid:
		return "Token de autenticação inválido."
	case ErrSessionInvalidated:
		return "Sua sessão expirou. Faça login novamente."
	case ErrConfirmInvalid:
		return "Token de confirmação inválido ou expirado."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "Você não tem permissão para acessar este recurso."
	case ErrRouteDenied:
		return "Você não tem permissão para acessar esta página."
	case ErrProfileFetch:
		return "Erro ao carregar perfil do usuário."
	case ErrProfileIncomplete:
		return "Seu perfil ainda está sendo preparado. Tente novamente."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validação falhou. Verifique os dados informados."
	case ErrInvalidID:
		return "Formato de ID inválido."
	case ErrInvalidPayload:
		return "Corpo da requisição inválido."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Recurso não encontrado."
	case ErrConflict:
		return "Recurso já existe."
	case ErrDependencyExists:
		return "Não é possível excluir: existem registros vinculados."

	// ─── Scheduling ────────────────────────────────────────────────────
	case ErrScheduleConflict:
		return "Conflito de horário com outra aula do professor."

	// ─── Financial ─────────────────────────────────────────────────────
	case ErrPaymentSettled:
		return "Este pagamento já foi registrado como pago."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Muitas requisições. Tente novamente mais tarde."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Ocorreu um erro interno no servidor."
	default:
		return "Ocorreu um erro inesperado."
	}
}
