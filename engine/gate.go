package engine

// GateState is the verification gate decision for a bid attempt
type GateState string

const (
	GateNotRequired             GateState = "not_required"
	GateRequiredUnauthenticated GateState = "required_unauthenticated"
	GateRequiredPendingReview   GateState = "required_pending_review"
	GateRequiredRejected        GateState = "required_rejected"
	GateRequiredUnsubmitted     GateState = "required_unsubmitted"
	GateClear                   GateState = "clear"
)

// gateMessages are the user-facing messages per gate state
var gateMessages = map[GateState]string{
	GateNotRequired:             "Верификация не требуется для данного обмена",
	GateRequiredUnauthenticated: "Для данного обмена требуется верификация аккаунта. Войдите в систему, чтобы продолжить",
	GateRequiredPendingReview:   "Ваша заявка на верификацию находится на рассмотрении",
	GateRequiredRejected:        "Ваша заявка на верификацию отклонена. Отправьте документы повторно",
	GateRequiredUnsubmitted:     "Для обмена Zelle USD на рублевые платежные системы требуется верификация аккаунта",
	GateClear:                   "Ваш аккаунт уже верифицирован",
}

// Blocks reports whether the state short-circuits bid submission
func (s GateState) Blocks() bool {
	switch s {
	case GateNotRequired, GateClear:
		return false
	default:
		return true
	}
}

// Message returns the user-facing message for the state
func (s GateState) Message() string {
	return gateMessages[s]
}

// Pair is an ordered currency pair, in directions-API titles
type Pair struct {
	From string
	To   string
}

// Gate decides whether a bid attempt must be blocked pending identity
// verification. It keys strictly on the currency pair, never on amounts
// or provider identifiers
type Gate struct {
	required map[Pair]struct{}
}

// NewGate creates a gate over the given verification-required pairs
func NewGate(pairs []Pair) *Gate {
	required := make(map[Pair]struct{}, len(pairs))
	for _, pair := range pairs {
		required[pair] = struct{}{}
	}

	return &Gate{
		required: required,
	}
}

// DefaultGate returns the gate instance used in production:
// Zelle USD exchanges into RUB payment rails require verification
func DefaultGate() *Gate {
	rails := []string{
		"Банковская карта RUB",
		"СБП RUB",
		"Сбербанк RUB",
		"Т-Банк RUB",
		"Альфа-Банк RUB",
	}

	pairs := make([]Pair, 0, len(rails))
	for _, rail := range rails {
		pairs = append(pairs, Pair{From: "Zelle USD", To: rail})
	}

	return NewGate(pairs)
}

// Check runs the gate transition function for the pair and caller
func (g *Gate) Check(from, to string, caller *Identity) GateState {
	if _, ok := g.required[Pair{From: from, To: to}]; !ok {
		return GateNotRequired
	}

	if caller == nil {
		return GateRequiredUnauthenticated
	}

	switch caller.Status {
	case VerificationVerified:
		return GateClear
	case VerificationPending:
		return GateRequiredPendingReview
	case VerificationRejected:
		return GateRequiredRejected
	default:
		return GateRequiredUnsubmitted
	}
}
