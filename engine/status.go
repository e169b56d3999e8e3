package engine

// Provider bid status values, a closed set
const (
	StatusNew        = "new"
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusRejected   = "rejected"
)

// statusMessages is the display text per provider status. The rejected
// entry names the administrator explicitly, it is not a cancellation
var statusMessages = map[string]string{
	StatusNew:        "Новая заявка",
	StatusPending:    "В обработке",
	StatusProcessing: "Обрабатывается",
	StatusCompleted:  "Выполнена",
	StatusCancelled:  "Отменена",
	StatusRejected:   "Заявка отклонена администратором",
}

// TerminalStatus reports whether the provider status is final
func TerminalStatus(status string) bool {
	switch status {
	case StatusCompleted, StatusCancelled, StatusRejected:
		return true
	default:
		return false
	}
}

// statusMessage maps a provider status to display text.
// Statuses outside the known set echo the raw value
func statusMessage(status string) string {
	if message, ok := statusMessages[status]; ok {
		return message
	}

	return status
}
