// Package homework turns raw homework-status API payloads into chat messages.
package homework

const (
	StatusApproved  = "approved"
	StatusReviewing = "reviewing"
	StatusRejected  = "rejected"
)

var verdicts = map[string]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Verdict returns the user-facing text for a status code.
func Verdict(status string) (string, bool) {
	v, ok := verdicts[status]
	return v, ok
}

// Statuses lists the known status codes.
func Statuses() []string {
	return []string{StatusApproved, StatusReviewing, StatusRejected}
}
