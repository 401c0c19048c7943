// Package notify is the outbound notification boundary. Dispatch is
// fire-and-forget: delivery failures are logged, never propagated into the
// operation that triggered them.
package notify

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Template identifiers understood by every dispatcher implementation.
const (
	TemplateNewComplaint      = "new_complaint"
	TemplateStatusChanged     = "status_changed"
	TemplateComplaintResolved = "complaint_resolved"
)

// Notifier delivers a templated notification to a recipient. Implementations
// must never block the caller on delivery.
type Notifier interface {
	Notify(recipient, templateID string, vars map[string]string)
}

// LogNotifier writes notifications to the log. It is the fallback when no
// real dispatcher is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(recipient, templateID string, vars map[string]string) {
	log.WithFields(log.Fields{
		"recipient": recipient,
		"template":  templateID,
		"vars":      vars,
	}).Info("notification (log only)")
}

// RenderMessage turns a template id and its variables into a plain-text
// message body shared by the concrete dispatchers.
func RenderMessage(templateID string, vars map[string]string) string {
	switch templateID {
	case TemplateNewComplaint:
		return fmt.Sprintf("New complaint %s (%s) assigned to %s",
			vars["tracking_code"], vars["category"], vars["department"])
	case TemplateStatusChanged:
		return fmt.Sprintf("Complaint %s moved from %s to %s: %s",
			vars["tracking_code"], vars["from_status"], vars["to_status"], vars["remark"])
	case TemplateComplaintResolved:
		return fmt.Sprintf("Complaint %s has been resolved", vars["tracking_code"])
	default:
		return fmt.Sprintf("%s %v", templateID, vars)
	}
}
