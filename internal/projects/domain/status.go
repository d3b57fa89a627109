package domain

// Status represents the lifecycle status of a project.
type Status string

const (
	// StatusInquiry indicates a customer inquiry that is not yet planned.
	StatusInquiry Status = "anfrage"
	// StatusSiteVisit indicates an on-site inspection is scheduled or done.
	StatusSiteVisit Status = "besichtigung"
	// StatusPlanned indicates the project is planned but work has not started.
	StatusPlanned Status = "geplant"
	// StatusInProgress indicates work on the project is ongoing.
	StatusInProgress Status = "in_bearbeitung"
	// StatusCompleted indicates the project is finished.
	StatusCompleted Status = "abgeschlossen"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusInquiry, StatusSiteVisit, StatusPlanned, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsCompleted returns true for the completed lifecycle status.
func (s Status) IsCompleted() bool {
	return s == StatusCompleted
}

// ParseStatus parses a string into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
