package models

import "strings"

// Status is the lifecycle state of an order.
type Status string

const (
	StatusNew        Status = "New"
	StatusProcessing Status = "Processing"
	StatusFinished   Status = "Finished"
)

// statusAliases maps legacy spellings still sent by older clients
// to their canonical values.
var statusAliases = map[string]Status{
	"novo":        StatusNew,
	"processando": StatusProcessing,
	"finalizado":  StatusFinished,
}

// AllStatuses lists every valid order status in lifecycle order.
func AllStatuses() []Status {
	return []Status{StatusNew, StatusProcessing, StatusFinished}
}

// ParseStatus normalizes a status string to its canonical value.
// Both canonical and legacy spellings are accepted, case-insensitively.
// The second return value reports whether the input was a valid status.
func ParseStatus(s string) (Status, bool) {
	trimmed := strings.TrimSpace(s)
	for _, status := range AllStatuses() {
		if strings.EqualFold(trimmed, string(status)) {
			return status, true
		}
	}
	if status, ok := statusAliases[strings.ToLower(trimmed)]; ok {
		return status, true
	}
	return "", false
}

// IsValid reports whether the status holds one of the enumerated values.
func (s Status) IsValid() bool {
	_, ok := ParseStatus(string(s))
	return ok
}
