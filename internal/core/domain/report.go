package domain

// ErrorReport is the structured body returned to clients for unhandled
// failures and forwarded to the error channel.
type ErrorReport struct {
	Error   bool        `json:"Error"`
	Subject string      `json:"Subject"`
	Message string      `json:"Message"`
	Hash    string      `json:"Hash"`
	Ex      string      `json:"Ex"`
	URL     string      `json:"Url"`
	Debug   ReportDebug `json:"Debug"`
}

type ReportDebug struct {
	ID     string `json:"ID"`
	File   string `json:"File"`
	Method string `json:"Method"`
	Path   string `json:"Path"`
	Action string `json:"Action"`
	Code   int    `json:"Code"`
	Date   string `json:"Date"`
	Env    string `json:"Env"`
}

// ReportOutcome describes what happened to the external notification.
type ReportOutcome string

const (
	ReportNotified   ReportOutcome = "notified"
	ReportDuplicate  ReportOutcome = "duplicate"
	ReportSuppressed ReportOutcome = "suppressed"
	ReportFailed     ReportOutcome = "notify_failed"
)
