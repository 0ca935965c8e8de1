package domain

const (
	MailTypeScheduleGenerated = "schedule_generated"
	MailTypeScheduleFailed    = "schedule_failed"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ScheduleGeneratedMailData struct {
	TermName       string  `json:"termName"`
	RunID          string  `json:"runID"`
	Scheduled      int     `json:"scheduled"`
	Unresolvable   int     `json:"unresolvable"`
	FitnessScore   float64 `json:"fitnessScore"`
	GenerationsRun int     `json:"generationsRun"`
	Applied        bool    `json:"applied"`
}

type ScheduleFailedMailData struct {
	TermName string `json:"termName"`
	RunID    string `json:"runID"`
	Reason   string `json:"reason"`
}
