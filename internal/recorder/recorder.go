// Package recorder keeps a write-only audit log of session turns.
package recorder

// ScenarioEvent holds one simulated what-if turn.
type ScenarioEvent struct {
	TurnID        string
	BusinessID    string
	Command       string
	DeltaKind     string // "revenue", "employee" or "expense"
	Description   string
	RevenueBefore float64
	RevenueAfter  float64
	ExpenseBefore float64
	ExpenseAfter  float64
	NetBefore     float64
	NetAfter      float64
	Advisor       string
	AdviceChars   int
}

// QuestionEvent holds one free-text question routed to the advisor.
type QuestionEvent struct {
	TurnID      string
	BusinessID  string
	Question    string
	Advisor     string
	AdviceChars int
	Failed      bool
}

// DigestEvent records a scheduled digest delivery.
type DigestEvent struct {
	BusinessID  string
	HasScenario bool
	Channels    int
	Failures    int
}

// Recorder persists session history for later analysis.
type Recorder interface {
	RecordScenario(evt *ScenarioEvent) error
	RecordQuestion(evt *QuestionEvent) error
	RecordDigest(evt *DigestEvent) error
	Close() error
}
