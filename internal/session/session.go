// Package session runs what-if turns for one dashboard user: it parses each
// submission, simulates scenarios, asks the advisor and keeps the active
// scenario for rendering.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"BizBoost/internal/advisor"
	"BizBoost/internal/calculator"
	"BizBoost/internal/catalog"
	"BizBoost/internal/command"
	"BizBoost/internal/model"
	"BizBoost/internal/recorder"
	"BizBoost/internal/scenario"
)

var (
	// ErrEmptyCommand is returned for blank submissions.
	ErrEmptyCommand = errors.New("command is empty")
	// ErrBusy is returned while a previous submission is still waiting on the advisor.
	ErrBusy = errors.New("a previous command is still being processed")
)

// Reply is the outcome of one submission.
type Reply struct {
	TurnID      string               `json:"turn_id"`
	Command     string               `json:"command"`
	Scenario    bool                 `json:"scenario"` // false for plain questions
	Description string               `json:"description"`
	Original    model.BusinessState  `json:"original"`
	Simulated   *model.BusinessState `json:"simulated,omitempty"`
	Advice      string               `json:"advice"`
}

// View is what the UI renders.
type View struct {
	Business    model.BusinessState  `json:"business"`
	Scenario    *model.BusinessState `json:"scenario,omitempty"`
	LastCommand string               `json:"last_command,omitempty"`
	Busy        bool                 `json:"busy"`
	Greeting    string               `json:"greeting"`
}

// Options configures a Session.
type Options struct {
	Catalog     *catalog.Catalog
	Advisor     advisor.Advisor
	Recorder    recorder.Recorder
	Assumptions scenario.Assumptions
	// Overrides are per business type, matched ignoring case.
	Overrides map[string]scenario.Assumptions
	// BusinessID selects the starting business. Empty picks the catalog default.
	BusinessID string
	Logger     *logrus.Logger
}

// Session is safe for concurrent use. Only one submission runs at a time.
type Session struct {
	catalog   *catalog.Catalog
	advisor   advisor.Advisor
	recorder  recorder.Recorder
	base      scenario.Assumptions
	overrides map[string]scenario.Assumptions
	log       *logrus.Entry

	mu          sync.Mutex
	business    model.BusinessState
	active      *model.BusinessState
	lastCommand string
	busy        bool
}

// New creates a Session on the requested business.
func New(opts Options) (*Session, error) {
	if opts.Catalog == nil || opts.Advisor == nil {
		return nil, errors.New("session: catalog and advisor are required")
	}
	if opts.Recorder == nil {
		opts.Recorder = recorder.NewNoopRecorder()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	business := opts.Catalog.Default()
	if opts.BusinessID != "" {
		b, err := opts.Catalog.Get(opts.BusinessID)
		if err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
		business = b
	}

	return &Session{
		catalog:   opts.Catalog,
		advisor:   opts.Advisor,
		recorder:  opts.Recorder,
		base:      opts.Assumptions,
		overrides: opts.Overrides,
		log:       opts.Logger.WithField("component", "session"),
		business:  business,
	}, nil
}

// Submit handles one user submission. Scenario commands are simulated and
// become the active scenario before the advisor is called, so an advisor
// failure never loses the simulation.
func (s *Session) Submit(ctx context.Context, text string) (*Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyCommand
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.busy = true
	business := s.business.Clone()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	reply := &Reply{TurnID: uuid.NewString(), Command: text, Original: business}
	delta := command.Parse(text)
	log := s.log.WithFields(logrus.Fields{"turn": reply.TurnID, "business": business.ID})

	req := advisor.Request{Business: business, Question: text}
	if model.IsMatch(delta) {
		a := scenario.AssumptionsFor(business.Type, s.base, s.overrides)
		simulated, _ := scenario.Simulate(business, delta, a)

		s.mu.Lock()
		if s.business.ID == business.ID {
			s.active = &simulated
			s.lastCommand = text
		}
		s.mu.Unlock()

		reply.Scenario = true
		reply.Description = command.Describe(delta)
		reply.Simulated = &simulated
		req.Scenario = &advisor.Comparison{Original: business, Simulated: simulated, Command: text}
		log.WithField("rule", command.Classify(text)).Info("scenario simulated")
	} else {
		log.Debug("no scenario matched, asking advisor")
	}

	advice, err := s.advisor.Advise(ctx, req)
	failed := err != nil
	if failed {
		log.WithError(err).Error("advisor failed")
		advice = advisor.ConnectionTrouble
	}
	reply.Advice = advice

	s.record(reply, delta, failed)
	return reply, nil
}

// ClearScenario drops the active scenario.
func (s *Session) ClearScenario() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = nil
	s.lastCommand = ""
}

// SelectBusiness switches to another catalog business and clears the scenario.
func (s *Session) SelectBusiness(id string) (model.BusinessState, error) {
	b, err := s.catalog.Get(id)
	if err != nil {
		return model.BusinessState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.business = b
	s.active = nil
	s.lastCommand = ""
	s.log.WithField("business", id).Info("business selected")
	return b.Clone(), nil
}

// View returns copies of the current render state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := View{
		Business:    s.business.Clone(),
		LastCommand: s.lastCommand,
		Busy:        s.busy,
		Greeting:    advisor.Greeting(s.business),
	}
	if s.active != nil {
		sim := s.active.Clone()
		v.Scenario = &sim
	}
	return v
}

// Catalog returns the catalog the session selects businesses from.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

func (s *Session) record(r *Reply, delta model.Delta, failed bool) {
	var err error
	if r.Scenario {
		orig, sim := r.Original, *r.Simulated
		err = s.recorder.RecordScenario(&recorder.ScenarioEvent{
			TurnID:        r.TurnID,
			BusinessID:    orig.ID,
			Command:       r.Command,
			DeltaKind:     deltaKind(delta),
			Description:   r.Description,
			RevenueBefore: orig.MonthlyRevenue,
			RevenueAfter:  sim.MonthlyRevenue,
			ExpenseBefore: orig.TotalExpenseShare(),
			ExpenseAfter:  sim.TotalExpenseShare(),
			NetBefore:     calculator.ProjectedNet(orig.MonthlyRevenue, orig.TotalExpenseShare()),
			NetAfter:      calculator.ProjectedNet(sim.MonthlyRevenue, sim.TotalExpenseShare()),
			Advisor:       s.advisor.Name(),
			AdviceChars:   len(r.Advice),
		})
	} else {
		err = s.recorder.RecordQuestion(&recorder.QuestionEvent{
			TurnID:      r.TurnID,
			BusinessID:  r.Original.ID,
			Question:    r.Command,
			Advisor:     s.advisor.Name(),
			AdviceChars: len(r.Advice),
			Failed:      failed,
		})
	}
	if err != nil {
		s.log.WithError(err).Error("record turn")
	}
}

func deltaKind(d model.Delta) string {
	switch d.(type) {
	case model.RevenueDelta:
		return "revenue"
	case model.EmployeeDelta:
		return "employee"
	case model.ExpenseDelta:
		return "expense"
	}
	return ""
}
