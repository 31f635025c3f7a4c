package filter

import (
	"fmt"

	"github.com/vitalvas/junction/response"
	"go.uber.org/zap"
)

// State is the position of an Executor run.
type State int

const (
	StatePre State = iota
	StateInvoke
	StatePost
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StatePre:
		return "pre"
	case StateInvoke:
		return "invoke"
	case StatePost:
		return "post"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// InvokeFunc runs the action guarded by a chain.
type InvokeFunc func(c *Context, params []string) (*response.Response, error)

// Result is the outcome of a chain run.
type Result struct {
	// State is StateDone or StateAborted for a completed run, or the state
	// the run failed in.
	State State

	// Response is the final response: the aborting filter's response, or
	// the action's.
	Response *response.Response

	// AbortedBy names the before filter that short-circuited the chain.
	AbortedBy string
}

// Aborted reports whether a before filter short-circuited the chain.
func (r *Result) Aborted() bool {
	return r.State == StateAborted
}

// Executor runs before filters, the action and after filters in order.
type Executor struct {
	registry *Registry
	logger   *zap.Logger
}

// NewExecutor returns an executor resolving filter names in reg.
func NewExecutor(reg *Registry) *Executor {
	return &Executor{registry: reg, logger: reg.Logger()}
}

// Run executes the chain for the action named by c.Action. Bindings that
// do not apply to the action and request method are skipped, as are names
// with no registered filter. Errors come from starting a filter's bundle
// or from invoke, and leave Result.State at the failing state.
func (e *Executor) Run(c *Context, params []string, before, after []*Binding, invoke InvokeFunc) (*Result, error) {
	res := &Result{State: StatePre}
	c.Parameters = params

	resp, name, err := e.run(c, params, before, true)
	if err != nil {
		return res, err
	}
	if resp != nil {
		res.State = StateAborted
		res.Response = resp
		res.AbortedBy = name

		e.logger.Debug("filter chain aborted",
			zap.String("action", c.Action),
			zap.String("filter", name),
			zap.Int("status", resp.StatusCode()))

		return res, nil
	}

	res.State = StateInvoke
	resp, err = invoke(c, params)
	if err != nil {
		return res, err
	}
	if resp == nil {
		resp = response.New("", 0)
	}
	res.Response = resp

	res.State = StatePost
	c.Response = resp
	if _, _, err := e.run(c, params, after, false); err != nil {
		return res, err
	}

	res.State = StateDone
	return res, nil
}

// run calls the applicable filters of bindings in order. With halt set it
// stops at the first non-nil response; otherwise responses are dropped.
func (e *Executor) run(c *Context, params []string, bindings []*Binding, halt bool) (*response.Response, string, error) {
	for _, b := range bindings {
		if !b.Applies(c.Action, c.Method) {
			continue
		}

		for _, call := range b.Filters() {
			f, ok, err := e.registry.Resolve(c.Context(), call.Name)
			if err != nil {
				return nil, call.Name, fmt.Errorf("filter: resolve %q: %w", call.Name, err)
			}
			if !ok {
				e.logger.Debug("filter not registered, skipping",
					zap.String("filter", call.Name),
					zap.String("action", c.Action))
				continue
			}

			c.Arguments = call.Params
			resp := f.Handle(c, concat(params, call.Params))
			if halt && resp != nil {
				return resp, call.Name, nil
			}
		}
	}

	c.Arguments = nil
	return nil, "", nil
}

func concat(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
