package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/vitalvas/junction/bundle"
	"github.com/vitalvas/junction/filter"
	"github.com/vitalvas/junction/response"
	"go.uber.org/zap"
)

var (
	// ErrControllerNotFound is returned when a reference names a
	// controller that is not registered, even after starting its bundle.
	ErrControllerNotFound = errors.New("controller: not found")

	// ErrInvalidReference is returned for references with no controller
	// name, such as "@index".
	ErrInvalidReference = errors.New("controller: invalid reference")
)

// NotFoundError reports an unresolved controller reference.
type NotFoundError struct {
	Reference  string
	Bundle     string
	Name       string
	Identifier string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("controller: %s not found for %q", e.Identifier, e.Reference)
}

func (e *NotFoundError) Unwrap() error {
	return ErrControllerNotFound
}

// Reference is a parsed "bundle::name@method" controller reference.
type Reference struct {
	Bundle string
	Name   string
	Action string
}

// ParseReference splits a controller reference. The bundle defaults to
// bundle.Default and the action to DefaultAction.
func ParseReference(s string) (Reference, error) {
	owner, element := bundle.Parse(s)
	name, action, _ := strings.Cut(element, "@")
	if name == "" {
		return Reference{}, fmt.Errorf("%w: %q", ErrInvalidReference, s)
	}
	if action == "" {
		action = DefaultAction
	}
	return Reference{Bundle: owner, Name: name, Action: action}, nil
}

func (r Reference) String() string {
	return bundle.Prefix(r.Bundle) + r.Name + "@" + r.Action
}

// Substitute replaces the back-references "(:1)", "(:2)", ... in reference
// with the matching parameters and removes those parameters from the
// list.
func Substitute(reference string, params []string) (string, []string) {
	if !strings.Contains(reference, "(:") {
		return reference, params
	}

	rest := make([]string, 0, len(params))
	for i, p := range params {
		token := "(:" + strconv.Itoa(i+1) + ")"
		if strings.Contains(reference, token) {
			reference = strings.ReplaceAll(reference, token, p)
			continue
		}
		rest = append(rest, p)
	}
	return reference, rest
}

// Dispatcher calls controller actions by reference.
type Dispatcher struct {
	controllers *Registry
	filters     *filter.Registry
	executor    *filter.Executor
	bundles     filter.Starter
	logger      *zap.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithBundles starts the bundle named by a "bundle::" reference before
// its controller is resolved.
func WithBundles(s filter.Starter) Option {
	return func(d *Dispatcher) {
		d.bundles = s
	}
}

// WithLogger sets the dispatcher logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDispatcher returns a dispatcher resolving controllers in controllers
// and filters in filters.
func NewDispatcher(controllers *Registry, filters *filter.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		controllers: controllers,
		filters:     filters,
		executor:    filter.NewExecutor(filters),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Call resolves reference and runs its action with params inside the
// controller's filter chain. The process-wide bindings registered with
// filter.Registry.All run first. An unknown action yields a 404 response,
// an unknown controller an error wrapping ErrControllerNotFound.
func (d *Dispatcher) Call(ctx context.Context, reference string, params []string) (*response.Response, error) {
	reference, params = Substitute(reference, params)

	ref, err := ParseReference(reference)
	if err != nil {
		return nil, err
	}

	if ref.Bundle != bundle.Default && d.bundles != nil {
		if err := d.bundles.Start(ctx, ref.Bundle); err != nil {
			return nil, fmt.Errorf("controller: %s: %w", ref, err)
		}
	}

	ctrl, ok := d.controllers.New(ref.Bundle, ref.Name)
	if !ok {
		return nil, &NotFoundError{
			Reference:  reference,
			Bundle:     ref.Bundle,
			Name:       ref.Name,
			Identifier: Identifier(ref.Bundle, ref.Name),
		}
	}

	return d.Execute(ctx, ctrl, ref, params)
}

// Execute runs an action of an already resolved controller.
func (d *Dispatcher) Execute(ctx context.Context, ctrl Controller, ref Reference, params []string) (*response.Response, error) {
	c := filter.NewContext(ctx, ref.Action)
	c.Controller = ref.String()

	before := append(d.filters.Global(filter.Before), ctrl.Bindings(filter.Before)...)
	after := append(d.filters.Global(filter.After), ctrl.Bindings(filter.After)...)

	res, err := d.executor.Run(c, params, before, after, func(c *filter.Context, params []string) (*response.Response, error) {
		fn, ok := ctrl.Resolve(ref.Action, c.Method)
		if !ok {
			d.logger.Debug("controller action not found",
				zap.String("controller", c.Controller),
				zap.String("method", c.Method))
			return response.Error(http.StatusNotFound), nil
		}

		if h, ok := ctrl.(BeforeHook); ok {
			h.Before(c)
		}

		resp := response.Prepare(fn(c, params))

		if h, ok := ctrl.(AfterHook); ok {
			h.After(c, resp)
		}
		return resp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("controller: %s: %w", ref, err)
	}

	return res.Response, nil
}
