package main

import (
	"fmt"

	"github.com/vitalvas/junction/bundle"
	"github.com/vitalvas/junction/config"
	"github.com/vitalvas/junction/controller"
	"github.com/vitalvas/junction/routing"
	"go.uber.org/zap"
)

type options struct {
	config  string
	verbose bool
}

// app is a manifest loaded into a router.
type app struct {
	manifest *config.Manifest
	bundles  *bundle.Registry
	router   *routing.Router
	logger   *zap.Logger
}

func (o *options) logger() (*zap.Logger, error) {
	if !o.verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func (o *options) load() (*app, error) {
	logger, err := o.logger()
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	m, err := config.Load(o.config)
	if err != nil {
		return nil, err
	}

	bundles := bundle.NewRegistry(bundle.WithLogger(logger))
	router := routing.NewRouter(
		routing.WithBundles(bundles),
		routing.WithControllers(referenced(m)),
		routing.WithLogger(logger),
	)

	if err := m.Apply(router, bundles); err != nil {
		return nil, err
	}

	return &app{manifest: m, bundles: bundles, router: router, logger: logger}, nil
}

// controllerSet answers the controller convention with the controllers a
// manifest references, since the CLI has no controller code to register.
type controllerSet map[string]struct{}

func (s controllerSet) Exists(owner, name string) bool {
	_, ok := s[bundle.Prefix(owner)+name]
	return ok
}

func referenced(m *config.Manifest) controllerSet {
	set := make(controllerSet)
	add := func(routes []config.Route) {
		for _, r := range routes {
			ref, err := controller.ParseReference(r.Uses)
			if err != nil {
				continue
			}
			set[bundle.Prefix(ref.Bundle)+ref.Name] = struct{}{}
		}
	}

	add(m.Routes)
	for _, b := range m.Bundles {
		add(b.Routes)
	}
	return set
}
