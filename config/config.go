// Package config loads an application manifest that declares bundles and
// controller routes in YAML:
//
//	bundles:
//	  - name: dashboard
//	    handles: dashboard
//	    routes:
//	      - key: GET /dashboard
//	        uses: dashboard::home@index
//	routes:
//	  - key: [GET /, GET /home]
//	    uses: home@index
//	    name: home
//	  - key: POST /login
//	    uses: auth@login
//	    before: csrf
//
// Bundle routes are registered when the bundle starts, so they stay out of
// the route table until a request or reference needs them.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vitalvas/junction/bundle"
	"github.com/vitalvas/junction/controller"
	"github.com/vitalvas/junction/routing"
	"gopkg.in/yaml.v3"
)

// ErrInvalidManifest is wrapped by every validation error.
var ErrInvalidManifest = errors.New("config: invalid manifest")

// Manifest is the root of an application manifest.
type Manifest struct {
	Bundles []Bundle `yaml:"bundles,omitempty"`
	Routes  []Route  `yaml:"routes,omitempty"`
}

// Bundle declares a bundle and the routes it registers on start.
type Bundle struct {
	Name      string  `yaml:"name"`
	Handles   string  `yaml:"handles,omitempty"`
	AutoStart bool    `yaml:"auto_start,omitempty"`
	Routes    []Route `yaml:"routes,omitempty"`
}

// Route declares a controller route.
type Route struct {
	Key    Keys   `yaml:"key"`
	Uses   string `yaml:"uses"`
	Name   string `yaml:"name,omitempty"`
	Before string `yaml:"before,omitempty"`
	After  string `yaml:"after,omitempty"`
}

// Action returns the routing action of the route.
func (r Route) Action() routing.Action {
	return routing.Action{
		Name:   r.Name,
		Uses:   r.Uses,
		Before: r.Before,
		After:  r.After,
	}
}

// Keys holds one or more route keys. In YAML it is either a single
// string or a sequence of strings.
type Keys []string

// UnmarshalYAML decodes keys from either a YAML scalar or sequence.
func (k *Keys) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*k = Keys{node.Value}
		return nil
	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}
		*k = arr
		return nil
	default:
		return fmt.Errorf("unsupported YAML node kind %d for route key", node.Kind)
	}
}

// MarshalYAML encodes a single key as a scalar.
func (k Keys) MarshalYAML() (any, error) {
	if len(k) == 1 {
		return k[0], nil
	}
	return []string(k), nil
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read manifest: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a manifest. Unknown fields are rejected.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode manifest: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks bundle names and compiles every route key.
func (m *Manifest) Validate() error {
	seen := make(map[string]struct{}, len(m.Bundles))
	for i, b := range m.Bundles {
		if b.Name == "" || b.Name == bundle.Default {
			return fmt.Errorf("%w: bundle %d: invalid name %q", ErrInvalidManifest, i, b.Name)
		}
		if _, ok := seen[b.Name]; ok {
			return fmt.Errorf("%w: bundle %q declared twice", ErrInvalidManifest, b.Name)
		}
		seen[b.Name] = struct{}{}

		if err := validateRoutes(b.Name, b.Routes); err != nil {
			return err
		}
	}

	return validateRoutes(bundle.Default, m.Routes)
}

func validateRoutes(owner string, routes []Route) error {
	for i, r := range routes {
		if len(r.Key) == 0 {
			return fmt.Errorf("%w: %s route %d: missing key", ErrInvalidManifest, owner, i)
		}
		if _, err := controller.ParseReference(r.Uses); err != nil {
			return fmt.Errorf("%w: %s route %v: %w", ErrInvalidManifest, owner, r.Key, err)
		}
		for _, key := range r.Key {
			if _, err := routing.NewRoute(key, r.Action()); err != nil {
				return fmt.Errorf("%w: %s route %q: %w", ErrInvalidManifest, owner, key, err)
			}
		}
	}
	return nil
}

// Apply registers the manifest's bundles in bundles and its application
// routes in router. Bundle routes are registered by the bundle's Boot.
func (m *Manifest) Apply(router *routing.Router, bundles *bundle.Registry) error {
	for _, b := range m.Bundles {
		routes := b.Routes
		err := bundles.Register(bundle.Bundle{
			Name:      b.Name,
			Handles:   b.Handles,
			AutoStart: b.AutoStart,
			Boot: func(context.Context, *bundle.Bundle) error {
				return register(router, routes)
			},
		})
		if err != nil {
			return fmt.Errorf("config: register bundle: %w", err)
		}
	}

	return register(router, m.Routes)
}

func register(router *routing.Router, routes []Route) error {
	for _, r := range routes {
		if err := router.Register(r.Key, r.Action()); err != nil {
			return fmt.Errorf("config: register %v: %w", r.Key, err)
		}
	}
	return nil
}

// Encode writes the manifest as YAML.
func (m *Manifest) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("config: encode manifest: %w", err)
	}
	return enc.Close()
}
