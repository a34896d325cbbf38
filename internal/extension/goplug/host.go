// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

// Package goplug loads out-of-process extension units with HashiCorp's
// go-plugin over net/rpc. A crashing or misbehaving binary takes down its
// own process, never the host application.
package goplug

import (
	"context"
	"os/exec"
	"sync"

	hashiplug "github.com/hashicorp/go-plugin"
	"github.com/samber/oops"

	"github.com/hausbuch/hausbuch/internal/extension"
	"github.com/hausbuch/hausbuch/pkg/extsdk"
)

// Compile-time interface check.
var _ extension.Host = (*Host)(nil)

// PluginClient wraps a go-plugin client for testability.
type PluginClient interface {
	// Client returns the client protocol after handshake.
	Client() (hashiplug.ClientProtocol, error)
	// Kill terminates the unit's process.
	Kill()
}

// ClientFactory creates plugin clients.
type ClientFactory interface {
	NewClient(execPath string) PluginClient
}

// DefaultClientFactory creates real go-plugin clients.
type DefaultClientFactory struct{}

// NewClient creates a go-plugin client for the given executable.
func (DefaultClientFactory) NewClient(execPath string) PluginClient {
	return hashiplug.NewClient(&hashiplug.ClientConfig{
		HandshakeConfig:  extsdk.Handshake,
		Plugins:          extsdk.PluginMap(nil),
		Cmd:              exec.Command(execPath), // #nosec G204 -- execPath comes from the scanned extension root
		AllowedProtocols: []hashiplug.Protocol{hashiplug.ProtocolNetRPC},
	})
}

// Host manages binary extension units.
type Host struct {
	factory ClientFactory
	mu      sync.Mutex
	clients []PluginClient
	closed  bool
}

// NewHost creates a binary extension host.
func NewHost() *Host {
	return &Host{factory: DefaultClientFactory{}}
}

// NewHostWithFactory creates a host with a custom client factory (for
// testing). Panics if factory is nil.
func NewHostWithFactory(factory ClientFactory) *Host {
	if factory == nil {
		panic("goplug: factory cannot be nil")
	}
	return &Host{factory: factory}
}

// Runtime returns the runtime this host serves.
func (h *Host) Runtime() extension.Runtime {
	return extension.RuntimeBinary
}

// Load launches the unit's process, performs the handshake, and reads its
// descriptor. Any fault kills the process and surfaces as a per-unit error
// for the engine to absorb.
func (h *Host) Load(_ context.Context, cand extension.Candidate, name extension.ParsedName) (*extension.LoadedUnit, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, oops.In("goplug").Code("load_failure").With("id", cand.ID).New("host is closed")
	}
	h.mu.Unlock()

	client := h.factory.NewClient(cand.Path)

	proto, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, oops.In("goplug").Code("load_failure").With("id", cand.ID).With("path", cand.Path).Hint("handshake failed").Wrap(err)
	}

	raw, err := proto.Dispense(extsdk.ContributorPluginName)
	if err != nil {
		client.Kill()
		return nil, oops.In("goplug").Code("load_failure").With("id", cand.ID).Hint("dispense failed").Wrap(err)
	}

	contributor, ok := raw.(extsdk.Contributor)
	if !ok {
		client.Kill()
		return nil, oops.In("goplug").Code("load_failure").With("id", cand.ID).New("unit does not implement the contributor capability")
	}

	desc, err := contributor.Describe()
	if err != nil {
		client.Kill()
		return nil, oops.In("goplug").Code("load_failure").With("id", cand.ID).Hint("describe failed").Wrap(err)
	}
	if err := extension.CheckAPIConstraint(desc.RequiresAPI); err != nil {
		client.Kill()
		return nil, oops.In("goplug").With("id", cand.ID).Wrap(err)
	}

	priority := extension.DefaultPriority
	if desc.HasPriority {
		priority = desc.Priority
	}

	h.mu.Lock()
	h.clients = append(h.clients, client)
	h.mu.Unlock()

	return &extension.LoadedUnit{
		Name:     name,
		Priority: priority,
		Handle:   &Unit{id: cand.ID, contributor: contributor},
	}, nil
}

// Close kills every unit process started by this host.
func (h *Host) Close(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for _, c := range h.clients {
		c.Kill()
	}
	h.clients = nil
	return nil
}
