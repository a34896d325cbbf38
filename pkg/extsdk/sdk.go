// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

// Package extsdk is the SDK for out-of-process extension units. A binary
// unit implements Contributor and calls Serve from its main; the host
// launches the executable, performs the go-plugin handshake, and invokes
// the contributor over net/rpc.
package extsdk

import (
	"net/rpc"

	hashiplug "github.com/hashicorp/go-plugin"

	"github.com/hausbuch/hausbuch/pkg/menu"
)

// Handshake is the go-plugin handshake configuration. Host and units must
// agree on these values.
var Handshake = hashiplug.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "HAUSBUCH_EXTENSION",
	MagicCookieValue: "hausbuch-ext-v1",
}

// ContributorPluginName is the dispense key for the contributor capability.
const ContributorPluginName = "contributor"

// Descriptor carries a unit's ordering metadata. HasPriority distinguishes
// an explicit priority of zero from an absent one.
type Descriptor struct {
	Priority    int
	HasPriority bool
	RequiresAPI string
}

// Contributor is the interface binary extension units implement.
type Contributor interface {
	// Describe returns the unit's ordering metadata.
	Describe() (Descriptor, error)

	// Contribute returns the unit's menu items for the given scope.
	Contribute(scope string) ([]menu.Item, error)
}

// ContributorPlugin is the go-plugin adapter for Contributor.
type ContributorPlugin struct {
	Impl Contributor
}

var _ hashiplug.Plugin = (*ContributorPlugin)(nil)

// Server returns the RPC server wrapping the unit's implementation.
func (p *ContributorPlugin) Server(_ *hashiplug.MuxBroker) (any, error) {
	return &rpcServer{impl: p.Impl}, nil
}

// Client returns the RPC client used by the host.
func (*ContributorPlugin) Client(_ *hashiplug.MuxBroker, c *rpc.Client) (any, error) {
	return &rpcClient{client: c}, nil
}

// PluginMap is the plugin set served and dispensed on both sides.
func PluginMap(impl Contributor) map[string]hashiplug.Plugin {
	return map[string]hashiplug.Plugin{
		ContributorPluginName: &ContributorPlugin{Impl: impl},
	}
}

// Serve starts the unit's plugin server. Call from main(); it blocks for
// the life of the host connection.
func Serve(impl Contributor) {
	if impl == nil {
		panic("extsdk.Serve: impl cannot be nil")
	}
	hashiplug.Serve(&hashiplug.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins:         PluginMap(impl),
	})
}

// ContributeArgs is the wire argument for Contribute calls.
type ContributeArgs struct {
	Scope string
}

// ContributeReply is the wire response for Contribute calls.
type ContributeReply struct {
	Items []menu.Item
}

type rpcServer struct {
	impl Contributor
}

func (s *rpcServer) Describe(_ any, resp *Descriptor) error {
	d, err := s.impl.Describe()
	if err != nil {
		return err
	}
	*resp = d
	return nil
}

func (s *rpcServer) Contribute(args ContributeArgs, resp *ContributeReply) error {
	items, err := s.impl.Contribute(args.Scope)
	if err != nil {
		return err
	}
	resp.Items = items
	return nil
}

type rpcClient struct {
	client *rpc.Client
}

var _ Contributor = (*rpcClient)(nil)

func (c *rpcClient) Describe() (Descriptor, error) {
	var resp Descriptor
	if err := c.client.Call("Plugin.Describe", new(any), &resp); err != nil {
		return Descriptor{}, err
	}
	return resp, nil
}

func (c *rpcClient) Contribute(scope string) ([]menu.Item, error) {
	var resp ContributeReply
	if err := c.client.Call("Plugin.Contribute", ContributeArgs{Scope: scope}, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}
