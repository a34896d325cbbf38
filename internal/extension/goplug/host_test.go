// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

package goplug_test

import (
	"context"
	"errors"
	"testing"

	hashiplug "github.com/hashicorp/go-plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hausbuch/hausbuch/internal/extension"
	"github.com/hausbuch/hausbuch/internal/extension/goplug"
	"github.com/hausbuch/hausbuch/pkg/errutil"
	"github.com/hausbuch/hausbuch/pkg/extsdk"
	"github.com/hausbuch/hausbuch/pkg/menu"
)

// fakeContributor implements the out-of-process contributor capability
// in-process for host tests.
type fakeContributor struct {
	desc    extsdk.Descriptor
	descErr error
	items   []menu.Item
}

func (c *fakeContributor) Describe() (extsdk.Descriptor, error) {
	return c.desc, c.descErr
}

func (c *fakeContributor) Contribute(_ string) ([]menu.Item, error) {
	return c.items, nil
}

// fakeProtocol stands in for a live go-plugin connection.
type fakeProtocol struct {
	dispensed   any
	dispenseErr error
}

func (fakeProtocol) Close() error { return nil }
func (fakeProtocol) Ping() error  { return nil }
func (p fakeProtocol) Dispense(_ string) (any, error) {
	return p.dispensed, p.dispenseErr
}

// fakeClient records whether its process was killed.
type fakeClient struct {
	proto     hashiplug.ClientProtocol
	clientErr error
	killed    bool
}

func (c *fakeClient) Client() (hashiplug.ClientProtocol, error) {
	if c.clientErr != nil {
		return nil, c.clientErr
	}
	return c.proto, nil
}

func (c *fakeClient) Kill() { c.killed = true }

type fakeFactory struct {
	client *fakeClient
}

func (f fakeFactory) NewClient(_ string) goplug.PluginClient {
	return f.client
}

func candidateAndName(t *testing.T, id string) (extension.Candidate, extension.ParsedName) {
	t.Helper()
	name, ok := extension.ParseName(id)
	require.True(t, ok)
	return extension.Candidate{ID: id, Path: "/ext/" + id, Runtime: extension.RuntimeBinary}, name
}

func TestHost_Load(t *testing.T) {
	contributor := &fakeContributor{
		desc: extsdk.Descriptor{Priority: 7, HasPriority: true},
	}
	client := &fakeClient{proto: fakeProtocol{dispensed: contributor}}
	host := goplug.NewHostWithFactory(fakeFactory{client: client})

	cand, name := candidateAndName(t, "plugin_homepage_menu_export")
	unit, err := host.Load(context.Background(), cand, name)
	require.NoError(t, err)

	assert.Equal(t, 7, unit.Priority)
	assert.False(t, client.killed)

	_, ok := unit.Contributor()
	assert.True(t, ok)
}

func TestHost_Load_NoDeclaredPriority(t *testing.T) {
	contributor := &fakeContributor{desc: extsdk.Descriptor{}}
	client := &fakeClient{proto: fakeProtocol{dispensed: contributor}}
	host := goplug.NewHostWithFactory(fakeFactory{client: client})

	cand, name := candidateAndName(t, "plugin_all_menu_tool")
	unit, err := host.Load(context.Background(), cand, name)
	require.NoError(t, err)
	assert.Equal(t, extension.DefaultPriority, unit.Priority)
}

func TestHost_Load_HandshakeFailureKillsProcess(t *testing.T) {
	client := &fakeClient{clientErr: errors.New("handshake refused")}
	host := goplug.NewHostWithFactory(fakeFactory{client: client})

	cand, name := candidateAndName(t, "plugin_all_menu_flaky")
	_, err := host.Load(context.Background(), cand, name)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "load_failure")
	assert.True(t, client.killed)
}

func TestHost_Load_DispenseFailureKillsProcess(t *testing.T) {
	client := &fakeClient{proto: fakeProtocol{dispenseErr: errors.New("unknown plugin")}}
	host := goplug.NewHostWithFactory(fakeFactory{client: client})

	cand, name := candidateAndName(t, "plugin_all_menu_flaky")
	_, err := host.Load(context.Background(), cand, name)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "load_failure")
	assert.True(t, client.killed)
}

func TestHost_Load_WrongCapabilityKillsProcess(t *testing.T) {
	client := &fakeClient{proto: fakeProtocol{dispensed: struct{}{}}}
	host := goplug.NewHostWithFactory(fakeFactory{client: client})

	cand, name := candidateAndName(t, "plugin_all_menu_other")
	_, err := host.Load(context.Background(), cand, name)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "load_failure")
	assert.True(t, client.killed)
}

func TestHost_Load_DescribeFailureKillsProcess(t *testing.T) {
	contributor := &fakeContributor{descErr: errors.New("rpc timeout")}
	client := &fakeClient{proto: fakeProtocol{dispensed: contributor}}
	host := goplug.NewHostWithFactory(fakeFactory{client: client})

	cand, name := candidateAndName(t, "plugin_all_menu_mute")
	_, err := host.Load(context.Background(), cand, name)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "load_failure")
	assert.True(t, client.killed)
}

func TestHost_Load_IncompatibleAPIKillsProcess(t *testing.T) {
	contributor := &fakeContributor{desc: extsdk.Descriptor{RequiresAPI: ">= 99.0.0"}}
	client := &fakeClient{proto: fakeProtocol{dispensed: contributor}}
	host := goplug.NewHostWithFactory(fakeFactory{client: client})

	cand, name := candidateAndName(t, "plugin_all_menu_future")
	_, err := host.Load(context.Background(), cand, name)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "api_incompatible")
	assert.True(t, client.killed)
}

func TestHost_Close_KillsAllClients(t *testing.T) {
	contributor := &fakeContributor{desc: extsdk.Descriptor{}}
	client := &fakeClient{proto: fakeProtocol{dispensed: contributor}}
	host := goplug.NewHostWithFactory(fakeFactory{client: client})

	cand, name := candidateAndName(t, "plugin_all_menu_tool")
	_, err := host.Load(context.Background(), cand, name)
	require.NoError(t, err)

	require.NoError(t, host.Close(context.Background()))
	assert.True(t, client.killed)

	// Loading after close is refused.
	_, err = host.Load(context.Background(), cand, name)
	require.Error(t, err)
}

func TestHost_LoadedUnitContributes(t *testing.T) {
	contributor := &fakeContributor{
		desc:  extsdk.Descriptor{Priority: 1, HasPriority: true},
		items: []menu.Item{{Label: "Export", Action: "message:exportiert"}},
	}
	client := &fakeClient{proto: fakeProtocol{dispensed: contributor}}
	host := goplug.NewHostWithFactory(fakeFactory{client: client})

	cand, name := candidateAndName(t, "plugin_homepage_menu_export")
	unit, err := host.Load(context.Background(), cand, name)
	require.NoError(t, err)

	c, ok := unit.Contributor()
	require.True(t, ok)

	items, err := c.ContributeMenu(context.Background(), stubMenuHost{scope: "homepage"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Export", items[0].Label)
}

type stubMenuHost struct{ scope string }

func (h stubMenuHost) Scope() string      { return h.scope }
func (stubMenuHost) ShowMessage(_ string) {}
