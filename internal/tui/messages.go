package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aldric/opsdeck/internal/api"
)

type inventoryMsg struct {
	objects []api.ObjectSummary
	err     error
}

type servicesMsg struct {
	services []api.ServiceDef
	err      error
}

type previewMsg struct {
	preview api.DeployPreview
	err     error
}

type invokeMsg struct {
	result api.InvokeResult
	err    error
}

type deployOptionsMsg struct {
	service string
	options []string
	err     error
}

type keyOptionsMsg struct {
	service string
	options []string
	err     error
}

type refreshTickMsg time.Time

func (m model) fetchInventoryCmd() tea.Cmd {
	return func() tea.Msg {
		objects, err := m.client.Inventory(m.ctx)
		return inventoryMsg{objects: objects, err: err}
	}
}

func (m model) fetchServicesCmd() tea.Cmd {
	return func() tea.Msg {
		services, err := m.client.Services(m.ctx)
		return servicesMsg{services: services, err: err}
	}
}

func (m model) fetchPreviewCmd(service string) tea.Cmd {
	return func() tea.Msg {
		p, err := m.client.DeployPreview(m.ctx, service)
		return previewMsg{preview: p, err: err}
	}
}

func (m model) fetchDeployOptionsCmd(service string) tea.Cmd {
	return func() tea.Msg {
		opts, err := m.options.Deployments(m.ctx, service)
		return deployOptionsMsg{service: service, options: opts, err: err}
	}
}

func (m model) fetchKeyOptionsCmd(service string) tea.Cmd {
	return func() tea.Msg {
		opts, err := m.options.Keys(m.ctx, service)
		return keyOptionsMsg{service: service, options: opts, err: err}
	}
}

func (m model) invokeCmd(service string, objectID int64, hasObject bool, req api.InvokeRequest) tea.Cmd {
	return func() tea.Msg {
		var (
			res api.InvokeResult
			err error
		)
		if hasObject {
			res, err = m.client.RunObjectScript(m.ctx, objectID, req)
		} else {
			res, err = m.client.RunServiceScript(m.ctx, service, req)
		}
		return invokeMsg{result: res, err: err}
	}
}

func (m model) refreshTickCmd() tea.Cmd {
	return tea.Tick(m.refreshEvery, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}
