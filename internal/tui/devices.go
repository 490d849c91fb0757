// Package tui provides the terminal device picker used with --pick.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nicola-lunghi/latencycalc/internal/audio"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065")).
			Bold(true)
)

// ErrAborted is returned by Pick when the user quits without choosing.
var ErrAborted = errors.New("device selection aborted")

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Select: key.NewBinding(key.WithKeys("enter")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

// DeviceListModel is the Bubble Tea model listing the devices that can run
// a loopback measurement.
type DeviceListModel struct {
	devices       []audio.Device
	selectedIndex int
	chosen        bool
	viewport      viewport.Model
	ready         bool
}

// NewDeviceListModel keeps only devices with both inputs and outputs,
// starting on the first one whose name contains marker.
func NewDeviceListModel(devices []audio.Device, marker string) DeviceListModel {
	m := DeviceListModel{}
	for _, d := range devices {
		if d.MaxInputChannels > 0 && d.MaxOutputChannels > 0 {
			m.devices = append(m.devices, d)
		}
	}
	if marker != "" {
		for i, d := range m.devices {
			if strings.Contains(d.Name, marker) {
				m.selectedIndex = i
				break
			}
		}
	}
	return m
}

// Init implements tea.Model.
func (m DeviceListModel) Init() tea.Cmd {
	return nil
}

// Update handles input and updates the model.
func (m DeviceListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}
		m.viewport.SetContent(m.renderDevices())

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			if m.selectedIndex > 0 {
				m.selectedIndex--
				m.viewport.SetContent(m.renderDevices())
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.selectedIndex < len(m.devices)-1 {
				m.selectedIndex++
				m.viewport.SetContent(m.renderDevices())
			}
			return m, nil

		case key.Matches(msg, keys.Select):
			if len(m.devices) > 0 {
				m.chosen = true
				return m, tea.Quit
			}
			return m, nil
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// Selected returns the chosen device once Enter has been pressed.
func (m DeviceListModel) Selected() (audio.Device, bool) {
	if !m.chosen {
		return audio.Device{}, false
	}
	return m.devices[m.selectedIndex], true
}

// View renders the UI.
func (m DeviceListModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	title := titleStyle.Render("Select Loopback Device")
	help := infoStyle.Render("↑/↓: Navigate • Enter: Measure • q: Quit")

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, m.viewport.View(), help)
}

func (m DeviceListModel) renderDevices() string {
	if len(m.devices) == 0 {
		return "No duplex audio devices found."
	}

	var sb strings.Builder
	for i, device := range m.devices {
		lowIn, highIn, lowOut, highOut := device.Latency.Milliseconds()

		deviceInfo := fmt.Sprintf("[%d] %s\n", device.ID, device.Name)
		deviceInfo += fmt.Sprintf("    Input channels: %d, Output channels: %d\n",
			device.MaxInputChannels, device.MaxOutputChannels)
		deviceInfo += fmt.Sprintf("    Driver latency: in %.2f-%.2f ms, out %.2f-%.2f ms\n",
			lowIn, highIn, lowOut, highOut)

		if i == m.selectedIndex {
			deviceInfo = highlightStyle.Render(deviceInfo)
		}

		sb.WriteString(deviceInfo)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Pick runs the picker full screen and returns the chosen device.
func Pick(devices []audio.Device, marker string) (audio.Device, error) {
	p := tea.NewProgram(
		NewDeviceListModel(devices, marker),
		tea.WithAltScreen(),
	)
	final, err := p.Run()
	if err != nil {
		return audio.Device{}, fmt.Errorf("device picker: %w", err)
	}
	if d, ok := final.(DeviceListModel).Selected(); ok {
		return d, nil
	}
	return audio.Device{}, ErrAborted
}
