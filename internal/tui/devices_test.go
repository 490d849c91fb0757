package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nicola-lunghi/latencycalc/internal/audio"
)

var testDevices = []audio.Device{
	{ID: 0, Name: "Microphone", MaxInputChannels: 1},
	{ID: 1, Name: "Built-in Audio", MaxInputChannels: 2, MaxOutputChannels: 2},
	{ID: 2, Name: "Speakers", MaxOutputChannels: 2},
	{ID: 3, Name: "ASIO Fireface", MaxInputChannels: 18, MaxOutputChannels: 18},
	{ID: 4, Name: "ASIO4ALL", MaxInputChannels: 2, MaxOutputChannels: 2},
}

func press(m DeviceListModel, keys ...tea.KeyMsg) (DeviceListModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(DeviceListModel)
	}
	return m, cmd
}

var (
	up    = tea.KeyMsg{Type: tea.KeyUp}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	quit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
)

func TestNewDeviceListModel(t *testing.T) {
	m := NewDeviceListModel(testDevices, "ASIO")
	if len(m.devices) != 3 {
		t.Fatalf("got %d duplex devices, want 3", len(m.devices))
	}
	if m.devices[m.selectedIndex].ID != 3 {
		t.Errorf("initial selection = device %d, want 3", m.devices[m.selectedIndex].ID)
	}

	if m := NewDeviceListModel(testDevices, ""); m.selectedIndex != 0 {
		t.Errorf("without marker selection = %d, want 0", m.selectedIndex)
	}
}

func TestNavigationAndSelect(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want int
	}{
		{"enter on initial", []tea.KeyMsg{enter}, 3},
		{"down once", []tea.KeyMsg{down, enter}, 4},
		{"down clamps", []tea.KeyMsg{down, down, down, enter}, 4},
		{"up to first", []tea.KeyMsg{up, enter}, 1},
		{"up clamps", []tea.KeyMsg{up, up, up, enter}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := press(NewDeviceListModel(testDevices, "ASIO"), tt.keys...)
			if cmd == nil {
				t.Fatal("enter should quit the program")
			}
			d, ok := m.Selected()
			if !ok {
				t.Fatal("no device selected")
			}
			if d.ID != tt.want {
				t.Errorf("selected device %d, want %d", d.ID, tt.want)
			}
		})
	}
}

func TestQuitWithoutSelection(t *testing.T) {
	m, cmd := press(NewDeviceListModel(testDevices, ""), down, quit)
	if cmd == nil {
		t.Fatal("q should quit the program")
	}
	if _, ok := m.Selected(); ok {
		t.Error("quitting must not select a device")
	}
}

func TestEnterWithoutDevices(t *testing.T) {
	m, cmd := press(NewDeviceListModel(testDevices[:1], ""), enter)
	if cmd != nil {
		t.Error("enter with an empty list should not quit")
	}
	if _, ok := m.Selected(); ok {
		t.Error("nothing to select")
	}
}

func TestView(t *testing.T) {
	m := NewDeviceListModel(testDevices, "ASIO")
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View before sizing = %q", got)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	view := next.(DeviceListModel).View()
	for _, want := range []string{"Select Loopback Device", "[3] ASIO Fireface", "Input channels: 18"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Speakers") {
		t.Error("output-only devices must not be listed")
	}
}
