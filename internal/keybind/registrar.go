package keybind

import (
	"log/slog"
	"sync"

	"github.com/radio-control/saltybridge/internal/adapter"
	"github.com/radio-control/saltybridge/internal/radio"
)

// KeyboardMapper is the input mapper every radio binding uses.
const KeyboardMapper = "keyboard"

// Host is the part of the host runtime that accepts commands and key mappings.
type Host interface {
	RegisterCommand(name string, handler func(), restricted bool)
	RegisterKeyMapping(command, description, mapper, defaultKey string)
}

// Labeler resolves a label key into display text.
type Labeler interface {
	Label(key string) string
}

// Binding is one press/release command pair with its default key.
type Binding struct {
	Name       string
	LabelKey   string
	DefaultKey string
	Press      func()
	Release    func()
}

// PressCommand returns the host command bound to the key press.
func (b Binding) PressCommand() string { return "+" + b.Name }

// ReleaseCommand returns the host command bound to the key release.
func (b Binding) ReleaseCommand() string { return "-" + b.Name }

// Keys holds the configured default keys for the radio bindings.
type Keys struct {
	PrimaryRadio   string
	SecondaryRadio string
}

// RadioBindings returns the transmit bindings for both legacy radio channels.
func RadioBindings(control adapter.RadioControl, keys Keys) []Binding {
	return []Binding{
		radioBinding(control, "primaryRadio", "use_salty_primary_radio", keys.PrimaryRadio, radio.Primary),
		radioBinding(control, "secondaryRadio", "use_salty_secondary_radio", keys.SecondaryRadio, radio.Secondary),
	}
}

func radioBinding(control adapter.RadioControl, name, labelKey, key string, channel radio.ChannelID) Binding {
	return Binding{
		Name:       name,
		LabelKey:   labelKey,
		DefaultKey: key,
		Press: func() {
			control.ChangeActiveRadioChannel(channel.Slot())
			control.RadioTalkingStart(true)
		},
		Release: func() {
			control.RadioTalkingStart(false)
		},
	}
}

// Registrar registers bindings with a host exactly once per name.
type Registrar struct {
	mu         sync.Mutex
	host       Host
	labels     Labeler
	logger     *slog.Logger
	registered map[string]Binding
}

// NewRegistrar creates a registrar for the given host.
func NewRegistrar(host Host, labels Labeler, logger *slog.Logger) *Registrar {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registrar{
		host:       host,
		labels:     labels,
		logger:     logger,
		registered: make(map[string]Binding),
	}
}

// Register registers every binding that is not registered yet and returns
// how many were added.
func (r *Registrar) Register(bindings []Binding) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	added := 0
	for _, b := range bindings {
		if _, exists := r.registered[b.Name]; exists {
			continue
		}

		r.host.RegisterCommand(b.PressCommand(), b.Press, false)
		r.host.RegisterCommand(b.ReleaseCommand(), b.Release, false)
		r.host.RegisterKeyMapping(b.PressCommand(), r.label(b.LabelKey), KeyboardMapper, b.DefaultKey)

		r.registered[b.Name] = b
		added++
		r.logger.Debug("key binding registered", "command", b.PressCommand(), "key", b.DefaultKey)
	}
	return added
}

// Registered returns the binding registered under name.
func (r *Registrar) Registered(name string) (Binding, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.registered[name]
	return b, ok
}

func (r *Registrar) label(key string) string {
	if r.labels == nil {
		return key
	}
	return r.labels.Label(key)
}
