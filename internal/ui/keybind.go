package ui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// leaderSeq is the canonical name of the leader key in sequences.
const leaderSeq = "SPC"

// Binding is one entry of the key map. Keys are alternatives for the same
// action, written in sequence notation: "s", "shift+tab", "SPC o".
type Binding struct {
	Keys []string
	// Help labels the hint; defaults to the first key. Bindings sharing a
	// label show up once ("1-9").
	Help  string
	Desc  string
	Modes []AppMode // empty: every mode
	Cmd   tea.Cmd
}

func (b Binding) label() string {
	if b.Help != "" {
		return b.Help
	}
	if len(b.Keys) == 0 {
		return ""
	}
	return b.Keys[0]
}

func (b Binding) appliesTo(mode AppMode) bool {
	return len(b.Modes) == 0 || slices.Contains(b.Modes, mode)
}

// KeybindRegistry maps key sequences to commands, per screen mode. Leader
// sequences start with "SPC"; everything else is a single screen key.
type KeybindRegistry struct {
	bindings []Binding
	bySeq    map[string][]int
}

// NewKeybindRegistry creates an empty registry.
func NewKeybindRegistry() *KeybindRegistry {
	return &KeybindRegistry{bySeq: make(map[string][]int)}
}

// Add registers b. For a key bound more than once in the same mode the
// latest binding wins.
func (r *KeybindRegistry) Add(b Binding) {
	keys := make([]string, 0, len(b.Keys))
	for _, k := range b.Keys {
		if n := normalizeSeq(k); n != "" {
			keys = append(keys, n)
		}
	}
	if len(keys) == 0 || b.Cmd == nil {
		return
	}
	b.Keys = keys
	r.bindings = append(r.bindings, b)
	for _, k := range keys {
		r.bySeq[k] = append(r.bySeq[k], len(r.bindings)-1)
	}
}

// BindWithDescForMode registers a single sequence. With no modes the binding
// is global.
func (r *KeybindRegistry) BindWithDescForMode(seq string, cmd tea.Cmd, desc string, modes ...AppMode) {
	r.Add(Binding{Keys: []string{seq}, Desc: desc, Modes: modes, Cmd: cmd})
}

// Lookup returns the command bound to seq in mode, or nil.
func (r *KeybindRegistry) Lookup(seq string, mode AppMode) tea.Cmd {
	idx := r.bySeq[normalizeSeq(seq)]
	for i := len(idx) - 1; i >= 0; i-- {
		if b := r.bindings[idx[i]]; b.appliesTo(mode) {
			return b.Cmd
		}
	}
	return nil
}

// HasPrefix reports whether a longer sequence starting with seq is bound
// in mode.
func (r *KeybindRegistry) HasPrefix(seq string, mode AppMode) bool {
	prefix := normalizeSeq(seq) + " "
	for _, b := range r.bindings {
		if !b.appliesTo(mode) {
			continue
		}
		for _, k := range b.Keys {
			if strings.HasPrefix(k, prefix) {
				return true
			}
		}
	}
	return false
}

// ScreenHints returns the described screen keys of mode in registration
// order. Leader sequences are listed by LeaderHints instead.
func (r *KeybindRegistry) ScreenHints(mode AppMode) []key.Binding {
	var out []key.Binding
	seen := make(map[string]bool)
	for _, b := range r.bindings {
		if b.Desc == "" || !b.appliesTo(mode) || strings.HasPrefix(b.Keys[0], leaderSeq) {
			continue
		}
		label := b.label()
		if seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(label, b.Desc)))
	}
	return out
}

// LeaderHints returns the next keys after currentSeq ("SPC" or a submenu
// such as "SPC c") that apply to mode. A key that opens a submenu is
// labelled "<key>…".
func (r *KeybindRegistry) LeaderHints(currentSeq string, mode AppMode) []key.Binding {
	prefix := normalizeSeq(currentSeq) + " "
	var out []key.Binding
	seen := make(map[string]bool)
	for _, b := range r.bindings {
		if !b.appliesTo(mode) {
			continue
		}
		for _, k := range b.Keys {
			rest, ok := strings.CutPrefix(k, prefix)
			if !ok {
				continue
			}
			next, _, nested := strings.Cut(rest, " ")
			if seen[next] {
				continue
			}
			seen[next] = true
			desc := b.Desc
			if nested {
				desc = next + "…"
			} else if desc == "" {
				desc = k
			}
			out = append(out, key.NewBinding(key.WithKeys(next), key.WithHelp(next, desc)))
		}
	}
	return out
}

// normalizeSeq rewrites Bubble Tea's names for space to "SPC".
func normalizeSeq(seq string) string {
	parts := strings.Fields(seq)
	if seq == " " {
		parts = []string{leaderSeq}
	}
	for i, p := range parts {
		if p == "space" {
			parts[i] = leaderSeq
		}
	}
	return strings.Join(parts, " ")
}

// KeyHandler tracks leader state and dispatches keys to the registry.
type KeyHandler struct {
	Registry      *KeybindRegistry
	LeaderWaiting bool
	Buffer        []string // sequence typed since the leader, starting with "SPC"
}

// NewKeyHandler creates a handler with SPC as leader.
func NewKeyHandler(reg *KeybindRegistry) *KeyHandler {
	return &KeyHandler{Registry: reg}
}

// Handle dispatches msg for the screen in mode. consumed is false when no
// binding matched and the key belongs to the screen itself.
func (h *KeyHandler) Handle(msg tea.KeyMsg, mode AppMode) (consumed bool, cmd tea.Cmd) {
	part := normalizeSeq(msg.String())

	if h.LeaderWaiting {
		if part == "esc" {
			h.reset()
			return true, nil
		}
		h.Buffer = append(h.Buffer, part)
		seq := strings.Join(h.Buffer, " ")
		if c := h.Registry.Lookup(seq, mode); c != nil {
			h.reset()
			return true, c
		}
		if !h.Registry.HasPrefix(seq, mode) {
			h.reset()
		}
		return true, nil
	}

	if part == leaderSeq {
		h.LeaderWaiting = true
		h.Buffer = []string{leaderSeq}
		return true, nil
	}
	if c := h.Registry.Lookup(part, mode); c != nil {
		return true, c
	}
	return false, nil
}

// Prefix is the pending leader sequence, e.g. "SPC" or "SPC c".
func (h *KeyHandler) Prefix() string {
	return strings.Join(h.Buffer, " ")
}

func (h *KeyHandler) reset() {
	h.LeaderWaiting = false
	h.Buffer = nil
}

// leaderKeyMap is the help.KeyMap of the pending leader sequence.
type leaderKeyMap struct {
	registry *KeybindRegistry
	prefix   string
	mode     AppMode
}

var _ help.KeyMap = leaderKeyMap{}

// ShortHelp lists the next keys plus esc to cancel.
func (km leaderKeyMap) ShortHelp() []key.Binding {
	hints := km.registry.LeaderHints(km.prefix, km.mode)
	if len(hints) == 0 {
		return nil
	}
	return append(hints, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")))
}

// FullHelp returns ShortHelp as a single column.
func (km leaderKeyMap) FullHelp() [][]key.Binding {
	if short := km.ShortHelp(); len(short) > 0 {
		return [][]key.Binding{short}
	}
	return nil
}
