// Package tui is the full-screen terminal front end for the store.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/stockroom/internal/cli"
	"github.com/Veraticus/stockroom/internal/inventory"
	"github.com/Veraticus/stockroom/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// State represents the current screen.
type State int

const (
	StateMenu State = iota
	StateInventory
	StateSale
	StateReport
)

// Sale form fields.
const (
	fieldCategory = iota
	fieldProduct
	fieldQuantity
)

type menuItem struct {
	title string
	state State
	exit  bool
}

var menuItems = []menuItem{
	{title: "Display Inventory", state: StateInventory},
	{title: "Make a Sale", state: StateSale},
	{title: "Generate Transaction Report", state: StateReport},
	{title: "Exit", exit: true},
}

// Model holds the TUI state.
type Model struct {
	store     *inventory.Store
	theme     themes.Theme
	help      help.Model
	keymap    KeyMap
	status    string
	inputs    []textinput.Model
	width     int
	height    int
	cursor    int
	focus     int
	state     State
	statusErr bool
	showHelp  bool
	quitting  bool
}

// New creates the TUI model over store.
func New(store *inventory.Store, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return Model{
		store:    store,
		theme:    cfg.Theme,
		help:     help.New(),
		keymap:   DefaultKeyMap(),
		inputs:   newSaleInputs(),
		width:    cfg.Width,
		height:   cfg.Height,
		showHelp: cfg.ShowHelp,
		state:    StateMenu,
	}
}

func newSaleInputs() []textinput.Model {
	inputs := make([]textinput.Model, 3)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 64
		switch i {
		case fieldCategory:
			ti.Prompt = "Category: "
			ti.Placeholder = "Groceries"
		case fieldProduct:
			ti.Prompt = "Product:  "
			ti.Placeholder = "Milk"
		case fieldQuantity:
			ti.Prompt = "Quantity: "
			ti.Placeholder = "1"
			ti.CharLimit = 9
		}
		inputs[i] = ti
	}
	return inputs
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Quitting reports whether the operator chose to leave.
func (m Model) Quitting() bool {
	return m.quitting
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}

		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateSale:
			return m.updateSale(msg)
		case StateInventory, StateReport:
			if key.Matches(msg, m.keymap.Quit) {
				m.quitting = true
				return m, tea.Quit
			}
			if key.Matches(msg, m.keymap.Back, m.keymap.Select) {
				m.state = StateMenu
			}
			return m, nil
		}
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit, m.keymap.Back):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keymap.Down):
		if m.cursor < len(menuItems)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keymap.Select):
		return m.choose(m.cursor)
	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1:
		if n := int(msg.Runes[0] - '1'); n >= 0 && n < len(menuItems) {
			m.cursor = n
			return m.choose(n)
		}
	}
	return m, nil
}

func (m Model) choose(index int) (tea.Model, tea.Cmd) {
	item := menuItems[index]
	if item.exit {
		m.quitting = true
		return m, tea.Quit
	}

	m.state = item.state
	m.status = ""
	if item.state == StateSale {
		m.inputs = newSaleInputs()
		m.focus = fieldCategory
		return m, m.inputs[fieldCategory].Focus()
	}
	return m, nil
}

func (m Model) updateSale(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Back):
		m.state = StateMenu
		return m, nil
	case key.Matches(msg, m.keymap.Next), msg.Type == tea.KeyDown:
		return m.focusField((m.focus + 1) % len(m.inputs))
	case key.Matches(msg, m.keymap.Prev), msg.Type == tea.KeyUp:
		return m.focusField((m.focus + len(m.inputs) - 1) % len(m.inputs))
	case key.Matches(msg, m.keymap.Select):
		if m.focus < fieldQuantity {
			return m.focusField(m.focus + 1)
		}
		return m.submitSale()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) focusField(field int) (tea.Model, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = field
	return m, m.inputs[field].Focus()
}

func (m Model) submitSale() (tea.Model, tea.Cmd) {
	category := strings.TrimSpace(m.inputs[fieldCategory].Value())
	product := strings.TrimSpace(m.inputs[fieldProduct].Value())
	rawQty := strings.TrimSpace(m.inputs[fieldQuantity].Value())

	quantity, err := strconv.Atoi(rawQty)
	if err != nil {
		m.setStatus("Quantity must be a whole number.", true)
		return m, nil
	}

	txn, err := m.store.MakeSale(category, product, quantity)
	if err != nil {
		m.setStatus(strings.Join(cli.SaleFailureMessages(err), "\n"), true)
		return m, nil
	}

	m.setStatus(fmt.Sprintf("Sale made: %s x%d for total price: %s",
		txn.ProductName, txn.Quantity, txn.TotalPrice.StringFixed(2)), false)
	m.state = StateMenu
	return m, nil
}

func (m *Model) setStatus(status string, isErr bool) {
	m.status = status
	m.statusErr = isErr
}
