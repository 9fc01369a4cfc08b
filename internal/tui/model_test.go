package tui

import (
	"testing"

	"github.com/Veraticus/stockroom/internal/inventory"
	"github.com/Veraticus/stockroom/internal/model"
	"github.com/Veraticus/stockroom/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (Model, *inventory.Store) {
	t.Helper()
	store := inventory.New()
	require.NoError(t, store.AddProduct(model.CategoryGroceries, model.Product{
		Name:       "Milk",
		Price:      decimal.RequireFromString("2.50"),
		Stock:      10,
		ExpiryDate: "2025-01-01",
	}))
	return New(store, WithTheme(themes.Mono), WithSize(100, 30), WithHelp(false)), store
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var updated tea.Model
		updated, cmd = m.Update(msg)
		var ok bool
		m, ok = updated.(Model)
		require.True(t, ok)
	}
	return m, cmd
}

func typeText(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, keyRunes(string(r)))
	}
	return msgs
}

func TestMenuNavigation(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, StateMenu, m.state)
	assert.Contains(t, m.View(), "Virtual Store Inventory System")

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.cursor)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, m.cursor)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor, "cursor stops at the first item")

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, StateInventory, m.state)
	assert.Contains(t, m.View(), "--- Groceries ---")
	assert.Contains(t, m.View(), "Milk")

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateMenu, m.state)
}

func TestNumberShortcuts(t *testing.T) {
	tests := []struct {
		key   string
		state State
	}{
		{"1", StateInventory},
		{"2", StateSale},
		{"3", StateReport},
		{"9", StateMenu},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, _ := newTestModel(t)
			m, _ = send(t, m, keyRunes(tt.key))
			assert.Equal(t, tt.state, m.state)
		})
	}
}

func TestSaleForm(t *testing.T) {
	m, store := newTestModel(t)

	m, _ = send(t, m, keyRunes("2"))
	require.Equal(t, StateSale, m.state)

	msgs := typeText("Groceries")
	msgs = append(msgs, tea.KeyMsg{Type: tea.KeyEnter})
	msgs = append(msgs, typeText("milk")...)
	msgs = append(msgs, tea.KeyMsg{Type: tea.KeyTab})
	msgs = append(msgs, typeText("3")...)
	msgs = append(msgs, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = send(t, m, msgs...)

	assert.Equal(t, StateMenu, m.state)
	assert.False(t, m.statusErr)
	assert.Contains(t, m.View(), "Sale made: Milk x3 for total price: 7.50")
	assert.Equal(t, 7, store.Category(model.CategoryGroceries).Product("Milk").Stock)

	m, _ = send(t, m, keyRunes("3"))
	assert.Contains(t, m.View(), "--- Transaction Report ---")
	assert.Regexp(t, `Sold\s+Milk\s+3\s+7\.50`, m.View())
}

func TestSaleFormFailures(t *testing.T) {
	tests := []struct {
		name     string
		category string
		product  string
		quantity string
		want     string
	}{
		{"category", "Electronics", "Milk", "1", "Category not found."},
		{"product", "Groceries", "Eggs", "1", "Product not found."},
		{"stock", "Groceries", "Milk", "100", "Not enough stock available."},
		{"quantity", "Groceries", "Milk", "lots", "Quantity must be a whole number."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, store := newTestModel(t)
			m, _ = send(t, m, keyRunes("2"))

			msgs := typeText(tt.category)
			msgs = append(msgs, tea.KeyMsg{Type: tea.KeyEnter})
			msgs = append(msgs, typeText(tt.product)...)
			msgs = append(msgs, tea.KeyMsg{Type: tea.KeyEnter})
			msgs = append(msgs, typeText(tt.quantity)...)
			msgs = append(msgs, tea.KeyMsg{Type: tea.KeyEnter})
			m, _ = send(t, m, msgs...)

			assert.Equal(t, StateSale, m.state, "form stays open on failure")
			assert.True(t, m.statusErr)
			assert.Contains(t, m.View(), tt.want)
			assert.Empty(t, store.Transactions())
		})
	}
}

func TestSaleFormTypingNavigationLetters(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, keyRunes("2"))

	m, _ = send(t, m, typeText("jkq")...)
	assert.Equal(t, StateSale, m.state)
	assert.Equal(t, fieldCategory, m.focus)
	assert.Equal(t, "jkq", m.inputs[fieldCategory].Value())
}

func TestQuit(t *testing.T) {
	tests := []struct {
		name string
		msgs []tea.Msg
	}{
		{"q from menu", []tea.Msg{keyRunes("q")}},
		{"exit item", []tea.Msg{keyRunes("4")}},
		{"ctrl+c in sale form", []tea.Msg{keyRunes("2"), tea.KeyMsg{Type: tea.KeyCtrlC}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t)
			m, cmd := send(t, m, tt.msgs...)

			assert.True(t, m.Quitting())
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.Empty(t, m.View())
		})
	}
}

func TestWindowResize(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
}
