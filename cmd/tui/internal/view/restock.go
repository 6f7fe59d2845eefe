package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/product"
)

// RestockModel walks the low-stock list one product at a time and records the
// new stock count.
type RestockModel struct {
	CommonModel
	products *product.Service
	session  Session

	queue      []*product.Product
	current    *product.Product
	totalCount int
	input      textinput.Model

	loading bool
	status  string
}

func NewRestockModel(products *product.Service, session Session) RestockModel {
	ti := textinput.New()
	ti.Placeholder = "New stock count"
	ti.CharLimit = 7
	ti.Width = 20
	ti.Prompt = "Stock: "

	return RestockModel{
		products: products,
		session:  session,
		input:    ti,
		loading:  true,
	}
}

func (m RestockModel) Title() string { return "Restock" }

func (m RestockModel) ShortHelp() string {
	return "Enter: save & next | Tab: skip | Esc: back"
}

func (m RestockModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m RestockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch msg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyTab:
			if m.current != nil {
				m.next()
				return m, textinput.Blink
			}
		case tea.KeyEnter:
			if m.current == nil {
				return m, nil
			}

			stock, err := strconv.Atoi(strings.TrimSpace(m.input.Value()))
			if err != nil || stock < 0 {
				m.status = errorStyle.Render("Enter a whole number of 0 or more.")
				return m, nil
			}

			m.loading = true

			return m, m.saveCmd(m.current, stock)
		}

	case loadLowStockMsg:
		m.loading = false

		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error loading products: %v", msg.err))
			return m, nil
		}

		m.queue = msg.products
		m.totalCount = len(m.queue)

		if len(m.queue) == 0 {
			m.status = successStyle.Render("Nothing is running low.")
			return m, nil
		}

		m.next()

		return m, textinput.Blink

	case restockSavedMsg:
		m.loading = false

		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error saving: %v", msg.err))
			return m, nil
		}

		m.next()

		return m, textinput.Blink
	}

	var cmd tea.Cmd
	if m.current != nil {
		m.input, cmd = m.input.Update(msg)
	}

	return m, cmd
}

func (m *RestockModel) next() {
	if len(m.queue) == 0 {
		m.current = nil
		m.status = successStyle.Render("All done!")
		m.input.Blur()

		return
	}

	m.current = m.queue[0]
	m.queue = m.queue[1:]

	m.status = fmt.Sprintf("Restocking %d/%d", m.totalCount-len(m.queue), m.totalCount)
	m.input.SetValue(strconv.Itoa(m.current.Stock))
	m.input.Focus()
}

func (m RestockModel) View() string {
	style := lipgloss.NewStyle().Padding(2)

	if m.loading && m.current == nil {
		return style.Render("Loading low-stock products...")
	}

	if m.current == nil {
		return style.Render(m.status + "\n\n(Esc to back)")
	}

	p := m.current
	info := fmt.Sprintf(
		"Product:   %s\nCategory:  %s\nPrice:     %s %s\nOn hand:   %s\nThreshold: %d\n",
		p.Name,
		p.Category,
		m.session.Currency,
		FormatMoney(p.Price),
		stockLabel(p)+fmt.Sprintf(" (%d)", p.Stock),
		p.LowStockThreshold,
	)

	return style.Render(fmt.Sprintf("%s\n\n%s\n%s\n\n%s", m.status, info, m.input.View(), faintStyle.Render(m.ShortHelp())))
}

type loadLowStockMsg struct {
	products []*product.Product
	err      error
}

func (m RestockModel) loadCmd() tea.Cmd {
	ownerID := m.session.User.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		products, err := m.products.ListLowStock(ctx, ownerID)

		return loadLowStockMsg{products: products, err: err}
	}
}

type restockSavedMsg struct {
	err error
}

func (m RestockModel) saveCmd(p *product.Product, stock int) tea.Cmd {
	ownerID := m.session.User.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.products.Update(ctx, ownerID, p.ID, product.UpdateParams{Stock: &stock})

		return restockSavedMsg{err: err}
	}
}
