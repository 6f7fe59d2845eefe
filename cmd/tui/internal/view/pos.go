package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/cart"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/product"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/receipt"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/sale"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/voice"
)

type posState int

const (
	posStateScan posState = iota
	posStateCheckout
	posStateReceipt
)

type checkoutValues struct {
	method     string
	amountPaid string
}

// POSModel is the cashier screen. Spoken phrases arrive as typed text, are
// resolved against the catalog and land in the cart.
type POSModel struct {
	CommonModel
	services Services
	session  Session

	state   posState
	cart    *cart.Cart
	input   textinput.Model
	table   table.Model
	onTable bool

	form *huh.Form
	vals *checkoutValues

	receipt string
	status  string
	err     error
	busy    bool
}

func NewPOSModel(services Services, session Session) POSModel {
	ti := textinput.New()
	ti.Placeholder = `e.g. "two milk"`
	ti.Prompt = "Say: "
	ti.Width = 40
	ti.Focus()

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Product", Width: 24},
			{Title: "Qty", Width: 5},
			{Title: "Price", Width: 10},
			{Title: "Total", Width: 10},
		}),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return POSModel{
		services: services,
		session:  session,
		cart:     cart.New(),
		input:    ti,
		table:    t,
		vals:     &checkoutValues{method: string(sale.PaymentCash)},
	}
}

func (m POSModel) Title() string { return "Point of Sale" }

func (m POSModel) ShortHelp() string {
	switch m.state {
	case posStateCheckout:
		return "Esc: back to cart"
	case posStateReceipt:
		return "Enter: new sale | Esc: back to menu"
	}

	if m.onTable {
		return "Tab: command | +/-: quantity | x: remove | ctrl+s: checkout | Esc: menu"
	}

	return "Enter: add | Tab: cart | ctrl+s: checkout | ctrl+x: clear | Esc: menu"
}

func (m POSModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m POSModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resolveMsg:
		m.busy = false
		m.onResolved(msg)

		return m, nil

	case checkoutResultMsg:
		m.busy = false

		if msg.err != nil {
			m.state = posStateScan
			m.err = msg.err
			m.status = ""

			return m, nil
		}

		m.cart.Clear()
		m.refreshTable()
		m.receipt = receipt.String(msg.sale, m.session.ReceiptOptions())
		m.state = posStateReceipt

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-16, 5))
		return m, nil
	}

	switch m.state {
	case posStateCheckout:
		return m.updateCheckout(msg)
	case posStateReceipt:
		return m.updateReceipt(msg)
	}

	return m.updateScan(msg)
}

func (m POSModel) updateScan(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "tab":
			m.toggleFocus()
			return m, nil
		case "ctrl+s":
			return m.startCheckout()
		case "ctrl+x":
			m.cart.Clear()
			m.refreshTable()
			m.status = "Cart cleared."
			m.err = nil

			return m, nil
		}

		if m.onTable {
			return m.updateTable(keyMsg)
		}

		if keyMsg.Type == tea.KeyEnter {
			phrase := strings.TrimSpace(m.input.Value())
			if phrase == "" || m.busy {
				return m, nil
			}

			m.busy = true
			m.input.SetValue("")

			return m, m.resolveCmd(phrase)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m *POSModel) toggleFocus() {
	m.onTable = !m.onTable

	if m.onTable {
		m.input.Blur()
		m.table.Focus()

		return
	}

	m.table.Blur()
	m.input.Focus()
}

func (m POSModel) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lines := m.cart.Lines()
	idx := m.table.Cursor()

	if idx >= 0 && idx < len(lines) {
		line := lines[idx]

		switch msg.String() {
		case "+", "=":
			m.setErr(m.cart.SetQuantity(line.ProductID, line.Quantity+1))
			m.refreshTable()

			return m, nil
		case "-":
			m.setErr(m.cart.SetQuantity(line.ProductID, line.Quantity-1))
			m.refreshTable()

			return m, nil
		case "x", "delete", "backspace":
			m.cart.Remove(line.ProductID)
			m.status = fmt.Sprintf("Removed %s.", line.Name)
			m.err = nil
			m.refreshTable()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *POSModel) setErr(err error) {
	m.err = err
	if err == nil {
		m.status = ""
	}
}

func (m *POSModel) onResolved(msg resolveMsg) {
	if msg.err != nil {
		m.err = msg.err
		m.status = ""

		return
	}

	p, qty := msg.match.Product, msg.match.Command.Quantity

	if err := m.cart.Add(p, qty); err != nil {
		m.err = err
		m.status = ""

		return
	}

	m.err = nil
	m.status = fmt.Sprintf("Added %d x %s.", qty, p.Name)

	if p.IsLowStock() {
		m.status += warnStyle.Render(fmt.Sprintf(" Low stock: %d on hand.", p.Stock))
	}

	m.refreshTable()
}

func (m POSModel) startCheckout() (tea.Model, tea.Cmd) {
	if m.cart.IsEmpty() {
		m.err = sale.ErrEmptyCart
		return m, nil
	}

	m.vals.amountPaid = ""
	m.form = m.buildCheckoutForm()
	m.state = posStateCheckout
	m.err = nil

	return m, m.form.Init()
}

func (m POSModel) buildCheckoutForm() *huh.Form {
	total := m.cart.Total(m.session.TaxRate)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("Total due: %s %s", m.session.Currency, FormatMoney(total))).
				Options(
					huh.NewOption("Cash", string(sale.PaymentCash)),
					huh.NewOption("Card", string(sale.PaymentCard)),
					huh.NewOption("Mobile Money", string(sale.PaymentMobileMoney)),
				).
				Value(&m.vals.method),
			huh.NewInput().
				Title("Amount paid").
				Description("Leave empty for the exact amount").
				Value(&m.vals.amountPaid).
				Validate(func(s string) error {
					_, err := parseAmount(s)
					return err
				}),
		),
	).WithWidth(45).WithShowHelp(false)
}

func parseAmount(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, errors.New("enter an amount like 50 or 12.50")
	}

	if d.IsNegative() {
		return nil, errors.New("amount cannot be negative")
	}

	return &d, nil
}

func (m POSModel) updateCheckout(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = posStateScan
		m.form = nil

		return m, nil
	}

	if m.busy {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.busy = true

	return m, m.checkoutCmd()
}

func (m POSModel) updateReceipt(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyEnter:
			m.state = posStateScan
			m.receipt = ""
			m.status = ""
			m.onTable = false
			m.table.Blur()
			m.input.Focus()

			return m, textinput.Blink
		}
	}

	return m, nil
}

func (m *POSModel) refreshTable() {
	lines := m.cart.Lines()

	rows := make([]table.Row, len(lines))
	for i, line := range lines {
		rows[i] = table.Row{
			line.Name,
			strconv.Itoa(line.Quantity),
			FormatMoney(line.UnitPrice),
			FormatMoney(line.LineTotal),
		}
	}

	m.table.SetRows(rows)

	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m POSModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case posStateReceipt:
		return style.Render(
			successStyle.Render("Sale complete!") + "\n\n" +
				lipgloss.NewStyle().
					BorderStyle(lipgloss.RoundedBorder()).
					BorderForeground(lipgloss.Color("63")).
					Padding(0, 1).
					Render(m.receipt) +
				"\n\n" + faintStyle.Render(m.ShortHelp()),
		)
	case posStateCheckout:
		body := m.form.View()
		if m.busy {
			body = "Processing sale..."
		}

		return style.Render(titleStyle.Render("Checkout") + "\n\n" + body + "\n\n" + faintStyle.Render(m.ShortHelp()))
	}

	rate := m.session.TaxRate
	cur := m.session.Currency

	totals := fmt.Sprintf("Items: %d   Subtotal: %s %s", m.cart.ItemCount(), cur, FormatMoney(m.cart.Subtotal()))
	if !rate.IsZero() {
		totals += fmt.Sprintf("   Tax (%s%%): %s", rate.String(), FormatMoney(m.cart.Tax(rate)))
	}

	totals += "   " + activeStyle(fmt.Sprintf("Total: %s %s", cur, FormatMoney(m.cart.Total(rate))))

	feedback := ""

	switch {
	case m.busy:
		feedback = faintStyle.Render("Looking up product...")
	case m.err != nil:
		feedback = errorStyle.Render(describePOSError(m.err))
	case m.status != "":
		feedback = successStyle.Render(m.status)
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Point of Sale")+faintStyle.Render("  cashier: "+m.session.User.Username),
		"",
		m.input.View(),
		feedback,
		"",
		tableView,
		totals,
		"",
		faintStyle.Render(m.ShortHelp()),
	))
}

func describePOSError(err error) string {
	var stockErr *product.InsufficientStockError

	switch {
	case errors.As(err, &stockErr):
		return fmt.Sprintf("Only %d %s in stock (wanted %d).", stockErr.Available, stockErr.ProductName, stockErr.Requested)
	case errors.Is(err, voice.ErrEmptyCommand):
		return "Say a quantity and a product, e.g. \"two milk\"."
	case errors.Is(err, voice.ErrProductNotFound), errors.Is(err, sale.ErrProductNotFound):
		return fmt.Sprintf("Not found: %v", err)
	case errors.Is(err, sale.ErrEmptyCart):
		return "The cart is empty."
	}

	return fmt.Sprintf("Error: %v", err)
}

type resolveMsg struct {
	match *voice.Match
	err   error
}

func (m POSModel) resolveCmd(phrase string) tea.Cmd {
	ownerID := m.session.User.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		match, err := m.services.Resolver.Resolve(ctx, ownerID, phrase)

		return resolveMsg{match: match, err: err}
	}
}

type checkoutResultMsg struct {
	sale *sale.Sale
	err  error
}

func (m POSModel) checkoutCmd() tea.Cmd {
	vals := *m.vals
	items := m.cart.CheckoutItems()
	ownerID := m.session.User.ID
	taxRate := m.session.TaxRate

	return func() tea.Msg {
		amountPaid, err := parseAmount(vals.amountPaid)
		if err != nil {
			return checkoutResultMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		s, err := m.services.Sales.Checkout(ctx, ownerID, sale.CheckoutParams{
			Items:         items,
			PaymentMethod: sale.PaymentMethod(vals.method),
			AmountPaid:    amountPaid,
			TaxRate:       taxRate,
		})

		return checkoutResultMsg{sale: s, err: err}
	}
}
