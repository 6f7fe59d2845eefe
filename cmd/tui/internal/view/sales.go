package view

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/receipt"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/sale"
)

type salesState int

const (
	salesStateTimeframe salesState = iota
	salesStateList
	salesStateReceipt
)

// saleItem wraps a sale to implement list.Item.
type saleItem struct {
	sale     *sale.Sale
	loc      *time.Location
	currency string
}

func (i saleItem) Title() string {
	return fmt.Sprintf("%s  %s  %s %s",
		FormatDateTime(i.sale.CreatedAt, i.loc),
		i.sale.InvoiceNumber,
		i.currency,
		FormatMoney(i.sale.Total),
	)
}

func (i saleItem) Description() string {
	units := 0
	for _, it := range i.sale.Items {
		units += it.Quantity
	}

	return fmt.Sprintf("%d items, %s", units, i.sale.PaymentMethod)
}

func (i saleItem) FilterValue() string {
	return i.sale.InvoiceNumber
}

// SalesModel browses the sales history and reprints receipts.
type SalesModel struct {
	CommonModel
	sales   *sale.Service
	session Session

	state           salesState
	timeframePicker TimeframePicker
	list            list.Model
	receipt         viewport.Model
	page            *sale.Page

	startDate time.Time
	endDate   time.Time
	allTime   bool
	pageNum   int
	loading   bool
	status    string
}

func NewSalesModel(sales *sale.Service, session Session) SalesModel {
	l := list.New([]list.Item{}, saleItemDelegate{}, 0, 0)
	l.Title = "Sales"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return SalesModel{
		sales:           sales,
		session:         session,
		timeframePicker: NewTimeframePicker(TimeframeToday, session.Location),
		list:            l,
		receipt:         viewport.New(48, 20),
		pageNum:         1,
	}
}

func (m SalesModel) Title() string { return "Sales History" }

func (m SalesModel) ShortHelp() string {
	switch m.state {
	case salesStateTimeframe:
		return "Esc: back | Enter: select"
	case salesStateList:
		return "Esc: back | Enter: receipt | /: filter | ]/[: next/prev page"
	case salesStateReceipt:
		return "Esc: back to list | ↑/↓: scroll"
	}

	return ""
}

func (m SalesModel) Init() tea.Cmd {
	return nil
}

func (m SalesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.startDate = msg.Start
		m.endDate = msg.End
		m.allTime = msg.All
		m.pageNum = 1
		m.loading = true
		m.state = salesStateList

		return m, m.loadSalesCmd()

	case loadSalesMsg:
		m.loading = false
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}

		m.page = msg.page
		m.refreshListItems()

		m.status = fmt.Sprintf("Page %d of %d, %d sales", msg.page.CurrentPage, max(msg.page.TotalPages, 1), msg.page.Total)
		if msg.page.Total == 0 {
			m.status = "No sales found."
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		m.receipt.Height = msg.Height - 6

		return m, nil
	}

	switch m.state {
	case salesStateTimeframe:
		return m.updateTimeframe(msg)
	case salesStateList:
		return m.updateList(msg)
	case salesStateReceipt:
		return m.updateReceipt(msg)
	}

	return m, nil
}

func (m SalesModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m SalesModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break // let the list clear the filter
			}

			m.state = salesStateTimeframe
			m.timeframePicker.Reset()

			return m, nil
		case "enter":
			return m.showReceipt()
		case "]":
			if m.page != nil && m.pageNum < m.page.TotalPages {
				m.pageNum++
				m.loading = true

				return m, m.loadSalesCmd()
			}
		case "[":
			if m.pageNum > 1 {
				m.pageNum--
				m.loading = true

				return m, m.loadSalesCmd()
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m SalesModel) showReceipt() (tea.Model, tea.Cmd) {
	selected, ok := m.list.SelectedItem().(saleItem)
	if !ok {
		return m, nil
	}

	m.receipt.SetContent(receipt.String(selected.sale, m.session.ReceiptOptions()))
	m.receipt.GotoTop()
	m.state = salesStateReceipt

	return m, nil
}

func (m SalesModel) updateReceipt(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = salesStateList
		return m, nil
	}

	var cmd tea.Cmd
	m.receipt, cmd = m.receipt.Update(msg)

	return m, cmd
}

func (m SalesModel) View() string {
	switch m.state {
	case salesStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case salesStateList:
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Loading sales...")
		}

		statusLine := ""
		if m.status != "" {
			statusLine = faintStyle.Render(m.status) + "\n"
		}

		return lipgloss.NewStyle().Padding(1).Render(statusLine + m.list.View())

	case salesStateReceipt:
		box := lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Render(m.receipt.View())

		return lipgloss.NewStyle().Padding(1).Render(box + "\n" + faintStyle.Render(m.ShortHelp()))
	}

	return ""
}

func (m *SalesModel) refreshListItems() {
	items := make([]list.Item, len(m.page.Sales))
	for i, s := range m.page.Sales {
		items[i] = saleItem{sale: s, loc: m.session.Location, currency: m.session.Currency}
	}

	m.list.SetItems(items)
}

// Messages

type loadSalesMsg struct {
	page *sale.Page
	err  error
}

func (m SalesModel) loadSalesCmd() tea.Cmd {
	ownerID := m.session.User.ID

	params := sale.ListParams{Page: m.pageNum, Limit: sale.MaxPageSize}
	if !m.allTime {
		start, end := m.startDate, m.endDate
		params.StartDate = &start
		params.EndDate = &end
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		page, err := m.sales.List(ctx, ownerID, params)

		return loadSalesMsg{page: page, err: err}
	}
}

// saleItemDelegate renders items in the list.
type saleItemDelegate struct{}

func (d saleItemDelegate) Height() int                             { return 2 }
func (d saleItemDelegate) Spacing() int                            { return 0 }
func (d saleItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d saleItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(saleItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", faintStyle.Render(i.Description()))
}
