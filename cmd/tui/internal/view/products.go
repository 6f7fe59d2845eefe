package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/product"
)

type productsState int

const (
	productsStateBrowse productsState = iota
	productsStateEdit
)

type productValues struct {
	name      string
	price     string
	stock     string
	category  string
	barcode   string
	threshold string
}

type ProductsModel struct {
	CommonModel
	products *product.Service
	session  Session

	state    productsState
	table    table.Model
	items    []*product.Product
	lowOnly  bool
	form     *huh.Form
	vals     *productValues
	editing  *product.Product
	creating bool

	loading bool
	err     error
	status  string
}

func NewProductsModel(products *product.Service, session Session) ProductsModel {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Category", Width: 14},
		{Title: "Price", Width: 10},
		{Title: "Stock", Width: 7},
		{Title: "Min", Width: 5},
		{Title: "Barcode", Width: 14},
		{Title: "Status", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
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

	return ProductsModel{
		products: products,
		session:  session,
		table:    t,
		vals:     &productValues{},
		loading:  true,
	}
}

func (m ProductsModel) Title() string { return "Products" }

func (m ProductsModel) ShortHelp() string {
	if m.state == productsStateEdit {
		return "Navigate form | Esc: cancel"
	}

	if m.session.User.IsAdmin() {
		return "Esc: back | l: low stock | r: refresh | n: new | e: edit | d: delete"
	}

	return "Esc: back | l: low stock | r: refresh"
}

func (m ProductsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ProductsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadProductsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.items = msg.products
		m.refreshTable()

		return m, nil

	case productSaveMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error saving: %v", msg.err))
		} else {
			m.status = msg.done
		}

		m.state = productsStateBrowse
		m.form = nil
		m.editing = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-10, 5))
		return m, nil
	}

	switch m.state {
	case productsStateBrowse:
		return m.updateBrowse(msg)
	case productsStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m ProductsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "l":
			m.lowOnly = !m.lowOnly
			m.loading = true

			return m, m.loadCmd()
		}

		if m.session.User.IsAdmin() {
			switch keyMsg.String() {
			case "n":
				return m.enterEditMode(nil)
			case "e":
				if p := m.selected(); p != nil {
					return m.enterEditMode(p)
				}
			case "d":
				if p := m.selected(); p != nil {
					return m, m.deleteCmd(p)
				}
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ProductsModel) selected() *product.Product {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return nil
	}

	return m.items[idx]
}

func (m ProductsModel) enterEditMode(p *product.Product) (tea.Model, tea.Cmd) {
	*m.vals = productValues{threshold: strconv.Itoa(product.DefaultLowStockThreshold)}
	m.creating = p == nil
	m.editing = p

	if p != nil {
		*m.vals = productValues{
			name:      p.Name,
			price:     FormatMoney(p.Price),
			stock:     strconv.Itoa(p.Stock),
			category:  p.Category,
			threshold: strconv.Itoa(p.LowStockThreshold),
		}

		if p.Barcode != nil {
			m.vals.barcode = *p.Barcode
		}
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&m.vals.name).Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("name cannot be empty")
				}

				return nil
			}),
			huh.NewInput().Title("Price").Value(&m.vals.price).Validate(validateDecimal),
			huh.NewInput().Title("Stock").Value(&m.vals.stock).Validate(validateCount),
			huh.NewInput().Title("Category").Value(&m.vals.category),
			huh.NewInput().Title("Barcode").Value(&m.vals.barcode),
			huh.NewInput().Title("Low stock threshold").Value(&m.vals.threshold).Validate(validateCount),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = productsStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func validateDecimal(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return errors.New("enter a non-negative amount")
	}

	return nil
}

func validateCount(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return errors.New("enter a whole number of 0 or more")
	}

	return nil
}

func (m ProductsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = productsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m ProductsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading products...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	filter := "All"
	if m.lowOnly {
		filter = "Low stock"
	}

	header := fmt.Sprintf("Filter: [l] %s | %d products", activeStyle(filter), len(m.items))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		faintStyle.Render(m.ShortHelp()),
	)

	if m.state == productsStateEdit && m.form != nil {
		title := "New Product"
		if !m.creating {
			title = "Edit Product"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = m.status + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func stockLabel(p *product.Product) string {
	switch {
	case p.IsOutOfStock():
		return errorStyle.Render("out of stock")
	case p.IsLowStock():
		return warnStyle.Render("low")
	}

	return "ok"
}

func (m *ProductsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.items))

	for _, p := range m.items {
		barcode := ""
		if p.Barcode != nil {
			barcode = *p.Barcode
		}

		rows = append(rows, table.Row{
			p.Name,
			p.Category,
			FormatMoney(p.Price),
			strconv.Itoa(p.Stock),
			strconv.Itoa(p.LowStockThreshold),
			barcode,
			stockLabel(p),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadProductsMsg struct {
	products []*product.Product
	err      error
}

func (m ProductsModel) loadCmd() tea.Cmd {
	ownerID := m.session.User.ID
	lowOnly := m.lowOnly

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if lowOnly {
			products, err := m.products.ListLowStock(ctx, ownerID)
			return loadProductsMsg{products: products, err: err}
		}

		products, err := m.products.List(ctx, ownerID)

		return loadProductsMsg{products: products, err: err}
	}
}

type productSaveMsg struct {
	done string
	err  error
}

func (m ProductsModel) saveCmd() tea.Cmd {
	vals := *m.vals
	editing := m.editing
	ownerID := m.session.User.ID

	return func() tea.Msg {
		price, err := decimal.NewFromString(strings.TrimSpace(vals.price))
		if err != nil {
			return productSaveMsg{err: err}
		}

		stock, err := strconv.Atoi(strings.TrimSpace(vals.stock))
		if err != nil {
			return productSaveMsg{err: err}
		}

		threshold, err := strconv.Atoi(strings.TrimSpace(vals.threshold))
		if err != nil {
			return productSaveMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if editing == nil {
			p, err := m.products.Create(ctx, ownerID, product.CreateParams{
				Name:              vals.name,
				Price:             price,
				Stock:             stock,
				Category:          vals.category,
				Barcode:           &vals.barcode,
				LowStockThreshold: &threshold,
			})
			if err != nil {
				return productSaveMsg{err: err}
			}

			return productSaveMsg{done: successStyle.Render(fmt.Sprintf("Created %s.", p.Name))}
		}

		p, err := m.products.Update(ctx, ownerID, editing.ID, product.UpdateParams{
			Name:              &vals.name,
			Price:             &price,
			Stock:             &stock,
			Category:          &vals.category,
			Barcode:           &vals.barcode,
			LowStockThreshold: &threshold,
		})
		if err != nil {
			return productSaveMsg{err: err}
		}

		return productSaveMsg{done: successStyle.Render(fmt.Sprintf("Saved %s.", p.Name))}
	}
}

func (m ProductsModel) deleteCmd(p *product.Product) tea.Cmd {
	ownerID := m.session.User.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.products.Delete(ctx, ownerID, p.ID); err != nil {
			return productSaveMsg{err: err}
		}

		return productSaveMsg{done: faintStyle.Render(fmt.Sprintf("Deleted %s.", p.Name))}
	}
}
