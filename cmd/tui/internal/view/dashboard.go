package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/dashboard"
)

const chartWidth = 40

var (
	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(22)
	barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// DashboardModel shows revenue rollups, stock health and a revenue chart.
type DashboardModel struct {
	CommonModel
	svc     *dashboard.Service
	session Session

	period  dashboard.Period
	stats   *dashboard.Stats
	series  []dashboard.Bucket
	loading bool
	err     error
}

func NewDashboardModel(svc *dashboard.Service, session Session) DashboardModel {
	return DashboardModel{
		svc:     svc,
		session: session,
		period:  dashboard.PeriodWeek,
		loading: true,
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	return "w/m/y: chart period | r: refresh | Esc: back"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "w", "m", "y":
			m.period = map[string]dashboard.Period{
				"w": dashboard.PeriodWeek,
				"m": dashboard.PeriodMonth,
				"y": dashboard.PeriodYear,
			}[msg.String()]
			m.loading = true

			return m, m.loadCmd()
		}

	case dashboardLoadedMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.stats = msg.stats
			m.series = msg.series
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	if m.stats == nil {
		if m.err != nil {
			return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to back)")
		}

		return style.Render("Loading dashboard...")
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		m.card("Today", m.stats.Today),
		m.card("Last 7 days", m.stats.Weekly),
		m.card("This month", m.stats.Monthly),
	)

	stock := fmt.Sprintf("Products: %d  |  %s  |  %s",
		m.stats.Products.Total,
		warnStyle.Render(fmt.Sprintf("Low stock: %d", m.stats.Products.LowStock)),
		errorStyle.Render(fmt.Sprintf("Out of stock: %d", m.stats.Products.OutOfStock)),
	)

	status := ""
	switch {
	case m.loading:
		status = faintStyle.Render("Refreshing...")
	case m.err != nil:
		status = errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.session.User.ShopName),
		"",
		cards,
		"",
		stock,
		"",
		titleStyle.Render(fmt.Sprintf("Revenue (%s)", m.period)),
		renderChart(m.series, m.session.Currency),
		status,
		faintStyle.Render(m.ShortHelp()),
	))
}

func (m DashboardModel) card(label string, t dashboard.Totals) string {
	return cardStyle.Render(fmt.Sprintf("%s\n%s %s\n%d sales",
		faintStyle.Render(label),
		m.session.Currency,
		successStyle.Render(FormatMoney(t.Revenue)),
		t.Transactions,
	))
}

// renderChart draws one horizontal bar per bucket, scaled to the largest.
func renderChart(series []dashboard.Bucket, currency string) string {
	if len(series) == 0 {
		return faintStyle.Render("No sales in this period.")
	}

	peak := decimal.Zero
	for _, b := range series {
		peak = decimal.Max(peak, b.Revenue)
	}

	var sb strings.Builder

	for _, b := range series {
		width := 0
		if peak.IsPositive() {
			width = int(b.Revenue.Div(peak).Mul(decimal.NewFromInt(chartWidth)).Round(0).IntPart())
		}

		fmt.Fprintf(&sb, "%-10s %s %s %s\n",
			b.Key,
			barStyle.Render(strings.Repeat("█", width)+strings.Repeat(" ", chartWidth-width)),
			currency,
			FormatMoney(b.Revenue),
		)
	}

	return sb.String()
}

type dashboardLoadedMsg struct {
	stats  *dashboard.Stats
	series []dashboard.Bucket
	err    error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	ownerID := m.session.User.ID
	period := m.period

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		stats, err := m.svc.Stats(ctx, ownerID)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		series, err := m.svc.ChartSeries(ctx, ownerID, period)

		return dashboardLoadedMsg{stats: stats, series: series, err: err}
	}
}
