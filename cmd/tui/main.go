package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/evans-droid/voice-recognition-shop-management-system/cmd/tui/internal/view"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/config"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/dashboard"
	dashboardCache "github.com/evans-droid/voice-recognition-shop-management-system/internal/dashboard/cache"
	dashboardStore "github.com/evans-droid/voice-recognition-shop-management-system/internal/dashboard/store"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/database"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/events"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/events/kafka"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/product"
	productStore "github.com/evans-droid/voice-recognition-shop-management-system/internal/product/store"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/sale"
	saleStore "github.com/evans-droid/voice-recognition-shop-management-system/internal/sale/store"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/user"
	userStore "github.com/evans-droid/voice-recognition-shop-management-system/internal/user/store"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/voice"
)

const logFile = "voicepos-tui.log"

type View int

const (
	ViewLogin View = iota
	ViewMenu
	ViewScreen
)

type menuEntry struct {
	key       string
	label     string
	adminOnly bool
	open      func(view.Services, view.Session) tea.Model
}

var menu = []menuEntry{
	{key: "1", label: "Point of Sale", open: func(s view.Services, ss view.Session) tea.Model { return view.NewPOSModel(s, ss) }},
	{key: "2", label: "Products", open: func(s view.Services, ss view.Session) tea.Model { return view.NewProductsModel(s.Products, ss) }},
	{key: "3", label: "Sales History", open: func(s view.Services, ss view.Session) tea.Model { return view.NewSalesModel(s.Sales, ss) }},
	{key: "4", label: "Dashboard", open: func(s view.Services, ss view.Session) tea.Model { return view.NewDashboardModel(s.Dashboard, ss) }},
	{key: "5", label: "Export Receipts", open: func(s view.Services, ss view.Session) tea.Model { return view.NewExportModel(s.Sales, ss) }},
	{key: "6", label: "Import Products", adminOnly: true, open: func(s view.Services, ss view.Session) tea.Model { return view.NewImportModel(s.Products, ss) }},
	{key: "7", label: "Restock", adminOnly: true, open: func(s view.Services, ss view.Session) tea.Model { return view.NewRestockModel(s.Products, ss) }},
}

type settings struct {
	cfg      *config.Config
	location *time.Location
}

type model struct {
	services view.Services
	settings settings

	currentView View
	session     *view.Session
	login       view.LoginModel
	screen      tea.Model

	width  int
	height int
}

func newModel(services view.Services, s settings) model {
	return model{
		services:    services,
		settings:    s,
		currentView: ViewLogin,
		login:       view.NewLoginModel(services.Users),
	}
}

func (m model) Init() tea.Cmd {
	return m.login.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			return m.updateMenu(msg)
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case view.LoggedInMsg:
		slog.Info("signed in", "username", msg.User.Username, "role", msg.User.Role)

		m.session = &view.Session{
			User:     msg.User,
			Location: m.settings.location,
			Currency: m.settings.cfg.App.Currency,
			TaxRate:  m.settings.cfg.App.TaxRate,
		}
		m.currentView = ViewMenu

		return m, nil

	case view.BackMsg:
		m.currentView = ViewMenu
		m.screen = nil

		return m, nil
	}

	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		var newModel tea.Model
		newModel, cmd = m.login.Update(msg)
		m.login = newModel.(view.LoginModel)
	case ViewScreen:
		m.screen, cmd = m.screen.Update(msg)
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "o":
		m.session = nil
		m.login = view.NewLoginModel(m.services.Users)
		m.currentView = ViewLogin

		return m, m.login.Init()
	}

	for _, entry := range menu {
		if entry.key != msg.String() || (entry.adminOnly && !m.session.User.IsAdmin()) {
			continue
		}

		m.screen = entry.open(m.services, *m.session)
		m.currentView = ViewScreen

		width, height := m.width, m.height

		return m, tea.Batch(m.screen.Init(), func() tea.Msg {
			return tea.WindowSizeMsg{Width: width, Height: height}
		})
	}

	return m, nil
}

func (m model) View() string {
	switch m.currentView {
	case ViewLogin:
		return m.login.View()
	case ViewMenu:
		return m.menuView()
	case ViewScreen:
		return m.screen.View()
	}

	return "Unknown View"
}

func (m model) menuView() string {
	u := m.session.User

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n", lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Render(u.ShopName))
	fmt.Fprintf(&sb, "%s\n\n", lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("Signed in as %s (%s)", u.Username, u.Role)))

	for _, entry := range menu {
		if entry.adminOnly && !u.IsAdmin() {
			continue
		}

		fmt.Fprintf(&sb, "%s. %s\n", entry.key, entry.label)
	}

	sb.WriteString("\no. Sign out\nq. Quit")

	return lipgloss.NewStyle().Padding(2).Render(sb.String())
}

func main() {
	if err := run(); err != nil {
		slog.Error("tui failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs go to a file.
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	slog.SetDefault(cfg.LoggerTo(f))

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx := context.Background()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	var publisher events.Publisher = events.Nop{}

	if len(cfg.Kafka.Brokers) > 0 {
		kp := kafka.NewPublisher(cfg.Kafka.Brokers)
		defer kp.Close()

		publisher = kp
	}

	var cache dashboard.Cache = dashboard.NopCache{}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		cache = dashboardCache.NewRedis(client, cfg.Redis.TTL)
	}

	productService := product.NewService(productStore.New(db))
	dashboardService := dashboard.NewService(dashboardStore.New(db),
		dashboard.WithLocation(loc),
		dashboard.WithCache(cache),
	)

	services := view.Services{
		Users:    user.NewService(userStore.New(db)),
		Products: productService,
		Sales: sale.NewService(saleStore.New(db),
			sale.WithLocation(loc),
			sale.WithPublisher(publisher),
			sale.WithCacheInvalidator(dashboardService),
		),
		Dashboard: dashboardService,
		Resolver:  voice.NewResolver(productService),
	}

	p := tea.NewProgram(newModel(services, settings{cfg: cfg, location: loc}), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}

	return nil
}
