package view

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/user"
)

const (
	modeLogin    = "login"
	modeRegister = "register"
)

// LoggedInMsg carries the account that signed in.
type LoggedInMsg struct {
	User *user.User
}

type loginValues struct {
	mode     string
	username string
	password string
	shopName string
}

type LoginModel struct {
	CommonModel
	users *user.Service

	form *huh.Form
	vals *loginValues
	busy bool
	err  error
}

func NewLoginModel(users *user.Service) LoginModel {
	m := LoginModel{users: users, vals: &loginValues{mode: modeLogin}}
	m.form = m.buildForm()

	return m
}

func (m LoginModel) buildForm() *huh.Form {
	notEmpty := func(field string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s cannot be empty", field)
			}

			return nil
		}
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Welcome").
				Options(
					huh.NewOption("Sign in", modeLogin),
					huh.NewOption("Create account", modeRegister),
				).
				Value(&m.vals.mode),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&m.vals.username).
				Validate(notEmpty("username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.vals.password).
				Validate(notEmpty("password")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Shop name").
				Description("Printed at the top of receipts").
				Value(&m.vals.shopName),
		).WithHideFunc(func() bool { return m.vals.mode != modeRegister }),
	).WithWidth(45).WithShowHelp(false)
}

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(loginResultMsg); ok {
		m.busy = false

		if res.err != nil {
			m.err = res.err
			m.vals.password = ""
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		return m, func() tea.Msg { return LoggedInMsg{User: res.user} }
	}

	if m.busy {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.busy = true
		m.err = nil

		return m, m.submitCmd()
	case huh.StateAborted:
		return m, tea.Quit
	}

	return m, cmd
}

func (m LoginModel) View() string {
	header := titleStyle.Render("Voice POS")

	body := m.form.View()
	if m.busy {
		body = "Signing in..."
	}

	if m.err != nil {
		body = errorStyle.Render(describeLoginError(m.err)) + "\n\n" + body
	}

	return lipgloss.NewStyle().Padding(2).Render(header + "\n\n" + body)
}

func describeLoginError(err error) string {
	switch {
	case errors.Is(err, user.ErrInvalidCredentials):
		return "Wrong username or password."
	case errors.Is(err, user.ErrUsernameTaken):
		return "That username is already taken."
	}

	return fmt.Sprintf("Error: %v", err)
}

type loginResultMsg struct {
	user *user.User
	err  error
}

func (m LoginModel) submitCmd() tea.Cmd {
	vals := *m.vals

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if vals.mode == modeRegister {
			u, err := m.users.Register(ctx, user.RegisterParams{
				Username: vals.username,
				Password: vals.password,
				ShopName: vals.shopName,
			})

			return loginResultMsg{user: u, err: err}
		}

		u, err := m.users.Authenticate(ctx, vals.username, vals.password)

		return loginResultMsg{user: u, err: err}
	}
}
