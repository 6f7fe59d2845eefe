package view

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/product"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

// ImportModel loads catalog entries from a CSV sheet.
type ImportModel struct {
	CommonModel
	products *product.Service
	session  Session

	state      importState
	filePicker filepicker.Model
	result     *product.ImportResult

	status string
	err    error
}

func NewImportModel(products *product.Service, session Session) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		products:   products,
		session:    session,
		filePicker: fp,
	}
}

func (m ImportModel) Title() string { return "Import Products" }

func (m ImportModel) ShortHelp() string {
	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if m.state == importStateResult {
				m.state = importStateFilePick
				m.err = nil
				m.status = ""
				m.result = nil

				return m, m.filePicker.Init()
			}

			return m, Back
		}

	case importResultMsg:
		m.state = importStateResult

		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.result = msg.result
		m.status = fmt.Sprintf("Imported %d products, skipped %d rows.", len(msg.result.Created), len(msg.result.Skipped))

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select a product sheet (name, price, stock, category, barcode, low_stock_threshold):\n\n" + m.filePicker.View(),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	var sb strings.Builder

	sb.WriteString(successStyle.Render(m.status))

	if len(m.result.Skipped) > 0 {
		sb.WriteString("\n\nSkipped rows:\n")

		for _, rowErr := range m.result.Skipped {
			name := rowErr.Name
			if name == "" {
				name = "-"
			}

			fmt.Fprintf(&sb, "  line %d  %s  %s\n", rowErr.Line, name, faintStyle.Render(rowErr.Reason))
		}
	}

	sb.WriteString("\n\n(Esc to import another file)")

	return style.Render(sb.String())
}

// Messages

type importResultMsg struct {
	result *product.ImportResult
	err    error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	ownerID := m.session.User.ID

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.products.Import(ctx, ownerID, f)

		return importResultMsg{result: result, err: err}
	}
}
