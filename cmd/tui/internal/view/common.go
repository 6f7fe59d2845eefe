package view

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/dashboard"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/product"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/receipt"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/sale"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/user"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/voice"
)

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// Services bundles what the screens call into.
type Services struct {
	Users     *user.Service
	Products  *product.Service
	Sales     *sale.Service
	Dashboard *dashboard.Service
	Resolver  *voice.Resolver
}

// Session is the signed-in operator and the shop settings the screens share.
type Session struct {
	User     *user.User
	Location *time.Location
	Currency string
	TaxRate  decimal.Decimal
}

func (s Session) ReceiptOptions() receipt.Options {
	return receipt.Options{
		ShopName: s.User.ShopName,
		Cashier:  s.User.Username,
		Currency: s.Currency,
		Location: s.Location,
	}
}
