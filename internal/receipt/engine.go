package receipt

import (
	"fmt"
	"strings"
	"text/template"

	"storefront-backend/internal/domain"
)

const confirmationTmpl = `Order {{.OrderID}}
Placed at: {{.PlacedAt}}
{{range .Lines}}  {{.ProductID}}  x{{.Quantity}}  @ {{.UnitPrice}}
{{end}}Total: {{.Total}}
Shipping to address {{.AddressID}}
`

// Engine renders plain-text order confirmations.
type Engine struct {
	tmpl *template.Template
}

func NewEngine() (Engine, error) {
	tmpl, err := template.New("confirmation").Parse(confirmationTmpl)
	if err != nil {
		return Engine{}, fmt.Errorf("template.Parse: %w", err)
	}

	return Engine{tmpl: tmpl}, nil
}

type confirmationData struct {
	OrderID   string
	PlacedAt  string
	Lines     []confirmationLine
	Total     string
	AddressID string
}

type confirmationLine struct {
	ProductID string
	Quantity  int32
	UnitPrice string
}

func (e Engine) Render(order domain.Order) (string, error) {
	data := confirmationData{
		OrderID:   order.ID.String(),
		PlacedAt:  order.CreatedAt.UTC().Format("2006-01-02 15:04:05 UTC"),
		Total:     formatMoney(order.Total),
		AddressID: order.ShippingAddressID.String(),
	}

	for _, item := range order.Items {
		data.Lines = append(data.Lines, confirmationLine{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: formatMoney(item.UnitPrice),
		})
	}

	var sb strings.Builder
	if err := e.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("tmpl.Execute: %w", err)
	}

	return sb.String(), nil
}

func formatMoney(m domain.Money) string {
	return m.Amount.StringFixed(2) + " " + m.Currency.String()
}
