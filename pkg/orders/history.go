package orders

import (
	"fmt"
	"strings"

	"github.com/example/fondantshop/pkg/models"
)

const historyDateLayout = "January 2, 2006"

// HistoryView is the display structure for the order history panel.
type HistoryView struct {
	Orders []OrderView
}

func (h HistoryView) Empty() bool { return len(h.Orders) == 0 }

type OrderView struct {
	ID            string
	Date          string
	ItemCount     string
	Summary       string
	Items         []ItemView
	Total         string
	CustomerEmail string
}

type ItemView struct {
	Name     string
	Image    string
	Variant  string
	Quantity int
	Subtotal string
}

// History projects orders into their display form. It does not touch the
// ledger.
func History(orders []models.Order) HistoryView {
	view := HistoryView{Orders: make([]OrderView, 0, len(orders))}
	for _, o := range orders {
		ov := OrderView{
			ID:            o.ID,
			Date:          o.Date.Format(historyDateLayout),
			ItemCount:     itemCountText(len(o.Items)),
			Summary:       summarize(o.Items),
			Total:         fmt.Sprintf("$%.2f", o.Total),
			CustomerEmail: o.CustomerEmail,
		}
		for _, item := range o.Items {
			ov.Items = append(ov.Items, ItemView{
				Name:     item.Name,
				Image:    item.Image,
				Variant:  item.Variant,
				Quantity: item.Quantity,
				Subtotal: fmt.Sprintf("$%.2f", item.Subtotal()),
			})
		}
		view.Orders = append(view.Orders, ov)
	}
	return view
}

func itemCountText(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}

// summarize names the first two items and counts the rest.
func summarize(items []models.OrderItem) string {
	names := make([]string, 0, 2)
	for i := 0; i < len(items) && i < 2; i++ {
		names = append(names, items[i].Name)
	}
	s := strings.Join(names, ", ")
	if len(items) > 2 {
		s += fmt.Sprintf(" +%d more", len(items)-2)
	}
	return s
}
