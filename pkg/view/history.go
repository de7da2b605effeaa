package view

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/example/fondantshop/pkg/dom"
	"github.com/example/fondantshop/pkg/orders"
)

const OrderHistoryID = "order-history-container"

var emptyHistoryTmpl = template.Must(template.New("empty").Parse(`<div class="text-center py-5">
<i class="fas fa-shopping-basket fa-4x mb-3"></i>
<h4>No Orders Yet</h4>
<p>Start shopping to see your order history here!</p>
<a href="/products" class="btn btn-primary mt-3"><i class="fas fa-shopping-bag"></i> Browse Products</a>
</div>`))

var historyTmpl = template.Must(template.New("history").Parse(`<div class="orders-list">
{{- range .Orders}}
<div class="order-card mb-3" id="order-{{.ID}}">
  <div class="order-header">
    <h5 class="mb-1"><i class="fas fa-box"></i> Order {{.ID}}</h5>
    <small class="text-muted order-date">{{.Date}}</small>
    <span class="badge bg-success"><i class="fas fa-check-circle"></i> Completed</span>
  </div>
  <div class="order-details mb-3">
    <p class="order-summary"><strong>{{.ItemCount}}:</strong> {{.Summary}}</p>
    <p class="order-total">Total: {{.Total}}</p>
  </div>
  <div class="order-items-list mt-3">
  {{- range .Items}}
    <div class="order-item">
      {{- if .Image}}<img src="{{.Image}}" alt="{{.Name}}">{{end}}
      <div class="item-name">{{.Name}}</div>
      {{- if .Variant}}<small class="text-muted item-variant">{{.Variant}}</small>{{end}}
      <div class="item-quantity">x{{.Quantity}}</div>
      <div class="item-subtotal">{{.Subtotal}}</div>
    </div>
  {{- end}}
  </div>
  <div class="mt-3"><small class="text-muted"><i class="fas fa-info-circle"></i> Order confirmation sent to {{.CustomerEmail}}</small></div>
</div>
{{- end}}
</div>`))

// OrderHistory renders the history into the element with id containerID.
// It reports false when the container is missing.
func OrderHistory(doc *dom.Document, containerID string, history orders.HistoryView) (bool, error) {
	container := doc.ByID(containerID)
	if container == nil {
		return false, nil
	}

	tmpl := historyTmpl
	if history.Empty() {
		tmpl = emptyHistoryTmpl
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, history); err != nil {
		return true, fmt.Errorf("failed to render order history: %w", err)
	}
	return true, container.SetInnerHTML(buf.String())
}
