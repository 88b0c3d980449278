// Package receipt renders order receipts and hands them to a print and
// share pipeline.
package receipt

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	"storefront/internal/models"
)

var receiptTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"price": FormatPrice,
}).Parse(`
      <html>
        <body style="font-family: sans-serif; padding: 20px; color: #000;">
          <h1>🧾 Payment Receipt</h1>
          <p><strong>Order ID:</strong> {{.ID}}</p>
          <p><strong>Product:</strong> {{.Product.Title}}</p>
          <p><strong>Amount Paid:</strong> ₹{{price .Product.Price}}</p>
          <p><strong>Buyer Name:</strong> {{.Buyer.Name}}</p>
          <p><strong>Address:</strong> {{.Buyer.Address}}</p>
          <p><strong>Payment Method:</strong> {{.Buyer.PaymentMethod}}</p>
          <p><strong>Date:</strong> {{.Date}}</p>
          <hr />
          <p style="text-align:center;">Thank you for shopping with us!</p>
        </body>
      </html>
`))

// FormatPrice prints a price with the fewest digits that round-trip, so 695
// stays "695" and 109.95 stays "109.95".
func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// Render returns the receipt document for order. Field values are HTML
// escaped.
func Render(order models.Order) (string, error) {
	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, order); err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return buf.String(), nil
}

// Field is one labelled line of the on-screen receipt.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Fields lists the on-screen receipt lines in display order.
func Fields(order models.Order) []Field {
	return []Field{
		{Label: "Date", Value: order.Date},
		{Label: "Product", Value: order.Product.Title},
		{Label: "Amount Paid", Value: "₹ " + FormatPrice(order.Product.Price)},
		{Label: "Buyer Name", Value: order.Buyer.Name},
		{Label: "Delivery Address", Value: order.Buyer.Address},
		{Label: "Payment Method", Value: order.Buyer.PaymentMethod},
	}
}
