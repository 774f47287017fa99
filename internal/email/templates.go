package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/artyaffairs/storefront/internal/models"
)

// Entry is one labelled row of a notification table.
type Entry struct {
	Label string
	Value string
}

var tableTemplate = template.Must(template.New("table").Parse(`
<div style="font-family: 'Segoe UI', sans-serif; background: #f9fafb; padding: 24px;">
  <div style="max-width: 640px; margin: 0 auto; background: #ffffff; border-radius: 12px; border: 1px solid #e5e7eb; overflow: hidden;">
    <div style="padding: 20px 24px; background: #1b5e20; color: #ffffff;">
      <h2 style="margin: 0; font-size: 20px;">{{.Title}}</h2>
    </div>
    <table style="width: 100%; border-collapse: collapse;">
      <tbody>
      {{- range .Entries}}
        <tr>
          <td style="padding: 8px 12px; font-weight: 600; vertical-align: top; width: 160px;">{{.Label}}</td>
          <td style="padding: 8px 12px; color: #374151;">{{if .Value}}{{.Value}}{{else}}-{{end}}</td>
        </tr>
      {{- end}}
      </tbody>
    </table>
  </div>
</div>
`))

// BuildHTML renders a titled two-column table. Values are HTML-escaped; empty
// values render as "-".
func BuildHTML(title string, entries []Entry) (string, error) {
	var buf bytes.Buffer
	err := tableTemplate.Execute(&buf, struct {
		Title   string
		Entries []Entry
	}{title, entries})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendOrderReceipt emails the buyer a summary of a completed checkout.
func (m *Mailer) SendOrderReceipt(ctx context.Context, r models.OrderReceipt) error {
	entries := []Entry{
		{Label: "Payment ID", Value: r.PaymentID},
		{Label: "Order ID", Value: r.OrderID},
	}
	for _, item := range r.Items {
		entries = append(entries, Entry{
			Label: item.Title,
			Value: fmt.Sprintf("%d x Rs. %s = Rs. %s", item.Quantity, item.Price.StringFixed(2), item.LineTotal().StringFixed(2)),
		})
	}
	entries = append(entries, Entry{Label: "Total", Value: "Rs. " + r.Total.StringFixed(2)})

	html, err := BuildHTML("Thank you for your order", entries)
	if err != nil {
		return err
	}
	_, err = m.Send(ctx, Message{
		To:      []string{r.User.Email},
		Subject: "Your Arty Affairs order " + r.OrderID,
		HTML:    html,
	})
	return err
}

// Enquiry is a contact, commission or workshop request from the site.
type Enquiry struct {
	Kind    string `json:"kind"`
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// SendEnquiry forwards an enquiry to the studio inbox with reply-to set to the sender.
func (m *Mailer) SendEnquiry(ctx context.Context, e Enquiry) error {
	kind := e.Kind
	if kind == "" {
		kind = "General"
	}
	html, err := BuildHTML(kind+" enquiry", []Entry{
		{Label: "Name", Value: e.Name},
		{Label: "Email", Value: e.Email},
		{Label: "Phone", Value: e.Phone},
		{Label: "Subject", Value: e.Subject},
		{Label: "Message", Value: e.Message},
	})
	if err != nil {
		return err
	}
	subject := e.Subject
	if subject == "" {
		subject = kind + " enquiry from " + e.Name
	}
	_, err = m.Send(ctx, Message{
		To:      []string{m.EnquiryTo},
		Subject: subject,
		HTML:    html,
		ReplyTo: e.Email,
	})
	return err
}
