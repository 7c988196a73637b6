package constant

const (
	EmailQuoteSubject   = "Your Catering Quote - %s"
	EmailSentMessage    = "Quote sent successfully!"
	EmailFormatHTML     = "html"
	EmailFormatPlain    = "plain"
	EmailDeliveryDirect = "direct"
	EmailDeliveryQueue  = "queue"
)

const EmailQuotePlainTemplate = `Hi {{.ContactName}},

Thank you for considering us for your event. Below is your catering quote.

Event Details
------------------------------------------
Name: {{.ContactName}}
Email: {{.ContactEmail}}
Event Type: {{.EventType}}
Event Date: {{.EventDate}}
------------------------------------------

Order Summary
------------------------------------------
{{range .Lines}}{{.Name}} x {{.Quantity}} @ {{.UnitPrice}} = {{.LineTotal}}
{{else}}No items selected.
{{end}}------------------------------------------
Subtotal: {{.Subtotal}}
{{if .ShowFee}}Service Fee ({{.FeePercent}}%): {{.ServiceFee}}
{{end}}{{if .ShowTax}}Tax ({{.TaxPercent}}%): {{.Tax}}
{{end}}Grand Total: {{.GrandTotal}}

Note: This is an automated message, please do not reply to this email.
`

const EmailQuoteHTMLTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <style>
    body { font-family: Arial, sans-serif; color: #333; background-color: #f4f4f4; margin: 0; padding: 0; }
    .container { max-width: 600px; margin: 20px auto; background: #fff; border-radius: 8px; overflow: hidden; }
    .header { background: #2a9d8f; color: #fff; padding: 20px; text-align: center; }
    .content { padding: 20px; }
    table { width: 100%; border-collapse: collapse; margin-top: 15px; }
    th, td { text-align: left; padding: 10px; border-bottom: 1px solid #ddd; }
    th { background: #e9ecef; }
    .total-row td { font-weight: bold; }
    .footer { background: #e9ecef; padding: 15px; text-align: center; font-size: 12px; color: #666; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header"><h1>Your Catering Quote</h1></div>
    <div class="content">
      <p>Hi {{.ContactName}},</p>
      <p>Thank you for considering us for your event on <strong>{{.EventDate}}</strong>. Below is your quote:</p>
      <h2>Event Details</h2>
      <ul>
        <li><strong>Name:</strong> {{.ContactName}}</li>
        <li><strong>Email:</strong> {{.ContactEmail}}</li>
        <li><strong>Event Type:</strong> {{.EventType}}</li>
        <li><strong>Event Date:</strong> {{.EventDate}}</li>
      </ul>
      <h2>Order Summary</h2>
      <table>
        <tr><th>Menu Item</th><th>Qty</th><th>Unit Price</th><th>Line Total</th></tr>
        {{range .Lines}}<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{.UnitPrice}}</td><td>{{.LineTotal}}</td></tr>
        {{else}}<tr><td colspan="4">No items selected.</td></tr>
        {{end}}<tr class="total-row"><td colspan="3">Subtotal</td><td>{{.Subtotal}}</td></tr>
        {{if .ShowFee}}<tr><td colspan="3">Service Fee ({{.FeePercent}}%)</td><td>{{.ServiceFee}}</td></tr>
        {{end}}{{if .ShowTax}}<tr><td colspan="3">Tax ({{.TaxPercent}}%)</td><td>{{.Tax}}</td></tr>
        {{end}}<tr class="total-row"><td colspan="3">Grand Total</td><td>{{.GrandTotal}}</td></tr>
      </table>
    </div>
    <div class="footer">This is an automated message, please do not reply to this email.</div>
  </div>
</body>
</html>
`
