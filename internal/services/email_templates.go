package services

import (
	"bytes"
	"html/template"

	"verideal_back_end/internal/models"
)

var orderConfirmationTmpl = template.Must(template.New("order").Funcs(template.FuncMap{
	"money": func(l models.CartLine) string { return l.LineTotal().StringFixed(2) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>Order Confirmation</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Order Confirmation - Order #{{.Order.ID}}</h2>
		<p>Thank you for your order, {{.Order.CustomerInfo.FirstName}}!</p>
		<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Product</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Qty</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>
				{{- range .Order.Items}}
				<tr>
					<td style="padding: 10px; border: 1px solid #ddd;">{{.Name}}</td>
					<td style="padding: 10px; border: 1px solid #ddd;">{{.Quantity}}</td>
					<td style="padding: 10px; border: 1px solid #ddd;">${{money .}}</td>
				</tr>
				{{- end}}
			</tbody>
			<tfoot>
				<tr><td colspan="2" style="padding: 6px; text-align: right;">Subtotal:</td><td>${{.Order.Subtotal.StringFixed 2}}</td></tr>
				<tr><td colspan="2" style="padding: 6px; text-align: right;">Shipping:</td><td>${{.Order.ShippingFee.StringFixed 2}}</td></tr>
				<tr><td colspan="2" style="padding: 6px; text-align: right;">Tax:</td><td>${{.Order.Tax.StringFixed 2}}</td></tr>
				<tr><td colspan="2" style="padding: 6px; text-align: right; font-weight: bold;">Total:</td><td style="font-weight: bold;">${{.Order.Total.StringFixed 2}}</td></tr>
			</tfoot>
		</table>
		<h3>Shipping Address:</h3>
		<p>
			{{.Order.CustomerInfo.FirstName}} {{.Order.CustomerInfo.LastName}}<br/>
			{{.Order.CustomerInfo.Address}}<br/>
			{{.Order.CustomerInfo.City}}, {{.Order.CustomerInfo.State}} {{.Order.CustomerInfo.Pincode}}
		</p>
		{{- if .QRCid}}
		<p style="text-align: center;"><img src="cid:{{.QRCid}}" alt="Order QR code" width="160" height="160"></p>
		{{- end}}
		<p style="margin-top: 30px; color: #555;">The VeriDeal team</p>
	</div>
</body>
</html>`))

var otpTmpl = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html lang="en">
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 480px; margin: auto; background-color: white; padding: 20px; border-radius: 10px; text-align: center;">
		<h2 style="color: #333;">Your VeriDeal sign-in code</h2>
		<p style="font-size: 32px; letter-spacing: 8px; font-weight: bold;">{{.Code}}</p>
		<p style="color: #666;">This code expires in {{.Minutes}} minutes. If you did not request it, ignore this email.</p>
	</div>
</body>
</html>`))

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html lang="en">
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f5f5f5;">
	<div style="max-width: 600px; margin: 40px auto; background-color: #ffffff; border-radius: 12px;">
		<div style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 50px 30px; text-align: center; border-radius: 12px 12px 0 0;">
			<h1 style="margin: 0; color: #ffffff; font-size: 32px;">Welcome to VeriDeal!</h1>
			<p style="margin: 15px 0 0 0; color: #ffffff; font-size: 18px;">Hello {{.Name}}</p>
		</div>
		<div style="padding: 40px 30px; text-align: center;">
			<p style="color: #333333; font-size: 16px; line-height: 1.6;">Thanks for signing up. Our latest deals are waiting for you.</p>
			<a href="{{.ShopURL}}" style="display: inline-block; padding: 16px 40px; background-color: #667eea; color: #ffffff; text-decoration: none; border-radius: 8px; font-weight: 600;">Start shopping</a>
		</div>
	</div>
</body>
</html>`))

var contactTmpl = template.Must(template.New("contact").Parse(`<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Message:</strong><br/>{{.Message}}</p>`))

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// OrderConfirmationHTML renders the receipt. qrCid is the content id of the
// inline QR image, empty when the receipt has none.
func OrderConfirmationHTML(order models.Order, qrCid string) (string, error) {
	return render(orderConfirmationTmpl, struct {
		Order models.Order
		QRCid string
	}{order, qrCid})
}

func OTPHTML(code string, minutes int) (string, error) {
	return render(otpTmpl, struct {
		Code    string
		Minutes int
	}{code, minutes})
}

func WelcomeHTML(name, shopURL string) (string, error) {
	return render(welcomeTmpl, struct{ Name, ShopURL string }{name, shopURL})
}

func ContactHTML(name, email, message string) (string, error) {
	return render(contactTmpl, struct{ Name, Email, Message string }{name, email, message})
}
