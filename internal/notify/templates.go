package notify

import (
    "bytes"
    "fmt"
    "html/template"
)

var templates = template.Must(template.New("mail").Parse(`
{{define "venue-approved"}}<h1>Your Venue Has Been Approved!</h1>
<p>Dear {{.ownerName}},</p>
<p>Great news! Your venue "{{.venueName}}" has been approved and is now live on our platform.</p>
<p>You can now:</p>
<ul>
  <li>Access your venue dashboard</li>
  <li>Manage your tables and bookings</li>
  <li>Update your venue information</li>
</ul>
{{if .appURL}}<p>Login to your account to get started: <a href="{{.appURL}}/venue-owner/login">Login Here</a></p>{{end}}
<p>Best regards,<br>The Eddy Team</p>{{end}}

{{define "venue-rejected"}}<h1>Venue Registration Update</h1>
<p>Dear {{.ownerName}},</p>
<p>We have reviewed your venue "{{.venueName}}" and unfortunately, we cannot approve it at this time.</p>
<p>Reason for rejection:</p>
<p><em>{{.reason}}</em></p>
<p>You can register the venue again with updated information to be reviewed.</p>
<p>If you have any questions, please contact our support team.</p>
<p>Best regards,<br>The Eddy Team</p>{{end}}

{{define "admin-venue-submitted"}}<h1>New Venue Submission</h1>
<p>A new venue is waiting for approval.</p>
<ul>
  <li>Venue: {{.venueName}}</li>
  <li>Owner: {{.ownerName}}</li>
  <li>Owner email: {{.ownerEmail}}</li>
</ul>{{end}}

{{define "booking-confirmed"}}<h1>Booking Confirmed</h1>
<p>Hi {{.customerName}},</p>
<p>Your booking at {{.venueName}} is confirmed. Total charged: {{.total}}.</p>
{{if .perks}}<p>Perks unlocked: {{.perks}}</p>{{end}}
<p>Booking reference: {{.bookingID}}</p>
<p>See you soon,<br>The Eddy Team</p>{{end}}
`))

// Render returns the HTML body of msg.  Unknown templates are an error.
func Render(msg Message) (string, error) {
    t := templates.Lookup(msg.Template)
    if t == nil {
        return "", fmt.Errorf("unknown template %q", msg.Template)
    }
    data := msg.Data
    if data == nil {
        data = map[string]string{}
    }
    var buf bytes.Buffer
    if err := t.Execute(&buf, data); err != nil {
        return "", fmt.Errorf("render %s: %w", msg.Template, err)
    }
    return buf.String(), nil
}
