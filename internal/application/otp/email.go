package otp

import (
	"bytes"
	"html/template"
	"strconv"
	"time"

	"github.com/fitness-hub/core/internal/domain"
)

const emailSubject = "Your Verification Code - Fitness Hub"

var emailHTML = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; background-color: #1a1a1a; color: #ffffff; padding: 20px; }
    .container { max-width: 600px; margin: 0 auto; background: linear-gradient(135deg, #1a1a1a 0%, #2d1a1a 100%); border-radius: 16px; padding: 40px; border: 2px solid #ff3333; }
    .header { text-align: center; margin-bottom: 30px; }
    .logo { color: #ff3333; font-size: 28px; font-weight: bold; }
    .otp-box { background: rgba(255, 51, 51, 0.1); border: 2px solid #ff3333; border-radius: 12px; padding: 30px; text-align: center; margin: 30px 0; }
    .otp-code { font-size: 36px; font-weight: bold; color: #ff3333; letter-spacing: 8px; }
    .message { color: #cccccc; line-height: 1.6; text-align: center; }
    .warning { color: #ff6666; font-size: 14px; margin-top: 20px; text-align: center; }
    .footer { margin-top: 30px; text-align: center; color: #666666; font-size: 12px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header"><div class="logo">FITNESS HUB</div></div>
    <p class="message">Your email verification code is:</p>
    <div class="otp-box"><div class="otp-code">{{.Code}}</div></div>
    <p class="message">Enter this code to verify your email and complete your registration.</p>
    <p class="warning">This code expires in {{.Minutes}} minutes. Do not share it with anyone.</p>
    <div class="footer">
      <p>If you didn't request this code, please ignore this email.</p>
      <p>&copy; {{.Year}} Fitness Hub. All rights reserved.</p>
    </div>
  </div>
</body>
</html>
`))

// verificationEmail renders the message carrying code, valid for ttl.
func verificationEmail(to, code string, ttl time.Duration, now time.Time) domain.Email {
	var buf bytes.Buffer
	data := struct {
		Code    string
		Minutes int
		Year    int
	}{Code: code, Minutes: int(ttl / time.Minute), Year: now.Year()}
	_ = emailHTML.Execute(&buf, data) // static template, plain string data

	return domain.Email{
		To:      to,
		Subject: emailSubject,
		HTML:    buf.String(),
		Text: "Your Fitness Hub verification code is " + code + ".\n\n" +
			"It expires in " + strconv.Itoa(data.Minutes) + " minutes. Do not share it with anyone.\n",
	}
}
