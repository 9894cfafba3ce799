// Package mailer delivers the rendered forecast image by email.
package mailer

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"strings"

	"github.com/wneessen/go-mail"
)

// Environment variable names for SMTP credentials. They are never stored
// in the config file; local runs load them from .env.
const (
	EnvSMTPUser = "SKYSTORY_SMTP_USER"
	EnvSMTPPass = "SKYSTORY_SMTP_PASS"
)

//go:embed body.html.tmpl
var bodyHTML string

var bodyTemplate = template.Must(template.New("body").Parse(bodyHTML))

// ///////////////////////////////////////////////
// Options
// ///////////////////////////////////////////////

// Options holds delivery settings. Credentials live separately so the
// options can come straight from the config file.
type Options struct {
	Host    string
	Port    int
	From    string
	To      []string
	Subject string
}

// Credentials are the SMTP submission credentials.
type Credentials struct {
	User string
	Pass string
}

// CredentialsFromEnv reads SMTP credentials from the environment. Both
// variables must be set when email delivery is enabled.
func CredentialsFromEnv() (Credentials, error) {
	c := Credentials{
		User: os.Getenv(EnvSMTPUser),
		Pass: os.Getenv(EnvSMTPPass),
	}
	if c.User == "" || c.Pass == "" {
		return Credentials{}, fmt.Errorf("SMTP credentials missing: set %s and %s", EnvSMTPUser, EnvSMTPPass)
	}
	return c, nil
}

// ///////////////////////////////////////////////
// Delivery
// ///////////////////////////////////////////////

type bodyData struct {
	Date   string
	Cities int
}

// Send submits the forecast image over SMTP with STARTTLS. The date is
// the header-formatted forecast date; it lands in the subject and the
// HTML body.
func Send(ctx context.Context, log *slog.Logger, opts Options, creds Credentials, date string, cities int, imagePath string) error {
	if _, err := os.Stat(imagePath); err != nil {
		return fmt.Errorf("forecast image: %w", err)
	}

	var body bytes.Buffer
	if err := bodyTemplate.Execute(&body, bodyData{Date: date, Cities: cities}); err != nil {
		return fmt.Errorf("render email body: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(opts.From); err != nil {
		return fmt.Errorf("sender %q: %w", opts.From, err)
	}
	if err := msg.To(opts.To...); err != nil {
		return fmt.Errorf("recipients: %w", err)
	}
	msg.Subject(strings.ReplaceAll(opts.Subject, "{date}", date))
	msg.SetBodyString(mail.TypeTextHTML, body.String())
	msg.AttachFile(imagePath)

	client, err := mail.NewClient(opts.Host,
		mail.WithPort(opts.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(creds.User),
		mail.WithPassword(creds.Pass),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	log.Info("forecast email sent",
		"to", strings.Join(opts.To, ","),
		"date", date,
		"image", imagePath)
	return nil
}
