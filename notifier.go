package accounts

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Message is a rendered notification ready for delivery.
type Message struct {
	To      string
	Subject string
	Body    string
}

// MessageSender delivers rendered messages. SMTPSender is the bundled
// implementation; tests swap in a recorder.
type MessageSender interface {
	Send(ctx context.Context, msg Message) error
}

// TemplateNotifier renders the lifecycle notifications and hands them to
// a MessageSender.
type TemplateNotifier struct {
	sender   MessageSender
	baseURL  string
	appName  string
	logger   Logger
	tpls     map[string]*template.Template
	subjects map[string]string
}

var _ Notifier = (*TemplateNotifier)(nil)

func NewTemplateNotifier(sender MessageSender, baseURL, appName string) (*TemplateNotifier, error) {
	n := &TemplateNotifier{
		sender:  sender,
		baseURL: baseURL,
		appName: appName,
		logger:  &defLogger{},
		tpls:    map[string]*template.Template{},
		subjects: map[string]string{
			NotificationWelcomeActive:  "Welcome to {{.AppName}}",
			NotificationWelcomePending: "Activate your {{.AppName}} account",
			NotificationReactivation:   "Confirm your new email address",
			NotificationPasswordReset:  "Reset your {{.AppName}} password",
		},
	}

	for name, body := range notificationBodies {
		tpl, err := template.New(name).Parse(body)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "unable to parse notification template").
				WithMetadata(map[string]any{
					"template": name,
				})
		}
		n.tpls[name] = tpl
	}

	return n, nil
}

func (n *TemplateNotifier) SetLogger(logger Logger) {
	if logger != nil {
		n.logger = logger
	}
}

func (n *TemplateNotifier) Send(ctx context.Context, name, recipient string, data map[string]any) error {
	tpl, ok := n.tpls[name]
	if !ok {
		return goerrors.New("unknown notification template", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{
				"template": name,
			})
	}

	payload := map[string]any{
		"AppName": n.appName,
		"BaseURL": n.baseURL,
		"Year":    time.Now().Year(),
	}
	for k, v := range data {
		payload[k] = v
	}

	var body bytes.Buffer
	if err := tpl.Execute(&body, payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to render notification").
			WithMetadata(map[string]any{
				"template": name,
			})
	}

	subject, err := n.renderSubject(name, payload)
	if err != nil {
		return err
	}

	n.logger.Debug("sending %s notification to %s", name, recipient)

	return n.sender.Send(ctx, Message{
		To:      recipient,
		Subject: subject,
		Body:    body.String(),
	})
}

func (n *TemplateNotifier) renderSubject(name string, payload map[string]any) (string, error) {
	raw := n.subjects[name]

	tpl, err := template.New(name + ":subject").Parse(raw)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "unable to parse notification subject")
	}

	var out bytes.Buffer
	if err := tpl.Execute(&out, payload); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "unable to render notification subject")
	}

	return out.String(), nil
}

var notificationBodies = map[string]string{
	NotificationWelcomeActive: `<html><body>
<p>Hi {{.DisplayName}},</p>
<p>Your {{.AppName}} account is ready. You can sign in right away with the login name <strong>{{.LoginName}}</strong>.</p>
<p>{{.AppName}} &copy; {{.Year}}</p>
</body></html>`,
	NotificationWelcomePending: `<html><body>
<p>Hi {{.DisplayName}},</p>
<p>Thanks for signing up for {{.AppName}}. Activate your account by visiting the link below:</p>
<p><a href="{{.BaseURL}}/activate?email={{.Email}}&code={{.Code}}">{{.BaseURL}}/activate?email={{.Email}}&code={{.Code}}</a></p>
<p>{{.AppName}} &copy; {{.Year}}</p>
</body></html>`,
	NotificationReactivation: `<html><body>
<p>Hi {{.DisplayName}},</p>
<p>You changed the email address on your {{.AppName}} account. Confirm the new address to regain full access:</p>
<p><a href="{{.BaseURL}}/activate?email={{.Email}}&code={{.Code}}">{{.BaseURL}}/activate?email={{.Email}}&code={{.Code}}</a></p>
<p>{{.AppName}} &copy; {{.Year}}</p>
</body></html>`,
	NotificationPasswordReset: `<html><body>
<p>Hi {{.DisplayName}},</p>
<p>We received a request to reset the password on your {{.AppName}} account. Use the link below to continue:</p>
<p><a href="{{.BaseURL}}/reset?email={{.Email}}&code={{.Code}}">{{.BaseURL}}/reset?email={{.Email}}&code={{.Code}}</a></p>
<p>If you did not ask for this you can ignore this message.</p>
<p>{{.AppName}} &copy; {{.Year}}</p>
</body></html>`,
}

// SMTPSender delivers messages over SMTP with an implicit TLS
// connection.
type SMTPSender struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

var _ MessageSender = (*SMTPSender)(nil)

func (s *SMTPSender) Send(_ context.Context, msg Message) error {
	addr := s.Host + ":" + s.Port

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.Host})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "unable to reach mail server")
	}

	client, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "unable to open mail session")
	}
	defer client.Close()

	auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
	if err := client.Auth(auth); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryAuth, "mail server rejected credentials")
	}

	if err := client.Mail(s.From); err != nil {
		return err
	}
	if err := client.Rcpt(msg.To); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n",
		s.From, msg.To, msg.Subject)

	if _, err := w.Write([]byte(headers + msg.Body)); err != nil {
		return err
	}

	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}
