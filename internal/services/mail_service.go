package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"
)

type IMailService interface {
	// SendSignInMail delivers a magic link and the matching one-time code.
	SendSignInMail(ctx context.Context, to, link, code string) error
}

type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	FromName   string
	UseSSL     bool // implicit TLS, usually port 465
	RequireTLS bool // fail when STARTTLS is not offered

	AppName string
}

type smtpMailService struct {
	cfg     SMTPConfig
	htmlTpl *template.Template
	textTpl *template.Template
	dialer  *net.Dialer
}

func NewSMTPMailService(cfg SMTPConfig) (IMailService, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	htmlTpl, err := template.New("html").Parse(signInHTMLTemplate)
	if err != nil {
		return nil, err
	}
	textTpl, err := template.New("text").Parse(signInTextTemplate)
	if err != nil {
		return nil, err
	}

	return &smtpMailService{
		cfg:     cfg,
		htmlTpl: htmlTpl,
		textTpl: textTpl,
		dialer:  &net.Dialer{Timeout: 10 * time.Second},
	}, nil
}

type signInMailData struct {
	AppName string
	Link    string
	Code    string
	Year    int
}

const signInSubject = "Your sign-in link"

const signInHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>Sign in to {{.AppName}}</title>
  <style>
    body { margin: 0; padding: 32px 16px; background: #f5f3ee; color: #2d2a26;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; }
    .card { max-width: 560px; margin: 0 auto; background: #ffffff; border-radius: 14px; padding: 32px;
      box-shadow: 0 10px 30px rgba(0, 0, 0, 0.06); }
    .brand { font-weight: 700; letter-spacing: 0.4px; color: #b7791f; text-transform: uppercase; }
    h1 { font-size: 24px; margin: 16px 0; }
    p { line-height: 1.6; color: #4a4540; }
    .btn { display: inline-block; padding: 14px 28px; background: #b7791f; color: #ffffff !important;
      text-decoration: none; border-radius: 10px; font-weight: 600; }
    .code { font-size: 28px; letter-spacing: 6px; font-weight: 700; margin: 12px 0; }
    .muted { color: #8a837b; font-size: 13px; word-break: break-all; }
  </style>
</head>
<body>
  <div class="card">
    <div class="brand">{{.AppName}}</div>
    <h1>Continue your journey</h1>
    <p>Tap the button below to sign in. The link can be used once and expires soon.</p>
    <p><a class="btn" href="{{.Link}}">Sign in</a></p>
    <p>Or enter this code in the app:</p>
    <div class="code">{{.Code}}</div>
    <p class="muted">If you did not ask to sign in, you can ignore this email.<br>{{.Link}}</p>
    <p class="muted">&copy; {{.Year}} {{.AppName}}</p>
  </div>
</body>
</html>`

const signInTextTemplate = `Continue your journey

Open this link to sign in (single use):
{{.Link}}

Or enter this code in the app: {{.Code}}

If you did not ask to sign in, you can ignore this email.

{{.AppName}} (c) {{.Year}}
`

func (s *smtpMailService) SendSignInMail(ctx context.Context, to, link, code string) error {
	data := signInMailData{AppName: s.cfg.AppName, Link: link, Code: code, Year: time.Now().Year()}

	var html, text bytes.Buffer
	if err := s.htmlTpl.Execute(&html, data); err != nil {
		return err
	}
	if err := s.textTpl.Execute(&text, data); err != nil {
		return err
	}
	return s.send(ctx, to, signInSubject, html.String(), text.String())
}

func (s *smtpMailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	boundary := fmt.Sprintf("alt_%d", time.Now().UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = fmt.Fprintf(&msg, format, a...) }

	write("From: %s\r\n", s.fromHeader())
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	write("Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	write("%s\r\n\r\n", textBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	write("%s\r\n\r\n", htmlBody)

	write("--%s--\r\n", boundary)
	return msg.Bytes()
}

func (s *smtpMailService) send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	msg := s.buildMessage(to, subject, htmlBody, textBody)
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}

	var conn net.Conn
	var err error
	if s.cfg.UseSSL {
		conn, err = (&tls.Dialer{NetDialer: s.dialer, Config: tlsCfg}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = s.dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if !s.cfg.UseSSL {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err = c.StartTLS(tlsCfg); err != nil {
				return err
			}
		} else if s.cfg.RequireTLS {
			return fmt.Errorf("server does not support STARTTLS and RequireTLS=true")
		}
	}

	if s.cfg.Username != "" {
		if err = c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return err
		}
	}
	if err = c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpMailService) fromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mime.BEncoding.Encode("UTF-8", name), s.cfg.From)
}

// logMailService writes sign-in mail to the log instead of sending it.
// Used in development.
type logMailService struct {
	log *zap.Logger
}

func NewLogMailService(log *zap.Logger) IMailService {
	return &logMailService{log: log}
}

func (l *logMailService) SendSignInMail(_ context.Context, to, link, code string) error {
	l.log.Info("sign-in mail",
		zap.String("to", to),
		zap.String("link", link),
		zap.String("code", code),
	)
	return nil
}
