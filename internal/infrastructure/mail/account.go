package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/ideation/backend/internal/application/identity"
	"github.com/ideation/backend/internal/application/notification"
)

var accountTemplates = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
<p>Welcome to {{ .AppName }}!</p>
<p>Please confirm your email address to start sharing ideas:</p>
<p><a href="{{ .Link }}">Verify my email</a></p>
<p style="color: #777; font-size: 12px;">If you did not create an account you can ignore this email.</p>
</body>
</html>
`))

func init() {
	template.Must(accountTemplates.New("password_reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
<p>Someone asked to reset the password of your {{ .AppName }} account.</p>
<p><a href="{{ .Link }}">Choose a new password</a></p>
<p style="color: #777; font-size: 12px;">If this was not you, no action is needed.</p>
</body>
</html>
`))
}

var _ identity.AccountMailer = (*AccountMailer)(nil)

// AccountMailer sends the verification and password reset emails through
// any notification.Mailer
type AccountMailer struct {
	appName string
	sender  notification.Mailer
}

// NewAccountMailer creates a new AccountMailer
func NewAccountMailer(appName string, sender notification.Mailer) *AccountMailer {
	return &AccountMailer{appName: appName, sender: sender}
}

// SendVerification mails the email verification link
func (m *AccountMailer) SendVerification(ctx context.Context, to, link string) error {
	return m.send(ctx, to, "verification", "Verify your "+m.appName+" email", link)
}

// SendPasswordReset mails the password reset link
func (m *AccountMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	return m.send(ctx, to, "password_reset", "Reset your "+m.appName+" password", link)
}

func (m *AccountMailer) send(ctx context.Context, to, name, subject, link string) error {
	var buf bytes.Buffer
	err := accountTemplates.ExecuteTemplate(&buf, name, struct{ AppName, Link string }{m.appName, link})
	if err != nil {
		return fmt.Errorf("render %s email: %w", name, err)
	}
	return m.sender.Send(ctx, notification.EmailMessage{To: to, Subject: subject, HTML: buf.String()})
}
