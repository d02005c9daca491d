package email

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/meetscribe/meetscribe/internal/domain/setting"
	"github.com/meetscribe/meetscribe/internal/shared/constants"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
	"github.com/meetscribe/meetscribe/internal/shared/services/markdown"
)

// fallbackTemplate is the hardcoded text used when the email_settings row
// for a key is missing or inactive.
type fallbackTemplate struct {
	subject string
	body    string
}

var fallbacks = map[string]fallbackTemplate{
	constants.EmailKeyAccountValidation: {
		subject: "Validate your account",
		body: "Hi {{.Name}},\n\n" +
			"Please validate your account by visiting:\n\n{{.ValidationURL}}\n\n" +
			"If you did not create an account, ignore this email.",
	},
	constants.EmailKeyWelcome: {
		subject: "Welcome aboard",
		body: "Hi {{.Name}},\n\n" +
			"Your account is verified and ready. Your meetings will start " +
			"appearing in the dashboard as soon as they are recorded.",
	},
	constants.EmailKeySubscriptionConfirmation: {
		subject: "Subscription confirmed",
		body: "Hi {{.Name}},\n\n" +
			"Your **{{.PlanName}}** subscription is active. Thanks for " +
			"subscribing!",
	},
}

// Notifier renders and sends templated notifications. Subject and body come
// from the email_settings row for the key when one is active; placeholders
// are expanded, the body is treated as markdown for the HTML alternative.
// Delivery failures are logged, never returned, so a failing SMTP relay
// cannot fail the request that triggered the notification.
type Notifier struct {
	settings setting.Repository
	sender   Sender
	markdown markdown.Service
	logger   logger.Interface
}

func NewNotifier(settings setting.Repository, sender Sender, md markdown.Service, logger logger.Interface) *Notifier {
	return &Notifier{
		settings: settings,
		sender:   sender,
		markdown: md,
		logger:   logger,
	}
}

// SendAccountValidation emails the validation link for a fresh account.
func (n *Notifier) SendAccountValidation(ctx context.Context, to, name, validationURL string) {
	n.send(ctx, constants.EmailKeyAccountValidation, to, map[string]string{
		"Name":          name,
		"ValidationURL": validationURL,
	})
}

// SendWelcome emails the post-verification welcome.
func (n *Notifier) SendWelcome(ctx context.Context, to, name string) {
	n.send(ctx, constants.EmailKeyWelcome, to, map[string]string{
		"Name": name,
	})
}

// SendSubscriptionConfirmation emails the post-checkout confirmation.
func (n *Notifier) SendSubscriptionConfirmation(ctx context.Context, to, name, planName string) {
	n.send(ctx, constants.EmailKeySubscriptionConfirmation, to, map[string]string{
		"Name":     name,
		"PlanName": planName,
	})
}

func (n *Notifier) send(ctx context.Context, key, to string, data map[string]string) {
	subject, body := n.resolveTemplate(ctx, key)

	renderedSubject, err := renderPlaceholders(subject, data)
	if err != nil {
		n.logger.Errorw("failed to render email subject", "key", key, "error", err)
		return
	}
	renderedBody, err := renderPlaceholders(body, data)
	if err != nil {
		n.logger.Errorw("failed to render email body", "key", key, "error", err)
		return
	}

	htmlBody, err := n.markdown.ToHTMLSanitized(renderedBody)
	if err != nil {
		n.logger.Warnw("failed to render email body as markdown, sending plain only",
			"key", key, "error", err)
		htmlBody = renderedBody
	}

	if err := n.sender.Send(to, renderedSubject, htmlBody, renderedBody); err != nil {
		n.logger.Errorw("failed to send notification email", "key", key, "to", to, "error", err)
		return
	}

	n.logger.Infow("notification email sent", "key", key, "to", to)
}

// resolveTemplate prefers the active email_settings row, then the fallback.
func (n *Notifier) resolveTemplate(ctx context.Context, key string) (string, string) {
	row, err := n.settings.GetByKey(ctx, key)
	if err != nil {
		n.logger.Warnw("failed to load email setting, using fallback", "key", key, "error", err)
	} else if row != nil && row.IsActive() {
		return row.Subject(), row.Body()
	}

	fb, ok := fallbacks[key]
	if !ok {
		return key, ""
	}
	return fb.subject, fb.body
}

func renderPlaceholders(text string, data map[string]string) (string, error) {
	tmpl, err := template.New("email").Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
