package notification

import (
	"context"
	"fmt"

	"github.com/delordemm1/go-identity-service/internal/notification/templates"
)

// defaultEngine renders the embedded scenario templates. A disk-backed
// engine (for dev reload) can be swapped in through SetTemplateEngine.
var defaultEngine = templates.NewEngine(templates.Config{}, nil)

// SetTemplateEngine replaces the engine used by SendTemplate. Intended for
// wiring a disk/reload engine at startup, before any sends.
func SetTemplateEngine(e *templates.Engine) {
	if e != nil {
		defaultEngine = e
	}
}

// SendTemplate renders a typed template scenario and dispatches it through
// the notification service on the given channels.
func SendTemplate[T any](ctx context.Context, svc Service, h templates.Handle[T], recipient string, channels []Channel, priority Priority, data T) error {
	rendered, err := templates.Render(ctx, defaultEngine, h, data)
	if err != nil {
		return fmt.Errorf("render template %q: %w", h.ID(), err)
	}

	return svc.Send(ctx, Notification{
		Recipient: recipient,
		Channels:  channels,
		Priority:  priority,
		Content: Content{
			EmailSubject:  rendered.Subject,
			EmailHTMLBody: rendered.EmailHTML,
			SMSText:       rendered.SMSText,
			PushTitle:     rendered.PushTitle,
			PushBody:      rendered.PushBody,
		},
	})
}
