package scrape

import (
	"brrrr-analyzer/entities"
	"brrrr-analyzer/internal/utils/mailing"
	"fmt"
	"html"
	"strings"
)

type (
	// Notifier reports runs that did not finish cleanly.
	Notifier interface {
		NotifyRun(run *entities.ScrapeRun) error
	}

	noopNotifier struct{}

	mailNotifier struct {
		mailer  mailing.Mailer
		toEmail string
		appURL  string
	}
)

func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

func NewMailNotifier(mailer mailing.Mailer, toEmail string, appURL string) Notifier {
	return &mailNotifier{
		mailer:  mailer,
		toEmail: toEmail,
		appURL:  strings.TrimRight(appURL, "/"),
	}
}

func (noopNotifier) NotifyRun(*entities.ScrapeRun) error {
	return nil
}

func (n *mailNotifier) NotifyRun(run *entities.ScrapeRun) error {
	if !needsNotification(run) {
		return nil
	}
	subject := fmt.Sprintf("Scrape run %s: %s", run.Status, run.Query)
	return n.mailer.SendMail(n.toEmail, subject, n.renderBody(run))
}

func needsNotification(run *entities.ScrapeRun) bool {
	return run != nil &&
		(run.Status == entities.RunStatusFailed || run.Status == entities.RunStatusSucceededWithErrors)
}

func (n *mailNotifier) renderBody(run *entities.ScrapeRun) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Run <b>%s</b> for query <b>%s</b> finished with status <b>%s</b>.</p>",
		run.ID, html.EscapeString(run.Query), run.Status)
	fmt.Fprintf(&b, "<p>Found %d, inserted %d, skipped %d, errors %d.</p>",
		run.PropertiesFound, run.InsertedCount, run.SkippedCount, run.ErrorCount)

	if len(run.ErrorSamples) > 0 {
		b.WriteString("<ul>")
		for _, s := range run.ErrorSamples {
			fmt.Fprintf(&b, "<li>%s: %s</li>", html.EscapeString(s.ListingURL), html.EscapeString(s.Error))
		}
		b.WriteString("</ul>")
	}
	if n.appURL != "" {
		fmt.Fprintf(&b, `<p><a href="%s/scrape/runs/%s">View run</a></p>`, n.appURL, run.ID)
	}
	return b.String()
}
