package jobs

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/logger"
	"ngo-admin-backend/internal/report"
	"ngo-admin-backend/internal/service"
)

// PreviousMonth is the single-month period before now's month.
func PreviousMonth(now time.Time) report.Period {
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
	return report.Period{Type: report.PeriodSingle, Year: prev.Year(), Month: int(prev.Month())}
}

// ArchiveMonthlyReports archives last month's report for every NGO and mails
// the download link to the NGO's contact address. NGOs without events in the
// month are skipped.
func (jr *JobRunner) ArchiveMonthlyReports() {
	jr.runWithRecovery("ArchiveMonthlyReports", func() {
		ctx := context.Background()

		orgs, err := jr.services.Orgs.List(ctx)
		if err != nil {
			logger.Error("Failed to list organizations", "error", err)
			return
		}

		period := PreviousMonth(jr.now())
		archived, skipped, failed := 0, 0, 0
		for _, org := range orgs {
			sess := domain.Session{OrgCode: org.Code, Role: domain.AdminRoleSuperAdmin}
			key, err := jr.services.Reports.Archive(ctx, sess, period)
			if errors.Is(err, domain.ErrNoEvents) {
				skipped++
				continue
			}
			if err != nil {
				logger.Error("Failed to archive monthly report", "ngo_code", org.Code, "error", err)
				failed++
				continue
			}
			archived++

			if org.ContactEmail == "" {
				continue
			}
			url := jr.services.Archive.DownloadURL(key)
			if _, err := jr.services.Mailer.Send(ctx, reportMessage(org, period, url)); err != nil {
				logger.Error("Failed to mail monthly report link", "ngo_code", org.Code, "error", err)
			}
		}

		logger.Info("Monthly reports archived",
			"period", period.Label(),
			"archived", archived,
			"skipped", skipped,
			"failed", failed)
	})
}

func reportMessage(org domain.Organization, period report.Period, url string) *service.Message {
	subject := fmt.Sprintf("%s volunteer report for %s", org.Name, period.Label())
	text := fmt.Sprintf(`Hello %s team,

Your volunteer report for %s is ready:
%s

NGO Admin`, org.Name, period.Label(), url)
	body := fmt.Sprintf(`<p>Hello %s team,</p><p>Your volunteer report for %s is ready: <a href="%s">download</a></p><p>NGO Admin</p>`,
		html.EscapeString(org.Name), html.EscapeString(period.Label()), html.EscapeString(url))
	return &service.Message{To: org.ContactEmail, ToName: org.Name, Subject: subject, Text: text, HTML: body}
}
