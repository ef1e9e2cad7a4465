package worker

// report_worker.go
// Processes daily-closing report jobs from QueueClosingReport.
// Renders a PDF summary of the closing and enqueues an email job so the
// supervisor receives a copy without blocking the closing request.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/elianismedina/restaurantposapi/internal/infra"

	"github.com/rs/zerolog/log"
)

// ClosingReportPayload is the job envelope sent to QueueClosingReport.
// All monetary fields are decimal strings to survive JSON round-trips intact.
type ClosingReportPayload struct {
	ClosingID    string `json:"closing_id"`
	RegisterID   string `json:"register_id"`
	ToEmail      string `json:"to_email"`
	ClosingDate  string `json:"closing_date"`
	ExpectedCash string `json:"expected_cash"`
	ActualCash   string `json:"actual_cash"`
	Discrepancy  string `json:"discrepancy"`
}

// ClosingReportWorker renders closing-report PDFs and hands delivery off to
// the email queue.
type ClosingReportWorker struct {
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewClosingReportWorker(dispatcher *Dispatcher, pdfStoragePath string) *ClosingReportWorker {
	return &ClosingReportWorker{dispatcher: dispatcher, pdfStoragePath: pdfStoragePath}
}

// Process renders the PDF and enqueues the email job.
func (w *ClosingReportWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ClosingReportPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("report_worker: invalid payload")
		return
	}

	pdfPath, err := infra.GenerateClosingPDF(infra.ClosingReportData{
		ClosingID:    payload.ClosingID,
		RegisterID:   payload.RegisterID,
		ClosingDate:  payload.ClosingDate,
		ExpectedCash: payload.ExpectedCash,
		ActualCash:   payload.ActualCash,
		Discrepancy:  payload.Discrepancy,
	}, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("closing_id", payload.ClosingID).Msg("report_worker: PDF generation failed")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("closing_id", payload.ClosingID).Msg("report_worker: PDF generated")

	if payload.ToEmail == "" {
		return
	}
	emailJob := EmailJobPayload{
		ToEmail: payload.ToEmail,
		Subject: fmt.Sprintf("Daily closing report — %s", payload.ClosingDate),
		Body: fmt.Sprintf(
			"Attached is the daily closing report.\nExpected cash: %s\nCounted cash: %s\nDiscrepancy: %s",
			payload.ExpectedCash, payload.ActualCash, payload.Discrepancy,
		),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", payload.ToEmail).Msg("report_worker: failed to enqueue email")
		return
	}
	log.Info().Str("email", payload.ToEmail).Msg("report_worker: email job enqueued")
}
