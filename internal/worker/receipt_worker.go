package worker

// Processes receipt jobs from QueueReceipts: renders the sale's PDF to disk
// and hands the delivery to QueueEmail.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"minimarket/internal/apierror"
	"minimarket/internal/model"

	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipts.
type ReceiptJobPayload struct {
	SaleID string `json:"sale_id"`
	Email  string `json:"email"`
}

// ReceiptWriter renders a sale's receipt PDF and returns the sale with the
// written path.
type ReceiptWriter interface {
	SavePDF(ctx context.Context, saleRef string) (model.Sale, string, error)
}

type ReceiptWorker struct {
	receipts   ReceiptWriter
	dispatcher *Dispatcher
	business   string
}

func NewReceiptWorker(receipts ReceiptWriter, dispatcher *Dispatcher, business string) *ReceiptWorker {
	return &ReceiptWorker{receipts: receipts, dispatcher: dispatcher, business: business}
}

func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("receipt_worker: invalid payload: %v: %w", err, ErrPermanent)
	}

	sale, path, err := w.receipts.SavePDF(ctx, payload.SaleID)
	if err != nil {
		if errors.Is(err, apierror.ErrNotFound) {
			return fmt.Errorf("receipt_worker: sale %s: %v: %w", payload.SaleID, err, ErrPermanent)
		}
		return fmt.Errorf("receipt_worker: PDF for %s: %w", payload.SaleID, err)
	}
	log.Info().Str("pdf", path).Str("sale_number", sale.SaleNumber).Msg("receipt_worker: PDF generated")

	if payload.Email == "" {
		return nil
	}
	job := EmailJobPayload{
		ToEmail: payload.Email,
		Subject: fmt.Sprintf("Comprobante %s, venta %s", w.business, sale.SaleNumber),
		Body:    fmt.Sprintf("Adjuntamos el comprobante de su compra.\nTotal: S/ %s", sale.Total.StringFixed(2)),
		PDFPath: path,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, job); err != nil {
		return fmt.Errorf("receipt_worker: enqueue email: %w", err)
	}
	log.Info().Str("email", payload.Email).Str("sale_number", sale.SaleNumber).Msg("receipt_worker: email job enqueued")
	return nil
}
