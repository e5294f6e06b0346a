package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"minimarket/internal/apierror"
	"minimarket/internal/model"
	"minimarket/internal/receipt"
	"minimarket/internal/state"
)

// Document is a rendered receipt ready to be served or written.
type Document struct {
	Sale        model.Sale
	ContentType string
	Body        []byte
}

type ReceiptService interface {
	Render(ctx context.Context, saleRef, variant, format string) (*Document, error)
	// SavePDF writes the sale's receipt PDF under the storage directory and
	// returns the sale with the file path.
	SavePDF(ctx context.Context, saleRef string) (model.Sale, string, error)
}

type receiptService struct {
	state    *state.Container
	renderer *receipt.Renderer
	dir      string
}

func NewReceiptService(c *state.Container, r *receipt.Renderer, dir string) ReceiptService {
	return &receiptService{state: c, renderer: r, dir: dir}
}

func (s *receiptService) sale(ref string) (model.Sale, error) {
	sale, ok := s.state.Snapshot().Sale(ref)
	if !ok {
		return model.Sale{}, apierror.NotFound("Venta no encontrada")
	}
	return sale, nil
}

func (s *receiptService) Render(_ context.Context, saleRef, variant, format string) (*Document, error) {
	v, err := receipt.ParseVariant(variant)
	if err != nil {
		return nil, apierror.ValidationField("variant", "Tipo de comprobante no válido")
	}
	f, err := receipt.ParseFormat(format)
	if err != nil {
		return nil, apierror.ValidationField("format", "Formato no válido")
	}
	sale, err := s.sale(saleRef)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, sale, v, f); err != nil {
		return nil, fmt.Errorf("render receipt %s: %w", sale.SaleNumber, err)
	}
	return &Document{Sale: sale, ContentType: f.ContentType(), Body: buf.Bytes()}, nil
}

func (s *receiptService) SavePDF(_ context.Context, saleRef string) (model.Sale, string, error) {
	sale, err := s.sale(saleRef)
	if err != nil {
		return model.Sale{}, "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return sale, "", fmt.Errorf("receipt dir: %w", err)
	}
	path := filepath.Join(s.dir, sale.SaleNumber+".pdf")
	out, err := os.Create(path)
	if err != nil {
		return sale, "", fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()

	if err := s.renderer.Render(out, sale, receipt.VariantReceipt, receipt.FormatPDF); err != nil {
		return sale, "", fmt.Errorf("render PDF %s: %w", sale.SaleNumber, err)
	}
	return sale, path, nil
}
