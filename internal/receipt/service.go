package receipt

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/models"

	"go.uber.org/zap"
)

// FailureMessage is the text front-ends show for any share failure.
const FailureMessage = "Failed to download receipt."

// ErrReceiptFailed wraps every share failure.
var ErrReceiptFailed = errors.New("share receipt failed")

// Service renders, prints and shares receipts. There is no retry.
type Service struct {
	printer Printer
	sink    Sink
	logger  *zap.Logger
}

func NewService(printer Printer, sink Sink, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{printer: printer, sink: sink, logger: logger}
}

// NewServiceFromConfig picks the printer and sink named by cfg.
func NewServiceFromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Service, error) {
	var printer Printer
	switch cfg.ReceiptFormat {
	case config.FormatHTML:
		printer = HTMLPrinter{}
	case config.FormatPDF:
		printer = PDFPrinter{Bin: cfg.ChromeBin}
	default:
		return nil, fmt.Errorf("unknown receipt format: %s", cfg.ReceiptFormat)
	}

	var sink Sink
	var err error
	switch cfg.ReceiptSink {
	case config.SinkLocal:
		sink, err = NewLocalSink(cfg.ReceiptDir)
	case config.SinkS3:
		sink, err = NewS3Sink(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			AccessKey: cfg.AWSAccessKey,
			SecretKey: cfg.AWSSecretKey,
		})
	default:
		return nil, fmt.Errorf("unknown receipt sink: %s", cfg.ReceiptSink)
	}
	if err != nil {
		return nil, err
	}

	return NewService(printer, sink, logger), nil
}

// Share prints the receipt for order and hands it to the sink, returning
// where it landed. Every failure is reported as ErrReceiptFailed.
func (s *Service) Share(ctx context.Context, order models.Order) (string, error) {
	location, err := s.share(ctx, order)
	if err != nil {
		s.logger.Error("Failed to share receipt", zap.String("order_id", order.ID), zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrReceiptFailed, err)
	}

	s.logger.Info("Receipt shared", zap.String("order_id", order.ID), zap.String("location", location))
	return location, nil
}

func (s *Service) share(ctx context.Context, order models.Order) (string, error) {
	html, err := Render(order)
	if err != nil {
		return "", err
	}

	doc, err := s.printer.Print(ctx, html)
	if err != nil {
		return "", err
	}

	return s.sink.Put(ctx, order.ID, doc)
}
