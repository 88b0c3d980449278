package receipt

import (
	"context"
	"fmt"
	"io"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Document is a printed receipt ready for a sink.
type Document struct {
	Ext         string
	ContentType string
	Data        []byte
}

type Printer interface {
	Print(ctx context.Context, html string) (Document, error)
}

// HTMLPrinter keeps the rendered page as is.
type HTMLPrinter struct{}

func (HTMLPrinter) Print(_ context.Context, html string) (Document, error) {
	return Document{
		Ext:         ".html",
		ContentType: "text/html; charset=utf-8",
		Data:        []byte(html),
	}, nil
}

// PDFPrinter prints the page to PDF in a headless Chrome. Each call launches
// and tears down its own browser.
type PDFPrinter struct {
	// Bin is the Chrome binary; empty means rod's lookup and download.
	Bin string
}

func (p PDFPrinter) Print(ctx context.Context, html string) (doc Document, err error) {
	l := launcher.New().Headless(true)
	if p.Bin != "" {
		l = l.Bin(p.Bin)
	}

	controlURL, err := l.Context(ctx).Launch()
	if err != nil {
		return Document{}, fmt.Errorf("launch chrome: %w", err)
	}
	defer func() {
		l.Kill()
		l.Cleanup()
	}()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return Document{}, fmt.Errorf("connect to chrome: %w", err)
	}
	defer func() {
		if cerr := browser.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close chrome: %w", cerr)
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return Document{}, fmt.Errorf("open page: %w", err)
	}

	if err := page.SetDocumentContent(html); err != nil {
		return Document{}, fmt.Errorf("set receipt content: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{PrintBackground: true})
	if err != nil {
		return Document{}, fmt.Errorf("print to pdf: %w", err)
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		return Document{}, fmt.Errorf("read pdf: %w", err)
	}

	return Document{
		Ext:         ".pdf",
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}
