package report

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder for logos
	_ "image/png"  // register decoder for logos
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
)

const (
	fontFamily     = "Helvetica"
	fontSizeNormal = 10
	fontSizeHeader = 16
	fontSizeSub    = 12
	lineHeight     = 7
	margin         = 20
	logoHeight     = 15
	logoName       = "logo"
)

// Renderer writes PDF reports. A Renderer is safe for concurrent use; each
// call builds its own document.
type Renderer struct {
	logo   []byte
	logger zerolog.Logger
	now    func() time.Time
}

// Option configures a Renderer
type Option func(*Renderer)

// WithLogger sets the logger used for degraded output such as a bad logo
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Renderer) { r.logger = logger }
}

// WithClock fixes the document creation date
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// NewRenderer creates a Renderer. logo may be nil; PNG and JPEG are accepted.
func NewRenderer(logo []byte, opts ...Option) *Renderer {
	r := &Renderer{
		logo:   logo,
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// document wraps fpdf with the cursor helpers shared by both reports.
type document struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	width float64
}

func (r *Renderer) newDocument(title string) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(title, true)
	pdf.SetCreator("review_agent", true)
	pdf.SetCreationDate(r.now())
	pdf.AddPage()

	w, _ := pdf.GetPageSize()
	d := &document{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		width: w,
	}
	r.addLogo(d)

	pdf.SetFont(fontFamily, "B", fontSizeHeader)
	pdf.SetXY(margin, margin)
	pdf.CellFormat(0, lineHeight, d.tr(title), "", 1, "L", false, 0, "")
	pdf.SetY(margin + lineHeight*2)
	return d
}

// addLogo places the logo in the top right corner. Any failure is logged and
// the report continues without it.
func (r *Renderer) addLogo(d *document) {
	if len(r.logo) == 0 {
		return
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(r.logo))
	if err != nil || cfg.Height == 0 {
		r.logger.Warn().Err(err).Msg("logo could not be decoded, rendering without it")
		return
	}

	imageType := map[string]string{"png": "PNG", "jpeg": "JPG"}[format]
	opts := fpdf.ImageOptions{ImageType: imageType}
	d.pdf.RegisterImageOptionsReader(logoName, opts, bytes.NewReader(r.logo))
	if d.pdf.Err() {
		r.logger.Warn().Err(d.pdf.Error()).Str("format", format).Msg("logo could not be registered, rendering without it")
		d.pdf.ClearError()
		return
	}

	logoWidth := logoHeight * float64(cfg.Width) / float64(cfg.Height)
	d.pdf.ImageOptions(logoName, d.width-margin-logoWidth, margin-5, logoWidth, logoHeight, false, opts, 0, "")
}

// ensureSpace starts a new page unless required millimeters remain.
func (d *document) ensureSpace(required float64) {
	_, h := d.pdf.GetPageSize()
	if d.pdf.GetY() > h-margin-required {
		d.pdf.AddPage()
	}
}

func (d *document) rule(width float64) {
	y := d.pdf.GetY()
	d.pdf.SetLineWidth(width)
	d.pdf.Line(margin, y, d.width-margin, y)
	d.pdf.Ln(lineHeight * 0.5)
}

func (d *document) heading(title string) {
	d.ensureSpace(20)
	d.pdf.SetFont(fontFamily, "B", fontSizeSub)
	d.pdf.SetX(margin)
	d.pdf.CellFormat(0, lineHeight, d.tr(title), "", 1, "L", false, 0, "")
	d.pdf.Ln(lineHeight * 0.5)
}

// text writes wrapped text starting indent millimeters from the margin.
func (d *document) text(style, s string, indent float64) {
	d.pdf.SetFont(fontFamily, style, fontSizeNormal)
	d.pdf.SetX(margin + indent)
	d.pdf.MultiCell(0, lineHeight*0.9, d.tr(s), "", "L", false)
}

func (d *document) line(s string) {
	d.pdf.SetFont(fontFamily, "", fontSizeNormal)
	d.pdf.SetX(margin)
	d.pdf.CellFormat(0, lineHeight, d.tr(s), "", 1, "L", false, 0, "")
}

// list writes a titled bullet list. Empty lists are skipped entirely.
func (d *document) list(title string, items []string) {
	if len(items) == 0 {
		return
	}
	d.heading(title)
	for _, item := range items {
		d.ensureSpace(lineHeight)
		d.text("", "• "+item, 5)
		d.pdf.Ln(lineHeight * 0.5)
	}
	d.pdf.Ln(lineHeight)
}

func (d *document) output(w io.Writer) error {
	if d.pdf.Err() {
		return &RenderError{Message: "failed to lay out document", Cause: d.pdf.Error()}
	}
	if err := d.pdf.Output(w); err != nil {
		return &RenderError{Message: "failed to write document", Cause: err}
	}
	return nil
}

func score(v float64) string {
	return fmt.Sprintf("%.1f / 10", v)
}
