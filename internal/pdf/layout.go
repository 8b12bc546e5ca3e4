package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/nyashahama/cash-receipt-backend/internal/receipt"
)

// All coordinates are millimetres from the top-left corner of an A4 page.

const (
	fontFamily = "Helvetica"

	orgName       = "Association Camerounaise pour la Culture et l'Education"
	orgShortName  = "ACCED"
	orgBadge      = "A.C.C.E.D"
	orgTagline    = "Association Camerounaise pour la Culture et l'Education - Yaounde, Cameroun"
	receiptLabel  = "BON D'ENTREE EN CAISSE"
	receiptNumber = "N° %s"
	emptyNumber   = "___________"
	receiptSub    = "(EXIT ORDER FROM THE COUNTER)"
	signPlace     = "Yaounde, le %s"
	signNotice    = "Bu belge e-imza ile desteklenmektedir"

	logoName        = "logo"
	watermarkSize   = 80.0
	watermarkAlpha  = 0.1
	headerBarHeight = 20.0

	// ptToMM converts a font size in points to millimetres.
	ptToMM = 25.4 / 72
	// lineSpacing is the line height as a multiple of the font size.
	lineSpacing = 1.15
)

type rgb struct{ r, g, b int }

var (
	green     = rgb{0, 122, 51}
	red       = rgb{206, 17, 38}
	yellow    = rgb{252, 209, 22}
	white     = rgb{255, 255, 255}
	black     = rgb{0, 0, 0}
	grey      = rgb{100, 100, 100}
	labelFill = rgb{245, 245, 245}
	stripFill = rgb{240, 240, 240}
	boxFill   = rgb{248, 250, 252}
	cream     = rgb{255, 248, 220}
)

// noteBox describes one of the optional free-text boxes.
type noteBox struct {
	label     string
	height    float64
	labelSize float64
	textSize  float64
}

var (
	motifsBox    = noteBox{label: "Motifs / Motifs:", height: 30, labelSize: 10, textSize: 12}
	documentsBox = noteBox{label: "Pieces justificatives / Justificative documents:", height: 20, labelSize: 9, textSize: 11}
)

// glyphFallbacks replaces characters the core fonts cannot encode before the
// cp1252 translation, which would otherwise print them as ".". Turkish letters
// outside cp1252 lose their diacritics; Ö, Ü and Ç are in cp1252 and stay.
var glyphFallbacks = strings.NewReplacer(
	"₺", "TL",
	"ş", "s", "Ş", "S",
	"ğ", "g", "Ğ", "G",
	"ı", "i", "İ", "I",
)

// page wraps a gofpdf document with the helpers the receipt layout uses.
type page struct {
	doc  *gofpdf.Fpdf
	enc  func(string) string
	w, h float64
}

func newPage(doc *gofpdf.Fpdf) *page {
	w, h := doc.GetPageSize()
	return &page{
		doc: doc,
		enc: doc.UnicodeTranslatorFromDescriptor(""),
		w:   w,
		h:   h,
	}
}

// ─── PRIMITIVES ──────────────────────────────────────────────────────────────

func (p *page) fill(c rgb) { p.doc.SetFillColor(c.r, c.g, c.b) }
func (p *page) draw(c rgb) { p.doc.SetDrawColor(c.r, c.g, c.b) }
func (p *page) ink(c rgb) { p.doc.SetTextColor(c.r, c.g, c.b) }
func (p *page) font(style string, size float64) {
	p.doc.SetFont(fontFamily, style, size)
}

func (p *page) encode(s string) string {
	return p.enc(glyphFallbacks.Replace(s))
}

// textLeft writes s with its baseline at y.
func (p *page) textLeft(x, y float64, s string) {
	p.doc.Text(x, y, p.encode(s))
}

func (p *page) textCenter(cx, y float64, s string) {
	e := p.encode(s)
	p.doc.Text(cx-p.doc.GetStringWidth(e)/2, y, e)
}

func (p *page) textRight(rx, y float64, s string) {
	e := p.encode(s)
	p.doc.Text(rx-p.doc.GetStringWidth(e), y, e)
}

// wrap splits s into lines no wider than w in the current font. Lines are
// returned already encoded.
func (p *page) wrap(s string, w float64) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		for _, l := range p.doc.SplitLines([]byte(p.encode(para)), w) {
			lines = append(lines, string(bytes.TrimRight(l, " ")))
		}
	}
	return lines
}

// ─── SECTIONS ────────────────────────────────────────────────────────────────

func (p *page) drawBackground() {
	p.fill(white)
	p.doc.Rect(0, 0, p.w, p.h, "F")
}

// drawHeaderBar draws the green/red/yellow band with the bilingual titles.
func (p *page) drawHeaderBar() {
	third := p.w / 3
	for i, c := range []rgb{green, red, yellow} {
		p.fill(c)
		p.doc.Rect(third*float64(i), 0, third, headerBarHeight, "F")
	}

	p.ink(white)
	p.font("B", 10)
	p.textLeft(10, 8, "REPUBLIQUE DU CAMEROUN")
	p.textRight(p.w-10, 8, "REPUBLIC OF CAMEROON")

	p.font("I", 8)
	p.textLeft(10, 14, "Paix - Travail - Patrie")
	p.textRight(p.w-10, 14, "Peace - Work - Fatherland")
}

func (p *page) drawFrame() {
	p.draw(black)
	p.doc.SetLineWidth(1.5)
	p.doc.Rect(10, 25, p.w-20, p.h-40, "D")
}

func (p *page) drawLogo(y float64) {
	p.doc.ImageOptions(logoName, 15, y, 30, 30, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
}

func (p *page) drawLogoPlaceholder(y float64) {
	p.fill(green)
	p.doc.Circle(30, y+15, 12, "F")
	p.ink(white)
	p.font("B", 8)
	p.textCenter(30, y+17, orgShortName)
}

func (p *page) drawOrganisation(y float64) {
	p.ink(black)
	p.font("B", 14)
	p.textLeft(55, y+8, "ASSOCIATION CAMEROUNAISE")
	p.textLeft(55, y+16, "POUR LA CULTURE ET L'EDUCATION")

	p.fill(red)
	p.doc.Rect(55, y+20, 35, 10, "F")
	p.ink(white)
	p.font("B", 12)
	p.textCenter(72.5, y+27, orgBadge)
}

func (p *page) drawTitle(y float64, rec receipt.Record) float64 {
	p.fill(green)
	p.doc.Rect(15, y, p.w-30, 18, "F")

	number := rec.ReceiptNumber
	if number == "" {
		number = emptyNumber
	}

	p.ink(white)
	p.font("B", 16)
	p.textCenter(p.w/2, y+8, receiptLabel)
	p.font("B", 14)
	p.textCenter(p.w/2, y+14, fmt.Sprintf(receiptNumber, number))
	y += 25

	p.ink(black)
	p.font("I", 10)
	p.textCenter(p.w/2, y, receiptSub)
	return y + 15
}

// drawParties draws the "paid to" and "ID card" boxes side by side.
func (p *page) drawParties(y float64, rec receipt.Record) float64 {
	boxW := (p.w - 40) / 2
	const boxH = 20.0

	p.draw(black)
	p.doc.SetLineWidth(0.5)
	p.ink(black)

	for _, box := range []struct {
		x            float64
		label, value string
	}{
		{15, "Paye a / Paid to:", rec.PaidTo},
		{20 + boxW, "CNI N° / ID Card N°:", rec.IDCardNumber},
	} {
		p.doc.Rect(box.x, y, boxW, boxH, "D")
		p.fill(labelFill)
		p.doc.Rect(box.x, y, boxW, 6, "F")

		p.font("B", 9)
		p.textLeft(box.x+2, y+4, box.label)
		p.font("", 14)
		p.textLeft(box.x+2, y+12, box.value)
	}
	return y + 30
}

func (p *page) drawAmount(y float64, rec receipt.Record) float64 {
	p.fill(cream)
	p.draw(red)
	p.doc.SetLineWidth(2)
	p.doc.Rect(15, y, p.w-30, 25, "FD")

	p.ink(black)
	p.font("B", 12)
	p.textLeft(20, y+8, "La somme de / The sum of:")

	p.ink(red)
	p.font("B", 18)
	p.textCenter(p.w/2, y+18, rec.AmountLabel())
	return y + 35
}

// drawNoteBox draws a shaded box with a label strip and wrapped text. The box
// has a fixed height; text that does not fit runs past its border.
func (p *page) drawNoteBox(y float64, box noteBox, text string) float64 {
	p.fill(boxFill)
	p.draw(black)
	p.doc.SetLineWidth(0.5)
	p.doc.Rect(15, y, p.w-30, box.height, "FD")

	p.fill(stripFill)
	p.doc.Rect(15, y, p.w-30, 6, "F")

	p.ink(black)
	p.font("B", box.labelSize)
	p.textLeft(20, y+4, box.label)

	p.font("", box.textSize)
	lineH := box.textSize * lineSpacing * ptToMM
	for i, line := range p.wrap(text, p.w-40) {
		p.doc.Text(20, y+12+float64(i)*lineH, line)
	}
	return y + box.height + 10
}

func (p *page) drawSignatures(rec receipt.Record) {
	y := p.h - 50

	p.fill(boxFill)
	p.draw(black)
	p.doc.SetLineWidth(0.5)
	p.doc.Rect(15, y, p.w-30, 30, "FD")

	p.fill(green)
	p.doc.Rect(15, y, p.w-30, 6, "F")
	p.ink(white)
	p.font("B", 10)
	p.textLeft(20, y+4, "SIGNATURES / SIGNATURES")

	y += 12
	p.ink(black)
	p.doc.SetLineWidth(0.3)

	p.font("B", 9)
	p.textLeft(20, y, "Le Caissier / The Cashier")
	p.font("", 13)
	p.textLeft(20, y+8, rec.CashierName)
	p.doc.Line(20, y+20, 70, y+20)

	p.font("B", 11)
	p.textCenter(p.w/2, y+4, fmt.Sprintf(signPlace, rec.DisplayDate()))

	p.font("B", 9)
	p.textLeft(p.w-70, y, "L'ordonnateur / Order Giver")
	p.font("", 13)
	p.textLeft(p.w-70, y+8, rec.OrderGiverName)
	p.doc.Line(p.w-70, y+20, p.w-20, y+20)

	p.ink(grey)
	p.font("I", 8)
	p.textCenter(p.w/2, y+26, signNotice)
}

func (p *page) drawFooter() {
	p.fill(green)
	p.doc.Rect(0, p.h-10, p.w, 10, "F")
	p.ink(white)
	p.font("", 8)
	p.textCenter(p.w/2, p.h-5, orgTagline)
}

// ─── LOGO ────────────────────────────────────────────────────────────────────

// registerLogo hands the normalised PNG to gofpdf. A rejection is cleared from
// the document so the rest of the page still renders.
func (p *page) registerLogo(png []byte) error {
	p.doc.RegisterImageOptionsReader(logoName, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	if err := p.doc.Error(); err != nil {
		p.doc.ClearError()
		return err
	}
	return nil
}

// drawWatermark overlays the logo in the middle of the page. A failure is
// cleared from the document and returned for logging.
func (p *page) drawWatermark() error {
	p.doc.SetAlpha(watermarkAlpha, "Normal")
	p.doc.ImageOptions(logoName,
		p.w/2-watermarkSize/2, p.h/2-watermarkSize/2,
		watermarkSize, watermarkSize,
		false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	err := p.doc.Error()
	if err != nil {
		p.doc.ClearError()
	}
	p.doc.SetAlpha(1, "Normal")
	return err
}
