package pdf

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/vcscsvcscs/fitai-planner/pkg/model"
	"go.uber.org/zap"
)

const (
	margin        = 20.0
	topY          = 20.0
	pageBreakY    = 270.0
	dietSectionY  = 250.0
	defaultFile   = "FitAI_Plano.pdf"
	documentTitle = "FitAI Pro - Seu Plano Personalizado"
)

// Whitespace and path separators both become underscores in file names
var fileNameSeparators = regexp.MustCompile(`[\s\p{Zs}/\\]+`)

type rgb struct{ r, g, b int }

var (
	colorBlue  = rgb{59, 130, 246}
	colorGreen = rgb{16, 185, 129}
	colorBlack = rgb{0, 0, 0}
)

// PlanDocument is the content of an exported plan. Either part may be nil.
type PlanDocument struct {
	Intake *model.UserIntake
	Plans  *model.Plans
}

// PDFGenerator renders plan documents
type PDFGenerator struct {
	logger *zap.Logger
}

// NewPDFGenerator creates a new PDFGenerator
func NewPDFGenerator(logger *zap.Logger) *PDFGenerator {
	return &PDFGenerator{
		logger: logger,
	}
}

// FileName returns the download name for a user's plan document
func FileName(name string) string {
	if name == "" {
		return defaultFile
	}
	return "FitAI_" + fileNameSeparators.ReplaceAllString(name, "_") + ".pdf"
}

// Generate creates the PDF bytes for a plan document
func (g *PDFGenerator) Generate(doc *PlanDocument) ([]byte, error) {
	g.logger.Info("generating plan PDF",
		zap.Bool("has_profile", doc.Intake != nil),
		zap.Bool("has_plans", doc.Plans != nil),
	)

	pdf := g.render(doc)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("plan PDF generated successfully",
		zap.Int("size_bytes", buf.Len()),
		zap.Int("pages", pdf.PageNo()),
	)

	return buf.Bytes(), nil
}

// pageWriter places text lines top-down and starts a new page past a threshold
type pageWriter struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
	y   float64
}

func (w *pageWriter) text(x float64, size float64, c rgb, s string) {
	w.pdf.SetFontSize(size)
	w.pdf.SetTextColor(c.r, c.g, c.b)
	w.pdf.Text(x, w.y, w.tr(s))
}

func (w *pageWriter) advance(dy float64) {
	w.y += dy
}

func (w *pageWriter) breakPast(limit float64) {
	if w.y > limit {
		w.pdf.AddPage()
		w.y = topY
	}
}

// render lays out the document; pagination is explicit so the layout matches the on-screen export
func (g *PDFGenerator) render(doc *PlanDocument) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	w := &pageWriter{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
		y:   topY,
	}

	w.text(margin, 24, colorBlue, documentTitle)
	w.advance(15)

	if doc.Intake != nil {
		g.addProfile(w, doc.Intake)
	}
	if doc.Plans != nil {
		g.addWorkout(w, &doc.Plans.Workout)
		g.addDiet(w, &doc.Plans.Diet)
	}

	return pdf
}

// addProfile adds the user summary lines
func (g *PDFGenerator) addProfile(w *pageWriter, u *model.UserIntake) {
	w.text(margin, 16, colorBlack, "Nome: "+u.Name)
	w.advance(8)
	w.text(margin, 12, colorBlack, fmt.Sprintf("Idade: %d anos | Peso: %skg | Altura: %scm",
		u.Age, number(u.Weight), number(u.Height)))
	w.advance(8)
	w.text(margin, 12, colorBlack, "Objetivo: "+u.Goal.Label())
	w.advance(15)
}

// addWorkout adds the training section
func (g *PDFGenerator) addWorkout(w *pageWriter, plan *model.WorkoutPlan) {
	w.text(margin, 18, colorBlue, "Plano de Treino")
	w.advance(10)

	w.text(margin, 12, colorBlack, "Frequência: "+plan.Frequency)
	w.advance(6)
	w.text(margin, 12, colorBlack, "Duração: "+plan.Duration)
	w.advance(10)

	w.text(margin, 14, colorBlack, "Exercícios:")
	w.advance(8)

	for i, ex := range plan.Exercises {
		w.text(margin+5, 11, colorBlack, fmt.Sprintf("%d. %s", i+1, ex.Name))
		w.advance(5)
		w.text(margin+5, 10, colorBlack, fmt.Sprintf("   %d séries x %s reps | Descanso: %s", ex.Sets, ex.Reps, ex.Rest))
		w.advance(5)
		w.text(margin+5, 10, colorBlack, "   Músculo: "+ex.Muscle)
		w.advance(7)

		w.breakPast(pageBreakY)
	}
}

// addDiet adds the nutrition section, starting a fresh page when little room is left
func (g *PDFGenerator) addDiet(w *pageWriter, diet *model.DietPlan) {
	w.advance(10)
	w.breakPast(dietSectionY)

	w.text(margin, 18, colorGreen, "Plano Alimentar")
	w.advance(10)

	w.text(margin, 12, colorBlack, fmt.Sprintf("Calorias Totais: %s kcal/dia", number(diet.TotalCalories)))
	w.advance(6)
	w.text(margin, 12, colorBlack, fmt.Sprintf("Proteínas: %sg | Carboidratos: %sg | Gorduras: %sg",
		number(diet.TotalProtein), number(diet.TotalCarbs), number(diet.TotalFat)))
	w.advance(10)

	w.text(margin, 14, colorBlack, "Refeições:")
	w.advance(8)

	for _, meal := range diet.Meals {
		w.text(margin+5, 11, colorBlack, meal.Name+" - "+meal.Time)
		w.advance(5)
		w.text(margin+5, 10, colorBlack, fmt.Sprintf("   %s kcal | Proteína: %sg | Carbo: %sg | Gordura: %sg",
			number(meal.Calories), number(meal.Protein), number(meal.Carbs), number(meal.Fat)))
		w.advance(5)
		w.text(margin+5, 10, colorBlack, "   Alimentos: "+strings.Join(meal.Foods, ", "))
		w.advance(7)

		w.breakPast(pageBreakY)
	}
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
