package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/symptomcheck/symptomcheck/internal/domain/diagnosis"
	"github.com/symptomcheck/symptomcheck/internal/domain/intake"
)

// CSRFContextKey is where echo's CSRF middleware stores the form token.
const CSRFContextKey = "csrf"

// Pages serves the Symptom Input and View Diagnosis pages.
type Pages struct {
	intake    *intake.Service
	diagnosis *diagnosis.Service
	logger    zerolog.Logger
}

func NewPages(intakeSvc *intake.Service, diagnosisSvc *diagnosis.Service, logger zerolog.Logger) *Pages {
	return &Pages{intake: intakeSvc, diagnosis: diagnosisSvc, logger: logger}
}

// RegisterRoutes registers the pages on g. mw applies to the page routes
// only, not to the root redirect.
func (p *Pages) RegisterRoutes(g *echo.Group, mw ...echo.MiddlewareFunc) {
	g.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/intake")
	})
	g.GET("/intake", p.IntakeForm, mw...)
	g.POST("/intake", p.SubmitIntake, mw...)
	g.GET("/diagnosis", p.Diagnosis, mw...)
}

type intakeForm struct {
	Name     string
	Age      string
	Gender   string
	Selected map[int64]bool
}

type intakeView struct {
	layout
	CSRF     string
	Form     intakeForm
	Genders  []string
	MaxAge   int
	Symptoms []intake.Symptom
}

func (p *Pages) newIntakeView(c echo.Context) *intakeView {
	v := &intakeView{
		layout:  layout{Title: "Symptom Input"},
		Form:    intakeForm{Age: "0", Gender: intake.Genders[0]},
		Genders: intake.Genders,
		MaxAge:  intake.MaxAge,
	}
	v.CSRF, _ = c.Get(CSRFContextKey).(string)

	symptoms, err := p.intake.Catalog(c.Request().Context())
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to load symptom catalog")
		v.addError("Failed to load symptoms from database.", err)
		return v
	}
	v.Symptoms = symptoms
	return v
}

func (p *Pages) IntakeForm(c echo.Context) error {
	return c.Render(http.StatusOK, intakePage, p.newIntakeView(c))
}

// SubmitIntake always answers 200 with the form re-rendered; outcomes are
// reported in banners so the page keeps working after a failure.
func (p *Pages) SubmitIntake(c echo.Context) error {
	v := p.newIntakeView(c)

	v.Form.Name = c.FormValue("name")
	v.Form.Age = strings.TrimSpace(c.FormValue("age"))
	v.Form.Gender = c.FormValue("gender")

	form, err := c.FormParams()
	if err != nil {
		v.addError("Failed to read the submitted form.", err)
		return c.Render(http.StatusOK, intakePage, v)
	}
	ids, err := parseIDs(form["symptom_id"])
	if err != nil {
		v.addError("Please select symptoms from the list", nil)
		return c.Render(http.StatusOK, intakePage, v)
	}
	v.Form.Selected = make(map[int64]bool, len(ids))
	for _, id := range ids {
		v.Form.Selected[id] = true
	}

	if strings.TrimSpace(v.Form.Name) == "" {
		v.addError("Please enter your name", nil)
		return c.Render(http.StatusOK, intakePage, v)
	}
	if len(ids) == 0 {
		v.addError("Please select at least one symptom", nil)
		return c.Render(http.StatusOK, intakePage, v)
	}
	age, err := strconv.Atoi(v.Form.Age)
	if err != nil {
		v.addError(fmt.Sprintf("Please enter an age between 0 and %d", intake.MaxAge), nil)
		return c.Render(http.StatusOK, intakePage, v)
	}

	receipt, err := p.intake.Submit(c.Request().Context(), intake.Submission{
		Name:       v.Form.Name,
		Age:        age,
		Gender:     v.Form.Gender,
		SymptomIDs: ids,
	})
	switch {
	case errors.Is(err, intake.ErrInvalidInput):
		v.addError(err.Error(), nil)
	case err != nil:
		p.logger.Error().Err(err).Str("name", strings.TrimSpace(v.Form.Name)).Msg("failed to record intake")
		v.addError(fmt.Sprintf("Failed to record symptoms: %v", err), err)
	default:
		c.Set("patient_id", receipt.UserID)
		v.Banners = append(v.Banners, Banner{
			Kind:    "success",
			Message: fmt.Sprintf("Symptoms recorded for user ID: %d", receipt.UserID),
		})
		v.Form = intakeForm{Age: "0", Gender: intake.Genders[0]}
	}
	return c.Render(http.StatusOK, intakePage, v)
}

func parseIDs(values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	for _, s := range values {
		id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

type diagnosisView struct {
	layout
	UserID  string
	Results []diagnosis.Result
}

// Diagnosis renders the lookup form and, when user_id is present, the
// candidate diagnoses for that patient.
func (p *Pages) Diagnosis(c echo.Context) error {
	v := &diagnosisView{layout: layout{Title: "View Diagnosis Results"}}
	v.UserID = strings.TrimSpace(c.QueryParam("user_id"))
	if v.UserID == "" {
		return c.Render(http.StatusOK, diagnosisPage, v)
	}

	userID, err := strconv.ParseInt(v.UserID, 10, 64)
	if err != nil || userID < 1 {
		v.addError("Please enter a valid numeric User ID.", nil)
		return c.Render(http.StatusOK, diagnosisPage, v)
	}

	results, err := p.diagnosis.ForPatient(c.Request().Context(), userID)
	if err != nil {
		p.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to load diagnosis")
		v.addError(fmt.Sprintf("Failed to get diagnosis: %v", err), err)
		return c.Render(http.StatusOK, diagnosisPage, v)
	}
	if len(results) == 0 {
		v.Banners = append(v.Banners, Banner{Kind: "warning", Message: diagnosis.NoDiagnosisMessage})
	}
	v.Results = results
	return c.Render(http.StatusOK, diagnosisPage, v)
}
