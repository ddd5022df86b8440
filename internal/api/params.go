package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"dental-calls-go/internal/aggregator"
	"dental-calls-go/internal/classifier"
	"dental-calls-go/internal/dashboard"
)

// queryParams mirrors the dashboard form fields.
type queryParams struct {
	From       string   `validate:"omitempty,datetime=2006-01-02"`
	To         string   `validate:"omitempty,datetime=2006-01-02"`
	Directions []string
	Categories []string `validate:"dive,category"`
	Columns    []string `validate:"dive,oneof=Call_Time Call_Direction Call_Status Contact_Type Category Conversation_Duration"`
	Rows       int      `validate:"omitempty,min=10,max=100"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, ok := classifier.Parse(fl.Field().String())
		return ok
	}); err != nil {
		panic(fmt.Sprintf("register category validation: %v", err))
	}
	return v
}

// parseQuery reads and validates the filter, column and row parameters.
// Direction values are taken verbatim so that every value offered by
// /api/options can be selected. With clampRows set, an out of range row count
// is pulled into the data explorer limits instead of being rejected.
func parseQuery(v *validator.Validate, r *http.Request, clampRows bool) (dashboard.Query, error) {
	q := r.URL.Query()
	p := queryParams{
		From:       strings.TrimSpace(q.Get("from")),
		To:         strings.TrimSpace(q.Get("to")),
		Directions: q["direction"],
		Categories: nonEmpty(q["category"]),
		Columns:    nonEmpty(q["columns"]),
	}
	if raw := q.Get("rows"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return dashboard.Query{}, fmt.Errorf("rows: %q is not a number", raw)
		}
		if clampRows {
			n = dashboard.ClampRows(n)
		}
		p.Rows = n
	}

	if err := v.Struct(p); err != nil {
		return dashboard.Query{}, describe(err)
	}
	if p.From != "" && p.To != "" && p.From > p.To {
		return dashboard.Query{}, errors.New("from must not be after to")
	}

	f := aggregator.Filter{From: p.From, To: p.To, Directions: p.Directions}
	for _, s := range p.Categories {
		c, _ := classifier.Parse(s)
		f.Categories = append(f.Categories, c)
	}
	return dashboard.Query{Filter: f, Columns: p.Columns, Rows: p.Rows}, nil
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// describe turns validator errors into one readable message.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: invalid value %q (%s)", strings.ToLower(fe.StructField()), fmt.Sprint(fe.Value()), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
