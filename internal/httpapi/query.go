package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"pooltemps/internal/readings"
	"pooltemps/internal/views"
)

var validate = validator.New()

// submitRequest is the JSON body of POST /api/v1/readings.
type submitRequest struct {
	Inputs map[string]string `json:"inputs" validate:"required,min=1"`
}

func (s submitRequest) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return errors.New("inputs must name at least one pool")
		}
		return err
	}
	return nil
}

// parseSubmitForm collects temp[<pool>] fields. Other fields are ignored.
func parseSubmitForm(r *http.Request) (map[string]string, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form: %w", err)
	}
	inputs := make(map[string]string)
	for key, vals := range r.PostForm {
		pool, ok := views.PoolFromFormField(key)
		if !ok || len(vals) == 0 {
			continue
		}
		inputs[pool] = vals[0]
	}
	return inputs, nil
}

func parseReadingsQuery(r *http.Request) (readings.Scope, error) {
	return readings.ParseScope(r.URL.Query().Get("scope"))
}
