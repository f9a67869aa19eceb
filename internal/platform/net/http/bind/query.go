package bind

import (
	"net/http"
	"reflect"
	"strconv"

	perr "gitcards/internal/platform/errors"

	"github.com/go-playground/validator/v10"
)

// ParseQuery binds URL query parameters into T by `query` struct tags,
// then validates with the shared validator. Supported field kinds are
// string, int and bool; missing params leave the zero value in place so
// defaults can be applied by the caller.
func ParseQuery[T any](r *http.Request) (T, error) {
	var dst T
	q := r.URL.Query()

	rv := reflect.ValueOf(&dst).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		tag := rt.Field(i).Tag.Get("query")
		if tag == "" || tag == "-" {
			continue
		}
		raw := q.Get(tag)
		if raw == "" {
			continue
		}
		f := rv.Field(i)
		switch f.Kind() {
		case reflect.String:
			f.SetString(raw)
		case reflect.Int, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return dst, perr.WithField(perr.InvalidArgf("%s must be an integer", tag), tag)
			}
			f.SetInt(n)
		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return dst, perr.WithField(perr.InvalidArgf("%s must be a boolean", tag), tag)
			}
			f.SetBool(b)
		default:
			return dst, perr.Internalf("unsupported query field kind %s for %s", f.Kind(), tag)
		}
	}

	if err := Get().Validator.Struct(dst); err != nil {
		if inv, ok := err.(*validator.InvalidValidationError); ok {
			return dst, perr.Internalf("validator internal error: %v", inv)
		}
		field, msg := ValidationFieldAndMessage(err)
		return dst, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
	}
	return dst, nil
}
