/*
Package req binds JSON request bodies to Go values, reporting failures as errs.CustomError.
*/
package req

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"bingohub/internal/pkg/errs"
)

// MaxBodyBytes caps the size of any JSON request body.
const MaxBodyBytes int64 = 64 << 10

// BindJSON decodes the request body into dst. Unknown fields and trailing content are rejected.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any) *errs.CustomError {
	return bind(w, r, dst, false)
}

// BindOptionalJSON is BindJSON for endpoints whose body may be omitted entirely.
func BindOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) *errs.CustomError {
	return bind(w, r, dst, true)
}

func bind(w http.ResponseWriter, r *http.Request, dst any, optional bool) *errs.CustomError {
	if optional && r.ContentLength == 0 {
		return nil
	}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		case optional && errors.Is(err, io.EOF):
			return nil
		default:
			return errs.NewError(errs.ErrInvalidJSONFormat)
		}
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}
