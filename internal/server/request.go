package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/review-analyzer/internal/types"
)

const maxJSONBytes = 1 << 20

// decodeJSON reads a JSON body into dst and validates its struct tags.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &ErrBadRequest{Message: "request body is empty"}
		}
		return &ErrBadRequest{Message: "invalid request body: " + err.Error()}
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &ErrBadRequest{Message: fmt.Sprintf("invalid field %s: %s", verrs[0].Namespace(), verrs[0].Tag())}
		}
		return &ErrBadRequest{Message: err.Error()}
	}
	return nil
}

// analyzeForm is the parsed multipart submission of POST /analyze.
type analyzeForm struct {
	User    types.UserData
	Periods []types.EvaluationPeriod
}

// parseAnalyzeForm reads user fields, repeated period_year values and the
// files of each period under period_<i>.
func (s *Server) parseAnalyzeForm(w http.ResponseWriter, r *http.Request) (*analyzeForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		return nil, &ErrBadRequest{Message: "invalid multipart form: " + err.Error()}
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	form := &analyzeForm{
		User: types.UserData{
			Name:      strings.TrimSpace(r.FormValue("name")),
			Area:      strings.TrimSpace(r.FormValue("area")),
			Position:  strings.TrimSpace(r.FormValue("position")),
			Seniority: types.Seniority(strings.TrimSpace(r.FormValue("seniority"))),
		},
	}

	for i, year := range r.MultipartForm.Value["period_year"] {
		period := types.EvaluationPeriod{Year: strings.TrimSpace(year)}
		for _, fh := range r.MultipartForm.File["period_"+strconv.Itoa(i)] {
			f, err := fh.Open()
			if err != nil {
				return nil, &ErrBadRequest{Message: fmt.Sprintf("cannot open %q: %v", fh.Filename, err)}
			}
			data, err := io.ReadAll(f)
			f.Close() //nolint:errcheck
			if err != nil {
				return nil, &ErrBadRequest{Message: fmt.Sprintf("cannot read %q: %v", fh.Filename, err)}
			}
			period.Files = append(period.Files, types.Document{Name: fh.Filename, Data: data})
		}
		form.Periods = append(form.Periods, period)
	}
	return form, nil
}

// writePDF renders a document and sends it as an attachment. Only render
// failures are returned; the response is untouched in that case.
func (s *Server) writePDF(w http.ResponseWriter, filename string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Warn().Err(err).Str("filename", filename).Msg("error writing PDF response")
	}
	return nil
}
