package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/matzehuels/familytree/pkg/buildinfo"
	ferrors "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	ftio "github.com/matzehuels/familytree/pkg/io"
	"github.com/matzehuels/familytree/pkg/pipeline"
)

var contentTypes = map[string]string{
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	rows, ok := s.readRows(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts := pipeline.Options{
		Appearance: q.Get("appearance"),
		Formats:    []string{format},
		RankDir:    strings.ToUpper(q.Get("rankdir")),
		Refresh:    q.Get("refresh") == "true",
	}

	res, err := s.runner.Execute(r.Context(), rows, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cacheStatus := "MISS"
	if res.CacheInfo.RenderHit {
		cacheStatus = "HIT"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheStatus)
	w.Header().Set("ETag", `"`+res.DOTHash+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

type checkResponse struct {
	Persons    int               `json:"persons"`
	Couples    int               `json:"couples"`
	Households []householdReport `json:"households"`
}

type householdReport struct {
	Key     string `json:"key"`
	Kind    string `json:"kind"`
	Members []int  `json:"members"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	rows, ok := s.readRows(w, r)
	if !ok {
		return
	}
	f, err := s.runner.Build(r.Context(), rows)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := checkResponse{Persons: f.Len(), Households: []householdReport{}}
	for _, h := range family.NewResolver(f).Partition() {
		ids := make([]int, len(h.Members))
		for i, m := range h.Members {
			ids[i] = m.ID
		}
		resp.Couples += len(h.Couples)
		resp.Households = append(resp.Households, householdReport{
			Key:     h.Key,
			Kind:    h.Kind().String(),
			Members: ids,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) readRows(w http.ResponseWriter, r *http.Request) ([]family.Row, bool) {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "text/csv") && !strings.HasPrefix(ct, "text/plain") {
		s.writeError(w, r, ferrors.New(ferrors.ErrCodeInvalidInput, "unsupported content type %q (want text/csv)", ct))
		return nil, false
	}
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	rows, err := ftio.ReadCSV(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody(r, ferrors.ErrCodeInvalidInput, "request body too large"))
			return nil, false
		}
		s.writeError(w, r, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "read CSV"))
		return nil, false
	}
	return rows, true
}

func statusFor(code ferrors.Code) int {
	switch code {
	case ferrors.ErrCodeParse, ferrors.ErrCodeInvalidInput, ferrors.ErrCodeInvalidFormat, ferrors.ErrCodeInvalidAppearance:
		return http.StatusBadRequest
	case ferrors.ErrCodeFamilyInconsistent, ferrors.ErrCodeAssembly:
		return http.StatusUnprocessableEntity
	case ferrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := ferrors.GetCode(err)
	if code == "" {
		code = ferrors.ErrCodeInternal
	}
	status := statusFor(code)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody(r, code, msg))
}

type errorDetail struct {
	Code    ferrors.Code `json:"code"`
	Message string       `json:"message"`
}

type errorResponse struct {
	Error     errorDetail `json:"error"`
	RequestID string      `json:"request_id"`
}

func errorBody(r *http.Request, code ferrors.Code, msg string) errorResponse {
	return errorResponse{
		Error:     errorDetail{Code: code, Message: msg},
		RequestID: RequestID(r.Context()),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
