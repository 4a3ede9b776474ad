package server

import (
	"PetAIBackend/internal/service/diagnosis"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// Память под multipart-форму; всё сверх неё ParseMultipartForm сбрасывает во временные файлы.
const multipartMemory = 8 << 20

const (
	msgTooLarge  = "Uploaded file is too large."
	msgMalformed = "Malformed request body."
)

type messageResponse struct {
	Message string `json:"message"`
}

type diagnoseTextRequest struct {
	Symptoms string `json:"symptoms"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: s.cfg.Server.LivenessMessage})
}

// handleAnalyze: multipart/form-data с полями description и image (оба опциональны).
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.writeError(w, r, err)
		return
	}
	defer removeMultipart(r)

	img, err := formImage(r, "image")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.diagnose(w, r, diagnosis.Request{
		Description: r.FormValue("description"),
		Image:       img,
	})
}

// handleDiagnoseText: JSON {"symptoms": "..."}.
func (s *Server) handleDiagnoseText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)

	var body diagnoseTextRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, classifyBodyError(err))
		return
	}
	s.diagnose(w, r, diagnosis.Request{Description: body.Symptoms})
}

// handleDiagnoseImage: файл в поле file (или image), symptoms из query или формы.
func (s *Server) handleDiagnoseImage(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.writeError(w, r, err)
		return
	}
	defer removeMultipart(r)

	img, err := formImage(r, "file", "image")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.diagnose(w, r, diagnosis.Request{
		Description: r.FormValue("symptoms"),
		Image:       img,
	})
}

func (s *Server) diagnose(w http.ResponseWriter, r *http.Request, req diagnosis.Request) {
	resp, err := s.svc.Diagnose(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseForm разбирает multipart или urlencoded форму с ограничением размера тела.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)

	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		return classifyBodyError(err)
	}
	return nil
}

// formImage читает первый найденный файл из перечисленных полей. Нет файла: nil без ошибки.
func formImage(r *http.Request, fields ...string) (*diagnosis.Image, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	for _, field := range fields {
		file, header, err := r.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return nil, classifyBodyError(err)
		}
		return readUpload(file, header)
	}
	return nil, nil
}

func readUpload(file multipart.File, header *multipart.FileHeader) (*diagnosis.Image, error) {
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, diagnosis.UpstreamFailure(err)
	}
	return &diagnosis.Image{
		Data:        data,
		ContentType: strings.TrimSpace(header.Header.Get("Content-Type")),
	}, nil
}

func removeMultipart(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

func classifyBodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return diagnosis.InvalidRequest(msgTooLarge)
	}
	return diagnosis.InvalidRequest(msgMalformed)
}
