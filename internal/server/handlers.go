package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/jonathan/interview-screener/internal/faults"
	"github.com/jonathan/interview-screener/internal/logger"
)

// maxFieldBytes bounds non-file multipart fields; ids and counts are tiny.
const maxFieldBytes = 256

// AnswerResponse is the response for POST /answers.
type AnswerResponse struct {
	CandidateID string `json:"candidate_id"`
	QuestionID  string `json:"question_id"`
	Transcript  string `json:"transcript"`
}

// AnalyzeRequest is the request body for POST /analyze.
type AnalyzeRequest struct {
	CandidateID string `json:"candidate_id" validate:"required"`
}

// answerForm carries the multipart text fields of POST /answers.
type answerForm struct {
	CandidateID string `validate:"required"`
	QuestionID  string `validate:"required"`
}

// handleStartInterview ingests a résumé and responds with the generated
// question set once all question audio is stored.
func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	file, fields, err := s.readUploadForm(r)
	if err != nil {
		s.faultResponse(w, err)
		return
	}
	if len(file) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "validation_error", "multipart field 'file' is required")
		return
	}

	count := 0
	if raw := fields["n_questions"]; raw != "" {
		count, err = strconv.Atoi(raw)
		if err != nil || count <= 0 {
			s.errorResponse(w, http.StatusBadRequest, "validation_error", "n_questions must be a positive integer")
			return
		}
	}

	result, err := s.orch.Start(r.Context(), file, count)
	if err != nil {
		s.faultResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleSubmitAnswer accepts one spoken answer and responds with its
// transcript.
func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	file, fields, err := s.readUploadForm(r)
	if err != nil {
		s.faultResponse(w, err)
		return
	}
	form := answerForm{
		CandidateID: fields["candidate_id"],
		QuestionID:  fields["question_id"],
	}
	if err := s.validate.Struct(&form); err != nil {
		s.faultResponse(w, requestFault(err))
		return
	}
	if len(file) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "validation_error", "multipart field 'file' is required")
		return
	}

	transcript, err := s.orch.SubmitAnswer(r.Context(), form.CandidateID, form.QuestionID, file)
	if err != nil {
		s.faultResponse(w, err)
		return
	}

	s.logger.Debug("answer transcribed",
		zap.String("candidate_id", form.CandidateID),
		zap.String("question_id", form.QuestionID),
		zap.String("transcript", logger.Truncate(transcript, 120)))

	s.jsonResponse(w, http.StatusOK, AnswerResponse{
		CandidateID: form.CandidateID,
		QuestionID:  form.QuestionID,
		Transcript:  transcript,
	})
}

// handleAnalyze grades a fully answered interview and returns the report.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "validation_error", "invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.faultResponse(w, requestFault(err))
		return
	}

	report, err := s.orch.Analyze(r.Context(), req.CandidateID)
	if err != nil {
		s.faultResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleAudio streams a stored audio object untouched, with the content
// type it was stored under.
func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("ref")
	if ref == "" {
		s.errorResponse(w, http.StatusBadRequest, "validation_error", "query parameter 'ref' is required")
		return
	}

	data, contentType, err := s.blobs.Get(r.Context(), ref)
	if err != nil {
		s.faultResponse(w, err)
		return
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("audio write failed", zap.String("ref", ref), zap.Error(err))
	}
}

// handleSession returns the snapshot for one candidate.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	candidateID := r.PathValue("candidate_id")
	if candidateID == "" {
		s.errorResponse(w, http.StatusBadRequest, "validation_error", "candidate id is required")
		return
	}

	snap, err := s.orch.Snapshot(candidateID)
	if err != nil {
		s.faultResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, snap)
}

// readUploadForm drains a multipart body: the "file" part goes through a
// capture handle, which enforces the upload cap, and small text fields are
// collected as strings.
func (s *Server) readUploadForm(r *http.Request) ([]byte, map[string]string, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, nil, faults.Validation("body", "expected multipart/form-data: %v", err)
	}

	var file []byte
	fields := make(map[string]string)
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, faults.Validation("body", "malformed multipart body: %v", err)
		}

		if part.FormName() == "file" {
			handle := s.recorder.Begin()
			if _, err := io.Copy(handle, part); err != nil {
				handle.Discard()
				return nil, nil, err
			}
			data, err := handle.End()
			if err != nil {
				return nil, nil, err
			}
			file = data
			continue
		}

		value, err := io.ReadAll(io.LimitReader(part, maxFieldBytes))
		if err != nil {
			return nil, nil, faults.Validation(part.FormName(), "unreadable form field: %v", err)
		}
		fields[part.FormName()] = string(value)
	}
	return file, fields, nil
}
