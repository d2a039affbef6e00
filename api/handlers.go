package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"clipcutter/application/batch"
	"clipcutter/domain/video"
	"clipcutter/infrastructure/filesystem"
)

type sharedListing struct {
	SharedFolder string             `json:"shared_folder"`
	Contents     []filesystem.Entry `json:"contents"`
}

type sharedError struct {
	Error        string `json:"error"`
	SharedFolder string `json:"shared_folder"`
}

type extractFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListShared returns the top-level contents of the shared folder.
func (s *Server) handleListShared(w http.ResponseWriter, r *http.Request) {
	entries, err := s.root.List()
	if err != nil {
		s.respondJSON(w, http.StatusInternalServerError, sharedError{
			Error:        err.Error(),
			SharedFolder: s.root.Dir(),
		})
		return
	}

	s.respondJSON(w, http.StatusOK, sharedListing{
		SharedFolder: s.root.Dir(),
		Contents:     entries,
	})
}

// handleCut runs a cutlist-driven batch. The response is 200 with per-item
// outcomes even when items fail; only batch-level rejections map to 4xx/5xx.
func (s *Server) handleCut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InputFile    string `json:"input_file"`
		CutlistFile  string `json:"cutlist_file"`
		OutputFolder string `json:"output_folder"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.InputFile == "" || req.CutlistFile == "" || req.OutputFolder == "" {
		s.respondError(w, http.StatusBadRequest, "Missing required fields. Required: [input_file, cutlist_file, output_folder]")
		return
	}

	result, err := s.batch.RunCutlist(r.Context(), req.InputFile, req.CutlistFile, req.OutputFolder)
	if err != nil {
		switch {
		case errors.Is(err, filesystem.ErrNotFound):
			s.respondError(w, http.StatusNotFound, "Input file or cutlist file not found")
		case errors.Is(err, filesystem.ErrOutsideRoot):
			s.respondError(w, http.StatusBadRequest, err.Error())
		default:
			s.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}

// handleCutSegments runs a batch described inline in the request instead of
// by a cutlist file on the shared folder.
func (s *Server) handleCutSegments(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InputFile    string `json:"input_file"`
		OutputFolder string `json:"output_folder"`
		Segments     []struct {
			StartTime  string `json:"start_time"`
			EndTime    string `json:"end_time"`
			OutputName string `json:"output_name"`
		} `json:"segments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.InputFile == "" || len(req.Segments) == 0 {
		s.respondError(w, http.StatusBadRequest, "Missing required fields. Required: [input_file, segments]")
		return
	}

	items := make([]batch.Item, 0, len(req.Segments))
	for _, seg := range req.Segments {
		items = append(items, batch.TrimItem{
			Start:  seg.StartTime,
			End:    seg.EndTime,
			Output: seg.OutputName,
		})
	}

	result, err := s.batch.Run(r.Context(), req.InputFile, req.OutputFolder, items)
	if err != nil {
		switch {
		case errors.Is(err, filesystem.ErrNotFound):
			s.respondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, filesystem.ErrOutsideRoot):
			s.respondError(w, http.StatusBadRequest, err.Error())
		default:
			s.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}

// handleExtractAudio extracts the audio track of a video into mp3 or wav.
func (s *Server) handleExtractAudio(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InputFile  string `json:"input_file"`
		OutputFile string `json:"output_file"`
		Format     string `json:"format"`
		Bitrate    string `json:"bitrate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.InputFile == "" || req.OutputFile == "" {
		s.respondError(w, http.StatusBadRequest, "Missing required fields. Required: [input_file, output_file]")
		return
	}

	result, err := s.extract.ExtractAudio(r.Context(), req.InputFile, req.OutputFile, req.Format, req.Bitrate)
	if err != nil {
		s.respondExtractError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}

// handleExtractMutedVideo strips the audio track from a video.
func (s *Server) handleExtractMutedVideo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InputFile  string `json:"input_file"`
		OutputFile string `json:"output_file"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.InputFile == "" || req.OutputFile == "" {
		s.respondError(w, http.StatusBadRequest, "Missing required fields. Required: [input_file, output_file]")
		return
	}

	result, err := s.extract.ExtractMutedVideo(r.Context(), req.InputFile, req.OutputFile)
	if err != nil {
		s.respondExtractError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) respondExtractError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, filesystem.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, filesystem.ErrOutsideRoot), errors.Is(err, video.ErrUnsupportedFormat):
		s.respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.respondJSON(w, http.StatusInternalServerError, extractFailure{Success: false, Error: err.Error()})
	}
}
