package api

import (
	"errors"
	"net/http"

	"github.com/mmynk/tripsplit/internal/ocr"
)

type parseReceiptRequest struct {
	ImageBase64 string `json:"image_base64"`
	MediaType   string `json:"media_type"`
}

func (s *Server) handleParseReceipt(w http.ResponseWriter, r *http.Request) {
	var req parseReceiptRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.ImageBase64 == "" {
		writeError(w, http.StatusBadRequest, errors.New("image_base64 is required"))
		return
	}

	result, err := s.OCR.Parse(r.Context(), req.ImageBase64, req.MediaType)
	if err != nil {
		if errors.Is(err, ocr.ErrNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, err)
			return
		}
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
