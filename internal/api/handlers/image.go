package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/baharkarakas/imagify-backend/internal/api/httpx"
	"github.com/baharkarakas/imagify-backend/internal/apperr"
	"github.com/baharkarakas/imagify-backend/internal/middleware"
	"github.com/baharkarakas/imagify-backend/internal/services"
)

type ImageHandler struct {
	Images *services.ImageService
}

func NewImageHandler(is *services.ImageService) *ImageHandler {
	return &ImageHandler{Images: is}
}

type generateReq struct {
	Prompt string `json:"prompt"`
}

func (h *ImageHandler) Generate(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserID(r.Context())
	if !ok {
		httpx.Fail(w, r, apperr.ErrNoToken)
		return
	}
	var req generateReq
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Fail(w, r, apperr.ErrMissingFields)
		return
	}

	res, err := h.Images.Generate(r.Context(), uid, req.Prompt)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.OK(w, map[string]any{
		"message":       "Image Generated",
		"resultImage":   dataURI(res.Image.ContentType, res.Image.Data),
		"creditBalance": res.Balance,
	})
}

func dataURI(contentType string, data []byte) string {
	if contentType == "" {
		contentType = "image/png"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
