package v1

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/medqa-backend/internal/platform/apierr"
	"github.com/yungbote/medqa-backend/internal/qa"
)

func (h *handlers) transcribe(c *gin.Context) {
	in, err := h.readAudio(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	text, err := h.svc.Transcribe(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, transcribeResponse{Text: text})
}

func (h *handlers) answerAudio(c *gin.Context) {
	in, err := h.readAudio(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	ctx := c.Request.Context()
	res, err := await(ctx, h.svc.Submit(ctx, qa.Request{Audio: &in}))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, audioAnswerResponse{
		Transcript: res.Transcript,
		Question:   res.Question,
		Variant:    string(res.Variant),
		Answer:     res.Answer,
	})
}

// readAudio accepts a multipart upload in field "file" or a JSON frame capture.
func (h *handlers) readAudio(c *gin.Context) (qa.AudioInput, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return h.readUpload(c)
	}

	var req framesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return qa.AudioInput{}, bindError(err)
	}
	return qa.AudioInput{Frames: req.Frames, SampleRate: req.SampleRate}, nil
}

func (h *handlers) readUpload(c *gin.Context) (qa.AudioInput, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return qa.AudioInput{}, err
		}
		return qa.AudioInput{}, apierr.BadRequest("invalid_request", "file", fmt.Errorf("multipart field %q is required", "file"))
	}
	if h.opts.MaxUploadBytes > 0 && fh.Size > h.opts.MaxUploadBytes {
		return qa.AudioInput{}, apierr.New(http.StatusRequestEntityTooLarge, "request_too_large",
			fmt.Errorf("audio file exceeds %d bytes", h.opts.MaxUploadBytes))
	}
	f, err := fh.Open()
	if err != nil {
		return qa.AudioInput{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return qa.AudioInput{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return qa.AudioInput{}, apierr.BadRequest("no_audio", "file", qa.ErrNoAudio)
	}
	return qa.AudioInput{File: data, Filename: fh.Filename}, nil
}
