package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/medqa-backend/internal/qa"
)

func (h *handlers) answer(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}

	ctx := c.Request.Context()
	res, err := await(ctx, h.svc.Submit(ctx, qa.Request{Question: req.Question}))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, answerResponse{
		Question: res.Question,
		Variant:  string(res.Variant),
		Answer:   res.Answer,
	})
}

func (h *handlers) prompt(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err))
		return
	}
	p, err := h.svc.Preview(req.Question)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, promptResponse{Variant: string(p.Variant), Prompt: p.Text})
}
