package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kaushik-yadav/RAGFlow/internal/service"
	"github.com/kaushik-yadav/RAGFlow/internal/transcribe"
)

type AskHandler struct {
	session     *Session
	transcriber *transcribe.Transcriber
	retrieval   *service.RetrievalService
	answers     *service.AnswerService
	sampleRate  int
	timeout     time.Duration
	topK        int
}

func NewAskHandler(session *Session, transcriber *transcribe.Transcriber, retrieval *service.RetrievalService, answers *service.AnswerService, sampleRate int, timeout time.Duration, topK int) *AskHandler {
	if topK <= 0 {
		topK = 3
	}
	return &AskHandler{
		session:     session,
		transcriber: transcriber,
		retrieval:   retrieval,
		answers:     answers,
		sampleRate:  sampleRate,
		timeout:     timeout,
		topK:        topK,
	}
}

// Transcribe accepts a recorded question as a raw PCM multipart part, streams
// it to the transcription provider, and answers it against the active document.
func (h *AskHandler) Transcribe(c *gin.Context) {
	_, documentID, ok := h.session.Active()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No document uploaded. Please upload a document first."})
		return
	}

	audio, _, err := c.Request.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio is required"})
		return
	}

	source := transcribe.NewReaderSource(audio, h.sampleRate)
	question, err := h.transcriber.Transcribe(c.Request.Context(), source, h.timeout)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	answer := h.answer(c, question, documentID)
	c.JSON(http.StatusOK, gin.H{
		"question": question,
		"answer":   answer,
	})
}

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

// Ask answers a typed question against the active document.
func (h *AskHandler) Ask(c *gin.Context) {
	_, documentID, ok := h.session.Active()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No document uploaded. Please upload a document first."})
		return
	}

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	answer := h.answer(c, req.Question, documentID)
	c.JSON(http.StatusOK, gin.H{
		"question": req.Question,
		"answer":   answer,
	})
}

func (h *AskHandler) answer(c *gin.Context, question string, documentID uuid.UUID) string {
	units, err := h.retrieval.Retrieve(c.Request.Context(), question, documentID, h.topK)
	if err != nil {
		return "Retrieval failed: " + err.Error()
	}

	contexts := make([]string, len(units))
	for i, u := range units {
		contexts[i] = u.Unit.Content
	}
	return h.answers.Answer(c.Request.Context(), question, contexts)
}
