package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"ruta_cafe/internal/moderation"
)

func TestWriteModerationError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", moderation.ErrNotFound, http.StatusNotFound},
		{"unauthorized", moderation.ErrUnauthorized, http.StatusForbidden},
		{"pending gate", moderation.ErrPendingExists, http.StatusConflict},
		{"validation", &moderation.ValidationError{Field: "comentario", Reason: "comentario de rechazo requerido"}, http.StatusBadRequest},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			writeModerationError(c, tc.err)
			assert.Equal(t, tc.want, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}
