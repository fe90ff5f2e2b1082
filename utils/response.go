package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed API call. The client shows Error verbatim.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// Respond writes data as JSON with the given status code.
func Respond(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, data)
}

// Success returns a 200 response.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusOK, data)
}

// Created returns a 201 response.
func Created(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusCreated, data)
}

// Error returns a standard error response. code is <status><nn>, e.g. 40401.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, ErrorResponse{Error: message, Code: code})
}
