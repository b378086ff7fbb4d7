// Package response shapes every JSON body the API emits: a
// {success, data/error, timestamp} envelope, with pagination metadata on
// listing endpoints.
package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform JSON response body.
type Envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Details   interface{} `json:"details,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// ListEnvelope carries a page of results plus pagination metadata.
type ListEnvelope struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
	Timestamp  string      `json:"timestamp"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination fills in pages = ceil(total/limit).
func NewPagination(page, limit, total int) Pagination {
	pages := total / limit
	if total%limit > 0 {
		pages++
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// OK writes a 200 success envelope.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Timestamp: timestamp()})
}

// Created writes a 201 success envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data, Timestamp: timestamp()})
}

// OKList writes a 200 page of results.
func OKList(c *gin.Context, data interface{}, p Pagination) {
	c.JSON(http.StatusOK, ListEnvelope{Success: true, Data: data, Pagination: p, Timestamp: timestamp()})
}

// Err writes an error envelope with the given status.
func Err(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Error: message, Timestamp: timestamp()})
}

// ErrWithDetails writes an error envelope with field-level details attached.
func ErrWithDetails(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, Envelope{Success: false, Error: message, Details: details, Timestamp: timestamp()})
}

// NotFound writes a 404 error envelope.
func NotFound(c *gin.Context, message string) {
	Err(c, http.StatusNotFound, message)
}

// Internal writes the generic 500 envelope. The underlying cause belongs in
// the log, not the body.
func Internal(c *gin.Context) {
	Err(c, http.StatusInternalServerError, "Internal server error")
}
