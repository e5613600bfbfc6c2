package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponse_IsSuccess(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		expected   bool
	}{
		{"200 OK", 200, true},
		{"201 Created", 201, true},
		{"204 No Content", 204, true},
		{"301 Redirect", 301, false},
		{"400 Bad Request", 400, false},
		{"418 Teapot", 418, false},
		{"500 Server Error", 500, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &Response{StatusCode: tt.statusCode}
			assert.Equal(t, tt.expected, resp.IsSuccess())
		})
	}
}

func TestResponse_IsError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		expected   bool
	}{
		{"200 OK", 200, false},
		{"400 Bad Request", 400, true},
		{"404 Not Found", 404, true},
		{"500 Server Error", 500, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &Response{StatusCode: tt.statusCode}
			assert.Equal(t, tt.expected, resp.IsError())
		})
	}
}

func TestResponse_Reason(t *testing.T) {
	assert.Equal(t, "I'm a teapot", (&Response{StatusCode: 418}).Reason())
	assert.Equal(t, "custom", (&Response{StatusCode: 418, Status: "custom"}).Reason())
}
