// Package testutil provides utility functions for testing HTTP handlers.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

// MakeJSONRequest is a helper function for making JSON requests in tests.
// A nil body sends no payload and an empty authToken sends no Authorization header.
func MakeJSONRequest(body gin.H, authToken string, r *gin.Engine, endpoint string, method string) (*httptest.ResponseRecorder, map[string]interface{}) {
	rec := serve(body, authToken, r, endpoint, method)

	resp := map[string]interface{}{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)

	return rec, resp
}

// MakeJSONListRequest is MakeJSONRequest for endpoints answering with a JSON array.
func MakeJSONListRequest(body gin.H, authToken string, r *gin.Engine, endpoint string, method string) (*httptest.ResponseRecorder, []map[string]interface{}) {
	rec := serve(body, authToken, r, endpoint, method)

	resp := []map[string]interface{}{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)

	return rec, resp
}

func serve(body gin.H, authToken string, r *gin.Engine, endpoint string, method string) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, endpoint, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
