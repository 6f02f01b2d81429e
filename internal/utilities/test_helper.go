package utilities

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

// SimulateAPICall runs handlerFunc on a test context whose request carries
// body encoded as JSON. Each prepare func runs on the context first, which is
// how tests stand in for middleware that sets "user" or "claims".
// The response body is decoded into a map when it is a JSON object.
func SimulateAPICall(
	handlerFunc gin.HandlerFunc,
	route string,
	method string,
	body interface{},
	prepare ...func(*gin.Context),
) (*httptest.ResponseRecorder, map[string]interface{}, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, nil, err
	}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, route, bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	for _, p := range prepare {
		p(c)
	}

	handlerFunc(c)

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		return rec, nil, err
	}
	return rec, resp, nil
}
