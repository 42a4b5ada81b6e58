package client

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// roundTripperFunc lets tests serve canned responses without network.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func stubResponse(status int, header http.Header, body string) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func redirectResponse(status int, location string) *http.Response {
	return stubResponse(status, http.Header{"Location": []string{location}}, "")
}
