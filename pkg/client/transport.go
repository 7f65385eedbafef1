package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/sling"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Transport sends one request to the service and returns the raw status
// and payload. A non-nil error means no response was received.
type Transport interface {
	Send(ctx context.Context, method, path string, params interface{}) (int, []byte, error)
}

// HTTPTransport is the default Transport. GET params are encoded as a
// query string (url struct tags), POST params as a JSON body.
type HTTPTransport struct {
	base       *sling.Sling
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewHTTPTransport creates a transport rooted at baseURL
func NewHTTPTransport(baseURL string, httpClient *http.Client, userAgent string, log logrus.FieldLogger) *HTTPTransport {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if log == nil {
		log = discardLogger()
	}

	// sling resolves request paths relative to the base, so the base must
	// end with a slash for the version prefix to survive.
	base := sling.New().
		Client(httpClient).
		Base(strings.TrimRight(baseURL, "/")+"/").
		Set("Accept", "application/json")
	if userAgent != "" {
		base = base.Set("User-Agent", userAgent)
	}

	return &HTTPTransport{
		base:       base,
		httpClient: httpClient,
		log:        log,
	}
}

// Send implements Transport
func (t *HTTPTransport) Send(ctx context.Context, method, path string, params interface{}) (int, []byte, error) {
	path = strings.TrimLeft(path, "/")

	s := t.base.New()
	switch method {
	case http.MethodGet:
		s = s.Get(path)
		if params != nil {
			s = s.QueryStruct(params)
		}
	case http.MethodPost:
		s = s.Post(path)
		if params != nil {
			s = s.BodyJSON(params)
		}
	default:
		return 0, nil, ErrUnsupportedMethod
	}

	requestID := uuid.NewString()
	req, err := s.Set("X-Request-Id", requestID).Request()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req = req.WithContext(ctx)

	logger := t.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"method":     method,
		"url":        req.URL.String(),
	})
	logger.Debug("sending request")

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		logger.WithError(err).Debug("request failed")
		return 0, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"status":  resp.StatusCode,
		"latency": time.Since(start).String(),
		"bytes":   len(body),
	}).Debug("received response")

	return resp.StatusCode, body, nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
