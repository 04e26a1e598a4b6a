package restkit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RequestInterceptor is called before a request is sent.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor is called after a response is received.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// InterceptorChain manages a chain of interceptors.
type InterceptorChain struct {
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates a new interceptor chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{
		requestInterceptors:  make([]RequestInterceptor, 0),
		responseInterceptors: make([]ResponseInterceptor, 0),
	}
}

// AddRequestInterceptor adds a request interceptor to the chain.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) {
	c.requestInterceptors = append(c.requestInterceptors, interceptor)
}

// AddResponseInterceptor adds a response interceptor to the chain.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) {
	c.responseInterceptors = append(c.responseInterceptors, interceptor)
}

// ExecuteRequestInterceptors runs all request interceptors.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *Request) error {
	for _, interceptor := range c.requestInterceptors {
		err := interceptor(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs all response interceptors.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *Request, resp *Response) error {
	for _, interceptor := range c.responseInterceptors {
		err := interceptor(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// Common Interceptors

// LoggingInterceptor logs requests.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		logger.Debug("API Request", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
		})

		return nil
	}
}

// LoggingResponseInterceptor logs responses.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		fields := map[string]interface{}{
			"method":      req.Method,
			"path":        req.Path,
			"status_code": resp.StatusCode,
		}

		if resp.IsSuccess() {
			logger.Debug("API Response", fields)
		} else {
			logger.Error("API Response Error", fields)
		}

		return nil
	}
}

// HeaderInterceptor adds custom headers to requests.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(map[string]string)
		}

		for key, value := range headers {
			req.Headers[key] = value
		}

		return nil
	}
}

// RequestIDInterceptor stamps each request with a unique X-Request-ID
// header. An id already set by the caller is preserved.
func RequestIDInterceptor() RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(map[string]string)
		}

		if _, ok := req.Headers["X-Request-ID"]; !ok {
			req.Headers["X-Request-ID"] = uuid.NewString()
		}

		return nil
	}
}

// Metrics tracks call statistics for one endpoint.
type Metrics struct {
	TotalRequests   int64
	TotalErrors     int64
	TotalLatency    time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time
}

// MetricsCollector collects API metrics per "METHOD path" endpoint. It is
// not safe for concurrent use, matching the client's synchronous call model.
type MetricsCollector struct {
	metrics  map[string]*Metrics
	onChange func(endpoint string, metrics *Metrics)
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics: make(map[string]*Metrics),
	}
}

// SetOnChange sets a callback for when metrics change.
func (m *MetricsCollector) SetOnChange(fn func(endpoint string, metrics *Metrics)) {
	m.onChange = fn
}

// GetMetrics returns metrics for an endpoint.
func (m *MetricsCollector) GetMetrics(endpoint string) *Metrics {
	if metrics, ok := m.metrics[endpoint]; ok {
		return metrics
	}

	return nil
}

// MetricsRequestInterceptor records request start time.
func MetricsRequestInterceptor(collector *MetricsCollector) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Metadata == nil {
			req.Metadata = make(map[string]interface{})
		}

		req.Metadata["start_time"] = time.Now()

		return nil
	}
}

// MetricsResponseInterceptor records response metrics.
func MetricsResponseInterceptor(collector *MetricsCollector) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		endpoint := fmt.Sprintf("%s %s", req.Method, req.Path)

		metrics, ok := collector.metrics[endpoint]
		if !ok {
			metrics = &Metrics{}
			collector.metrics[endpoint] = metrics
		}

		metrics.TotalRequests++
		metrics.LastRequestTime = time.Now()

		if req.Metadata != nil {
			if startTime, ok := req.Metadata["start_time"].(time.Time); ok {
				latency := time.Since(startTime)
				metrics.TotalLatency += latency
				metrics.AverageLatency = metrics.TotalLatency / time.Duration(metrics.TotalRequests)
			}
		}

		if !resp.IsSuccess() {
			metrics.TotalErrors++
		}

		if collector.onChange != nil {
			collector.onChange(endpoint, metrics)
		}

		return nil
	}
}
