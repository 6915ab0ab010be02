package server

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

func newValidLimiter(r rate.Limit, b int) (*rate.Limiter, error) {
	if b <= 0 || r <= 0 {
		return nil, fmt.Errorf("bad rate limit config, insufficient tokens (rate=%f, b=%d)", r, b)
	}
	return rate.NewLimiter(r, b), nil
}

// ParseRateLimit parses the rate limit syntax into a rate.Limiter.
// sample inputs:
//
//	2+1/5s (2 initial tokens, 1 token per 5 seconds)
//	60+30/1s (60 initial tokens, 30 tokens per second)
//	3m (1 token per 3 minutes)
//	1/3m (1 token per 3 minutes)
func ParseRateLimit(desc string) (*rate.Limiter, error) {
	var b = 0
	var r = 1.0
	var durStr string

	_, err := fmt.Sscanf(desc, "%d+%f/%s", &b, &r, &durStr)
	if err != nil {
		b = 1
		r = 1.0
		if _, err = fmt.Sscanf(desc, "%f/%s", &r, &durStr); err != nil {
			durStr = desc
			r = 1.0
		}
	}

	duration, err := time.ParseDuration(durStr)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit syntax: b+n/duration, err: %v", err)
	}

	return newValidLimiter(rate.Every(time.Duration(float64(duration)/r)), b)
}
