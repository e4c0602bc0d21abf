package bot

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
)

func restStatus(err error) int {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		return rest.Response.StatusCode
	}
	return 0
}

// IsForbidden reports a platform denial (missing permission or hierarchy).
func IsForbidden(err error) bool {
	return restStatus(err) == http.StatusForbidden
}

func IsNotFound(err error) bool {
	return restStatus(err) == http.StatusNotFound
}

// IsTransient reports errors worth retrying: rate limits, 5xx responses,
// timeouts and network failures.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if status := restStatus(err); status != 0 {
		return status == http.StatusTooManyRequests || status >= 500
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// RetryAfter extracts a server supplied Retry-After hint.
func RetryAfter(err error) (time.Duration, bool) {
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) || rest.Response == nil {
		return 0, false
	}
	header := rest.Response.Header.Get("Retry-After")
	if header == "" {
		return 0, false
	}
	secs, err := strconv.ParseFloat(header, 64)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs * float64(time.Second)), true
}
