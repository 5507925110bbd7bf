package annotate

import (
	"errors"
	"net/http"
	"strings"

	gogithub "github.com/google/go-github/v68/github"
)

// IsRateLimit reports whether err is a transient rate-limit signal worth
// backing off for: a primary limit (429), an abuse/secondary limit, or a 403
// whose body carries the secondary-limit message.
func IsRateLimit(err error) bool {
	var rle *gogithub.RateLimitError
	if errors.As(err, &rle) {
		return true
	}
	var arle *gogithub.AbuseRateLimitError
	if errors.As(err, &arle) {
		return true
	}
	var er *gogithub.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		switch er.Response.StatusCode {
		case http.StatusTooManyRequests:
			return true
		case http.StatusForbidden:
			msg := strings.ToLower(er.Message)
			return strings.Contains(msg, "rate limit") || strings.Contains(msg, "abuse")
		}
	}
	return false
}

// IsLineNotInDiff reports whether err is the platform's 422 rejection of a
// review comment whose target line is not part of the pull request diff.
// This signals a local skip of the offending comment, not a retry.
func IsLineNotInDiff(err error) bool {
	var er *gogithub.ErrorResponse
	if !errors.As(err, &er) {
		return false
	}
	if er.Response == nil || er.Response.StatusCode != http.StatusUnprocessableEntity {
		return false
	}
	if strings.Contains(strings.ToLower(er.Message), "diff") {
		return true
	}
	for _, e := range er.Errors {
		if strings.Contains(strings.ToLower(e.Message), "diff") {
			return true
		}
	}
	return false
}
