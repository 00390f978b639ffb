package storage

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/config"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"
)

// s3URLPattern matches https://<bucket>.s3.<region>.amazonaws.com/<key>
var s3URLPattern = regexp.MustCompile(`^https://[^/]+\.s3\.[^/]+\.amazonaws\.com/.+$`)

// URLValidator accepts only URLs of objects held by the configured store
type URLValidator struct {
	pattern *regexp.Regexp
	// bucketPrefix is stripped from path-style URLs when deriving keys
	bucketPrefix string
}

// NewURLValidator builds the validator for cfg. Without a base endpoint
// the AWS virtual-hosted shape is required, otherwise URLs must live under
// <endpoint>/<bucket>/.
func NewURLValidator(cfg config.S3Config) *URLValidator {
	if cfg.BaseEndpoint == "" {
		return &URLValidator{pattern: s3URLPattern}
	}
	base := strings.TrimRight(cfg.BaseEndpoint, "/") + "/" + cfg.Bucket + "/"
	return &URLValidator{
		pattern:      regexp.MustCompile("^" + regexp.QuoteMeta(base) + ".+$"),
		bucketPrefix: cfg.Bucket + "/",
	}
}

// Validate returns a ValidationError naming rawURL when it is not trusted
func (v *URLValidator) Validate(rawURL string) error {
	if !v.pattern.MatchString(rawURL) {
		return domain.Validationf("Invalid S3 URL format: %s", rawURL)
	}
	return nil
}

// KeyFromURL returns the object key of a trusted URL
func (v *URLValidator) KeyFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	key := strings.TrimPrefix(u.Path, "/")
	return strings.TrimPrefix(key, v.bucketPrefix)
}

// FileNameFromURL returns the last path segment of rawURL
func FileNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return path.Base(rawURL)
	}
	return path.Base(u.Path)
}
