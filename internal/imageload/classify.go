package imageload

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// remoteURL classifies a reference string. It returns the absolute
// http(s) URL to fetch, or nil when the reference should be handled as
// a local path. A reference with some other explicit scheme also
// returns nil: it is neither fetchable nor a plausible path, and falls
// through to the local not-found failure. Classification is pure
// string and URL manipulation; no network or filesystem access.
func remoteURL(source string, base *url.URL) *url.URL {
	direct, err := url.Parse(source)
	if err == nil {
		if isHTTP(direct.Scheme) && direct.Host != "" {
			return direct
		}
		if direct.Scheme != "" {
			return nil
		}
	}

	if base == nil || err != nil {
		return nil
	}

	joined := base.ResolveReference(direct)
	if isHTTP(joined.Scheme) {
		return joined
	}
	return nil
}

func isHTTP(scheme string) bool {
	return scheme == "http" || scheme == "https"
}

// localPath normalizes a local reference: home-directory shorthand is
// expanded, relative references are joined against the base directory
// (or the working directory when none is set), and `.`/`..` segments
// are resolved before any existence check.
func localPath(source, baseDir string) string {
	path := expandHome(source)
	if !filepath.IsAbs(path) {
		base := baseDir
		if base == "" {
			if cwd, err := os.Getwd(); err == nil {
				base = cwd
			}
		}
		path = filepath.Join(base, path)
	}
	return filepath.Clean(path)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
