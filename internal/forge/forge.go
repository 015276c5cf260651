// Package forge rewrites forge web URLs to raw-content URLs so that a
// repository file link can be fetched as plain Markdown.
package forge

import (
	"net/url"
	"strings"
)

// RawURL rewrites a GitHub, GitLab, Bitbucket, or Codeberg file URL to
// the corresponding raw-content URL. It reports false for URLs it does
// not recognize; those are fetched as-is.
func RawURL(link string) (string, bool) {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")

	switch u.Host {
	case "github.com":
		return githubRaw(parts)
	case "gitlab.com":
		return gitlabRaw(u, parts)
	case "bitbucket.org":
		return bitbucketRaw(parts)
	case "codeberg.org":
		return codebergRaw(parts)
	}
	return "", false
}

// githubRaw handles /owner/repo/blob/branch/path and bare /owner/repo
// (which resolves to the default branch's README).
func githubRaw(parts []string) (string, bool) {
	switch {
	case len(parts) >= 5 && parts[2] == "blob":
		return "https://raw.githubusercontent.com/" + parts[0] + "/" + parts[1] + "/" + strings.Join(parts[3:], "/"), true
	case len(parts) == 2:
		return "https://raw.githubusercontent.com/" + parts[0] + "/" + parts[1] + "/HEAD/README.md", true
	}
	return "", false
}

// gitlabRaw handles /owner/repo/-/blob/branch/path.
func gitlabRaw(u *url.URL, parts []string) (string, bool) {
	for i, part := range parts {
		if part == "-" && i+1 < len(parts) && parts[i+1] == "blob" {
			raw := append(append([]string{}, parts[:i]...), "-", "raw")
			raw = append(raw, parts[i+2:]...)
			return "https://" + u.Host + "/" + strings.Join(raw, "/"), true
		}
	}
	if len(parts) == 2 {
		return "https://" + u.Host + "/" + parts[0] + "/" + parts[1] + "/-/raw/HEAD/README.md", true
	}
	return "", false
}

// bitbucketRaw handles /owner/repo/src/branch/path.
func bitbucketRaw(parts []string) (string, bool) {
	if len(parts) >= 5 && parts[2] == "src" {
		return "https://bitbucket.org/" + parts[0] + "/" + parts[1] + "/raw/" + strings.Join(parts[3:], "/"), true
	}
	return "", false
}

// codebergRaw handles /owner/repo/src/branch/name/path.
func codebergRaw(parts []string) (string, bool) {
	if len(parts) >= 6 && parts[2] == "src" && parts[3] == "branch" {
		return "https://codeberg.org/" + parts[0] + "/" + parts[1] + "/raw/branch/" + strings.Join(parts[4:], "/"), true
	}
	if len(parts) == 2 {
		return "https://codeberg.org/" + parts[0] + "/" + parts[1] + "/raw/README.md", true
	}
	return "", false
}
