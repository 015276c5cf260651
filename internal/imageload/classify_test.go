package imageload

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestRemoteURL_Direct(t *testing.T) {
	u := remoteURL("https://example.com/a.png", nil)
	require.NotNil(t, u)
	require.Equal(t, "https://example.com/a.png", u.String())

	u = remoteURL("http://example.com/a.png", nil)
	require.NotNil(t, u)
}

func TestRemoteURL_OtherSchemeIsNotRemote(t *testing.T) {
	require.Nil(t, remoteURL("ftp://example.com/a.png", nil))
	require.Nil(t, remoteURL("mailto:hi@example.com", mustURL(t, "https://example.com/doc.md")))
}

func TestRemoteURL_RelativeWithoutBaseIsLocal(t *testing.T) {
	require.Nil(t, remoteURL("img/a.png", nil))
	require.Nil(t, remoteURL("/abs/a.png", nil))
}

func TestRemoteURL_JoinsAgainstBase(t *testing.T) {
	base := mustURL(t, "https://host/docs/readme.md")

	u := remoteURL("img/a.png", base)
	require.NotNil(t, u)
	require.Equal(t, "https://host/docs/img/a.png", u.String())

	u = remoteURL("/top.png", base)
	require.NotNil(t, u)
	require.Equal(t, "https://host/top.png", u.String())
}

func TestLocalPath_JoinsBaseDir(t *testing.T) {
	got := localPath("img/a.png", "/docs")
	require.Equal(t, filepath.Join("/docs", "img", "a.png"), got)
}

func TestLocalPath_AbsoluteIgnoresBase(t *testing.T) {
	require.Equal(t, "/etc/a.png", localPath("/etc/a.png", "/docs"))
}

func TestLocalPath_CleansDotSegments(t *testing.T) {
	require.Equal(t, "/docs/a.png", localPath("./sub/../a.png", "/docs"))
}

func TestLocalPath_EmptyBaseUsesWorkingDirectory(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(cwd, "a.png"), localPath("a.png", ""))
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.Equal(t, home, expandHome("~"))
	require.Equal(t, filepath.Join(home, "pics", "a.png"), expandHome("~/pics/a.png"))
	require.Equal(t, "~other/a.png", expandHome("~other/a.png"))
}
