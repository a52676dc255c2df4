package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const postingHTML = `<html>
<head><title>Acme Careers</title><meta property="og:title" content="Senior Go Engineer"></head>
<body>
	<nav>Home | Jobs</nav>
	<div class="sidebar">Sidebar junk</div>
	<div class="job-description">
		<h2>Requirements</h2>
		<ul><li>5 years experience in Go</li><li>Kubernetes in production</li></ul>
		<form id="application-form">Upload your résumé</form>
	</div>
	<footer>Footer links</footer>
</body>
</html>`

func TestURL_Success(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "text/html", result.ContentType)
	assert.Equal(t, DefaultUserAgent, gotAgent)
}

func TestURL_InvalidURL(t *testing.T) {
	tests := []string{"not-a-valid-url", "ftp://example.com/job", ""}
	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			_, err := URL(context.Background(), raw, nil)
			require.Error(t, err)

			var fetchErr *Error
			require.ErrorAs(t, err, &fetchErr)
			assert.Contains(t, err.Error(), "invalid URL")
		})
	}
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Contains(t, err.Error(), "404")
}

func TestURL_BodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 1000)))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, &Options{MaxBodyBytes: 100})
	require.NoError(t, err)
	assert.Len(t, result.HTML, 100)
}

func TestURL_CustomHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.Header.Get("Accept-Language")))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, &Options{Headers: map[string]string{"Accept-Language": "en-US"}})
	require.NoError(t, err)
	assert.Equal(t, "en-US", result.HTML)
}

func TestExtractMainText_JobPostingSelectors(t *testing.T) {
	text, err := ExtractMainText(postingHTML, JobPostingSelectors(), PlatformNoiseSelectors(PlatformUnknown)...)
	require.NoError(t, err)

	assert.Contains(t, text, "Requirements")
	assert.Contains(t, text, "• 5 years experience in Go")
	assert.Contains(t, text, "• Kubernetes in production")
	assert.NotContains(t, text, "Sidebar junk")
	assert.NotContains(t, text, "Upload your résumé")
	assert.NotContains(t, text, "Footer links")
	assert.NotContains(t, text, "Home | Jobs")
}

func TestExtractMainText_FallbackToBody(t *testing.T) {
	html := `<html><body><div>Some   content
	here.</div><script>var x = 1;</script></body></html>`

	text, err := ExtractMainText(html, []string{".missing"})
	require.NoError(t, err)
	assert.Equal(t, "Some content\nhere.", text)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{"OpenGraph title wins", postingHTML, "Senior Go Engineer"},
		{"First h1", `<html><head><title>Doc</title></head><body><h1> Staff Engineer </h1><h1>Other</h1></body></html>`, "Staff Engineer"},
		{"Document title", `<html><head><title>Data Analyst</title></head><body></body></html>`, "Data Analyst"},
		{"Nothing", `<html><body><p>text</p></body></html>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractTitle(tt.html))
		})
	}
}

func TestJobDescription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(postingHTML))
	}))
	defer server.Close()

	posting, err := JobDescription(context.Background(), server.URL, nil)
	require.NoError(t, err)

	assert.Equal(t, "Senior Go Engineer", posting.Title)
	assert.Equal(t, PlatformUnknown, posting.Platform)
	assert.Contains(t, posting.Text, "Kubernetes in production")
	assert.False(t, posting.UsedBrowser)
}

func TestJobDescription_BrowserFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div id="root">Loading...</div></body></html>`))
	}))
	defer server.Close()

	rendered := `<html><body><main><h1>Platform Engineer</h1><p>` + strings.Repeat("Build reliable systems. ", 40) + `</p></main></body></html>`
	var calls int
	opts := &Options{
		UseBrowser: true,
		Render: func(_ context.Context, url string, timeout time.Duration, _ *zap.Logger) (string, error) {
			calls++
			assert.Equal(t, server.URL, url)
			assert.Equal(t, DefaultBrowserTimeout, timeout)
			return rendered, nil
		},
	}

	posting, err := JobDescription(context.Background(), server.URL, opts)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.True(t, posting.UsedBrowser)
	assert.Equal(t, "Platform Engineer", posting.Title)
	assert.Contains(t, posting.Text, "Build reliable systems.")
}

func TestJobDescription_BrowserFailureKeepsStaticText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><main>Short posting</main></body></html>`))
	}))
	defer server.Close()

	opts := &Options{
		UseBrowser: true,
		Render: func(context.Context, string, time.Duration, *zap.Logger) (string, error) {
			return "", errors.New("chrome not installed")
		},
	}

	posting, err := JobDescription(context.Background(), server.URL, opts)
	require.NoError(t, err)
	assert.False(t, posting.UsedBrowser)
	assert.Equal(t, "Short posting", posting.Text)
}

func TestJobDescription_EmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><script>app()</script></body></html>`))
	}))
	defer server.Close()

	_, err := JobDescription(context.Background(), server.URL, nil)
	require.Error(t, err)
	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Message, "no readable text")
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("   short   "))
	assert.False(t, ShouldUseBrowser(strings.Repeat("x", MinContentLength)))
}
