package fetcher

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectBlock(t *testing.T) {
	t.Parallel()

	bigPage := "<html><body>" + strings.Repeat("<p>Real content about robots.</p>", 1000) +
		"<form><div class=\"g-recaptcha\"></div></form></body></html>"

	tests := []struct {
		name   string
		resp   *http.Response
		body   string
		want   bool
		wantBT BlockType
	}{
		{
			name: "cloudflare 403 with cf-ray",
			resp: &http.Response{StatusCode: 403, Header: http.Header{"Cf-Ray": {"abc123"}}},
			want: true, wantBT: BlockCloudflare,
		},
		{
			name: "cloudflare 503 server header",
			resp: &http.Response{StatusCode: 503, Header: http.Header{"Server": {"Cloudflare"}}},
			want: true, wantBT: BlockCloudflare,
		},
		{
			name: "challenge page markers",
			resp: &http.Response{StatusCode: 200, Header: http.Header{}},
			body: "<html><body>Checking your browser before accessing</body></html>",
			want: true, wantBT: BlockCloudflare,
		},
		{
			name: "captcha interstitial",
			resp: &http.Response{StatusCode: 200, Header: http.Header{}},
			body: "<html><body>Please complete the reCAPTCHA to continue</body></html>",
			want: true, wantBT: BlockCaptcha,
		},
		{
			name: "large page embedding a captcha widget",
			resp: &http.Response{StatusCode: 200, Header: http.Header{}},
			body: bigPage,
			want: false, wantBT: BlockNone,
		},
		{
			name: "js shell",
			resp: &http.Response{StatusCode: 200, Header: http.Header{}},
			body: "<html><noscript>Enable JavaScript to continue</noscript></html>",
			want: true, wantBT: BlockJSShell,
		},
		{
			name: "nil response",
			want: false, wantBT: BlockNone,
		},
		{
			name: "clean page",
			resp: &http.Response{StatusCode: 200, Header: http.Header{}},
			body: "<html><body><h1>Acme Robotics</h1><p>We build warehouse robots.</p></body></html>",
			want: false, wantBT: BlockNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			blocked, bt := DetectBlock(tt.resp, []byte(tt.body))
			assert.Equal(t, tt.want, blocked)
			assert.Equal(t, tt.wantBT, bt)
		})
	}
}
