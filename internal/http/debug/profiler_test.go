package debug

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuard(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	cases := map[string]struct {
		cfg    Config
		remote string
		user   string
		pass   string
		want   int
	}{
		"loopback needs no auth":     {remote: "127.0.0.1:1234", want: http.StatusTeapot},
		"ipv6 loopback":              {remote: "[::1]:1234", want: http.StatusTeapot},
		"remote, no credentials set": {remote: "8.8.8.8:1234", user: "u", pass: "p", want: http.StatusUnauthorized},
		"remote wrong password":      {cfg: Config{User: "u", Pass: "p"}, remote: "8.8.8.8:1234", user: "u", pass: "x", want: http.StatusUnauthorized},
		"remote correct credentials": {cfg: Config{User: "u", Pass: "p"}, remote: "8.8.8.8:1234", user: "u", pass: "p", want: http.StatusTeapot},
		"remote missing credentials": {cfg: Config{User: "u", Pass: "p"}, remote: "8.8.8.8:1234", want: http.StatusUnauthorized},
		"unparseable remote address": {remote: "garbage", want: http.StatusUnauthorized},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
			req.RemoteAddr = tc.remote
			if tc.user != "" {
				req.SetBasicAuth(tc.user, tc.pass)
			}
			rr := httptest.NewRecorder()
			guard(next, tc.cfg).ServeHTTP(rr, req)

			require.Equal(t, tc.want, rr.Code)
			if tc.want == http.StatusUnauthorized {
				require.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
