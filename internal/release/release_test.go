// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package release

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/anvil/internal/httputil"
)

func init() {
	httputil.RetryBaseDelay = 1 * time.Millisecond
}

func TestLatest(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		fmt.Fprint(w, `{"tag_name": "v0.3.1"}`)
	}))
	defer ts.Close()

	tag, err := Latest(context.Background(), ts.Client(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "v0.3.1", tag)
}

func TestLatestRetriesOnRateLimit(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"tag_name": "v0.3.1"}`)
	}))
	defer ts.Close()

	tag, err := Latest(context.Background(), ts.Client(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "v0.3.1", tag)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestLatestErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		errMsg  string
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			errMsg: "unexpected status",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, "not json")
			},
			errMsg: "decoding release response",
		},
		{
			name: "missing tag",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{}`)
			},
			errMsg: "missing tag name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			_, err := Latest(context.Background(), ts.Client(), ts.URL)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestInstallRunsGoInstall(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake go binary requires a POSIX shell")
	}
	dir := t.TempDir()
	fake := filepath.Join(dir, "go")
	require.NoError(t, os.WriteFile(fake, []byte("#!/bin/sh\necho \"install $2\"\n"), 0o755))

	old := goBinary
	goBinary = fake
	defer func() { goBinary = old }()

	var out bytes.Buffer
	require.NoError(t, Install(context.Background(), &out))
	assert.Contains(t, out.String(), InstallTarget)
}
