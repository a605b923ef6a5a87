// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package jar

import (
	"net/http"
	"net/url"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	j := New()
	require.NoError(t, Seed(j, "https://example.com/Api/", "answer=42; Path=/", "xxx=yyy; Path=/"))
	s, err := CookieString(j, "https://example.com/Api/showf")
	require.NoError(t, err)
	assert.Equal(t, "answer=42; xxx=yyy", s)

	t.Run("other host", func(t *testing.T) {
		s, err := CookieString(j, "https://not.example.com/")
		require.NoError(t, err)
		assert.Empty(t, s)
	})
	t.Run("public suffix", func(t *testing.T) {
		require.NoError(t, Seed(j, "https://shop.example.co.uk/", "evil=1; Domain=co.uk"))
		s, err := CookieString(j, "https://other.co.uk/")
		require.NoError(t, err)
		assert.Empty(t, s)
	})
}

func TestSeed(t *testing.T) {
	t.Run("malformed skipped", func(t *testing.T) {
		j := New()
		require.NoError(t, Seed(j, "https://example.com/", "=nameless", "ok=1", "bad name=2"))
		s, err := CookieString(j, "https://example.com/")
		require.NoError(t, err)
		assert.Equal(t, "ok=1", s)
	})
	t.Run("invalid URL", func(t *testing.T) {
		assert.Error(t, Seed(New(), ":::", "a=1"))
	})
	t.Run("nothing to seed", func(t *testing.T) {
		j := &countingJar{}
		require.NoError(t, Seed(j, "https://example.com/"))
		assert.Equal(t, 0, j.sets)
	})
}

func TestCookieString(t *testing.T) {
	_, err := CookieString(New(), ":::")
	assert.Error(t, err)
}

func TestNewPersistent(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "cookies.json")

	j, err := NewPersistent(filename)
	require.NoError(t, err)
	u, _ := url.Parse("https://example.com/")
	j.SetCookies(u, []*http.Cookie{{Name: "session", Value: "abc", Path: "/", MaxAge: 3600}})
	require.NoError(t, j.Save())

	reloaded, err := NewPersistent(filename)
	require.NoError(t, err)
	s, err := CookieString(reloaded, "https://example.com/thread")
	require.NoError(t, err)
	assert.Equal(t, "session=abc", s)
}

func TestSave(t *testing.T) {
	assert.NoError(t, Save(New()))

	filename := filepath.Join(t.TempDir(), "cookies.json")
	j, err := NewPersistent(filename)
	require.NoError(t, err)
	require.NoError(t, Seed(j, "https://example.com/", "kept=1; Max-Age=3600"))
	require.NoError(t, Save(j))

	reloaded, err := NewPersistent(filename)
	require.NoError(t, err)
	s, err := CookieString(reloaded, "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "kept=1", s)
}

func TestNew_Concurrent(t *testing.T) {
	j := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = Seed(j, "https://example.com/", "n=1")
			_, _ = CookieString(j, "https://example.com/")
		}()
	}
	wg.Wait()
	s, err := CookieString(j, "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "n=1", s)
}

type countingJar struct {
	sets int
}

func (j *countingJar) SetCookies(_ *url.URL, _ []*http.Cookie) {
	j.sets++
}

func (j *countingJar) Cookies(_ *url.URL) []*http.Cookie {
	return nil
}
