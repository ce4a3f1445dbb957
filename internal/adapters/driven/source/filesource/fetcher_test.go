package filesource

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupports(t *testing.T) {
	f := New()

	tests := []struct {
		locator string
		want    bool
	}{
		{"/data/faq.csv", true},
		{"faq.csv", true},
		{"./data/faq.tsv", true},
		{"file:///data/faq.csv", true},
		{`C:\data\faq.csv`, true},
		{"https://example.com/faq.csv", false},
		{"s3://bucket/faq.csv", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.locator, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Supports(tt.locator))
		})
	}
}

func TestPath(t *testing.T) {
	p, err := Path("file:///data/faq.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/data/faq.csv"), p)

	p, err = Path("file://localhost/data/faq.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/data/faq.csv"), p)

	p, err = Path("./data/../faq.csv")
	require.NoError(t, err)
	assert.Equal(t, "faq.csv", p)

	_, err = Path("file://fileserver/data/faq.csv")
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "faq.csv")
	require.NoError(t, os.WriteFile(path, []byte("Question,Answer\nq,a\n"), 0644))

	f := New()
	for _, locator := range []string{path, "file://" + filepath.ToSlash(path)} {
		rc, err := f.Fetch(context.Background(), locator)
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, "Question,Answer\nq,a\n", string(body))
	}
}

func TestFetch_Errors(t *testing.T) {
	dir := t.TempDir()
	f := New()

	_, err := f.Fetch(context.Background(), filepath.Join(dir, "missing.csv"))
	assert.True(t, os.IsNotExist(err))

	_, err = f.Fetch(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.Fetch(ctx, filepath.Join(dir, "any.csv"))
	assert.ErrorIs(t, err, context.Canceled)
}
