package utils

import (
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.png", "photo.png"},
		{"My cool movie.mov", "My_cool_movie.mov"},
		{"../../etc/passwd.png", "etc_passwd.png"},
		{`..\..\windows\win.ini.png`, "windows_win.ini.png"},
		{"/absolute/path.jpg", "absolute_path.jpg"},
		{"café.gif", "cafe.gif"},
		{"i contain cool ümläuts.txt", "i_contain_cool_umlauts.txt"},
		{"rm -rf ;$(x).png", "rm_-rf_x.png"},
		{"...", ""},
		{"CON.png", "_CON.png"},
		{"nul.jpg", "_nul.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SecureFilename(tt.in))
		})
	}
}

func TestSecureFilename_NoSeparators(t *testing.T) {
	for _, in := range []string{"../../etc/passwd.png", "a/b\\c/../d.png", "\x00/evil.png"} {
		got := SecureFilename(in)
		assert.False(t, strings.ContainsAny(got, `/\`), "got %q", got)
		assert.Equal(t, path.Base(got), got)
	}
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "png", Extension("a.PNG"))
	assert.Equal(t, "gz", Extension("archive.tar.gz"))
	assert.Equal(t, "", Extension("README"))
	assert.Equal(t, "", Extension("dir.d/README"))
	assert.Equal(t, "exe", Extension("virus.exe"))
	assert.Equal(t, "", Extension("trailing."))
}
