package media

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
)

func TestEncodeDataURLDeclaredType(t *testing.T) {
	payload := []byte("conteudo qualquer")
	url, err := EncodeDataURL(bytes.NewReader(payload), "image/png")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Fatalf("url = %q", url)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Errorf("payload mangled: %q", decoded)
	}
}

func TestEncodeDataURLSniffsType(t *testing.T) {
	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00")
	url, err := EncodeDataURL(bytes.NewReader(gif), "")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/gif;base64,") {
		t.Errorf("sniffing failed: %q", url)
	}

	// application/octet-stream is treated as undeclared.
	url, err = EncodeDataURL(bytes.NewReader(gif), "application/octet-stream")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/gif;base64,") {
		t.Errorf("octet-stream not re-sniffed: %q", url)
	}
}

func TestEncodeDataURLRejectsEmpty(t *testing.T) {
	if _, err := EncodeDataURL(bytes.NewReader(nil), "image/png"); err == nil {
		t.Error("empty file accepted")
	}
}

func TestEncodeDataURLRejectsOversize(t *testing.T) {
	big := bytes.Repeat([]byte{0xab}, MaxUploadBytes+1)
	if _, err := EncodeDataURL(bytes.NewReader(big), "video/mp4"); err == nil {
		t.Error("oversize file accepted")
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		ct   string
		want string
	}{
		{"image/gif", "gif"},
		{"video/mp4", "video"},
		{"video/webm", "video"},
		{"image/png", "image"},
		{"image/jpeg", "image"},
		{"application/pdf", "image"},
	}
	for _, c := range cases {
		if got := KindOf(c.ct); got != c.want {
			t.Errorf("KindOf(%q) = %q, want %q", c.ct, got, c.want)
		}
	}
}
