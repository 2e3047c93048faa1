package filekind

import (
	"encoding/base64"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Category
	}{
		{name: "jpeg extension", url: "uploads/requirements/scan.jpg", want: CategoryImage},
		{name: "png with query string", url: "https://cdn.example/photo.png?token=x", want: CategoryImage},
		{name: "pdf extension", url: "uploads/resume.pdf", want: CategoryPDF},
		{name: "docx is other", url: "uploads/form.docx", want: CategoryOther},
		{name: "no extension", url: "https://cdn.example/file", want: CategoryOther},
		{name: "image data url", url: "data:image/png;base64,iVBOR", want: CategoryImage},
		{name: "pdf data url", url: "data:application/pdf;base64,JVBER", want: CategoryPDF},
		{name: "opaque data url", url: "data:application/octet-stream;base64,AAAA", want: CategoryOther},
		{name: "empty", url: "", want: CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.url); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestPreviewable(t *testing.T) {
	if !CategoryImage.Previewable() || !CategoryPDF.Previewable() {
		t.Error("images and PDFs should be previewable")
	}
	if CategoryOther.Previewable() {
		t.Error("other files should not be previewable")
	}
}

func TestDecodeDataURL(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G'}
	url := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	data, contentType, err := DecodeDataURL(url)
	if err != nil {
		t.Fatalf("DecodeDataURL() error = %v", err)
	}
	if contentType != "image/png" {
		t.Errorf("contentType = %q, want image/png", contentType)
	}
	if string(data) != string(payload) {
		t.Errorf("data = %v, want %v", data, payload)
	}
}

func TestDecodeDataURLErrors(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "not a data url", url: "uploads/x.png"},
		{name: "no separator", url: "data:image/png;base64"},
		{name: "not base64 encoded", url: "data:image/png,rawbytes"},
		{name: "bad payload", url: "data:image/png;base64,!!!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := DecodeDataURL(tt.url); err == nil {
				t.Errorf("DecodeDataURL(%q) expected error", tt.url)
			}
		})
	}
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{contentType: "image/jpeg", want: ".jpg"},
		{contentType: "image/png", want: ".png"},
		{contentType: "application/pdf", want: ".pdf"},
		{contentType: "application/x-unknown-thing", want: ".bin"},
	}
	for _, tt := range tests {
		if got := ExtensionFor(tt.contentType); got != tt.want {
			t.Errorf("ExtensionFor(%q) = %q, want %q", tt.contentType, got, tt.want)
		}
	}
}
