package models

import (
	"encoding/json"
	"testing"
)

func TestDecodeRequirements(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantNames []string
		wantFiles map[string]int
	}{
		{name: "empty", raw: "", wantNames: nil},
		{name: "null", raw: "null", wantNames: nil},
		{
			name: "array of objects",
			raw: `[
				{"name":"Resume","status":"accepted","files":[{"url":"uploads/r.pdf","name":"resume.pdf"}]},
				{"name":"Medical Certificate","status":"pending"}
			]`,
			wantNames: []string{"Resume", "Medical Certificate"},
			wantFiles: map[string]int{"Resume": 1, "Medical Certificate": 0},
		},
		{
			name: "map keyed by requirement name",
			raw: `{
				"Resume": {"status":"approved","fileUrl":"uploads/a.pdf"},
				"Endorsement Letter": "denied"
			}`,
			wantNames: []string{"Endorsement Letter", "Resume"},
			wantFiles: map[string]int{"Resume": 1, "Endorsement Letter": 0},
		},
		{
			name:      "map with bare url value",
			raw:       `{"Resume": "https://cdn.example/r.pdf"}`,
			wantNames: []string{"Resume"},
			wantFiles: map[string]int{"Resume": 1},
		},
		{
			name: "files as map",
			raw: `[{"name":"Resume","status":"submitted","files":{"page 1":"uploads/p1.jpg","page 2":"uploads/p2.jpg"}}]`,
			wantNames: []string{"Resume"},
			wantFiles: map[string]int{"Resume": 2},
		},
		{
			name:      "alternate key names",
			raw:       `[{"requirement":"Parental Consent","status":"rejected","files":[{"downloadUrl":"uploads/pc.pdf","label":"consent"}]}]`,
			wantNames: []string{"Parental Consent"},
			wantFiles: map[string]int{"Parental Consent": 1},
		},
		{
			name:      "nameless entries dropped",
			raw:       `[{"status":"pending"}]`,
			wantNames: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRequirements([]byte(tt.raw))
			if err != nil {
				t.Fatalf("DecodeRequirements() error = %v", err)
			}
			if len(got) != len(tt.wantNames) {
				t.Fatalf("DecodeRequirements() len = %d, want %d (%+v)", len(got), len(tt.wantNames), got)
			}
			for i, name := range tt.wantNames {
				if got[i].Name != name {
					t.Errorf("requirement %d name = %q, want %q", i, got[i].Name, name)
				}
				if want, ok := tt.wantFiles[name]; ok && len(got[i].Files) != want {
					t.Errorf("requirement %q files = %d, want %d", name, len(got[i].Files), want)
				}
			}
		})
	}
}

func TestDecodeRequirementsStatuses(t *testing.T) {
	raw := `[
		{"name":"A","status":"approved"},
		{"name":"B","status":"REJECTED"},
		{"name":"C","status":"submitted"},
		{"name":"D","status":"whatever"},
		{"name":"E"}
	]`
	got, err := DecodeRequirements([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeRequirements() error = %v", err)
	}
	want := []RequirementStatus{StatusAccepted, StatusDenied, StatusSubmitted, StatusPending, StatusPending}
	for i, st := range want {
		if got[i].Status != st {
			t.Errorf("requirement %s status = %q, want %q", got[i].Name, got[i].Status, st)
		}
	}
}

func TestNormalizeFiles(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []FileRef
	}{
		{name: "empty", raw: "", want: nil},
		{
			name: "bare url string",
			raw:  `"uploads/requirements/x.pdf"`,
			want: []FileRef{{URL: "uploads/requirements/x.pdf", Name: "x.pdf"}},
		},
		{
			name: "data url gets placeholder name",
			raw:  `"data:image/png;base64,iVBOR"`,
			want: []FileRef{{URL: "data:image/png;base64,iVBOR", Name: "attachment"}},
		},
		{
			name: "array with mixed shapes",
			raw:  `[{"url":"uploads/a.pdf"},"uploads/b.png",{"fileUrl":"uploads/c.docx","fileName":"notes"}]`,
			want: []FileRef{
				{URL: "uploads/a.pdf", Name: "a.pdf"},
				{URL: "uploads/b.png", Name: "b.png"},
				{URL: "uploads/c.docx", Name: "notes"},
			},
		},
		{
			name: "entries without url dropped",
			raw:  `[{"name":"orphan"}]`,
			want: nil,
		},
		{
			name: "query strings stripped from names",
			raw:  `"https://cdn.example/scan.jpg?token=abc"`,
			want: []FileRef{{URL: "https://cdn.example/scan.jpg?token=abc", Name: "scan.jpg"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeFiles(json.RawMessage(tt.raw))
			if len(got) != len(tt.want) {
				t.Fatalf("NormalizeFiles() = %+v, want %+v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("file %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestAllApproved(t *testing.T) {
	reqs := []Requirement{
		{Name: "Resume", Status: StatusAccepted},
		{Name: "Endorsement Letter", Status: StatusAccepted},
		{Name: "Medical Certificate", Status: StatusPending},
	}

	tests := []struct {
		name     string
		required []string
		want     bool
	}{
		{name: "all accepted", required: []string{"Resume", "Endorsement Letter"}, want: true},
		{name: "case-insensitive", required: []string{"resume"}, want: true},
		{name: "one pending", required: []string{"Resume", "Medical Certificate"}, want: false},
		{name: "missing document", required: []string{"Parental Consent"}, want: false},
		{name: "no required list", required: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllApproved(reqs, tt.required); got != tt.want {
				t.Errorf("AllApproved(%v) = %v, want %v", tt.required, got, tt.want)
			}
		})
	}
}
