package archive

import "testing"

func TestTreePath(t *testing.T) {
	got, err := TreePath("2024-05-01", "20240501_601_SKPWNI.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "2024/202405/20240501/20240501_601_SKPWNI.pdf"
	if got != want {
		t.Errorf("want %q, got %q", want, got)
	}

	if _, err := TreePath("01-05-2024", "x.pdf"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestScanFileName(t *testing.T) {
	got, err := ScanFileName("2024-05-01", 601, "3374010101010001", "scan.PDF")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "20240501_601_3374010101010001.pdf" {
		t.Errorf("unexpected name %q", got)
	}

	if _, err := ScanFileName("2024-05-01", 601, "x", "virus.exe"); err == nil {
		t.Error("expected error for disallowed extension")
	}
	if _, err := ScanFileName("2024-05-01", 601, "x", "noextension"); err == nil {
		t.Error("expected error for missing extension")
	}
}

func TestParseBulkName(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantErr  bool
		wantNum  int
		wantCode string
		wantDate string
	}{
		{"valid", "20240501_601_SKPWNI.pdf", false, 601, "SKPWNI", "2024-05-01"},
		{"lowercase code", "20240501_601_skpwni.pdf", false, 601, "SKPWNI", "2024-05-01"},
		{"not a pdf", "20240501_601_SKPWNI.jpg", true, 0, "", ""},
		{"missing parts", "601_SKPWNI.pdf", true, 0, "", ""},
		{"impossible date", "20241341_601_SKPWNI.pdf", true, 0, "", ""},
		{"free text", "scan of budi.pdf", true, 0, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBulkName(tt.filename)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.RegNumber != tt.wantNum || got.ServiceCode != tt.wantCode || got.RegDate != tt.wantDate {
				t.Errorf("parsed %+v", got)
			}
		})
	}
}

func TestCleanRelPath(t *testing.T) {
	if _, err := CleanRelPath("../../etc/passwd"); err == nil {
		t.Error("expected traversal to be rejected")
	}
	if _, err := CleanRelPath("/etc/passwd"); err == nil {
		t.Error("expected absolute path to be rejected")
	}
	got, err := CleanRelPath("2024/202405/20240501/a.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2024/202405/20240501/a.pdf" {
		t.Errorf("unexpected path %q", got)
	}
}
