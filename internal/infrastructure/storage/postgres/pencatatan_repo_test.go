package postgres

import (
	"strings"
	"testing"

	"github.com/rzkdmln/sicakap/internal/domain/pencatatan"
)

func testRepo() *PencatatanRepo {
	return &PencatatanRepo{columns: ExtractDBColumns[pencatatan.Pencatatan]()}
}

func TestApplyFilter_SQL(t *testing.T) {
	repo := testRepo()

	tests := []struct {
		name     string
		filter   pencatatan.Filter
		wantSQL  []string
		wantArgs []any
	}{
		{
			name:     "status only",
			filter:   pencatatan.Filter{Status: "SELESAI"},
			wantSQL:  []string{"status = $1"},
			wantArgs: []any{"SELESAI"},
		},
		{
			name:     "date window",
			filter:   pencatatan.Filter{StartDate: "2024-05-01", EndDate: "2024-05-31"},
			wantSQL:  []string{"reg_date >= $1", "reg_date <= $2"},
			wantArgs: []any{"2024-05-01", "2024-05-31"},
		},
		{
			name:     "search hits name, nik and number",
			filter:   pencatatan.Filter{Search: "budi"},
			wantSQL:  []string{"name ILIKE $1", "nik ILIKE $2", "reg_number::text LIKE $3"},
			wantArgs: []any{"%budi%", "%budi%", "%budi%"},
		},
		{
			name:     "service code",
			filter:   pencatatan.Filter{ServiceCode: "SKPWNI"},
			wantSQL:  []string{"service_code = $1"},
			wantArgs: []any{"SKPWNI"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := repo.applyFilter(repo.baseSelect(), tt.filter)

			sql, args, err := q.ToSql()
			if err != nil {
				t.Fatalf("ToSql failed: %v", err)
			}

			for _, want := range tt.wantSQL {
				if !strings.Contains(sql, want) {
					t.Errorf("SQL missing %q\ngot: %s", want, sql)
				}
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args count mismatch\nwant: %d\ngot:  %d", len(tt.wantArgs), len(args))
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("arg %d mismatch\nwant: %v\ngot:  %v", i, tt.wantArgs[i], args[i])
				}
			}
		})
	}
}

func TestExtractDBColumns_Pencatatan(t *testing.T) {
	cols := ExtractDBColumns[pencatatan.Pencatatan]()

	for _, want := range []string{"id", "reg_number", "reg_date", "nik", "archive_path"} {
		found := false
		for _, c := range cols {
			if c == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("column %q not extracted, got %v", want, cols)
		}
	}
}
