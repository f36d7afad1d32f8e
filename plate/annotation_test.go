package plate

import (
	"strings"
	"testing"

	"github.com/phenoscreen/phenoscreen/pkg/errors"
)

const annotationCSV = `position,group,gene_symbol
A01_01,negative,
A02_01,scrambled,
A03_01,target,PLK1
A04_01,target,KIF11
A05_01,empty,
`

func TestReadAnnotations(t *testing.T) {
	table, err := ReadAnnotations(strings.NewReader(annotationCSV), "layout.csv")
	if err != nil {
		t.Fatalf("ReadAnnotations() error: %v", err)
	}

	if table.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", table.Len())
	}

	a, ok := table.Lookup("A03_01")
	if !ok {
		t.Fatal("expected A03_01 to be annotated")
	}
	if a.Group != GroupTarget {
		t.Errorf("Group = %v, want target", a.Group)
	}
	if a.GeneSymbol != "PLK1" {
		t.Errorf("GeneSymbol = %q, want PLK1", a.GeneSymbol)
	}

	neg, _ := table.Lookup("A01_01")
	if neg.Group != GroupNegative || neg.GeneSymbol != "" {
		t.Errorf("negative control parsed as %+v", neg)
	}

	wells := table.Wells()
	if wells[0] != "A01_01" || wells[4] != "A05_01" {
		t.Errorf("Wells() order = %v, want file order", wells)
	}
}

func TestReadAnnotationsErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{
			name: "missing group column",
			csv:  "position,gene_symbol\nA01_01,\n",
		},
		{
			name: "unknown group",
			csv:  "position,group,gene_symbol\nA01_01,mystery,\n",
		},
		{
			name: "duplicate position",
			csv:  "position,group,gene_symbol\nA01_01,negative,\nA01_01,target,PLK1\n",
		},
		{
			name: "empty position",
			csv:  "position,group,gene_symbol\n,negative,\n",
		},
		{
			name: "no records",
			csv:  "position,group,gene_symbol\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadAnnotations(strings.NewReader(tt.csv), "layout.csv"); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadAnnotationsMissingFile(t *testing.T) {
	_, err := LoadAnnotations("does-not-exist.csv")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var missErr *errors.MissingInputError
	if !errors.As(err, &missErr) {
		t.Errorf("expected MissingInputError, got %T: %v", err, err)
	}
}

func TestParseGroup(t *testing.T) {
	tests := []struct {
		in      string
		want    Group
		wantErr bool
	}{
		{in: "negative", want: GroupNegative},
		{in: "Scrambled", want: GroupScrambled},
		{in: " empty ", want: GroupEmpty},
		{in: "target", want: GroupTarget},
		{in: "positive", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseGroup(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseGroup(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseGroup(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseGroup(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGroupLabel(t *testing.T) {
	if GroupTarget.Label() != 1 {
		t.Error("target label should be 1")
	}
	for _, g := range []Group{GroupNegative, GroupScrambled, GroupEmpty} {
		if g.Label() != 0 {
			t.Errorf("%v label should be 0", g)
		}
		if !g.IsControl() {
			t.Errorf("%v should be a control", g)
		}
	}
	if GroupTarget.IsControl() {
		t.Error("target should not be a control")
	}
}
