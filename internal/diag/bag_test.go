package diag

import (
	"testing"

	"qmk2zmk/internal/source"
)

func TestBagLimitAndSeverity(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(New(SevWarning, KeyUnmapped, source.Span{}, "w")) {
		t.Fatal("first Add rejected")
	}
	if bag.HasErrors() {
		t.Error("warning must not count as error")
	}
	if !bag.HasWarnings() {
		t.Error("expected warning")
	}
	bag.Add(NewError(KeyUnmapped, source.Span{}, "e"))
	if bag.Add(NewError(KeyUnmapped, source.Span{}, "dropped")) {
		t.Error("bag must honour its limit")
	}
	if !bag.HasErrors() || bag.Len() != 2 {
		t.Errorf("HasErrors=%v Len=%d", bag.HasErrors(), bag.Len())
	}
	first, ok := bag.First(SevError)
	if !ok || first.Message != "e" {
		t.Errorf("First(SevError) = %+v, %v", first, ok)
	}
}

func TestBagCountsErrorsPastLimit(t *testing.T) {
	bag := NewBag(1)
	bag.Add(New(SevWarning, EvalDuplicateLayer, source.Span{}, "duplicate"))
	if bag.Add(NewError(EvalBareIdent, source.Span{}, "bare identifier")) {
		t.Fatal("bag must honour its limit")
	}
	if !bag.HasErrors() {
		t.Error("error dropped by the limit must still count")
	}
	if bag.Len() != 1 || bag.Dropped() != 1 {
		t.Errorf("Len=%d Dropped=%d, want 1 and 1", bag.Len(), bag.Dropped())
	}
	if _, ok := bag.First(SevError); ok {
		t.Error("dropped error must not be stored")
	}
}

func TestBagSortIsStable(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewError(SynExpectComma, source.Span{File: 0, Start: 10, End: 11}, "b"))
	bag.Add(New(SevWarning, RenderShapeMismatch, source.Span{File: 0, Start: 2, End: 4}, "a"))
	bag.Add(NewError(SynExpectRParen, source.Span{File: 0, Start: 2, End: 4}, "c"))
	bag.Sort()

	got := []string{}
	for _, d := range bag.Items() {
		got = append(got, d.Message)
	}
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	b := ReportError(BagReporter{Bag: bag}, KeyUnmapped, source.Span{}, "unmapped key KC_FOO").
		WithNote(source.Span{Start: 1, End: 2}, "used here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("Len = %d, want 1", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Errorf("notes lost: %+v", bag.Items()[0])
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		ExtractNoTable:      "EXT1001",
		LexUnknownChar:      "LEX2001",
		SynUnexpectedToken:  "SYN3001",
		EvalArity:           "EVL4002",
		KeyUnmapped:         "KEY5001",
		RenderShapeMismatch: "REN6001",
		UnknownCode:         "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
}

func TestSeverityNames(t *testing.T) {
	if got := SevError.String(); got != "ERROR" {
		t.Fatalf("SevError.String() = %q", got)
	}
	if got := SevWarning.Label(); got != "warning" {
		t.Fatalf("SevWarning.Label() = %q", got)
	}
	if got := Severity(9).String(); got != "UNKNOWN" {
		t.Fatalf("Severity(9).String() = %q", got)
	}
}
