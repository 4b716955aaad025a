package amrtime

import (
	"errors"
	"io"
	"math"
	"strings"
	"testing"
)

func TestHitReader(t *testing.T) {
	report := "read1\tgb|AAA16354.1|ARO:3000873|TEM-1\t98.5\t50\t1\t0\t1\t150\t10\t59\t2.1e-25\t101.3\n" +
		"read2\tgb|X|ARO:1|\"quoted\" name\t*\t50\t1\t0\t1\t150\t10\t59\t1\t20\textra\n"
	hr := NewHitReader(strings.NewReader(report), "report")

	h, err := hr.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if h.QSeqid != "read1" || h.PIdent != 98.5 || h.QEnd != 150 || h.SEnd != 59 || h.EValue != 2.1e-25 || h.BitScore != 101.3 {
		t.Fatalf("unexpected hit %+v", h)
	}
	if aro, ok := h.ARO(); !ok || aro != "ARO:3000873" {
		t.Fatalf("ARO = %q, %v", aro, ok)
	}

	h, err = hr.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !math.IsNaN(h.PIdent) || h.BitScore != 20 {
		t.Fatalf("unexpected hit %+v", h)
	}

	if _, err := hr.Read(); err != io.EOF {
		t.Fatalf("want io.EOF, got %v", err)
	}
}

func TestHitReaderErrors(t *testing.T) {
	for _, report := range []string{
		"read1\tgb|X|ARO:1|g\n",
		"read1\tgb|X|ARO:1|g\tx\t50\t1\t0\t1\t150\t10\t59\t1\t20\n",
	} {
		_, err := NewHitReader(strings.NewReader(report), "report").Read()
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("%q: want *ParseError, got %v", report, err)
		}
	}
}

func TestLabelARO(t *testing.T) {
	if _, ok := LabelARO("gb|AAA"); ok {
		t.Errorf("short label has an ARO")
	}
	if aro, ok := LabelARO("a|b|c|d"); !ok || aro != "c" {
		t.Errorf("LabelARO = %q, %v", aro, ok)
	}
}

func TestHitReaderLineAfterQuotedField(t *testing.T) {
	report := "read1\t\"gb|X|ARO:1|two\nlines\"\t90\t50\t1\t0\t1\t150\t10\t59\t1\t20\n" +
		"read2\tgb|X|ARO:1|g\n"
	hr := NewHitReader(strings.NewReader(report), "report")
	if _, err := hr.Read(); err != nil {
		t.Fatalf("read: %v", err)
	}
	_, err := hr.Read()
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Line != 3 {
		t.Fatalf("want *ParseError at line 3, got %v", err)
	}
}
