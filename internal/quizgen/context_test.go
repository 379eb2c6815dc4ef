package quizgen

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestComposeTopic(t *testing.T) {
	if got := ComposeTopic(" Rome ", ""); got != "Rome" {
		t.Errorf("got %q", got)
	}
	if got := ComposeTopic("Rome", "  \n"); got != "Rome" {
		t.Errorf("blank context should be ignored, got %q", got)
	}
	if got := ComposeTopic("Rome", "Founded 753 BC."); got != "Rome\n\nContext:\nFounded 753 BC." {
		t.Errorf("got %q", got)
	}
}

func TestReadContext(t *testing.T) {
	text, err := ReadContext(strings.NewReader("notes about rivers"), "notes.TXT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "notes about rivers" {
		t.Errorf("got %q", text)
	}
}

func TestReadContext_Rejects(t *testing.T) {
	if _, err := ReadContext(strings.NewReader("x"), "notes.md"); !errors.Is(err, ErrContextType) {
		t.Errorf("expected ErrContextType, got %v", err)
	}

	exact := bytes.Repeat([]byte("a"), MaxContextBytes)
	if _, err := ReadContext(bytes.NewReader(exact), "big.txt"); err != nil {
		t.Errorf("exactly 1 MiB should be accepted, got %v", err)
	}

	over := bytes.Repeat([]byte("a"), MaxContextBytes+1)
	if _, err := ReadContext(bytes.NewReader(over), "big.txt"); !errors.Is(err, ErrContextTooLarge) {
		t.Errorf("expected ErrContextTooLarge, got %v", err)
	}

	if _, err := ReadContext(bytes.NewReader([]byte{0xff, 0xfe}), "bin.txt"); !errors.Is(err, ErrContextType) {
		t.Errorf("expected ErrContextType for binary, got %v", err)
	}
}

func TestReadContext_RejectsDisguisedBinary(t *testing.T) {
	pdf := "%PDF-1.7\n1 0 obj\n<< /Type /Catalog >>\nendobj\n"
	if _, err := ReadContext(strings.NewReader(pdf), "report.txt"); !errors.Is(err, ErrContextType) {
		t.Errorf("expected ErrContextType, got %v", err)
	}
}
