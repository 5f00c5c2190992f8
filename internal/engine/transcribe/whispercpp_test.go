package transcribe

import (
	"strings"
	"testing"
)

func TestParseWhisperCSV(t *testing.T) {
	in := strings.Join([]string{
		"start,end,text",
		`0,3240," Hello and welcome to the show."`,
		`3240,7180," Today we talk about audio pipelines."`,
		`7180,9000," Thanks for listening."`,
	}, "\n")

	res, err := parseWhisperCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Hello and welcome to the show. Today we talk about audio pipelines. Thanks for listening."
	if res.Text != want {
		t.Errorf("text = %q, want %q", res.Text, want)
	}
	if len(res.Segments) != 3 {
		t.Fatalf("segments = %d, want 3", len(res.Segments))
	}
	if res.Segments[0].Start != 0 || res.Segments[0].End != 3.24 {
		t.Errorf("segment 0 timing = %v..%v, want 0..3.24", res.Segments[0].Start, res.Segments[0].End)
	}
	if res.Segments[2].Start != 7.18 {
		t.Errorf("segment 2 start = %v, want 7.18", res.Segments[2].Start)
	}
	if res.Segments[1].Text != "Today we talk about audio pipelines." {
		t.Errorf("segment 1 text = %q", res.Segments[1].Text)
	}
}

func TestParseWhisperCSVQuotedComma(t *testing.T) {
	in := "start,end,text\n" +
		`0,1000," First, a comma."` + "\n"

	res, err := parseWhisperCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "First, a comma." {
		t.Errorf("text = %q", res.Text)
	}
}

func TestParseWhisperCSVSkipsBlankRows(t *testing.T) {
	in := strings.Join([]string{
		"start,end,text",
		`0,500,"   "`,
		`500,1500," actual speech"`,
	}, "\n")

	res, err := parseWhisperCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Segments) != 1 {
		t.Fatalf("segments = %d, want 1", len(res.Segments))
	}
	if res.Text != "actual speech" {
		t.Errorf("text = %q", res.Text)
	}
}

func TestParseWhisperCSVEmpty(t *testing.T) {
	t.Run("no bytes", func(t *testing.T) {
		_, err := parseWhisperCSV(strings.NewReader(""))
		if err == nil || !strings.Contains(err.Error(), "empty transcript") {
			t.Errorf("expected empty transcript error, got %v", err)
		}
	})

	t.Run("header only", func(t *testing.T) {
		_, err := parseWhisperCSV(strings.NewReader("start,end,text\n"))
		if err == nil || !strings.Contains(err.Error(), "empty transcript") {
			t.Errorf("expected empty transcript error, got %v", err)
		}
	})
}

func TestParseWhisperCSVBadTimestamp(t *testing.T) {
	in := "start,end,text\n" + `abc,1000," text"` + "\n"
	_, err := parseWhisperCSV(strings.NewReader(in))
	if err == nil {
		t.Fatal("expected error for non-numeric timestamp")
	}
}

func TestNewProvider(t *testing.T) {
	t.Run("default is whispercpp", func(t *testing.T) {
		tr, err := New("", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tr.Name() != "whispercpp" {
			t.Errorf("provider = %q, want whispercpp", tr.Name())
		}
	})

	t.Run("openai needs a key", func(t *testing.T) {
		if _, err := New("openai", ""); err == nil {
			t.Error("expected error without API key")
		}
	})

	t.Run("openai with key", func(t *testing.T) {
		tr, err := New("openai", "sk-test")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tr.Name() != "openai" {
			t.Errorf("provider = %q, want openai", tr.Name())
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		if _, err := New("deepgram", ""); err == nil {
			t.Error("expected error for unknown provider")
		}
	})
}
