package scrape

import (
	"strings"
	"testing"
)

// A page body long enough for readability to accept as an article.
const articlePage = `<!DOCTYPE html>
<html><head><title>Why pipelines drift</title></head><body>
<nav><a href="/">Home</a> <a href="/archive">Archive</a></nav>
<article>
<h1>Why pipelines drift</h1>
<p>Every ingestion pipeline starts simple: one source, one sink, one schedule.
The first drift arrives with the second source, which almost matches the first
but pads its identifiers differently, and by the time a third and fourth source
appear the normalization layer has quietly become the largest file in the
repository and nobody remembers which branch handles which vendor.</p>
<p>The usual response is to write a converter per source and fan them into a
common model. That works until a source changes shape without an announcement,
at which point the converter keeps producing records that are well formed and
wrong. Validation has to happen downstream of conversion, against invariants
the business cares about, not upstream against the vendor's own promises.</p>
<p>The second usual response is to declare the common model finished, freeze
it, and push every new requirement into sidecar tables. This fails more slowly
but more completely: a year later every consumer joins three sidecars and the
model that was meant to be the contract is the one thing no query reads on its
own anymore.</p>
<p>What survives is boring: version the model, validate at the boundary, and
keep one owner per converter so that when a feed drifts there is exactly one
place to look and one person who already knows the history of that feed's
particular lies.</p>
</article>
<footer>Subscribe for more.</footer>
</body></html>`

func TestExtractReadable(t *testing.T) {
	got, err := extractReadable([]byte(articlePage), "https://example.com/pipelines")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, phrase := range []string{"ingestion pipeline", "sidecar tables", "one owner per converter"} {
		if !strings.Contains(got, phrase) {
			t.Errorf("article text missing %q", phrase)
		}
	}
	if strings.Contains(got, "<p>") || strings.Contains(got, "</article>") {
		t.Errorf("markup leaked into output: %q", got[:120])
	}
	if strings.Contains(got, "Subscribe for more") {
		t.Errorf("footer boilerplate survived extraction")
	}
}

func TestExtractReadableEmptyPage(t *testing.T) {
	_, err := extractReadable([]byte("<html><body></body></html>"), "https://example.com/empty")
	if err == nil {
		t.Fatal("expected error for empty page")
	}
}
