package claim

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/claims-cli/internal/reasoning"
)

type textFunc func(ctx context.Context, data []byte) (string, error)

func (f textFunc) ExtractText(ctx context.Context, data []byte) (string, error) { return f(ctx, data) }

func echoPipeline() *Pipeline {
	// Each stage echoes the document name back through the outcome.
	extract := reasoning.Func(func(ctx context.Context, _ string) (string, error) {
		return fmt.Sprintf(`{"records": [{"patient_name": %q}]}`, reasoning.DocumentFrom(ctx)), nil
	})
	decide := reasoning.Func(func(ctx context.Context, _ string) (string, error) {
		return fmt.Sprintf(`{"decision": "REJECT", "rationale": %q, "risk_level": "LOW"}`, reasoning.DocumentFrom(ctx)), nil
	})
	return NewPipeline(Reasoners{
		Extraction: extract,
		Validation: reply(`{"validation_summary": "", "records": [], "has_errors": false, "has_warnings": false}`),
		Decision:   decide,
	})
}

func TestProcessDocuments_OrderAndBlankText(t *testing.T) {
	docs := []Document{
		{FileName: "one.pdf", Text: "1"},
		{FileName: "blank.pdf", Text: " \n\t "},
		{FileName: "three.pdf", Text: "3"},
	}

	results := echoPipeline().ProcessDocuments(context.Background(), docs, 0)

	require.Len(t, results, 3)
	assert.Equal(t, "one.pdf", results[0].FileName)
	require.NotNil(t, results[0].Outcome)
	assert.Equal(t, "one.pdf", results[0].Outcome.ClaimDecision.Reason)

	assert.Equal(t, Result{FileName: "blank.pdf", Error: NoTextError}, results[1])

	require.NotNil(t, results[2].Outcome)
	assert.Equal(t, "three.pdf", results[2].Outcome.ClaimDecision.Reason)
}

func TestProcessDocuments_SlowDocumentDoesNotDelayOthers(t *testing.T) {
	release := make(chan struct{})
	slow := "slow.pdf"

	extract := reasoning.Func(func(ctx context.Context, _ string) (string, error) {
		name := reasoning.DocumentFrom(ctx)
		if name == slow {
			<-release
		}
		return fmt.Sprintf(`{"records": [{"patient_name": %q}]}`, name), nil
	})
	var done atomic.Int32
	fastDone := make(chan struct{})
	const fast = 4
	hook := func(fileName string, _, to State) {
		if to == StateAggregated && fileName != slow && done.Add(1) == fast {
			close(fastDone)
		}
	}
	p := NewPipeline(Reasoners{
		Extraction: extract,
		Validation: reply(`{"validation_summary": "", "records": [], "has_errors": false, "has_warnings": false}`),
		Decision: reasoning.Func(func(ctx context.Context, _ string) (string, error) {
			return fmt.Sprintf(`{"decision": "REJECT", "rationale": %q}`, reasoning.DocumentFrom(ctx)), nil
		}),
	}, WithTransitionHook(hook))

	docs := []Document{
		{FileName: "a.pdf", Text: "a"},
		{FileName: "b.pdf", Text: "b"},
		{FileName: slow, Text: "s"},
		{FileName: "c.pdf", Text: "c"},
		{FileName: "d.pdf", Text: "d"},
	}

	resultsCh := make(chan []Result, 1)
	go func() {
		resultsCh <- p.ProcessDocuments(context.Background(), docs, 0)
	}()

	select {
	case <-fastDone:
	case <-time.After(5 * time.Second):
		t.Fatal("fast documents blocked behind the slow one")
	}

	select {
	case <-resultsCh:
		t.Fatal("request completed before every document reached a terminal state")
	default:
	}

	close(release)
	results := <-resultsCh

	require.Len(t, results, len(docs))
	for i, doc := range docs {
		assert.Equal(t, doc.FileName, results[i].FileName)
		require.NotNil(t, results[i].Outcome)
		assert.Equal(t, doc.FileName, results[i].Outcome.ClaimDecision.Reason)
		assert.Equal(t, doc.FileName, *results[i].Outcome.Documents[0].(DischargeSummaryDocument).PatientName)
	}
}

func TestProcessDocuments_Limit(t *testing.T) {
	var inFlight, peak atomic.Int32
	r := reasoning.Func(func(context.Context, string) (string, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return `{"records": []}`, nil
	})
	p := NewPipeline(Reasoners{Extraction: r, Validation: r, Decision: r})

	docs := make([]Document, 8)
	for i := range docs {
		docs[i] = Document{FileName: fmt.Sprintf("%d.pdf", i), Text: "x"}
	}
	results := p.ProcessDocuments(context.Background(), docs, 2)

	assert.Len(t, results, 8)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestLoadDocuments(t *testing.T) {
	src := textFunc(func(_ context.Context, data []byte) (string, error) {
		return "text of " + string(data), nil
	})
	uploads := []Upload{{FileName: "a.pdf", Data: []byte("a")}, {FileName: "b.pdf", Data: []byte("b")}}

	docs, err := LoadDocuments(context.Background(), src, uploads, 0)
	require.NoError(t, err)
	assert.Equal(t, []Document{
		{FileName: "a.pdf", Text: "text of a"},
		{FileName: "b.pdf", Text: "text of b"},
	}, docs)
}

func TestLoadDocuments_Error(t *testing.T) {
	bad := errors.New("corrupt xref table")
	src := textFunc(func(_ context.Context, data []byte) (string, error) {
		if string(data) == "bad" {
			return "", bad
		}
		return "ok", nil
	})
	uploads := []Upload{{FileName: "good.pdf", Data: []byte("good")}, {FileName: "bad.pdf", Data: []byte("bad")}}

	docs, err := LoadDocuments(context.Background(), src, uploads, 1)
	require.Error(t, err)
	assert.Nil(t, docs)

	var te *TextError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "bad.pdf", te.FileName)
	assert.ErrorIs(t, err, bad)
}

func TestProcessUploads(t *testing.T) {
	src := textFunc(func(_ context.Context, data []byte) (string, error) { return string(data), nil })
	uploads := []Upload{{FileName: "one.pdf", Data: []byte("body")}, {FileName: "empty.pdf", Data: nil}}

	results, err := echoPipeline().ProcessUploads(context.Background(), src, uploads, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.NotNil(t, results[0].Outcome)
	assert.Equal(t, NoTextError, results[1].Error)
}
