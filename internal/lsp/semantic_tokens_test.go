package lsp

import "testing"

func TestSemanticTokensFull_EncodesData(t *testing.T) {
	text := "# תכנית\nקבע א = 10\nאם א > 5\n    הדפס \"גדול\"\nסוף\n"
	res := semanticTokensFull(text)
	if len(res.Data) == 0 {
		t.Fatalf("expected semantic token data")
	}
	if len(res.Data)%5 != 0 {
		t.Fatalf("semantic token data should be groups of 5, got len=%d", len(res.Data))
	}
}

func TestClassifySemanticSpans(t *testing.T) {
	spans := classifySemanticSpans("קבע א = 1\nהדפס \"x\"")
	want := []semanticSpan{
		{line: 0, start: 0, length: 3, typ: semanticTypeKeyword},
		{line: 0, start: 4, length: 1, typ: semanticTypeVariable},
		{line: 0, start: 6, length: 1, typ: semanticTypeOperator},
		{line: 0, start: 8, length: 1, typ: semanticTypeNumber},
		{line: 1, start: 0, length: 4, typ: semanticTypeKeyword},
		{line: 1, start: 5, length: 3, typ: semanticTypeString},
	}
	if len(spans) != len(want) {
		t.Fatalf("expected %d spans, got %d: %+v", len(want), len(spans), spans)
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Fatalf("span %d = %+v, want %+v", i, spans[i], want[i])
		}
	}
}

func TestEncodeSemanticSpans_RelativePositions(t *testing.T) {
	data := encodeSemanticSpans([]semanticSpan{
		{line: 0, start: 0, length: 3, typ: semanticTypeKeyword},
		{line: 0, start: 4, length: 1, typ: semanticTypeVariable},
		{line: 2, start: 2, length: 4, typ: semanticTypeKeyword},
	})
	want := []uint32{
		0, 0, 3, semanticTypeKeyword, 0,
		0, 4, 1, semanticTypeVariable, 0,
		2, 2, 4, semanticTypeKeyword, 0,
	}
	if len(data) != len(want) {
		t.Fatalf("unexpected data length %d", len(data))
	}
	for i := range want {
		if data[i] != want[i] {
			t.Fatalf("data[%d] = %d, want %d", i, data[i], want[i])
		}
	}
}

func TestEncodeSemanticSpans_EmptyIsNotNull(t *testing.T) {
	if data := encodeSemanticSpans(nil); data == nil {
		t.Fatalf("expected empty non-nil slice")
	}
}
