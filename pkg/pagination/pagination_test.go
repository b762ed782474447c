package pagination

import "testing"

func TestNormalize(t *testing.T) {
	got := Normalize(Params{Page: 0, Limit: 0})
	if got.Page != 1 || got.Limit != DefaultLimit {
		t.Fatalf("unexpected normalized params: %+v", got)
	}

	got = Normalize(Params{Page: 3, Limit: 500})
	if got.Page != 3 || got.Limit != MaxLimit {
		t.Fatalf("expected limit capped at %d, got %+v", MaxLimit, got)
	}
}

func TestOffset(t *testing.T) {
	if off := (Params{Page: 1, Limit: 20}).Offset(); off != 0 {
		t.Fatalf("expected offset 0, got %d", off)
	}
	if off := (Params{Page: 4, Limit: 10}).Offset(); off != 30 {
		t.Fatalf("expected offset 30, got %d", off)
	}
}

func TestBuildResult(t *testing.T) {
	res := BuildResult(Params{Page: 2, Limit: 10}, 35)
	if res.TotalPages != 4 {
		t.Fatalf("expected 4 pages, got %d", res.TotalPages)
	}
	if res.TotalCount != 35 {
		t.Fatalf("expected total 35, got %d", res.TotalCount)
	}
	if res.Page != 2 || res.Limit != 10 {
		t.Fatalf("unexpected page metadata: %+v", res)
	}
}
