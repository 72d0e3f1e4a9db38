package services

import "testing"

func newTestPositions(t *testing.T) PositionService {
	t.Helper()
	svc, err := NewPositionService()
	if err != nil {
		t.Fatalf("NewPositionService: %v", err)
	}
	return svc
}

func TestPositionCatalogLoads(t *testing.T) {
	svc := newTestPositions(t)

	if len(svc.Categories()) == 0 {
		t.Fatal("catalog has no categories")
	}
	if len(svc.List()) == 0 {
		t.Fatal("flattened list is empty")
	}
}

func TestPositionFindByID(t *testing.T) {
	svc := newTestPositions(t)

	info, ok := svc.FindByID("backend_go")
	if !ok {
		t.Fatal("backend_go not found")
	}
	if info.ParentID != "backend" || info.ParentName != "后端开发" {
		t.Fatalf("parent linkage = %q/%q", info.ParentID, info.ParentName)
	}

	if _, ok := svc.FindByID("nope"); ok {
		t.Fatal("unknown id should not resolve")
	}
}

func TestPositionFullName(t *testing.T) {
	svc := newTestPositions(t)

	if got := svc.FullName("backend_go"); got != "后端开发 - Go开发" {
		t.Fatalf("FullName(backend_go) = %q", got)
	}
	if got := svc.FullName("backend"); got != "后端开发" {
		t.Fatalf("FullName(backend) = %q", got)
	}
	if got := svc.FullName("unknown-id"); got != "unknown-id" {
		t.Fatalf("FullName(unknown) = %q", got)
	}
}

func TestPositionKeywordsMergeParent(t *testing.T) {
	svc := newTestPositions(t)

	kws := svc.Keywords("backend_go")
	if len(kws) == 0 {
		t.Fatal("no keywords for backend_go")
	}

	has := func(kw string) bool {
		for _, k := range kws {
			if k == kw {
				return true
			}
		}
		return false
	}
	if !has("Goroutine与并发") {
		t.Fatalf("child keyword missing: %v", kws)
	}
	if !has("数据结构与算法") {
		t.Fatalf("parent keyword missing: %v", kws)
	}

	// Child keywords come before the parent's.
	if kws[0] != "Goroutine与并发" {
		t.Fatalf("keyword order = %v", kws)
	}
}

func TestPositionKeywordsByDisplayName(t *testing.T) {
	svc := newTestPositions(t)

	if kws := svc.Keywords("后端开发 - Go开发"); len(kws) == 0 {
		t.Fatal("display name lookup failed")
	}
	if kws := svc.Keywords("自由职业顾问"); kws != nil {
		t.Fatalf("out-of-catalog position should yield nil, got %v", kws)
	}
}

func TestPositionSearch(t *testing.T) {
	svc := newTestPositions(t)

	results := svc.Search("go")
	found := false
	for _, info := range results {
		if info.ID == "backend_go" {
			found = true
		}
	}
	if !found {
		t.Fatalf("search %q missed backend_go: %+v", "go", results)
	}

	if got := svc.Search(""); got != nil {
		t.Fatalf("empty keyword should yield nil, got %v", got)
	}
}
