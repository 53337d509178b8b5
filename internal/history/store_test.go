package history

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/credence/internal/model"
)

func analysis(id int64) model.Analysis {
	return model.Analysis{
		ID:   id,
		Type: model.ContentText,
		Result: model.AnalysisResult{
			OverallScore: 50,
			Credibility:  model.CredibilityQuestionable,
			Flags:        []string{"a", "b", "c"},
		},
	}
}

func TestStore_RecentNewestFirst(t *testing.T) {
	s := NewStore()
	s.Record(analysis(1)) // A
	s.Record(analysis(2)) // B
	s.Record(analysis(3)) // C

	got := s.Recent(5)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for i, want := range []int64{3, 2, 1} {
		if got[i].ID != want {
			t.Errorf("position %d: expected id %d, got %d", i, want, got[i].ID)
		}
	}
}

func TestStore_OrderIgnoresTimestamp(t *testing.T) {
	s := NewStore()
	now := time.Now()

	late := analysis(10)
	late.Timestamp = now
	early := analysis(11)
	early.Timestamp = now.Add(-time.Hour)

	s.Record(late)
	s.Record(early)

	if got := s.Recent(1)[0].ID; got != 11 {
		t.Errorf("expected last recorded entry first, got %d", got)
	}
}

func TestStore_RecentBounds(t *testing.T) {
	s := NewStore()
	for i := int64(1); i <= 8; i++ {
		s.Record(analysis(i))
	}

	if got := s.Recent(PreviewSize); len(got) != 5 || got[0].ID != 8 || got[4].ID != 4 {
		t.Errorf("unexpected preview: %v", ids(got))
	}
	if got := s.Recent(0); len(got) != 0 {
		t.Errorf("expected empty, got %d", len(got))
	}
	if got := s.Recent(-3); len(got) != 0 {
		t.Errorf("expected empty for negative n, got %d", len(got))
	}
	if s.Len() != 8 || len(s.All()) != 8 {
		t.Errorf("storage must be unbounded, got %d", s.Len())
	}
}

func TestStore_FindByID(t *testing.T) {
	s := NewStore()
	s.Record(analysis(1))
	s.Record(analysis(2))
	s.Record(analysis(3))

	b, ok := s.FindByID(2)
	if !ok || b.ID != 2 {
		t.Errorf("expected to find id 2, got %v %v", b.ID, ok)
	}

	if _, ok := s.FindByID(999); ok {
		t.Error("unknown id must not be found")
	}
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := NewStore()
	s.Record(analysis(1))

	got, _ := s.FindByID(1)
	got.Result.Flags[0] = "mutated"

	again, _ := s.FindByID(1)
	if again.Result.Flags[0] != "a" {
		t.Error("stored analysis must not be mutable through returned values")
	}
}

func TestStore_Seed(t *testing.T) {
	s := NewStore()
	s.Record(analysis(100))
	s.Seed(DemoAnalyses(time.UnixMilli(50_000))...)

	got := ids(s.All())
	want := []int64{100, 49_000, 48_000}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	s.Seed()
	if s.Len() != 3 {
		t.Error("empty seed must be a no-op")
	}
}

func TestStore_ConcurrentRecord(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.Record(analysis(id))
		}(int64(i))
	}
	wg.Wait()

	if s.Len() != 50 {
		t.Errorf("expected 50 entries, got %d", s.Len())
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID("12345")
	if err != nil || id != 12345 {
		t.Errorf("expected 12345, got %d %v", id, err)
	}

	if _, err := ParseID("abc"); !errors.Is(err, ErrMalformedID) {
		t.Errorf("expected ErrMalformedID, got %v", err)
	}
}

func TestDemoAnalyses(t *testing.T) {
	demo := DemoAnalyses(time.Now())
	if len(demo) != 2 {
		t.Fatalf("expected 2 demo analyses, got %d", len(demo))
	}
	for _, a := range demo {
		if a.Result.Credibility != model.CredibilityFor(a.Result.OverallScore) {
			t.Errorf("demo %d: label does not match score", a.ID)
		}
	}
}

func ids(list []model.Analysis) []int64 {
	out := make([]int64, len(list))
	for i, a := range list {
		out[i] = a.ID
	}
	return out
}
