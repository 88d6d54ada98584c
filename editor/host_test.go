// ABOUTME: Test suite for the page lifecycle host
// ABOUTME: Navigation must tear down the previous page's mounts without touching other views

package editor

import (
	"fmt"
	"testing"
	"time"
)

func pageSpecs(codes ...string) []MountSpec {
	specs := make([]MountSpec, len(codes))
	for i, c := range codes {
		specs[i] = MountSpec{Page: "page", Index: i, Language: "java", Code: c}
	}
	return specs
}

func TestNavigateCreatesOneMountPerSpec(t *testing.T) {
	store := NewStore(100, time.Hour)
	host := NewHost(store)

	mounts := host.Navigate("view-1", pageSpecs("a", "b", "c"))
	if len(mounts) != 3 {
		t.Fatalf("expected 3 mounts, got %d", len(mounts))
	}
	for i, m := range mounts {
		if m.ViewID != "view-1" {
			t.Errorf("expected view-1, got %q", m.ViewID)
		}
		if m.Index != i {
			t.Errorf("expected index %d, got %d", i, m.Index)
		}
	}
	if got := host.Mounts("view-1"); len(got) != 3 {
		t.Fatalf("expected host to track 3 mounts, got %d", len(got))
	}
}

func TestNavigateTearsDownPreviousPage(t *testing.T) {
	store := NewStore(100, time.Hour)
	host := NewHost(store)

	old := host.Navigate("view-1", pageSpecs("a", "b"))
	runID, _, _ := old[0].BeginRun()
	old[0].CompleteRun(runID, errorReport(0))

	fresh := host.Navigate("view-1", pageSpecs("c"))

	for _, m := range old {
		if _, ok := store.Get(m.ID); ok {
			t.Errorf("expected mount %s from the previous page to be removed", m.ID)
		}
	}
	if len(old[0].Markers()) != 0 {
		t.Fatal("expected markers of the previous page to be released")
	}
	if store.Len() != 1 || len(fresh) != 1 {
		t.Fatalf("expected only the new page mount to remain, got %d", store.Len())
	}
}

func TestNavigateIsIndependentPerView(t *testing.T) {
	store := NewStore(100, time.Hour)
	host := NewHost(store)

	host.Navigate("view-1", pageSpecs("a"))
	host.Navigate("view-2", pageSpecs("b", "c"))
	host.Navigate("view-1", pageSpecs("d"))

	if store.Len() != 3 {
		t.Fatalf("expected 3 live mounts, got %d", store.Len())
	}
	if host.Views() != 2 {
		t.Fatalf("expected 2 views, got %d", host.Views())
	}
}

func TestNavigateToPageWithoutMountPoints(t *testing.T) {
	store := NewStore(100, time.Hour)
	host := NewHost(store)

	host.Navigate("view-1", pageSpecs("a"))
	mounts := host.Navigate("view-1", nil)

	if len(mounts) != 0 || store.Len() != 0 {
		t.Fatal("expected no mounts after navigating to a page without mount points")
	}
	if host.Views() != 0 {
		t.Fatal("expected the view to be forgotten")
	}
}

func TestTeardown(t *testing.T) {
	store := NewStore(100, time.Hour)
	host := NewHost(store)

	host.Navigate("view-1", pageSpecs("a", "b"))
	if n := host.Teardown("view-1"); n != 2 {
		t.Fatalf("expected 2 mounts torn down, got %d", n)
	}
	if n := host.Teardown("view-1"); n != 0 {
		t.Fatalf("expected repeated teardown to be a no-op, got %d", n)
	}
}

func TestHostForgetsViewsWhoseMountsExpire(t *testing.T) {
	store := NewStore(2, 10*time.Millisecond)
	host := NewHost(store)

	for i := 0; i < 1000; i++ {
		host.Navigate(fmt.Sprintf("view-%d", i), pageSpecs("a"))
	}
	if n := host.Views(); n != 2 {
		t.Fatalf("expected capacity eviction to leave 2 views, got %d", n)
	}

	time.Sleep(20 * time.Millisecond)
	store.Cleanup()

	if store.Len() != 0 {
		t.Fatalf("expected every mount expired, got %d", store.Len())
	}
	if n := host.Views(); n != 0 {
		t.Fatalf("expected no views without live mounts, got %d", n)
	}
	if ids := host.Mounts("view-0"); len(ids) != 0 {
		t.Fatalf("expected no stale ids for view-0, got %v", ids)
	}
}

func TestHostDropsMountsDeletedOutsideNavigation(t *testing.T) {
	store := NewStore(100, time.Hour)
	host := NewHost(store)

	mounts := host.Navigate("view-1", pageSpecs("a", "b"))
	store.Delete(mounts[0].ID)

	ids := host.Mounts("view-1")
	if len(ids) != 1 || ids[0] != mounts[1].ID {
		t.Fatalf("expected only %s left, got %v", mounts[1].ID, ids)
	}

	store.Delete(mounts[1].ID)
	if host.Views() != 0 {
		t.Fatal("expected the view to be forgotten once its last mount is gone")
	}
}

func TestNavigateTracksOnlyMountsThatSurviveCapacity(t *testing.T) {
	store := NewStore(1, time.Hour)
	host := NewHost(store)

	mounts := host.Navigate("view-1", pageSpecs("a", "b", "c"))

	ids := host.Mounts("view-1")
	if len(ids) != 1 || ids[0] != mounts[2].ID {
		t.Fatalf("expected only the last mount tracked, got %v", ids)
	}
	if n := host.Teardown("view-1"); n != 1 {
		t.Fatalf("expected 1 mount torn down, got %d", n)
	}
}
