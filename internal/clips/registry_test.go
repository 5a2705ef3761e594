package clips_test

import (
	"errors"
	"reflect"
	"testing"

	"clipmark/internal/clips"
)

func newVideo(t *testing.T, duration float64, ids ...string) *clips.Registry {
	t.Helper()
	reg := clips.NewRegistry()
	reg.InitVideo("v1", clips.Metadata{Duration: duration})
	for _, id := range ids {
		if err := reg.AddClip("v1", clips.Clip{ID: id, Start: 0, End: duration}, nil); err != nil {
			t.Fatalf("AddClip(%s) failed: %v", id, err)
		}
	}
	return reg
}

func TestEndToEndUpdate(t *testing.T) {
	reg := clips.NewRegistry()
	reg.InitVideo("v1", clips.Metadata{Duration: 100})
	if err := reg.AddClip("v1", clips.Clip{ID: "c1", Start: 0, End: 100}, nil); err != nil {
		t.Fatalf("AddClip failed: %v", err)
	}
	start := 10.0
	if _, err := reg.UpdateClip("v1", "c1", clips.Update{Start: &start}); err != nil {
		t.Fatalf("UpdateClip failed: %v", err)
	}
	got := reg.GetClips("v1")
	want := []clips.Clip{{ID: "c1", Start: 10, End: 100}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("GetClips = %#v, want %#v", got, want)
	}
}

func TestInitVideoIsNoOpWhenPresent(t *testing.T) {
	reg := newVideo(t, 100, "c1")
	if reg.InitVideo("v1", clips.Metadata{Duration: 5}) {
		t.Fatal("expected re-initialization to be a no-op")
	}
	meta, _ := reg.Metadata("v1")
	if meta.Duration != 100 || meta.VideoID != "v1" {
		t.Fatalf("metadata changed: %#v", meta)
	}
	if len(reg.GetClips("v1")) != 1 {
		t.Fatal("clips lost on re-initialization")
	}
}

func TestAddClipDuplicateLeavesListUnchanged(t *testing.T) {
	reg := newVideo(t, 100, "c1")
	before := reg.GetClips("v1")
	for i := 0; i < 2; i++ {
		err := reg.AddClip("v1", clips.Clip{ID: "c1", Start: 1, End: 2}, nil)
		if !errors.Is(err, clips.ErrDuplicateID) {
			t.Fatalf("expected ErrDuplicateID, got %v", err)
		}
	}
	if !reflect.DeepEqual(reg.GetClips("v1"), before) {
		t.Fatal("duplicate add modified the clip list")
	}
}

func TestAddClipUnknownVideo(t *testing.T) {
	reg := clips.NewRegistry()
	err := reg.AddClip("nope", clips.Clip{ID: "c1", End: 1}, nil)
	if !errors.Is(err, clips.ErrUnknownVideo) {
		t.Fatalf("expected ErrUnknownVideo, got %v", err)
	}

	meta := clips.Metadata{Name: "lazy", Duration: 50}
	if err := reg.AddClip("lazy", clips.Clip{ID: "c1", End: 50}, &meta); err != nil {
		t.Fatalf("AddClip with metadata failed: %v", err)
	}
	got, ok := reg.Metadata("lazy")
	if !ok || got.Name != "lazy" || got.VideoID != "lazy" {
		t.Fatalf("lazy entry metadata = %#v %v", got, ok)
	}
}

func TestAddClipRejectsInvalidBounds(t *testing.T) {
	reg := newVideo(t, 100)
	cases := []clips.Clip{
		{ID: "neg", Start: -1, End: 5},
		{ID: "inverted", Start: 6, End: 5},
		{ID: "long", Start: 0, End: 101},
		{ID: "", Start: 0, End: 1},
	}
	for _, c := range cases {
		if err := reg.AddClip("v1", c, nil); !errors.Is(err, clips.ErrInvalidBounds) {
			t.Fatalf("clip %#v: expected ErrInvalidBounds, got %v", c, err)
		}
	}
	if len(reg.GetClips("v1")) != 0 {
		t.Fatal("invalid clips were stored")
	}
}

func TestRemoveClip(t *testing.T) {
	reg := newVideo(t, 100, "c1")
	before := reg.GetClips("v1")
	if err := reg.RemoveClip("v1", "missing"); !errors.Is(err, clips.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !reflect.DeepEqual(reg.GetClips("v1"), before) {
		t.Fatal("failed remove changed state")
	}
	if err := reg.RemoveClip("v1", "c1"); err != nil {
		t.Fatalf("RemoveClip failed: %v", err)
	}
	if _, ok := reg.Metadata("v1"); !ok {
		t.Fatal("removing the last clip must keep the video entry")
	}
}

func TestUpdateClipErrors(t *testing.T) {
	reg := newVideo(t, 100, "c1")
	other := "c2"
	if _, err := reg.UpdateClip("v1", "c1", clips.Update{ID: &other}); !errors.Is(err, clips.ErrImmutableID) {
		t.Fatalf("expected ErrImmutableID, got %v", err)
	}
	same := "c1"
	end := 40.0
	got, err := reg.UpdateClip("v1", "c1", clips.Update{ID: &same, End: &end})
	if err != nil || got.End != 40 {
		t.Fatalf("update with unchanged id = %#v, %v", got, err)
	}
	if _, err := reg.UpdateClip("v1", "missing", clips.Update{End: &end}); !errors.Is(err, clips.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := reg.UpdateClip("v2", "c1", clips.Update{End: &end}); !errors.Is(err, clips.ErrUnknownVideo) {
		t.Fatalf("expected ErrUnknownVideo, got %v", err)
	}
	bad := 50.0
	if _, err := reg.UpdateClip("v1", "c1", clips.Update{Start: &bad}); !errors.Is(err, clips.ErrInvalidBounds) {
		t.Fatalf("expected ErrInvalidBounds for start past end, got %v", err)
	}
	if c, _ := reg.GetClip("v1", "c1"); c.Start != 0 || c.End != 40 {
		t.Fatalf("failed update changed clip: %#v", c)
	}
}

func TestGetClipsReturnsCopy(t *testing.T) {
	reg := newVideo(t, 100, "c1")
	snapshot := reg.GetClips("v1")
	snapshot[0].Start = 99
	if c, _ := reg.GetClip("v1", "c1"); c.Start != 0 {
		t.Fatal("mutating a snapshot leaked into the registry")
	}
	if got := reg.GetClips("unknown"); got == nil || len(got) != 0 {
		t.Fatalf("unknown video should give an empty slice, got %#v", got)
	}
}

func TestGetClipsInTimeRange(t *testing.T) {
	reg := newVideo(t, 100)
	for _, c := range []clips.Clip{
		{ID: "overlap", Start: 5, End: 12},
		{ID: "after", Start: 21, End: 30},
		{ID: "touch", Start: 20, End: 25},
		{ID: "inside", Start: 11, End: 19},
	} {
		if err := reg.AddClip("v1", c, nil); err != nil {
			t.Fatalf("AddClip failed: %v", err)
		}
	}
	got := reg.GetClipsInTimeRange("v1", 10, 20)
	var ids []string
	for _, c := range got {
		ids = append(ids, c.ID)
	}
	want := []string{"overlap", "touch", "inside"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("range ids = %v, want %v", ids, want)
	}
}

func TestSortByStartTimeIsStable(t *testing.T) {
	reg := newVideo(t, 100)
	for _, c := range []clips.Clip{
		{ID: "b", Start: 30, End: 40},
		{ID: "a1", Start: 10, End: 20},
		{ID: "c", Start: 50, End: 60},
		{ID: "a2", Start: 10, End: 15},
	} {
		if err := reg.AddClip("v1", c, nil); err != nil {
			t.Fatalf("AddClip failed: %v", err)
		}
	}
	reg.SortByStartTime("v1")
	var ids []string
	for _, c := range reg.GetClips("v1") {
		ids = append(ids, c.ID)
	}
	if want := []string{"a1", "a2", "b", "c"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("sorted ids = %v, want %v", ids, want)
	}
}

func TestDeleteAndClearVideo(t *testing.T) {
	reg := newVideo(t, 100, "c1")
	if reg.DeleteVideo("v1") {
		t.Fatal("DeleteVideo must refuse a video with clips")
	}
	if _, ok := reg.Metadata("v1"); !ok {
		t.Fatal("video removed despite holding clips")
	}
	if err := reg.ClearClips("v1"); err != nil {
		t.Fatalf("ClearClips failed: %v", err)
	}
	if !reg.DeleteVideo("v1") {
		t.Fatal("DeleteVideo should succeed on an empty video")
	}

	reg = newVideo(t, 100, "c1", "c2")
	reg.ClearVideo("v1")
	if _, ok := reg.Metadata("v1"); ok {
		t.Fatal("ClearVideo should drop the entry unconditionally")
	}
}

func TestSetDurationClamps(t *testing.T) {
	reg := newVideo(t, 100, "full")
	if err := reg.AddClip("v1", clips.Clip{ID: "late", Start: 90, End: 95}, nil); err != nil {
		t.Fatalf("AddClip failed: %v", err)
	}
	if err := reg.AddClip("v1", clips.Clip{ID: "early", Start: 1, End: 2}, nil); err != nil {
		t.Fatalf("AddClip failed: %v", err)
	}
	changed, err := reg.SetDuration("v1", 80)
	if err != nil {
		t.Fatalf("SetDuration failed: %v", err)
	}
	want := []clips.Clip{{ID: "full", Start: 0, End: 80}, {ID: "late", Start: 80, End: 80}}
	if !reflect.DeepEqual(changed, want) {
		t.Fatalf("changed = %#v, want %#v", changed, want)
	}
	if c, _ := reg.GetClip("v1", "early"); c.End != 2 {
		t.Fatalf("clip inside the new duration changed: %#v", c)
	}
}

func TestSnapshotRestoreAndCodec(t *testing.T) {
	reg := newVideo(t, 100, "c1")
	snap, ok := reg.Snapshot("v1")
	if !ok {
		t.Fatal("expected snapshot")
	}
	data, err := clips.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"metadata":{"videoId":"v1","duration":100},"clips":[{"id":"c1","start":0,"end":100}]}`
	if string(data) != want {
		t.Fatalf("payload = %s, want %s", data, want)
	}
	decoded, err := clips.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	other := clips.NewRegistry()
	if err := other.Restore("v1", decoded); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if !reflect.DeepEqual(other.GetClips("v1"), reg.GetClips("v1")) {
		t.Fatal("restored clips differ")
	}

	dup := clips.Video{Clips: []clips.Clip{{ID: "x"}, {ID: "x"}}}
	if err := other.Restore("v2", dup); !errors.Is(err, clips.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if _, err := clips.Unmarshal([]byte("{")); err == nil {
		t.Fatal("expected decode error")
	}
}
