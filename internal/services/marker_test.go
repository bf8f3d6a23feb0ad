package services

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/forkful/forkful-backend/internal/types"
)

func geocodedEstablishment(name string) *types.Establishment {
	lat, lng := 43.65, -79.38
	return &types.Establishment{
		ID:        uuid.New(),
		Name:      name,
		Latitude:  &lat,
		Longitude: &lng,
		Tags:      datatypes.JSONSlice[string]{"Italian"},
	}
}

func markerPost(est *types.Establishment) *types.Post {
	return &types.Post{
		ID:                uuid.New(),
		UserID:            uuid.New(),
		EstablishmentID:   est.ID,
		EstablishmentName: est.Name,
		Latitude:          est.Latitude,
		Longitude:         est.Longitude,
	}
}

func TestMergeMarkersPriority(t *testing.T) {
	estA := geocodedEstablishment("Trattoria A")
	estB := geocodedEstablishment("Bistro B")
	estC := geocodedEstablishment("Cafe C")

	// A is both saved and posted about; the save wins. B only has an own
	// post, C only a following post.
	saves := []*types.Save{{Establishment: estA}}
	following := []FollowingPostSource{{Post: markerPost(estC), AuthorAvatarURL: "https://cdn.example.com/u.png"}}
	ownPosts := []*types.Post{markerPost(estA), markerPost(estB)}

	markers := MergeMarkers(saves, following, ownPosts)

	if len(markers) != 3 {
		t.Fatalf("len: want=3 got=%d", len(markers))
	}
	byID := make(map[uuid.UUID]types.Marker, len(markers))
	for _, m := range markers {
		byID[m.ID] = m
	}
	if got := byID[estA.ID].Type; got != types.MarkerTypeSave {
		t.Fatalf("estA type: want=%q got=%q", types.MarkerTypeSave, got)
	}
	if got := byID[estB.ID].Type; got != types.MarkerTypePost {
		t.Fatalf("estB type: want=%q got=%q", types.MarkerTypePost, got)
	}
	if got := byID[estC.ID].Type; got != types.MarkerTypeFollowing {
		t.Fatalf("estC type: want=%q got=%q", types.MarkerTypeFollowing, got)
	}
	if got := byID[estC.ID].UserProfilePicture; got == "" {
		t.Fatalf("following marker should carry the author avatar")
	}
}

func TestMergeMarkersOrdering(t *testing.T) {
	estA := geocodedEstablishment("A")
	estB := geocodedEstablishment("B")
	estC := geocodedEstablishment("C")

	markers := MergeMarkers(
		[]*types.Save{{Establishment: estB}},
		[]FollowingPostSource{{Post: markerPost(estC)}},
		[]*types.Post{markerPost(estA)},
	)

	if len(markers) != 3 {
		t.Fatalf("len: want=3 got=%d", len(markers))
	}
	for i := 1; i < len(markers); i++ {
		if markers[i-1].Type.Weight() < markers[i].Type.Weight() {
			t.Fatalf("markers out of priority order at index %d", i)
		}
	}
	if markers[0].Type != types.MarkerTypeSave {
		t.Fatalf("first marker: want=%q got=%q", types.MarkerTypeSave, markers[0].Type)
	}
}

func TestMergeMarkersSkipsMissingGeocode(t *testing.T) {
	noGeo := &types.Establishment{ID: uuid.New(), Name: "No Geo"}
	post := &types.Post{ID: uuid.New(), EstablishmentID: uuid.New(), EstablishmentName: "No Coords"}

	markers := MergeMarkers(
		[]*types.Save{{Establishment: noGeo}, {Establishment: nil}},
		nil,
		[]*types.Post{post},
	)

	if len(markers) != 0 {
		t.Fatalf("len: want=0 got=%d", len(markers))
	}
}
