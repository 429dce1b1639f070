package kb

import (
	"context"
	"errors"
	"testing"

	"github.com/vportnov/lattice/internal/apperr"
	"github.com/vportnov/lattice/internal/models"
)

func twoNotes(t *testing.T, kb *KB) (string, string) {
	t.Helper()
	ctx := context.Background()
	n1, err := kb.SaveNote(ctx, "first", nil, "n1")
	if err != nil {
		t.Fatal(err)
	}
	n2, err := kb.SaveNote(ctx, "second", nil, "n2")
	if err != nil {
		t.Fatal(err)
	}
	return n1.ID, n2.ID
}

func TestCreateLinkValidatesEndpoints(t *testing.T) {
	kb, _ := testKB(t)
	n1, n2 := twoNotes(t, kb)

	if _, err := kb.CreateLink("ghost", n2, "Related", "", "", nil); !errors.Is(err, apperr.ErrSourceNotFound) {
		t.Errorf("err = %v, want ErrSourceNotFound", err)
	}
	if _, err := kb.CreateLink(n1, "ghost", "Related", "", "", nil); !errors.Is(err, apperr.ErrTargetNotFound) {
		t.Errorf("err = %v, want ErrTargetNotFound", err)
	}
}

func TestDuplicateLinkUnorderedPair(t *testing.T) {
	kb, _ := testKB(t)
	n1, n2 := twoNotes(t, kb)

	if _, err := kb.CreateLink(n1, n2, "Related", "", "", nil); err != nil {
		t.Fatalf("first link: %v", err)
	}

	// Same type, reversed direction: still the same unordered pair.
	if _, err := kb.CreateLink(n2, n1, "Related", "", "", nil); !errors.Is(err, apperr.ErrDuplicateLink) {
		t.Errorf("err = %v, want ErrDuplicateLink", err)
	}

	// A different type between the same pair is fine.
	if _, err := kb.CreateLink(n1, n2, "Reference", "", "", nil); err != nil {
		t.Errorf("different type: %v", err)
	}
}

func TestCreateLinkCustomType(t *testing.T) {
	kb, _ := testKB(t)
	n1, n2 := twoNotes(t, kb)

	l, err := kb.CreateLink(n1, n2, "Mentions", "", "", nil)
	if err != nil {
		t.Fatalf("CreateLink: %v", err)
	}
	if !l.LinkType.IsCustom() || l.LinkType.Custom != "Mentions" {
		t.Errorf("link type = %+v", l.LinkType)
	}

	// Custom types compare by their string.
	if _, err := kb.CreateLink(n2, n1, "Mentions", "", "", nil); !errors.Is(err, apperr.ErrDuplicateLink) {
		t.Errorf("err = %v, want ErrDuplicateLink", err)
	}
	if _, err := kb.CreateLink(n1, n2, "Disputes", "", "", nil); err != nil {
		t.Errorf("different custom type: %v", err)
	}
}

func TestCreateLinkOptions(t *testing.T) {
	kb, _ := testKB(t)
	n1, n2 := twoNotes(t, kb)

	directional := true
	l, err := kb.CreateLink(n1, n2, "Supports", "because", "purple", &directional)
	if err != nil {
		t.Fatal(err)
	}
	if l.Label == nil || *l.Label != "because" {
		t.Errorf("label = %v", l.Label)
	}
	if l.Color == nil || *l.Color != models.LinkColorPurple {
		t.Errorf("color = %v", l.Color)
	}
	if l.Directional == nil || !*l.Directional {
		t.Errorf("directional = %v", l.Directional)
	}

	// Unrecognized colors are dropped, not rejected.
	l, err = kb.CreateLink(n2, n1, "Contradicts", "", "chartreuse", nil)
	if err != nil {
		t.Fatal(err)
	}
	if l.Color != nil {
		t.Errorf("color = %v, want nil for unknown palette entry", l.Color)
	}
}

func TestDeleteLink(t *testing.T) {
	kb, _ := testKB(t)
	n1, n2 := twoNotes(t, kb)

	l, err := kb.CreateLink(n1, n2, "Related", "", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := kb.DeleteLink(l.ID); err != nil {
		t.Fatalf("DeleteLink: %v", err)
	}
	if err := kb.DeleteLink(l.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	links, _ := kb.Links()
	if len(links) != 0 {
		t.Errorf("links = %+v", links)
	}
}

func TestLinksForNote(t *testing.T) {
	kb, _ := testKB(t)
	ctx := context.Background()
	n1, n2 := twoNotes(t, kb)
	n3, err := kb.SaveNote(ctx, "third", nil, "n3")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := kb.CreateLink(n1, n2, "Related", "", "", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := kb.CreateLink(n3.ID, n1, "Reference", "", "", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := kb.CreateLink(n2, n3.ID, "FollowUp", "", "", nil); err != nil {
		t.Fatal(err)
	}

	links, err := kb.LinksForNote(n1)
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 2 {
		t.Errorf("links for n1 = %d, want 2", len(links))
	}
}
