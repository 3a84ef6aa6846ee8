package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/alkime/voicepost/pkg/collections"
	"golang.org/x/sync/errgroup"
)

// DraftStatus tells apart the ways a draft can come back.
type DraftStatus string

const (
	// DraftGenerated means the provider returned non-blank text.
	DraftGenerated DraftStatus = "generated"
	// DraftEmpty means the provider returned a completion whose text was blank.
	DraftEmpty DraftStatus = "empty"
	// DraftMissing means the provider succeeded but returned no completion at all.
	DraftMissing DraftStatus = "missing"
)

// Draft is one platform's generated post.
type Draft struct {
	Platform Platform
	Text     string
	Status   DraftStatus
}

// DraftSet holds one draft per platform. It is produced and discarded as a unit.
type DraftSet map[Platform]Draft

// Text returns the draft text for p, or "" if there is none.
func (ds DraftSet) Text(p Platform) string {
	return ds[p].Text
}

// Complete reports whether every platform has an entry.
func (ds DraftSet) Complete() bool {
	for _, p := range Platforms() {
		if _, ok := ds[p]; !ok {
			return false
		}
	}

	return true
}

func newDraft(p Platform, c Completion) Draft {
	d := Draft{Platform: p, Text: strings.TrimSpace(c.Text)}

	switch {
	case !c.Returned:
		d.Status = DraftMissing
	case d.Text == "":
		d.Status = DraftEmpty
	default:
		d.Status = DraftGenerated
	}

	return d
}

// Generator turns a transcript into a full DraftSet.
type Generator struct {
	completer Completer
}

// NewGenerator creates a generator backed by completer.
func NewGenerator(completer Completer) *Generator {
	return &Generator{completer: completer}
}

// Generate issues one request per platform concurrently and waits for all of
// them. If any request fails the whole set fails; no partial set is returned.
func (g *Generator) Generate(ctx context.Context, transcript string) (DraftSet, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("no transcript to generate from: %w", ErrMissingInput)
	}

	platforms := Platforms()
	drafts := make([]Draft, len(platforms))

	// A plain Group, not WithContext: one failing branch does not cancel the others.
	var eg errgroup.Group
	for i, p := range platforms {
		eg.Go(func() error {
			completion, err := g.completer.Complete(ctx, PromptFor(p, transcript))
			if err != nil {
				return fmt.Errorf("%s draft: %w", p, err)
			}

			drafts[i] = newDraft(p, completion)

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	return collections.KeyBy(drafts, func(d Draft) Platform { return d.Platform }), nil
}
