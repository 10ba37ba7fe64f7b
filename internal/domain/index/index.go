package index

import (
	"strings"

	"github.com/techlog/postguard/internal/domain/post"
)

// DateLayout is the format of Metadata.LastUpdated.
const DateLayout = "2006-01-02"

// Tags is the deduplicated vocabulary of accepted posts.
type Tags struct {
	Topics   []string
	Keywords []string
}

// Metadata holds index bookkeeping.
type Metadata struct {
	TotalPosts  int
	LastUpdated string
}

// Index is the content index: known posts plus vocabulary and metadata.
// TotalPosts equals len(fundamentals)+len(papers) after every Append.
type Index struct {
	fundamentals []post.Record
	papers       []post.Record
	tags         Tags
	metadata     Metadata
}

// Empty returns the default index used when nothing has been persisted yet.
func Empty(lastUpdated string) Index {
	return Index{
		fundamentals: []post.Record{},
		papers:       []post.Record{},
		tags:         Tags{Topics: []string{}, Keywords: []string{}},
		metadata:     Metadata{TotalPosts: 0, LastUpdated: lastUpdated},
	}
}

// Reconstruct creates an Index without validation (storage hydration).
// Nil slices are replaced with empty ones so the document always serializes as arrays.
func Reconstruct(fundamentals, papers []post.Record, tags Tags, meta Metadata) Index {
	if fundamentals == nil {
		fundamentals = []post.Record{}
	}
	if papers == nil {
		papers = []post.Record{}
	}
	if tags.Topics == nil {
		tags.Topics = []string{}
	}
	if tags.Keywords == nil {
		tags.Keywords = []string{}
	}
	return Index{fundamentals: fundamentals, papers: papers, tags: tags, metadata: meta}
}

// Fundamentals returns the fundamentals collection.
func (x *Index) Fundamentals() []post.Record { return x.fundamentals }

// Papers returns the papers collection.
func (x *Index) Papers() []post.Record { return x.papers }

// Tags returns the vocabulary.
func (x *Index) Tags() Tags { return x.tags }

// Metadata returns the bookkeeping fields.
func (x *Index) Metadata() Metadata { return x.metadata }

// Collection returns the collection that holds posts of the given kind.
func (x *Index) Collection(k post.Kind) []post.Record {
	if k.IsFundamental() {
		return x.fundamentals
	}
	return x.papers
}

// Consistent reports whether TotalPosts matches the collection sizes.
func (x *Index) Consistent() bool {
	return x.metadata.TotalPosts == len(x.fundamentals)+len(x.papers)
}

// Append adds an accepted record to its collection, merges its keywords and
// topics into the vocabulary and bumps TotalPosts.
func (x *Index) Append(r post.Record) {
	if r.Kind().IsFundamental() {
		x.fundamentals = append(x.fundamentals, r)
	} else {
		x.papers = append(x.papers, r)
	}
	x.tags.Keywords = mergeVocabulary(x.tags.Keywords, r.Keywords())
	x.tags.Topics = mergeVocabulary(x.tags.Topics, r.Topics())
	x.metadata.TotalPosts++
}

// Touch sets the last-updated date.
func (x *Index) Touch(date string) {
	x.metadata.LastUpdated = date
}

// Clone returns a copy that shares no slices with x.
func (x *Index) Clone() Index {
	return Index{
		fundamentals: append([]post.Record{}, x.fundamentals...),
		papers:       append([]post.Record{}, x.papers...),
		tags: Tags{
			Topics:   append([]string{}, x.tags.Topics...),
			Keywords: append([]string{}, x.tags.Keywords...),
		},
		metadata: x.metadata,
	}
}

// mergeVocabulary appends lower-cased terms not yet present (case-insensitive).
func mergeVocabulary(vocab, terms []string) []string {
	seen := make(map[string]struct{}, len(vocab))
	for _, v := range vocab {
		seen[strings.ToLower(v)] = struct{}{}
	}
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		vocab = append(vocab, t)
	}
	return vocab
}
