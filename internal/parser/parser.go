// Package parser extracts structured metadata from source filenames.
// Each supported naming convention is its own Strategy; conventions are
// never merged into one catch-all regex.
package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/trunov/catalogpix/internal/entities"
)

// ErrUnparsable means the filename does not follow the strategy's
// convention. The file is skipped with a warning, never fatal.
var ErrUnparsable = errors.New("unparsable filename")

// Strategy parses one filename convention.
type Strategy interface {
	Name() string
	Parse(filename string) (entities.ParsedName, error)
}

// OccasionStrategy handles occasion-tagged drops of the form
// <tag>.<reference>.<sequence>.<ext>, e.g. "boda.ramo-de-rosas.1.jpg".
// The reference is a product name or slug to be matched fuzzily.
type OccasionStrategy struct{}

func (OccasionStrategy) Name() string { return "occasion" }

func (OccasionStrategy) Parse(filename string) (entities.ParsedName, error) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	parts := strings.Split(base, ".")
	if len(parts) != 3 {
		return entities.ParsedName{}, fmt.Errorf("%w: %q: want <tag>.<reference>.<sequence>", ErrUnparsable, filename)
	}
	tag, ref, seqStr := parts[0], parts[1], parts[2]
	if tag == "" || ref == "" {
		return entities.ParsedName{}, fmt.Errorf("%w: %q: empty tag or reference", ErrUnparsable, filename)
	}
	seq, err := strconv.Atoi(seqStr)
	if err != nil || seq < 1 {
		return entities.ParsedName{}, fmt.Errorf("%w: %q: bad sequence %q", ErrUnparsable, filename, seqStr)
	}
	return entities.ParsedName{Reference: ref, Sequence: seq, Tag: tag}, nil
}

// product_<reference>_<sequence> with an optional trailing digest
// fragment appended by earlier runs.
var productTokenRe = regexp.MustCompile(`^product_([0-9]+)_([0-9]+)(?:_[0-9a-f]+)?$`)

// ProductTokenStrategy handles re-ingestion filenames of the form
// product_<reference>_<sequence>[_<hash>].<ext>. The reference is the
// numeric product ID itself.
type ProductTokenStrategy struct{}

func (ProductTokenStrategy) Name() string { return "product" }

func (ProductTokenStrategy) Parse(filename string) (entities.ParsedName, error) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	m := productTokenRe.FindStringSubmatch(base)
	if m == nil {
		return entities.ParsedName{}, fmt.Errorf("%w: %q: want product_<id>_<sequence>", ErrUnparsable, filename)
	}
	seq, err := strconv.Atoi(m[2])
	if err != nil || seq < 1 {
		return entities.ParsedName{}, fmt.Errorf("%w: %q: bad sequence %q", ErrUnparsable, filename, m[2])
	}
	return entities.ParsedName{Reference: m[1], Sequence: seq}, nil
}
