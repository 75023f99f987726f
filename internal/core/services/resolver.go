package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/ports/driven"
	"github.com/custodia-labs/docfiler/internal/logger"
)

// IdentityResolver decides which person folder a document belongs to.
// It re-reads the registry on every call, so each resolution sees the
// result of the previous one.
type IdentityResolver struct {
	registry driven.PersonRegistry
	now      func() time.Time
	log      zerolog.Logger
}

// NewIdentityResolver creates a resolver over the given registry.
func NewIdentityResolver(registry driven.PersonRegistry) *IdentityResolver {
	return &IdentityResolver{
		registry: registry,
		now:      time.Now,
		log:      logger.Component("resolver"),
	}
}

// Resolve returns the person folder for a document. name must already be
// normalised (see NormaliseName); empty docNumber or dob mean absent.
//
// The first rule that matches wins:
//  1. a folder already knows docNumber
//  2. a folder's name is similar and its dob equals dob; docNumber is
//     added to it if new
//  3. a new folder is created
//
// Folders with unreadable metadata are skipped. Registry list, create and
// save failures are returned wrapped in domain.ErrPersistence. An empty
// name is rejected with domain.ErrMissingField.
func (r *IdentityResolver) Resolve(ctx context.Context, name, docNumber, dob string) (*domain.PersonFolder, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name has no usable letters", domain.ErrMissingField)
	}

	folders, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}

	if docNumber != "" {
		for _, f := range folders {
			if f.HasDocNumber(docNumber) {
				r.log.Debug().Str("folder", f.ID).Str("docNumber", docNumber).Msg("matched by document number")
				return f, nil
			}
		}
	}

	// First folder in enumeration order wins when several qualify.
	if dob != "" {
		for _, f := range folders {
			if f.DOB != dob || !similarNames(name, f.DisplayName) {
				continue
			}
			if f.AddDocNumber(docNumber) {
				if err := r.registry.Save(ctx, f); err != nil {
					return nil, fmt.Errorf("%w: save person %s: %w", domain.ErrPersistence, f.ID, err)
				}
			}
			r.log.Debug().Str("folder", f.ID).Msg("matched by name and date of birth")
			return f, nil
		}
	}

	return r.create(ctx, name, docNumber, dob, folders)
}

// scan reads every readable folder in registry order.
func (r *IdentityResolver) scan(ctx context.Context) ([]*domain.PersonFolder, error) {
	ids, err := r.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list person folders: %w", domain.ErrPersistence, err)
	}

	folders := make([]*domain.PersonFolder, 0, len(ids))
	for _, id := range ids {
		f, err := r.registry.Get(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrRegistryCorrupt) || errors.Is(err, domain.ErrNotFound) {
				r.log.Warn().Err(err).Str("folder", id).Msg("skipping person folder")
				continue
			}
			return nil, fmt.Errorf("%w: read person %s: %w", domain.ErrPersistence, id, err)
		}
		folders = append(folders, f)
	}
	return folders, nil
}

func (r *IdentityResolver) create(
	ctx context.Context, name, docNumber, dob string, folders []*domain.PersonFolder,
) (*domain.PersonFolder, error) {
	similar := 0
	for _, f := range folders {
		if similarNames(name, f.DisplayName) {
			similar++
		}
	}

	id, err := r.uniqueID(ctx, folderID(name, docNumber, dob, similar))
	if err != nil {
		return nil, err
	}

	folder := &domain.PersonFolder{
		ID:          id,
		DisplayName: domain.DisplayNameFor(name),
		DocNumbers:  []string{},
		DOB:         dob,
		CreatedAt:   r.now().UTC(),
	}
	folder.AddDocNumber(docNumber)

	if err := r.registry.Create(ctx, folder); err != nil {
		return nil, fmt.Errorf("%w: create person %s: %w", domain.ErrPersistence, id, err)
	}
	r.log.Info().Str("folder", id).Int("similar", similar).Msg("created person folder")
	return folder, nil
}

// folderID composes the base name and the disambiguating suffix.
func folderID(name, docNumber, dob string, similar int) string {
	suffix := ""
	digits := []rune(docNumber)
	switch {
	case len(digits) >= 4:
		suffix = pathSafe(string(digits[len(digits)-4:]))
	case domain.BirthYear(dob) != "":
		suffix = domain.BirthYear(dob)
	case similar > 0:
		suffix = strconv.Itoa(similar + 1)
	}
	if suffix == "" {
		return name
	}
	return name + "_" + suffix
}

// pathSafe maps characters that cannot appear in a folder name to '-'.
func pathSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '-'
	}, s)
}

// uniqueID appends _2, _3, ... until id is free. Taken IDs include folders
// whose metadata is unreadable.
func (r *IdentityResolver) uniqueID(ctx context.Context, id string) (string, error) {
	candidate := id
	for n := 2; ; n++ {
		taken, err := r.registry.Exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("%w: check person %s: %w", domain.ErrPersistence, candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = id + "_" + strconv.Itoa(n)
	}
}
