package resident

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vht/vht/internal/clinical"
	"github.com/vht/vht/internal/platform/auth"
	"github.com/vht/vht/internal/platform/blobstore"
	"github.com/vht/vht/internal/platform/identifier"
	"github.com/vht/vht/internal/platform/metrics"
	"github.com/vht/vht/internal/platform/middleware"
)

// maxAllocateRetries bounds how many times Register re-allocates after a
// registry-number collision before giving up.
const maxAllocateRetries = 3

var validGenders = map[string]bool{
	"Male":   true,
	"Female": true,
	"Other":  true,
}

// Service provides business logic for the resident registry.
type Service struct {
	residents ResidentRepository
	allocator identifier.Allocator
	photos    blobstore.PhotoStore
}

// NewService creates a new resident domain service.
func NewService(residents ResidentRepository, allocator identifier.Allocator, photos blobstore.PhotoStore) *Service {
	return &Service{residents: residents, allocator: allocator, photos: photos}
}

// sanitizeResident strips null bytes and control characters from the
// free-text fields before they reach validation or storage.
func sanitizeResident(r *Resident) {
	r.Name = middleware.SanitizeString(r.Name)
	if r.VillageArea != nil {
		v := middleware.SanitizeString(*r.VillageArea)
		r.VillageArea = &v
	}
	if r.Address != nil {
		a := middleware.SanitizeString(*r.Address)
		r.Address = &a
	}
}

// attachAgeBand labels the resident with the demographic age band. The band
// is recomputed on every read, not stored.
func attachAgeBand(r *Resident) {
	if band := clinical.AgeBracket(r.Age); band != "" {
		r.AgeBand = &band
	}
}

// validateResident collects every failing message so a form with several bad
// fields reports all of them at once.
func validateResident(r *Resident) []string {
	var msgs []string
	if strings.TrimSpace(r.Name) == "" {
		msgs = append(msgs, "Name is required")
	}
	if ok, msg := clinical.ValidateAge(r.Age); !ok {
		msgs = append(msgs, msg)
	}
	if r.Gender == "" || !validGenders[r.Gender] {
		msgs = append(msgs, "Gender must be Male, Female, or Other")
	}
	if r.Phone != nil && *r.Phone != "" {
		if ok, msg := clinical.ValidatePhone(*r.Phone); !ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

// Register validates the resident, allocates a registry number for the
// registration year, and inserts the row. A collision on the registry number
// (possible when pre-seeded data shares the year) triggers a fresh allocation,
// at most maxAllocateRetries times.
func (s *Service) Register(ctx context.Context, r *Resident) error {
	sanitizeResident(r)
	if msgs := validateResident(r); len(msgs) > 0 {
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}

	if r.RegistrationDate.IsZero() {
		r.RegistrationDate = time.Now().UTC()
	}
	if r.RegisteredBy == nil {
		if name := auth.WorkerNameFromContext(ctx); name != "" {
			r.RegisteredBy = &name
		}
	}

	year := r.RegistrationDate.Year()
	var lastErr error
	for attempt := 0; attempt < maxAllocateRetries; attempt++ {
		uid, err := s.allocator.NextID(ctx, year)
		if err != nil {
			return fmt.Errorf("allocating registry number: %w", err)
		}
		r.UniqueID = uid

		err = s.residents.Create(ctx, r)
		if err == nil {
			metrics.RecordResidentRegistered(r.Gender)
			attachAgeBand(r)
			return nil
		}
		if !errors.Is(err, ErrDuplicateUniqueID) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("allocating registry number after %d attempts: %w", maxAllocateRetries, lastErr)
}

func (s *Service) GetResident(ctx context.Context, id uuid.UUID) (*Resident, error) {
	r, err := s.residents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	attachAgeBand(r)
	return r, nil
}

func (s *Service) GetResidentByUniqueID(ctx context.Context, uniqueID string) (*Resident, error) {
	r, err := s.residents.GetByUniqueID(ctx, uniqueID)
	if err != nil {
		return nil, err
	}
	attachAgeBand(r)
	return r, nil
}

// UpdateResident modifies editable fields. The registry number is immutable;
// any value supplied by the caller is discarded in favor of the stored one.
func (s *Service) UpdateResident(ctx context.Context, r *Resident) error {
	existing, err := s.residents.GetByID(ctx, r.ID)
	if err != nil {
		return err
	}
	r.UniqueID = existing.UniqueID
	r.RegistrationDate = existing.RegistrationDate
	r.RegisteredBy = existing.RegisteredBy

	sanitizeResident(r)
	if msgs := validateResident(r); len(msgs) > 0 {
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	if err := s.residents.Update(ctx, r); err != nil {
		return err
	}
	attachAgeBand(r)
	return nil
}

func (s *Service) DeleteResident(ctx context.Context, id uuid.UUID) error {
	if s.photos != nil {
		// Drop the photo too; a missing photo is not an error here.
		if err := s.photos.Delete(ctx, id.String()); err != nil && !errors.Is(err, blobstore.ErrPhotoNotFound) {
			return fmt.Errorf("deleting photo: %w", err)
		}
	}
	return s.residents.Delete(ctx, id)
}

func (s *Service) ListResidents(ctx context.Context, limit, offset int) ([]*Resident, int, error) {
	items, total, err := s.residents.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for _, r := range items {
		attachAgeBand(r)
	}
	return items, total, nil
}

func (s *Service) ListByVillage(ctx context.Context, village string, limit, offset int) ([]*Resident, int, error) {
	items, total, err := s.residents.ListByVillage(ctx, village, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for _, r := range items {
		attachAgeBand(r)
	}
	return items, total, nil
}

func (s *Service) SearchResidents(ctx context.Context, params SearchParams, limit, offset int) ([]*Resident, int, error) {
	items, total, err := s.residents.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for _, r := range items {
		attachAgeBand(r)
	}
	return items, total, nil
}

// UploadPhoto stores the image and records its checksum on the resident row.
func (s *Service) UploadPhoto(ctx context.Context, id uuid.UUID, contentType string, content io.Reader) (*blobstore.PhotoMetadata, error) {
	if _, err := s.residents.GetByID(ctx, id); err != nil {
		return nil, err
	}

	meta := blobstore.PhotoMetadata{
		ResidentID:  id.String(),
		ContentType: contentType,
		UploadedBy:  auth.WorkerNameFromContext(ctx),
	}
	stored, err := s.photos.Put(ctx, meta, content)
	if err != nil {
		return nil, err
	}

	if err := s.residents.SetPhotoID(ctx, id, &stored.Hash); err != nil {
		return nil, fmt.Errorf("recording photo reference: %w", err)
	}
	metrics.RecordPhotoUpload()
	return stored, nil
}

// GetPhoto streams the stored photo for a resident.
func (s *Service) GetPhoto(ctx context.Context, id uuid.UUID) (io.ReadCloser, *blobstore.PhotoMetadata, error) {
	return s.photos.Get(ctx, id.String())
}

// DeletePhoto removes the photo and clears the reference on the resident.
func (s *Service) DeletePhoto(ctx context.Context, id uuid.UUID) error {
	if err := s.photos.Delete(ctx, id.String()); err != nil {
		return err
	}
	return s.residents.SetPhotoID(ctx, id, nil)
}
