package service

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/models"
)

// BackupFormatVersion is the manifest version this build reads and writes.
// Import hard-rejects any other version before touching the database.
const BackupFormatVersion = 1

const manifestFileName = "backup.json"
const mediaFolder = "images/"

var (
	ErrProfileNotFound          = errors.New("profile not found")
	ErrManifestMissing          = errors.New("backup manifest not found in archive")
	ErrUnsupportedBackupVersion = errors.New("unsupported backup version")
)

// BackupManifest is the single structured document inside an archive
// describing every row to be restored. Unknown future fields are ignored
// on read; an unknown Version is not.
type BackupManifest struct {
	Version           int                       `json:"version"`
	ExportedAt        time.Time                 `json:"exported_at"`
	Profile           models.UserProfile        `json:"profile"`
	Recipes           []models.Recipe           `json:"recipes"`
	Ingredients       []models.RecipeIngredient `json:"ingredients"`
	Steps             []models.RecipeStep       `json:"steps"`
	Images            []models.RecipeImage      `json:"images"`
	Collections       []models.Collection       `json:"collections"`
	Tags              []models.Tag              `json:"tags"`
	RecipeCollections []models.RecipeCollection `json:"recipe_collections"`
	RecipeTags        []models.RecipeTag        `json:"recipe_tags"`
}

// BackupService implements the export/import pipeline: it serializes a
// user's complete content into a zip archive and restores such archives
// into the currently authenticated account.
type BackupService struct {
	db     *gorm.DB
	blobs  BlobStore
	client *http.Client
}

var _ IBackupService = (*BackupService)(nil)

// NewBackupService creates a new BackupService instance
func NewBackupService(db *gorm.DB, blobs BlobStore) *BackupService {
	return &BackupService{
		db:    db,
		blobs: blobs,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// progressReporter clamps progress so callers always see a non-decreasing
// percentage capped at 100.
type progressReporter struct {
	fn   ProgressFunc
	last int
}

func (p *progressReporter) report(message string, percent int) {
	if p.fn == nil {
		return
	}
	if percent < p.last {
		percent = p.last
	}
	if percent > 100 {
		percent = 100
	}
	p.fn(message, percent)
	p.last = percent
}

// Export writes a zip archive of everything the user owns to w. Failures
// reading required rows abort the export; failures fetching individual
// media blobs are logged and skipped.
func (s *BackupService) Export(ctx context.Context, userID uuid.UUID, w io.Writer, progress ProgressFunc) error {
	p := &progressReporter{fn: progress}
	p.report("Collecting your data", 0)

	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to load profile: %w", err)
	}

	manifest := BackupManifest{
		Version:    BackupFormatVersion,
		ExportedAt: time.Now().UTC(),
		Profile:    profile,
	}

	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&manifest.Recipes).Error; err != nil {
		return fmt.Errorf("failed to load recipes: %w", err)
	}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&manifest.Collections).Error; err != nil {
		return fmt.Errorf("failed to load collections: %w", err)
	}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&manifest.Tags).Error; err != nil {
		return fmt.Errorf("failed to load tags: %w", err)
	}

	// The dependent tables are fetched by recipe-ID set in four separate
	// round trips; the store's access-control layer only joins on user_id
	// for top-level tables.
	recipeIDs := make([]uuid.UUID, 0, len(manifest.Recipes))
	for _, r := range manifest.Recipes {
		recipeIDs = append(recipeIDs, r.ID)
	}

	if len(recipeIDs) > 0 {
		if err := s.db.WithContext(ctx).Where("recipe_id IN ?", recipeIDs).Find(&manifest.Ingredients).Error; err != nil {
			return fmt.Errorf("failed to load ingredients: %w", err)
		}
		if err := s.db.WithContext(ctx).Where("recipe_id IN ?", recipeIDs).Find(&manifest.Steps).Error; err != nil {
			return fmt.Errorf("failed to load steps: %w", err)
		}
		if err := s.db.WithContext(ctx).Where("recipe_id IN ?", recipeIDs).Find(&manifest.Images).Error; err != nil {
			return fmt.Errorf("failed to load images: %w", err)
		}
		if err := s.db.WithContext(ctx).Where("recipe_id IN ?", recipeIDs).Find(&manifest.RecipeCollections).Error; err != nil {
			return fmt.Errorf("failed to load recipe collections: %w", err)
		}
		if err := s.db.WithContext(ctx).Where("recipe_id IN ?", recipeIDs).Find(&manifest.RecipeTags).Error; err != nil {
			return fmt.Errorf("failed to load recipe tags: %w", err)
		}
	}

	p.report(fmt.Sprintf("Collected %d recipes", len(manifest.Recipes)), 10)

	urls := collectImageURLs(&manifest)
	zw := zip.NewWriter(w)

	// Media is fetched sequentially so progress stays a simple
	// processed/total fraction.
	for i, raw := range urls {
		percent := 10 + (i+1)*80/len(urls)
		data, err := s.fetchBlob(ctx, raw)
		if err != nil {
			log.Printf("[BackupService] Skipping image %s: %v", raw, err)
			p.report(fmt.Sprintf("Skipped image %d of %d", i+1, len(urls)), percent)
			continue
		}
		name := fileNameFromURL(raw)
		f, err := zw.Create(mediaFolder + name)
		if err != nil {
			return fmt.Errorf("failed to add %s to archive: %w", name, err)
		}
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("failed to write %s to archive: %w", name, err)
		}
		p.report(fmt.Sprintf("Saved image %d of %d", i+1, len(urls)), percent)
	}

	p.report("Writing manifest", 95)

	mf, err := zw.Create(manifestFileName)
	if err != nil {
		return fmt.Errorf("failed to create manifest entry: %w", err)
	}
	if err := json.NewEncoder(mf).Encode(&manifest); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}

	p.report("Export complete", 100)
	return nil
}

// Import restores an archive produced by Export into the destination
// user's account. Content is merged, never overwritten: tags are reused
// by name, everything else is inserted fresh under newly issued IDs.
func (s *BackupService) Import(ctx context.Context, userID uuid.UUID, archive io.ReaderAt, size int64, progress ProgressFunc) error {
	p := &progressReporter{fn: progress}
	p.report("Reading backup", 0)

	zr, err := zip.NewReader(archive, size)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}

	manifest, err := readManifest(zr)
	if err != nil {
		return err
	}
	if manifest.Version != BackupFormatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedBackupVersion, manifest.Version)
	}
	p.report("Backup opened", 5)

	urlByName := s.uploadMedia(ctx, zr, userID, p)
	p.report("Media uploaded", 40)

	tagIDs := s.restoreTags(ctx, userID, manifest.Tags)
	p.report("Restored tags", 45)

	collectionIDs := s.restoreCollections(ctx, userID, manifest.Collections)
	p.report("Restored collections", 50)

	recipeIDs := s.restoreRecipes(ctx, userID, manifest, urlByName, p)

	s.restoreRelations(ctx, manifest, recipeIDs, collectionIDs, tagIDs)
	p.report("Import complete", 100)
	return nil
}

func readManifest(zr *zip.Reader) (*BackupManifest, error) {
	for _, f := range zr.File {
		if f.Name != manifestFileName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open manifest: %w", err)
		}
		defer func() { _ = rc.Close() }()

		var manifest BackupManifest
		if err := json.NewDecoder(rc).Decode(&manifest); err != nil {
			return nil, fmt.Errorf("failed to parse manifest: %w", err)
		}
		return &manifest, nil
	}
	return nil, ErrManifestMissing
}

// uploadMedia pushes every archived blob to the destination blob store
// under a key namespaced by user and import run, and returns the mapping
// from archived filename to the newly issued public URL.
func (s *BackupService) uploadMedia(ctx context.Context, zr *zip.Reader, userID uuid.UUID, p *progressReporter) map[string]string {
	runStamp := time.Now().UnixNano()
	urlByName := make(map[string]string)

	var mediaFiles []*zip.File
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, mediaFolder) && !f.FileInfo().IsDir() {
			mediaFiles = append(mediaFiles, f)
		}
	}

	for i, f := range mediaFiles {
		name := path.Base(f.Name)

		rc, err := f.Open()
		if err != nil {
			log.Printf("[BackupService] Skipping archived image %s: %v", f.Name, err)
			continue
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			log.Printf("[BackupService] Skipping archived image %s: %v", f.Name, err)
			continue
		}

		key := fmt.Sprintf("users/%s/imports/%d/%s", userID, runStamp, name)
		publicURL, err := s.blobs.Upload(ctx, key, data, contentTypeFor(name))
		if err != nil {
			log.Printf("[BackupService] Failed to upload %s: %v", name, err)
			continue
		}
		urlByName[name] = publicURL
		p.report(fmt.Sprintf("Uploaded image %d of %d", i+1, len(mediaFiles)), 5+(i+1)*35/len(mediaFiles))
	}

	return urlByName
}

// restoreTags merges manifest tags into the destination account by name:
// an existing tag with the same name is reused, otherwise a new one is
// inserted. Re-importing the same archive therefore never duplicates tags.
func (s *BackupService) restoreTags(ctx context.Context, userID uuid.UUID, tags []models.Tag) map[uuid.UUID]uuid.UUID {
	tagIDs := make(map[uuid.UUID]uuid.UUID, len(tags))
	for _, t := range tags {
		var existing models.Tag
		err := s.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, t.Name).First(&existing).Error
		if err == nil {
			tagIDs[t.ID] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[BackupService] Failed to look up tag %q: %v", t.Name, err)
			continue
		}

		nt := models.Tag{UserID: userID, Name: t.Name}
		if err := s.db.WithContext(ctx).Create(&nt).Error; err != nil {
			log.Printf("[BackupService] Failed to restore tag %q: %v", t.Name, err)
			continue
		}
		tagIDs[t.ID] = nt.ID
	}
	return tagIDs
}

// restoreCollections always inserts fresh rows; collections with the same
// name are intentionally duplicated, unlike tags.
func (s *BackupService) restoreCollections(ctx context.Context, userID uuid.UUID, collections []models.Collection) map[uuid.UUID]uuid.UUID {
	collectionIDs := make(map[uuid.UUID]uuid.UUID, len(collections))
	for _, c := range collections {
		nc := models.Collection{
			UserID:      userID,
			Name:        c.Name,
			Description: c.Description,
		}
		if err := s.db.WithContext(ctx).Create(&nc).Error; err != nil {
			log.Printf("[BackupService] Failed to restore collection %q: %v", c.Name, err)
			continue
		}
		collectionIDs[c.ID] = nc.ID
	}
	return collectionIDs
}

func (s *BackupService) restoreRecipes(ctx context.Context, userID uuid.UUID, manifest *BackupManifest, urlByName map[string]string, p *progressReporter) map[uuid.UUID]uuid.UUID {
	ingredientsByRecipe := make(map[uuid.UUID][]models.RecipeIngredient)
	for _, ing := range manifest.Ingredients {
		ingredientsByRecipe[ing.RecipeID] = append(ingredientsByRecipe[ing.RecipeID], ing)
	}
	stepsByRecipe := make(map[uuid.UUID][]models.RecipeStep)
	for _, st := range manifest.Steps {
		stepsByRecipe[st.RecipeID] = append(stepsByRecipe[st.RecipeID], st)
	}
	imagesByRecipe := make(map[uuid.UUID][]models.RecipeImage)
	for _, img := range manifest.Images {
		imagesByRecipe[img.RecipeID] = append(imagesByRecipe[img.RecipeID], img)
	}

	recipeIDs := make(map[uuid.UUID]uuid.UUID, len(manifest.Recipes))
	for i, r := range manifest.Recipes {
		nr := models.Recipe{
			UserID:       userID,
			Title:        r.Title,
			Description:  r.Description,
			Servings:     r.Servings,
			PrepMinutes:  r.PrepMinutes,
			CookMinutes:  r.CookMinutes,
			TotalMinutes: r.TotalMinutes,
			Difficulty:   r.Difficulty,
			Category:     r.Category,
			Source:       r.Source,
			SourceType:   r.SourceType,
			Notes:        r.Notes,
			Favorite:     r.Favorite,
			Archived:     r.Archived,
			Embedding:    GenerateEmbedding(r.Title + " " + r.Description),
		}
		if r.OriginalImageURL != nil {
			if u, ok := urlByName[fileNameFromURL(*r.OriginalImageURL)]; ok {
				nr.OriginalImageURL = &u
			}
		}

		if err := s.db.WithContext(ctx).Create(&nr).Error; err != nil {
			log.Printf("[BackupService] Failed to restore recipe %q: %v", r.Title, err)
			continue
		}
		recipeIDs[r.ID] = nr.ID

		for _, ing := range ingredientsByRecipe[r.ID] {
			ni := models.RecipeIngredient{
				RecipeID:   nr.ID,
				Name:       ing.Name,
				Quantity:   ing.Quantity,
				Unit:       ing.Unit,
				Notes:      ing.Notes,
				OrderIndex: ing.OrderIndex,
			}
			if err := s.db.WithContext(ctx).Create(&ni).Error; err != nil {
				log.Printf("[BackupService] Failed to restore ingredient %q: %v", ing.Name, err)
			}
		}

		for _, st := range stepsByRecipe[r.ID] {
			ns := models.RecipeStep{
				RecipeID:     nr.ID,
				StepNumber:   st.StepNumber,
				Instruction:  st.Instruction,
				TimerMinutes: st.TimerMinutes,
			}
			if st.ImageURL != nil {
				if u, ok := urlByName[fileNameFromURL(*st.ImageURL)]; ok {
					ns.ImageURL = &u
				}
			}
			if err := s.db.WithContext(ctx).Create(&ns).Error; err != nil {
				log.Printf("[BackupService] Failed to restore step %d: %v", st.StepNumber, err)
			}
		}

		// The image URL column is non-nullable, so rows whose blob never
		// made it into the destination store are dropped. A malformed
		// archive may flag several images primary; the first one wins.
		seenPrimary := false
		for _, img := range imagesByRecipe[r.ID] {
			u, ok := urlByName[fileNameFromURL(img.ImageURL)]
			if !ok {
				log.Printf("[BackupService] Dropping image row for recipe %q: blob %s missing", r.Title, img.ImageURL)
				continue
			}
			isPrimary := img.IsPrimary && !seenPrimary
			if isPrimary {
				seenPrimary = true
			}
			nm := models.RecipeImage{
				RecipeID:  nr.ID,
				ImageURL:  u,
				IsPrimary: isPrimary,
				Caption:   img.Caption,
			}
			if err := s.db.WithContext(ctx).Create(&nm).Error; err != nil {
				log.Printf("[BackupService] Failed to restore image for recipe %q: %v", r.Title, err)
			}
		}

		p.report(fmt.Sprintf("Restored recipe %d of %d", i+1, len(manifest.Recipes)), 50+(i+1)*40/len(manifest.Recipes))
	}
	return recipeIDs
}

// restoreRelations inserts a junction row only when both endpoints were
// successfully remapped; anything else is silently dropped so no dangling
// references are ever written.
func (s *BackupService) restoreRelations(ctx context.Context, manifest *BackupManifest, recipeIDs, collectionIDs, tagIDs map[uuid.UUID]uuid.UUID) {
	for _, rc := range manifest.RecipeCollections {
		newRecipe, ok := recipeIDs[rc.RecipeID]
		if !ok {
			continue
		}
		newCollection, ok := collectionIDs[rc.CollectionID]
		if !ok {
			continue
		}
		row := models.RecipeCollection{RecipeID: newRecipe, CollectionID: newCollection}
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			log.Printf("[BackupService] Failed to restore collection membership: %v", err)
		}
	}

	for _, rt := range manifest.RecipeTags {
		newRecipe, ok := recipeIDs[rt.RecipeID]
		if !ok {
			continue
		}
		newTag, ok := tagIDs[rt.TagID]
		if !ok {
			continue
		}
		row := models.RecipeTag{RecipeID: newRecipe, TagID: newTag}
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			log.Printf("[BackupService] Failed to restore tag assignment: %v", err)
		}
	}
}

// collectImageURLs gathers the de-duplicated set of every image URL
// reachable from the manifest, in encounter order.
func collectImageURLs(manifest *BackupManifest) []string {
	seen := make(map[string]bool)
	var urls []string
	add := func(u string) {
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		urls = append(urls, u)
	}

	if manifest.Profile.AvatarURL != nil {
		add(*manifest.Profile.AvatarURL)
	}
	for _, r := range manifest.Recipes {
		if r.OriginalImageURL != nil {
			add(*r.OriginalImageURL)
		}
	}
	for _, st := range manifest.Steps {
		if st.ImageURL != nil {
			add(*st.ImageURL)
		}
	}
	for _, img := range manifest.Images {
		add(img.ImageURL)
	}
	return urls
}

func (s *BackupService) fetchBlob(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// fileNameFromURL derives the archive filename for a media URL from its
// final path segment. The same function runs at export and import time so
// embedded URLs can be rewritten by filename lookup.
func fileNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return fmt.Sprintf("image-%d", time.Now().UnixNano())
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return fmt.Sprintf("image-%d", time.Now().UnixNano())
	}
	return name
}

func contentTypeFor(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
