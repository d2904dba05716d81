// Package editor holds the in-memory state of the dashboard edit forms.
// Each editor is an explicit state struct mutated synchronously; persistence
// is a separate, single step. There is no conflict detection against other
// sessions: the last save wins.
package editor

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fmujezinovic/mojblog/internal/models"
	"github.com/fmujezinovic/mojblog/internal/services"
	"github.com/fmujezinovic/mojblog/internal/utils"
)

// maxDescriptionLen is the SEO cap enforced on save.
const maxDescriptionLen = 160

// ValidationError carries the message shown to the author; a failed
// validation aborts the save with no partial writes.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ObjectRemover deletes a stored image object. Removal during image
// replacement is best-effort: failures are logged, never blocking.
type ObjectRemover interface {
	Remove(path string) error
}

// PostEditor is the edit-form state for one post.
type PostEditor struct {
	ID          uint // 0 while creating
	Title       string
	Description string
	Intro       string
	Conclusion  string
	CategoryID  uint
	IsDraft     bool
	PublishedAt *time.Time
	Cover       models.ImageRef
	Sections    []utils.Section

	storage ObjectRemover
}

// NewPostEditor returns an empty editor in create mode, starting with one
// blank section.
func NewPostEditor(storage ObjectRemover) *PostEditor {
	return &PostEditor{
		IsDraft:  true,
		Sections: []utils.Section{{}},
		storage:  storage,
	}
}

// LoadPost fills an editor from an existing row, decomposing its Markdown
// back into sections and re-attaching the stored images.
func LoadPost(post *models.Post, storage ObjectRemover) *PostEditor {
	sections := utils.AttachImages(utils.ParseSections(post.ContentMD), post.Images.URLs())
	for i := range sections {
		if idx := i + 1; idx < len(post.Images) {
			sections[i].UploadedImagePath = post.Images[idx].Path
		}
	}

	e := &PostEditor{
		ID:          post.ID,
		Title:       post.Title,
		Description: post.Description,
		Intro:       post.Intro,
		Conclusion:  post.Conclusion,
		CategoryID:  post.CategoryID,
		IsDraft:     post.IsDraft,
		PublishedAt: post.PublishedAt,
		Sections:    sections,
		storage:     storage,
	}
	if len(post.Images) > 0 {
		e.Cover = post.Images[0]
	}
	if len(e.Sections) == 0 {
		e.Sections = []utils.Section{{}}
	}
	return e
}

func (e *PostEditor) AddSection() {
	e.Sections = append(e.Sections, utils.Section{})
}

func (e *PostEditor) UpdateSection(index int, heading, content string) error {
	if index < 0 || index >= len(e.Sections) {
		return fmt.Errorf("no section at index %d", index)
	}
	e.Sections[index].Heading = heading
	e.Sections[index].Content = content
	return nil
}

func (e *PostEditor) DeleteSection(index int) error {
	if index < 0 || index >= len(e.Sections) {
		return fmt.Errorf("no section at index %d", index)
	}
	e.removeStored(e.Sections[index].UploadedImagePath)
	e.Sections = append(e.Sections[:index], e.Sections[index+1:]...)
	return nil
}

// SetCoverImage replaces the cover, deleting the previously stored object
// when there was one.
func (e *PostEditor) SetCoverImage(ref models.ImageRef) {
	e.removeStored(e.Cover.Path)
	e.Cover = ref
}

// SetSectionImage replaces one section's image, deleting the previously
// stored object when there was one.
func (e *PostEditor) SetSectionImage(index int, ref models.ImageRef) error {
	if index < 0 || index >= len(e.Sections) {
		return fmt.Errorf("no section at index %d", index)
	}
	e.removeStored(e.Sections[index].UploadedImagePath)
	e.Sections[index].ImageURL = ref.URL
	e.Sections[index].UploadedImagePath = ref.Path
	return nil
}

// Validate enforces the save rules: title, category, bounded non-empty
// description, and at least one complete section.
func (e *PostEditor) Validate() error {
	if e.Title == "" {
		return &ValidationError{Message: "Naslov ne sme biti prazen."}
	}
	if e.CategoryID == 0 {
		return &ValidationError{Message: "Izberite kategorijo."}
	}
	if e.Description == "" {
		return &ValidationError{Message: "Opis ne sme biti prazen."}
	}
	if len([]rune(e.Description)) > maxDescriptionLen {
		return &ValidationError{Message: fmt.Sprintf("Opis sme imeti največ %d znakov.", maxDescriptionLen)}
	}
	if !e.hasCompleteSection() {
		return &ValidationError{Message: "Vsaj eno poglavje mora imeti naslov in vsebino."}
	}
	return nil
}

// Save validates, composes the Markdown body and the ordered image list,
// and performs the single insert or update.
func (e *PostEditor) Save(postService *services.PostService) (*models.Post, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:       e.Title,
		ContentMD:   utils.StringifySections(e.Sections),
		Description: e.Description,
		Intro:       e.Intro,
		Conclusion:  e.Conclusion,
		CategoryID:  e.CategoryID,
		Images:      e.composeImages(),
		IsDraft:     e.IsDraft,
		PublishedAt: e.PublishedAt,
	}

	if e.ID == 0 {
		if err := postService.CreatePost(post); err != nil {
			return nil, err
		}
		e.ID = post.ID
		return post, nil
	}

	post.ID = e.ID
	if err := postService.UpdatePost(post); err != nil {
		return nil, err
	}
	return post, nil
}

// composeImages builds the ordered list: index 0 the cover, index n+1 the
// image of stored section n (empty refs keep the positions aligned).
// Incomplete sections are dropped from the stored Markdown, so their image
// slots must be dropped here too or the list shifts out of step on reload.
func (e *PostEditor) composeImages() models.ImageRefList {
	images := models.ImageRefList{e.Cover}
	for _, s := range e.Sections {
		if strings.TrimSpace(s.Heading) == "" || strings.TrimSpace(s.Content) == "" {
			continue
		}
		images = append(images, models.ImageRef{URL: s.ImageURL, Path: s.UploadedImagePath})
	}
	return images
}

func (e *PostEditor) hasCompleteSection() bool {
	for _, s := range e.Sections {
		if s.Heading != "" && s.Content != "" {
			return true
		}
	}
	return false
}

func (e *PostEditor) removeStored(path string) {
	if path == "" || e.storage == nil {
		return
	}
	if err := e.storage.Remove(path); err != nil {
		log.Printf("failed to remove stored image %q: %v", path, err)
	}
}
