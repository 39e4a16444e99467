package curriculum

import (
	"encoding/json"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	appfs "github.com/dannygardner26/GVCS-Main-Page-sub000/fs"
)

const defaultCatalogFile = "assets/curriculum.json"

type Difficulty string

const (
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
	Expert       Difficulty = "Expert"
)

// DifficultyForTier maps a catalog tier to its displayed difficulty.
func DifficultyForTier(tier int) Difficulty {
	switch tier {
	case 1:
		return Intermediate
	case 2:
		return Advanced
	default:
		return Expert
	}
}

var (
	ErrCourseNotFound = errors.Wrap(core.ErrNotFound, "course not found")

	nonSlugRegex = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify derives a course slug from its code: "CS 102: Data Structures" -> "cs-102".
func Slugify(title string) string {
	code := title
	if i := strings.Index(title, ":"); i > 0 {
		code = title[:i]
	}
	return strings.Trim(nonSlugRegex.ReplaceAllString(strings.ToLower(code), "-"), "-")
}

type (
	Course struct {
		Slug        string     `json:"slug"`
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Tier        int        `json:"tier"`
		Difficulty  Difficulty `json:"difficulty"`
		Prereqs     []string   `json:"prereqs"`
		Track       string     `json:"track,omitempty"`
		Weeks       []Week     `json:"weeks,omitempty"`
	}

	// PotentialCourse is the short form of a course offered to the recommendation prompt.
	PotentialCourse struct {
		Slug        string     `json:"slug"`
		Title       string     `json:"title"`
		Type        string     `json:"type"`
		Difficulty  Difficulty `json:"difficulty"`
		Tier        int        `json:"tier"`
		Description string     `json:"description"`
		Prereqs     []string   `json:"prereqs"`
	}

	Catalog struct {
		courses []Course
		bySlug  map[string]int
		byTitle map[string]int
	}
)

// Summary drops the weeks.
func (c Course) Summary() Course {
	c.Weeks = nil
	return c
}

// LoadCatalog decodes and normalizes a list of curated courses. Any malformed course fails the
// whole catalog.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var raw []RawCourse
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrapf(core.ErrInvalidConfiguration, "decoding catalog: %v", err)
	}
	if len(raw) == 0 {
		return nil, errors.Wrap(core.ErrInvalidConfiguration, "empty catalog")
	}

	cat := &Catalog{
		courses: make([]Course, 0, len(raw)),
		bySlug:  make(map[string]int, len(raw)),
		byTitle: make(map[string]int, len(raw)),
	}
	for _, rc := range raw {
		if core.CleanString(rc.Title) == "" {
			return nil, errors.Wrap(core.ErrInvalidConfiguration, "course without title")
		}
		weeks, err := NormalizeCurated(rc)
		if err != nil {
			return nil, err
		}
		slug := Slugify(rc.Title)
		if _, dup := cat.bySlug[slug]; dup {
			return nil, errors.Wrapf(core.ErrInvalidConfiguration, "duplicate course %q", slug)
		}
		prereqs := rc.Prereqs
		if prereqs == nil {
			prereqs = []string{}
		}
		cat.bySlug[slug] = len(cat.courses)
		cat.byTitle[rc.Title] = len(cat.courses)
		cat.courses = append(cat.courses, Course{
			Slug:        slug,
			Title:       rc.Title,
			Description: rc.Description,
			Tier:        rc.Tier,
			Difficulty:  DifficultyForTier(rc.Tier),
			Prereqs:     prereqs,
			Track:       rc.Track,
			Weeks:       weeks,
		})
	}
	return cat, nil
}

// LoadCatalogFile loads the catalog at `path`, or the embedded one if path is empty.
func LoadCatalogFile(path string) (*Catalog, error) {
	var (
		f   io.ReadCloser
		err error
	)
	if path == "" {
		f, err = appfs.FS.Open(defaultCatalogFile)
	} else {
		f, err = os.Open(path)
	}
	if err != nil {
		return nil, errors.Wrap(err, "opening catalog")
	}
	defer f.Close()
	return LoadCatalog(f)
}

// Courses returns all courses, ordered by tier then title.
func (cat *Catalog) Courses() []Course {
	out := make([]Course, len(cat.courses))
	copy(out, cat.courses)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Tier != out[j].Tier {
			return out[i].Tier < out[j].Tier
		}
		return out[i].Title < out[j].Title
	})
	return out
}

func (cat *Catalog) Get(slug string) (Course, error) {
	i, ok := cat.bySlug[core.CleanString(slug, true /* lower */)]
	if !ok {
		return Course{}, errors.Wrapf(ErrCourseNotFound, "%q", slug)
	}
	return cat.courses[i], nil
}

func (cat *Catalog) FindByTitle(title string) (Course, bool) {
	i, ok := cat.byTitle[core.CleanString(title)]
	if !ok {
		return Course{}, false
	}
	return cat.courses[i], true
}

func (cat *Catalog) PotentialCourses() []PotentialCourse {
	courses := cat.Courses()
	out := make([]PotentialCourse, 0, len(courses))
	for _, c := range courses {
		out = append(out, PotentialCourse{
			Slug:        c.Slug,
			Title:       c.Title,
			Type:        "premade",
			Difficulty:  c.Difficulty,
			Tier:        c.Tier,
			Description: c.Description,
			Prereqs:     c.Prereqs,
		})
	}
	return out
}
