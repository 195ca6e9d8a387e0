package content

// Image is a picture attached to an education, experience or project entry.
type Image struct {
	URL         string `json:"url" yaml:"url"`
	Alt         string `json:"alt,omitempty" yaml:"alt,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// NodeType distinguishes files from directories in a project structure.
type NodeType string

const (
	NodeFile      NodeType = "file"
	NodeDirectory NodeType = "directory"
)

// FileNode is one entry of a project's directory tree.
type FileNode struct {
	Name     string     `json:"name" yaml:"name"`
	Type     NodeType   `json:"type" yaml:"type"`
	Children []FileNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// ProjectStructure is the tree shown by the GitHub viewer.
type ProjectStructure struct {
	Root     string     `json:"root" yaml:"root"`
	Children []FileNode `json:"children" yaml:"children"`
}

// Project is a featured repository. Projects are shared by all locales.
type Project struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	RepoURL     string           `json:"repoUrl"`
	LiveURL     string           `json:"liveUrl,omitempty"`
	TechStack   []string         `json:"techStack"`
	Structure   ProjectStructure `json:"structure"`
	Images      []Image          `json:"images"`
}

// Profile is the owner's personal information.
type Profile struct {
	Name        string `json:"name" yaml:"name"`
	Role        string `json:"role" yaml:"role"`
	Location    string `json:"location" yaml:"location"`
	Email       string `json:"email" yaml:"email"`
	Website     string `json:"website" yaml:"website"`
	RoleFocus   string `json:"roleFocus" yaml:"role_focus"`
	YearOfBirth int    `json:"yearOfBirth" yaml:"year_of_birth"`
}

type Social struct {
	GitHub   string `json:"github" yaml:"github"`
	LinkedIn string `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
}

type Contact struct {
	Email    string `json:"email" yaml:"email"`
	Phone    string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Calendly string `json:"calendly,omitempty" yaml:"calendly,omitempty"`
}

type Resume struct {
	URL       string `json:"url" yaml:"url"`
	LocalPath string `json:"localPath" yaml:"local_path"`
}

type Spotify struct {
	PlaylistID   string `json:"playlistId" yaml:"playlist_id"`
	PlaylistName string `json:"playlistName" yaml:"playlist_name"`
}

type SEO struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Keywords    []string `json:"keywords" yaml:"keywords"`
}

type Theme struct {
	PrimaryColor   string `json:"primaryColor" yaml:"primary_color"`
	SecondaryColor string `json:"secondaryColor" yaml:"secondary_color"`
	AccentColor    string `json:"accentColor" yaml:"accent_color"`
}

type Education struct {
	Degree          string   `json:"degree" yaml:"degree"`
	Major           string   `json:"major,omitempty" yaml:"major,omitempty"`
	Institution     string   `json:"institution" yaml:"institution"`
	Location        string   `json:"location" yaml:"location"`
	Year            string   `json:"year" yaml:"year"`
	Description     string   `json:"description,omitempty" yaml:"description,omitempty"`
	RelevantCourses []string `json:"relevantCourses,omitempty" yaml:"relevant_courses,omitempty"`
	Images          []Image  `json:"images,omitempty" yaml:"images,omitempty"`
}

type Course struct {
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Institution string  `json:"institution" yaml:"institution"`
	Location    string  `json:"location" yaml:"location"`
	Year        string  `json:"year" yaml:"year"`
	Images      []Image `json:"images,omitempty" yaml:"images,omitempty"`
}

type Experience struct {
	Title        string   `json:"title" yaml:"title"`
	Company      string   `json:"company" yaml:"company"`
	Location     string   `json:"location" yaml:"location"`
	Period       string   `json:"period" yaml:"period"`
	Description  string   `json:"description" yaml:"description"`
	Achievements []string `json:"achievements,omitempty" yaml:"achievements,omitempty"`
	Technologies []string `json:"technologies,omitempty" yaml:"technologies,omitempty"`
	Images       []Image  `json:"images,omitempty" yaml:"images,omitempty"`
}

// SkillLevel is a self-assessed proficiency.
type SkillLevel string

const (
	LevelExpert       SkillLevel = "expert"
	LevelAdvanced     SkillLevel = "advanced"
	LevelIntermediate SkillLevel = "intermediate"
	LevelLearning     SkillLevel = "learning"
)

type Skill struct {
	Name  string     `json:"name" yaml:"name"`
	Level SkillLevel `json:"level,omitempty" yaml:"level,omitempty"`
	Years int        `json:"years,omitempty" yaml:"years,omitempty"`
}

// SkillCategory groups skills under a heading such as "languages".
type SkillCategory struct {
	Category string  `json:"category" yaml:"category"`
	Skills   []Skill `json:"skills" yaml:"skills"`
}

type Competition struct {
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Achievement string  `json:"achievement" yaml:"achievement"`
	Year        string  `json:"year" yaml:"year"`
	Images      []Image `json:"images,omitempty" yaml:"images,omitempty"`
}

type ExtraCurricularRole struct {
	Role        string  `json:"role" yaml:"role"`
	Institution string  `json:"institution" yaml:"institution"`
	Location    string  `json:"location" yaml:"location"`
	Year        string  `json:"year" yaml:"year"`
	Images      []Image `json:"images,omitempty" yaml:"images,omitempty"`
}

type ExtraCurricularActivity struct {
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Institution string  `json:"institution" yaml:"institution"`
	Location    string  `json:"location" yaml:"location"`
	Year        string  `json:"year" yaml:"year"`
	Images      []Image `json:"images,omitempty" yaml:"images,omitempty"`
}

// Portfolio is everything shown on the desktop for one locale.
type Portfolio struct {
	Locale                    string                    `json:"locale" yaml:"-"`
	Profile                   Profile                   `json:"profile" yaml:"profile"`
	Social                    Social                    `json:"social" yaml:"social"`
	Contact                   Contact                   `json:"contact" yaml:"contact"`
	Resume                    Resume                    `json:"resume" yaml:"resume"`
	Spotify                   Spotify                   `json:"spotify" yaml:"spotify"`
	SEO                       SEO                       `json:"seo" yaml:"seo"`
	Theme                     Theme                     `json:"theme" yaml:"theme"`
	Education                 []Education               `json:"education" yaml:"education"`
	Courses                   []Course                  `json:"courses" yaml:"courses"`
	Experience                []Experience              `json:"experience" yaml:"experience"`
	Skills                    []SkillCategory           `json:"skills" yaml:"skills"`
	Competitions              []Competition             `json:"competitions,omitempty" yaml:"competitions,omitempty"`
	ExtraCurricularRoles      []ExtraCurricularRole     `json:"extraCurricularRoles,omitempty" yaml:"extra_curricular_roles,omitempty"`
	ExtraCurricularActivities []ExtraCurricularActivity `json:"extraCurricularActivities,omitempty" yaml:"extra_curricular_activities,omitempty"`
	Projects                  []Project                 `json:"projects" yaml:"-"`
}

// Age returns the owner's age in the given year.
func (p *Portfolio) Age(year int) int {
	if p.Profile.YearOfBirth == 0 {
		return 0
	}
	return year - p.Profile.YearOfBirth
}

// SkillNames flattens skills in category order.
func (p *Portfolio) SkillNames() []string {
	var names []string
	for _, cat := range p.Skills {
		for _, s := range cat.Skills {
			names = append(names, s.Name)
		}
	}
	return names
}

// Project returns the project with the given id.
func (p *Portfolio) Project(id string) (*Project, bool) {
	for i := range p.Projects {
		if p.Projects[i].ID == id {
			return &p.Projects[i], true
		}
	}
	return nil, false
}

// BackgroundType is image or video.
type BackgroundType string

const (
	BackgroundImage BackgroundType = "image"
	BackgroundVideo BackgroundType = "video"
)

// Background is a desktop wallpaper.
type Background struct {
	Type BackgroundType `json:"type"`
	Src  string         `json:"src"`
}

// BackgroundConfig lists wallpaper assets relative to the public directory.
type BackgroundConfig struct {
	Images              []string `json:"images" yaml:"images"`
	Videos              []string `json:"videos" yaml:"videos"`
	DefaultOGImage      string   `json:"defaultOgImage,omitempty" yaml:"default_og_image,omitempty"`
	DefaultPreloadImage string   `json:"defaultPreloadImage,omitempty" yaml:"default_preload_image,omitempty"`
	DefaultPreloadVideo string   `json:"defaultPreloadVideo,omitempty" yaml:"default_preload_video,omitempty"`
}
