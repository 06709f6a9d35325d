package models

// ComponentType is the discriminator carried by every exam component
type ComponentType string

// Component types
const (
	ComponentHeader         ComponentType = "header"
	ComponentText           ComponentType = "text"
	ComponentTable          ComponentType = "table"
	ComponentQCM            ComponentType = "qcm"
	ComponentImage          ComponentType = "image"
	ComponentTrueFalse      ComponentType = "trueFalse"
	ComponentFillInBlanks   ComponentType = "fillInBlanks"
	ComponentWritingArea    ComponentType = "writingArea"
	ComponentExerciseHeader ComponentType = "exerciseHeader"
	ComponentPageBreak      ComponentType = "pageBreak"
	ComponentGeometry       ComponentType = "geometry"
	ComponentTimeline       ComponentType = "timeline"
	ComponentMatching       ComponentType = "matching"
)

// ComponentTypes lists every known variant in editor palette order
var ComponentTypes = []ComponentType{
	ComponentHeader,
	ComponentText,
	ComponentTable,
	ComponentQCM,
	ComponentImage,
	ComponentTrueFalse,
	ComponentFillInBlanks,
	ComponentWritingArea,
	ComponentExerciseHeader,
	ComponentPageBreak,
	ComponentGeometry,
	ComponentTimeline,
	ComponentMatching,
}

// IsKnown reports whether t names one of the supported variants
func (t ComponentType) IsKnown() bool {
	for _, known := range ComponentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Component is the closed set of exam building blocks.
// Only types declared in this package implement it.
type Component interface {
	Base() *BaseComponent
	Kind() ComponentType
	isComponent()
}

// BaseComponent holds the fields shared by all variants
type BaseComponent struct {
	ID         string        `json:"id" validate:"required"`
	Type       ComponentType `json:"type"`
	Order      int           `json:"order"`
	IsFavorite bool          `json:"isFavorite,omitempty"`
}

// Base returns the shared header of the component
func (b *BaseComponent) Base() *BaseComponent { return b }

func (*BaseComponent) isComponent() {}

// StudentFields selects which identification blanks the header prints
type StudentFields struct {
	Name       bool `json:"name"`
	FirstName  bool `json:"firstName"`
	ClassGroup bool `json:"classGroup"`
}

// HeaderComponent is the exam banner
type HeaderComponent struct {
	BaseComponent
	Logo          string        `json:"logo,omitempty"`
	ExamTitle     string        `json:"examTitle"`
	AcademicYear  string        `json:"academicYear"`
	Semester      string        `json:"semester"`
	Duration      string        `json:"duration"`
	StudentFields StudentFields `json:"studentFields"`
}

// TextComponent is a free text question or instruction
type TextComponent struct {
	BaseComponent
	Content string   `json:"content"`
	Points  *float64 `json:"points,omitempty"`
	Latex   bool     `json:"latex,omitempty"`
}

// TableComponent is a bordered grid with a header row
type TableComponent struct {
	BaseComponent
	Rows    int        `json:"rows" validate:"min=1"`
	Columns int        `json:"columns" validate:"min=1"`
	Headers []string   `json:"headers"`
	Data    [][]string `json:"data"`
	Points  *float64   `json:"points,omitempty"`
}

// QCMOption is one choice of a multiple choice question
type QCMOption struct {
	ID        string `json:"id" validate:"required"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
	Latex     bool   `json:"latex,omitempty"`
}

// QCMComponent is a multiple choice question
type QCMComponent struct {
	BaseComponent
	Question        string      `json:"question"`
	Options         []QCMOption `json:"options" validate:"min=2,dive"`
	MultipleAnswers bool        `json:"multipleAnswers"`
	Points          *float64    `json:"points,omitempty"`
	Latex           bool        `json:"latex,omitempty"`
	Columns         int         `json:"columns,omitempty" validate:"omitempty,oneof=1 2"`
}

// ImageComponent embeds a picture, width and height are in layout units
type ImageComponent struct {
	BaseComponent
	ImageURL string  `json:"imageUrl"`
	Caption  string  `json:"caption,omitempty"`
	Width    float64 `json:"width,omitempty" validate:"gte=0"`
	Height   float64 `json:"height,omitempty" validate:"gte=0"`
}

// TrueFalseStatement is one row of a true/false block
type TrueFalseStatement struct {
	ID    string `json:"id" validate:"required"`
	Text  string `json:"text"`
	Latex bool   `json:"latex,omitempty"`
}

// TrueFalse display styles
const (
	DisplayCircles = "circles"
	DisplayLetters = "letters"
)

// TrueFalseComponent is a list of statements to mark true or false
type TrueFalseComponent struct {
	BaseComponent
	Statements   []TrueFalseStatement `json:"statements" validate:"dive"`
	DisplayStyle string               `json:"displayStyle" validate:"oneof=circles letters"`
	Points       *float64             `json:"points,omitempty"`
}

// FillInBlanksComponent is text whose [bracketed] words become blanks
type FillInBlanksComponent struct {
	BaseComponent
	Content string   `json:"content"`
	Points  *float64 `json:"points,omitempty"`
	Latex   bool     `json:"latex,omitempty"`
}

// Writing area line styles
const (
	LineRuled = "ruled"
	LineGrid  = "grid"
)

// WritingAreaComponent is an empty answer box
type WritingAreaComponent struct {
	BaseComponent
	LineCount int      `json:"lineCount" validate:"min=1"`
	LineStyle string   `json:"lineStyle" validate:"oneof=ruled grid"`
	Points    *float64 `json:"points,omitempty"`
}

// ExerciseHeaderComponent opens a numbered exercise
type ExerciseHeaderComponent struct {
	BaseComponent
	ExerciseNumber int     `json:"exerciseNumber"`
	Title          string  `json:"title"`
	Points         float64 `json:"points"`
}

// PageBreakComponent forces the next component onto a fresh page
type PageBreakComponent struct {
	BaseComponent
}

// Geometry grid types
const (
	GridMillimeter = "millimeter"
	GridDots       = "dots"
	GridSquares    = "squares"
	GridIsometric  = "isometric"
)

// GeometryComponent is a drawing area with a background tiling, sized in mm
type GeometryComponent struct {
	BaseComponent
	GridType     string   `json:"gridType" validate:"oneof=millimeter dots squares isometric"`
	Width        float64  `json:"width" validate:"gt=0"`
	Height       float64  `json:"height" validate:"gt=0"`
	Instructions string   `json:"instructions,omitempty"`
	Points       *float64 `json:"points,omitempty"`
}

// TimelineEvent is one tick on a timeline
type TimelineEvent struct {
	ID        string `json:"id" validate:"required"`
	Date      string `json:"date"`
	Label     string `json:"label"`
	ShowDate  bool   `json:"showDate"`
	ShowLabel bool   `json:"showLabel"`
}

// TimelineComponent is a horizontal chronology with optional blanks
type TimelineComponent struct {
	BaseComponent
	Title     string          `json:"title,omitempty"`
	StartYear int             `json:"startYear"`
	EndYear   int             `json:"endYear" validate:"gtefield=StartYear"`
	Events    []TimelineEvent `json:"events" validate:"dive"`
	Points    *float64        `json:"points,omitempty"`
}

// MatchingItem is one entry of a matching column
type MatchingItem struct {
	ID   string `json:"id" validate:"required"`
	Text string `json:"text"`
}

// MatchingComponent pairs two columns of items
type MatchingComponent struct {
	BaseComponent
	Title        string         `json:"title,omitempty"`
	LeftColumn   []MatchingItem `json:"leftColumn" validate:"dive"`
	RightColumn  []MatchingItem `json:"rightColumn" validate:"dive"`
	Instructions string         `json:"instructions,omitempty"`
	ShuffleRight bool           `json:"shuffleRight"`
	Points       *float64       `json:"points,omitempty"`
}

// UnknownComponent keeps a component whose type this build does not know.
// It round-trips through JSON unchanged and renders nothing.
type UnknownComponent struct {
	BaseComponent
	Raw []byte `json:"-"`
}

func (*HeaderComponent) Kind() ComponentType         { return ComponentHeader }
func (*TextComponent) Kind() ComponentType           { return ComponentText }
func (*TableComponent) Kind() ComponentType          { return ComponentTable }
func (*QCMComponent) Kind() ComponentType            { return ComponentQCM }
func (*ImageComponent) Kind() ComponentType          { return ComponentImage }
func (*TrueFalseComponent) Kind() ComponentType      { return ComponentTrueFalse }
func (*FillInBlanksComponent) Kind() ComponentType   { return ComponentFillInBlanks }
func (*WritingAreaComponent) Kind() ComponentType    { return ComponentWritingArea }
func (*ExerciseHeaderComponent) Kind() ComponentType { return ComponentExerciseHeader }
func (*PageBreakComponent) Kind() ComponentType      { return ComponentPageBreak }
func (*GeometryComponent) Kind() ComponentType       { return ComponentGeometry }
func (*TimelineComponent) Kind() ComponentType       { return ComponentTimeline }
func (*MatchingComponent) Kind() ComponentType       { return ComponentMatching }

// Kind returns the type string as it was found in the payload
func (u *UnknownComponent) Kind() ComponentType { return u.Type }

// Float returns a pointer to v, for building optional points in literals
func Float(v float64) *float64 {
	return &v
}
