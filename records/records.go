package records

// Dump is the document written by the YAML writer: every segment read in a
// run with its protocols, the roster the protocols point into, the judging
// panels and the protocols that could not be read.
type Dump struct {
	Segments    []Segment    `yaml:"Segments"`
	Competitors []Competitor `yaml:"Competitors"`
	Officials   []Official   `yaml:"Officials,omitempty"`
	Panels      []Panel      `yaml:"Panels,omitempty"`
	Failures    []Failure    `yaml:"Failures,omitempty"`
}

type Segment struct {
	ID         int        `yaml:"id"`
	Event      string     `yaml:"event"`
	StartDate  string     `yaml:"start date"`
	Season     string     `yaml:"season"`
	Category   string     `yaml:"category"`
	Class      string     `yaml:"class"`
	Discipline string     `yaml:"discipline"`
	Code       string     `yaml:"segment"`
	SubEvent   string     `yaml:"sub event,omitempty"`
	Challenger bool       `yaml:"challenger series"`
	Source     string     `yaml:"source"`
	Protocols  []Protocol `yaml:"protocols"`
}

type Protocol struct {
	ID             int            `yaml:"id"`
	Competitor     int            `yaml:"competitor"`
	Name           string         `yaml:"name"`
	Nation         string         `yaml:"nation"`
	Rank           int            `yaml:"rank"`
	StartingNumber *int           `yaml:"starting number,omitempty"`
	TSS            string         `yaml:"total segment score"`
	TES            string         `yaml:"total element score"`
	PCS            string         `yaml:"program components"`
	Deductions     string         `yaml:"deductions"`
	Judges         int            `yaml:"judges"`
	DeductionTypes map[string]int `yaml:"deduction detail,omitempty"`
	Elements       []Element      `yaml:"elements"`
	Components     []Component    `yaml:"components"`
}

type Element struct {
	No        int      `yaml:"no"`
	Name      string   `yaml:"name"`
	Type      string   `yaml:"type"`
	Level     string   `yaml:"level,omitempty"`
	BaseValue string   `yaml:"base value"`
	GOE       string   `yaml:"goe"`
	Total     string   `yaml:"total"`
	Grades    []*int   `yaml:"grades,flow"`
	Invalid   bool     `yaml:"invalid,omitempty"`
	Bonus     bool     `yaml:"second half,omitempty"`
	Jumps     []string `yaml:"jumps,flow,omitempty"`
	Calls     []string `yaml:"calls,flow,omitempty"`
}

type Component struct {
	Name    string    `yaml:"name"`
	Factor  string    `yaml:"factor"`
	Average string    `yaml:"average"`
	Scores  []*string `yaml:"scores,flow"`
}

type Competitor struct {
	ID          int               `yaml:"id"`
	Type        string            `yaml:"type"`
	Name        string            `yaml:"name"`
	LadyID      int               `yaml:"lady,omitempty"`
	ManID       int               `yaml:"man,omitempty"`
	Federations map[string]string `yaml:"federations,omitempty"`
}

type Official struct {
	ID          int               `yaml:"id"`
	Name        string            `yaml:"name"`
	Federations map[string]string `yaml:"federations,omitempty"`
}

type Panel struct {
	Segment int            `yaml:"segment"`
	Roles   map[string]int `yaml:"roles"`
}

type Failure struct {
	Segment    string   `yaml:"segment"`
	Source     string   `yaml:"source"`
	Competitor string   `yaml:"competitor,omitempty"`
	FirstRow   int      `yaml:"first row"`
	LastRow    int      `yaml:"last row"`
	Section    string   `yaml:"section,omitempty"`
	Raw        []string `yaml:"raw,flow,omitempty"`
	Error      string   `yaml:"error"`
}
