package sources

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"data-france/core/geometry"
)

// CTU is a single territorial collectivity, exercising both regional and departmental
// powers.
type CTU struct {
	Region  string `yaml:"region"`
	Code    string `yaml:"code"`
	Nom     string `yaml:"nom"`
	TypeNom int    `yaml:"type_nom"`
}

// Overrides is the manual data the builders need beside the publications.
type Overrides struct {
	// CodeCorrections renames commune codes that a publication has not caught up with.
	CodeCorrections map[string]string `yaml:"code_corrections"`

	// InteriorDepartments maps the interior ministry's overseas codes onto departments.
	InteriorDepartments map[string]string `yaml:"interior_departments"`

	// NonDepartment matches department-like codes that are not departments.
	NonDepartment string `yaml:"non_department"`

	// AbroadConstituencies is the number of constituencies of French people abroad (99-NN).
	AbroadConstituencies int `yaml:"abroad_constituencies"`

	CTU     []CTU             `yaml:"ctu"`
	Sectors []geometry.Sector `yaml:"sectors"`

	nonDepartment *regexp.Regexp
}

// DefaultOverrides returns the built-in override data.
func DefaultOverrides() *Overrides {
	return &Overrides{
		// Les Trois Lacs changed code on 2021-01-01; La Poste still publishes the old one.
		CodeCorrections: map[string]string{"27676": "27058"},
		InteriorDepartments: map[string]string{
			"ZA": "971",
			"ZB": "972",
			"ZC": "973",
			"ZD": "974",
			"ZM": "976",
			"ZN": "988",
			"ZP": "987",
			"ZS": "975",
			"ZW": "986",
			"ZX": "977",
		},
		NonDepartment:        `^9(?:7[57]|8\d)$`,
		AbroadConstituencies: 11,
		CTU: []CTU{
			{Region: "02", Code: "972R", Nom: "Collectivité territoriale de Martinique", TypeNom: 0},
			{Region: "03", Code: "973R", Nom: "Collectivité territoriale de Guyane", TypeNom: 0},
			{Region: "06", Code: "976D", Nom: "Département de Mayotte", TypeNom: 0},
			{Region: "94", Code: "20R", Nom: "Collectivité de Corse", TypeNom: 0},
		},
		Sectors: DefaultSectors(),
	}
}

// DefaultSectors returns the electoral sectors of Paris, Lyon and Marseille.
func DefaultSectors() []geometry.Sector {
	sectors := []geometry.Sector{
		{Code: "75056SR01", Members: []string{"75101", "75102", "75103", "75104"}},
	}
	for arr := 5; arr <= 20; arr++ {
		sectors = append(sectors, geometry.Sector{
			Code:    fmt.Sprintf("75056SR%02d", arr),
			Members: []string{fmt.Sprintf("751%02d", arr)},
		})
	}
	for arr := 1; arr <= 9; arr++ {
		sectors = append(sectors, geometry.Sector{
			Code:    fmt.Sprintf("69123SR%02d", arr),
			Members: []string{fmt.Sprintf("6938%d", arr)},
		})
	}
	marseille := [][2]int{{1, 7}, {2, 3}, {4, 5}, {6, 8}, {9, 10}, {11, 12}, {13, 14}, {15, 16}}
	for i, arr := range marseille {
		sectors = append(sectors, geometry.Sector{
			Code:    fmt.Sprintf("13055SR%02d", i+1),
			Members: []string{fmt.Sprintf("132%02d", arr[0]), fmt.Sprintf("132%02d", arr[1])},
		})
	}
	return sectors
}

// LoadOverrides reads an overrides file on top of the defaults. An empty path or a
// missing file yields the defaults.
func LoadOverrides(path string) (*Overrides, error) {
	o := DefaultOverrides()

	if path != "" {
		f, err := os.Open(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			defer f.Close()
			dec := yaml.NewDecoder(f)
			dec.KnownFields(true)
			if err := dec.Decode(o); err != nil {
				return nil, fmt.Errorf("failed to read overrides %s: %w", path, err)
			}
		}
	}

	re, err := regexp.Compile(o.NonDepartment)
	if err != nil {
		return nil, fmt.Errorf("invalid non_department pattern: %w", err)
	}
	o.nonDepartment = re
	return o, nil
}

// CorrectCode applies the manual code corrections.
func (o *Overrides) CorrectCode(code string) string {
	if c, ok := o.CodeCorrections[code]; ok {
		return c
	}
	return code
}

// Department maps an interior ministry department code onto a department code.
// ok is false for codes that are not departments (overseas collectivities).
func (o *Overrides) Department(code string) (dep string, ok bool) {
	if d, found := o.InteriorDepartments[code]; found {
		code = d
	}
	if o.nonDepartment == nil {
		o.nonDepartment = regexp.MustCompile(o.NonDepartment)
	}
	if o.nonDepartment.MatchString(code) {
		return code, false
	}
	return code, true
}

// CTUByRegion indexes the single territorial collectivities by region code.
func (o *Overrides) CTUByRegion() map[string]CTU {
	out := make(map[string]CTU, len(o.CTU))
	for _, c := range o.CTU {
		out[c.Region] = c
	}
	return out
}
